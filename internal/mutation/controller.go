// Package mutation sends create, update, delete and status changes to the
// backend. Nothing is applied optimistically: on success the caller
// re-fetches, on failure the message is kept in LastError and nothing else.
package mutation

import (
	"context"
	"net/http"
	"strconv"
	"sync"

	"topodash/internal/apiclient"
)

type Doer interface {
	Do(ctx context.Context, token string, req apiclient.Request, out any) (string, error)
}

type Tokener interface {
	Token() string
}

type Result[T any] struct {
	Entity  T
	Message string
}

type Controller[T any] struct {
	api      Doer
	id       Tokener
	resource string

	mu      sync.Mutex
	lastErr string
}

func NewController[T any](api Doer, id Tokener, resource string) *Controller[T] {
	return &Controller[T]{api: api, id: id, resource: resource}
}

func (c *Controller[T]) Resource() string { return c.resource }

func (c *Controller[T]) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

func (c *Controller[T]) fail(err error) error {
	c.mu.Lock()
	c.lastErr = err.Error()
	c.mu.Unlock()
	return err
}

func (c *Controller[T]) ok() {
	c.mu.Lock()
	c.lastErr = ""
	c.mu.Unlock()
}

func (c *Controller[T]) path(id int64, suffix ...string) string {
	p := "/" + c.resource + "/" + strconv.FormatInt(id, 10)
	for _, s := range suffix {
		p += "/" + s
	}
	return p
}

func (c *Controller[T]) send(ctx context.Context, req apiclient.Request, withEntity bool) (Result[T], error) {
	var res Result[T]
	var out any
	if withEntity {
		out = &res.Entity
	}
	msg, err := c.api.Do(ctx, c.id.Token(), req, out)
	if err != nil {
		return Result[T]{}, c.fail(err)
	}
	c.ok()
	res.Message = msg
	return res, nil
}

// Get loads one entity for the detail and edit screens.
func (c *Controller[T]) Get(ctx context.Context, id int64) (T, error) {
	res, err := c.send(ctx, apiclient.Request{Method: http.MethodGet, Path: c.path(id)}, true)
	return res.Entity, err
}

func (c *Controller[T]) Create(ctx context.Context, body any) (Result[T], error) {
	return c.send(ctx, apiclient.Request{Method: http.MethodPost, Path: "/" + c.resource, Body: body}, true)
}

func (c *Controller[T]) Update(ctx context.Context, id int64, body any) (Result[T], error) {
	return c.send(ctx, apiclient.Request{Method: http.MethodPut, Path: c.path(id), Body: body}, true)
}

func (c *Controller[T]) Delete(ctx context.Context, id int64) (string, error) {
	res, err := c.send(ctx, apiclient.Request{Method: http.MethodDelete, Path: c.path(id)}, false)
	return res.Message, err
}

// Patch calls PATCH /{resource}/{id}/{action}. Only the message is kept;
// the caller re-fetches the entity.
func (c *Controller[T]) Patch(ctx context.Context, id int64, action string) (string, error) {
	res, err := c.send(ctx, apiclient.Request{Method: http.MethodPatch, Path: c.path(id, action)}, false)
	return res.Message, err
}

// Reject records a failure found before any call was made.
func (c *Controller[T]) Reject(action string, err error) error {
	rejected(c.resource, action)
	return c.fail(err)
}
