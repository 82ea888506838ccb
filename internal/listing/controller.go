package listing

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"topodash/internal/apiclient"
	"topodash/internal/metrics"
	"topodash/internal/models"
)

// ErrSuperseded is returned by a fetch whose response arrived after a newer
// fetch was issued; its result was dropped.
var ErrSuperseded = errors.New("list response superseded by a newer request")

// Doer is the part of apiclient.Client the controller needs.
type Doer interface {
	Do(ctx context.Context, token string, req apiclient.Request, out any) (string, error)
}

// Identity supplies the caller's token and whether admin-only filters apply.
type Identity interface {
	Token() string
	IsAdmin() bool
}

type Config struct {
	Resource    string // backend path segment, e.g. "project"
	Schema      Schema
	SortBy      string
	SortDir     string
	DefaultSize int
}

type Pagination struct {
	PageNumber    int
	PageSize      int
	TotalElements int
	TotalPages    int
}

// Request is a fetch as issued, kept for Retry.
type Request struct {
	Page    int     `json:"page"`
	Size    int     `json:"size"`
	Filters Filters `json:"filters,omitempty"`
}

// Query encodes the request the way dashboard URLs carry it.
func (r Request) Query() url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(r.Page))
	q.Set("size", strconv.Itoa(r.Size))
	for k, v := range r.Filters {
		if v != "" {
			q.Set(k, v)
		}
	}
	return q
}

type State[T any] struct {
	Items       []T
	Pagination  Pagination
	Loading     bool
	Error       string
	Filters     Filters
	LastRequest *Request
}

// Controller owns one paginated, filterable list. Each fetch is numbered;
// only the response to the latest fetch is applied.
type Controller[T any] struct {
	api Doer
	id  Identity
	cfg Config

	mu          sync.Mutex
	seq         uint64
	items       []T
	pagination  Pagination
	loading     bool
	err         string
	filters     Filters
	lastRequest *Request
}

func NewController[T any](api Doer, id Identity, cfg Config) *Controller[T] {
	if cfg.DefaultSize <= 0 {
		cfg.DefaultSize = 10
	}
	if cfg.SortBy == "" {
		cfg.SortBy = "id"
	}
	if cfg.SortDir == "" {
		cfg.SortDir = "desc"
	}
	return &Controller[T]{
		api:        api,
		id:         id,
		cfg:        cfg,
		items:      []T{},
		filters:    Filters{},
		pagination: Pagination{PageSize: cfg.DefaultSize},
	}
}

func (c *Controller[T]) Config() Config { return c.cfg }

// Fetch loads one page. Any non-empty filter switches to the search endpoint.
func (c *Controller[T]) Fetch(ctx context.Context, page, size int, filters Filters) error {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = c.cfg.DefaultSize
	}
	req := Request{Page: page, Size: size, Filters: filters.Clone()}

	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.lastRequest = &req
	c.filters = req.Filters.Clone()
	c.loading = true
	c.mu.Unlock()

	path := "/" + c.cfg.Resource
	if req.Filters.Active() {
		path += "/search"
	}
	q := req.Query()
	q.Set("sortBy", c.cfg.SortBy)
	q.Set("sortDir", c.cfg.SortDir)

	var resp models.PageResponse[T]
	_, err := c.api.Do(ctx, c.id.Token(), apiclient.Request{Method: http.MethodGet, Path: path, Query: q}, &resp)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		metrics.RecordStaleResponse(c.cfg.Resource)
		return ErrSuperseded
	}
	c.loading = false

	if err != nil {
		c.items = []T{}
		c.pagination = Pagination{PageNumber: page, PageSize: size}
		c.err = err.Error()
		return err
	}

	items := resp.Content
	if items == nil {
		items = []T{}
	}
	pageSize := resp.Size
	if pageSize <= 0 {
		pageSize = size
	}
	c.items = items
	c.pagination = Pagination{
		PageNumber:    resp.Page,
		PageSize:      pageSize,
		TotalElements: resp.TotalElements,
		TotalPages:    resp.TotalPages,
	}
	c.err = ""
	return nil
}

// ChangePage moves to page n with the current filters. It reports false and
// does nothing when n is out of range.
func (c *Controller[T]) ChangePage(ctx context.Context, n int) (bool, error) {
	c.mu.Lock()
	total := c.pagination.TotalPages
	if n < 0 || (total > 0 && n >= total) {
		c.mu.Unlock()
		return false, nil
	}
	size := c.pagination.PageSize
	filters := c.filters.Clone()
	c.mu.Unlock()

	return true, c.Fetch(ctx, n, size, filters)
}

// Search validates filters against the schema and reloads from page 0.
func (c *Controller[T]) Search(ctx context.Context, filters Filters) error {
	valid := c.cfg.Schema.Validate(filters, c.id.IsAdmin())

	c.mu.Lock()
	size := c.pagination.PageSize
	c.mu.Unlock()

	return c.Fetch(ctx, 0, size, valid)
}

// Clear drops every filter and reloads page 0.
func (c *Controller[T]) Clear(ctx context.Context) error {
	c.mu.Lock()
	size := c.pagination.PageSize
	c.mu.Unlock()

	return c.Fetch(ctx, 0, size, Filters{})
}

// Retry replays the last request as it was issued.
func (c *Controller[T]) Retry(ctx context.Context) error {
	c.mu.Lock()
	last := c.lastRequest
	c.mu.Unlock()

	if last == nil {
		return c.Fetch(ctx, 0, c.cfg.DefaultSize, Filters{})
	}
	return c.Fetch(ctx, last.Page, last.Size, last.Filters)
}

// Position is what a controller needs to pick up where an earlier one left
// off: the last request issued and the page count it returned.
type Position struct {
	Request    Request `json:"request"`
	TotalPages int     `json:"totalPages"`
}

// Position reports the current position, or false before the first fetch.
func (c *Controller[T]) Position() (Position, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastRequest == nil {
		return Position{}, false
	}
	req := *c.lastRequest
	req.Filters = req.Filters.Clone()
	return Position{Request: req, TotalPages: c.pagination.TotalPages}, true
}

// Resume restores a position without fetching. Items stay empty until the
// next fetch; ChangePage, Search, Clear and Retry then behave as if p had
// been the controller's last fetch.
func (c *Controller[T]) Resume(p Position) {
	req := p.Request
	if req.Page < 0 {
		req.Page = 0
	}
	if req.Size <= 0 {
		req.Size = c.cfg.DefaultSize
	}
	req.Filters = req.Filters.Clone()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastRequest = &req
	c.filters = req.Filters.Clone()
	c.pagination = Pagination{PageNumber: req.Page, PageSize: req.Size, TotalPages: max(p.TotalPages, 0)}
}

// State returns a snapshot safe to keep after further fetches.
func (c *Controller[T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]T, len(c.items))
	copy(items, c.items)

	var last *Request
	if c.lastRequest != nil {
		r := *c.lastRequest
		r.Filters = r.Filters.Clone()
		last = &r
	}

	return State[T]{
		Items:       items,
		Pagination:  c.pagination,
		Loading:     c.loading,
		Error:       c.err,
		Filters:     c.filters.Clone(),
		LastRequest: last,
	}
}
