package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"topodash/internal/metrics"
	"topodash/internal/models"
)

// Client issues requests against the TopoDash REST backend.
// It never retries; callers decide whether to offer a manual retry.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// Request describes one backend call. Path is relative to the base URL
// and starts with a slash, e.g. "/project/12/start".
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

// New creates a client. A nil httpClient means a plain &http.Client{}
// without an explicit timeout.
func New(baseURL string, httpClient *http.Client, log *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		log:        log,
	}
}

func (c *Client) BaseURL() string { return c.baseURL }

// Do performs an authenticated call. An empty token fails with
// ErrAuthMissing before anything is sent. When out is non-nil the
// envelope's data is decoded into it. The envelope message is returned
// on success so callers can show it.
func (c *Client) Do(ctx context.Context, token string, req Request, out any) (string, error) {
	if token == "" {
		metrics.RecordBackendRequest(resourceOf(req.Path), req.Method, string(KindAuthMissing))
		return "", ErrAuthMissing
	}
	return c.do(ctx, token, req, out)
}

// DoPublic performs a call without a bearer token (sign-in, sign-up, password reset).
func (c *Client) DoPublic(ctx context.Context, req Request, out any) (string, error) {
	return c.do(ctx, "", req, out)
}

func (c *Client) do(ctx context.Context, token string, req Request, out any) (string, error) {
	resource := resourceOf(req.Path)
	start := time.Now()
	defer func() {
		metrics.RecordBackendDuration(resource, req.Method, time.Since(start).Seconds())
	}()

	httpReq, err := c.newRequest(ctx, token, req)
	if err != nil {
		return "", err
	}

	c.log.Debug("[APIClient] request",
		"method", req.Method,
		"path", req.Path,
		"request_id", httpReq.Header.Get("X-Request-ID"),
	)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		metrics.RecordBackendRequest(resource, req.Method, string(KindNetwork))
		c.log.Error("[APIClient] network error", "method", req.Method, "path", req.Path, "error", err)
		return "", &Error{Kind: KindNetwork, Message: "Unable to reach the server", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordBackendRequest(resource, req.Method, string(KindNetwork))
		return "", &Error{Kind: KindNetwork, Message: "Unable to read the server response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.RecordBackendRequest(resource, req.Method, string(KindHTTP))
		apiErr := &Error{Kind: KindHTTP, Status: resp.StatusCode, Message: httpErrorMessage(resp.StatusCode, body)}
		c.log.Warn("[APIClient] backend returned error",
			"method", req.Method,
			"path", req.Path,
			"status", resp.StatusCode,
			"message", apiErr.Message,
		)
		return "", apiErr
	}

	msg, err := decodeEnvelope(body, out)
	if err != nil {
		metrics.RecordBackendRequest(resource, req.Method, string(KindEnvelope))
		c.log.Warn("[APIClient] envelope rejected", "method", req.Method, "path", req.Path, "error", err)
		return "", err
	}

	metrics.RecordBackendRequest(resource, req.Method, "ok")
	return msg, nil
}

func (c *Client) newRequest(ctx context.Context, token string, req Request) (*http.Request, error) {
	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		raw, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize request body: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestIDFrom(ctx))
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	return httpReq, nil
}

func httpErrorMessage(status int, body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if len(body) > 0 && json.Unmarshal(body, &payload) == nil {
		if m := strings.TrimSpace(payload.Message); m != "" {
			return m
		}
	}
	return statusMessage(status)
}

func decodeEnvelope(body []byte, out any) (string, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		if out != nil {
			return "", &Error{Kind: KindEnvelope, Message: "Empty response from server"}
		}
		return "", nil
	}

	var env models.RawResponse
	if err := json.Unmarshal(body, &env); err != nil {
		return "", &Error{Kind: KindEnvelope, Message: "Invalid response from server", Err: err}
	}

	if env.Status != nil && *env.Status != http.StatusOK {
		msg := env.Message
		if msg == "" {
			msg = statusMessage(*env.Status)
		}
		return "", &Error{Kind: KindEnvelope, Status: *env.Status, Message: msg}
	}

	if out == nil {
		return env.Message, nil
	}

	data := bytes.TrimSpace(env.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return "", &Error{Kind: KindEnvelope, Message: "Missing data in server response"}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return "", &Error{Kind: KindEnvelope, Message: "Malformed data in server response", Err: err}
	}
	return env.Message, nil
}

// resourceOf returns the first path segment, used as a metrics label.
func resourceOf(path string) string {
	p := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(p, '/'); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return "root"
	}
	return p
}

type requestIDKey struct{}

// WithRequestID carries an inbound request id through to backend calls.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}
