package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"topodash/internal/logger"
	"topodash/internal/models"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL+"/api/", nil, logger.Discard()), &calls
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestDoSendsAuthHeadersAndDecodesData(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/country/3", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "ok",
			"status":  200,
			"data":    map[string]any{"id": 3, "name": "Maroc", "code": "MA"},
		})
	})

	var country models.Country
	msg, err := c.Do(context.Background(), "tok-123", Request{Method: http.MethodGet, Path: "/country/3"}, &country)
	require.NoError(t, err)
	assert.Equal(t, "ok", msg)
	assert.Equal(t, "MA", country.Code)
}

func TestDoWithoutTokenMakesNoCall(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": 200, "data": map[string]any{}})
	})

	_, err := c.Do(context.Background(), "", Request{Method: http.MethodGet, Path: "/client"}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAuthMissing))
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestDoQueryAndBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "0", r.URL.Query().Get("page"))
		raw, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"name":"Tunisie","code":"TN"}`, string(raw))
		writeJSON(w, http.StatusOK, map[string]any{"message": "created", "status": 200, "data": map[string]any{"id": 9}})
	})

	var out models.Country
	msg, err := c.Do(context.Background(), "t", Request{
		Method: http.MethodPost,
		Path:   "/country",
		Query:  url.Values{"page": {"0"}},
		Body:   map[string]string{"name": "Tunisie", "code": "TN"},
	}, &out)
	require.NoError(t, err)
	assert.Equal(t, "created", msg)
	assert.Equal(t, int64(9), out.ID)
}

func TestHTTPErrorMessages(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		expect string
	}{
		{"server message wins", http.StatusConflict, `{"message":"Email already used"}`, "Email already used"},
		{"401 fallback", http.StatusUnauthorized, ``, "Session expired, please sign in again"},
		{"403 fallback", http.StatusForbidden, `not json`, "You are not authorized to perform this action"},
		{"404 fallback", http.StatusNotFound, `{}`, "Resource not found"},
		{"400 fallback", http.StatusBadRequest, `{"message":"  "}`, "Invalid request parameters"},
		{"5xx fallback", http.StatusBadGateway, ``, "Server error, please try again later"},
		{"generic", http.StatusTeapot, ``, "HTTP error 418"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.Do(context.Background(), "t", Request{Method: http.MethodGet, Path: "/project"}, nil)
			require.Error(t, err)

			var apiErr *Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, KindHTTP, apiErr.Kind)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.expect, apiErr.Message)
			assert.Equal(t, tt.status, StatusCode(err))
		})
	}
}

func TestEnvelopeStatusFailure(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"message": "Client has projects", "status": 409, "data": nil})
	})

	_, err := c.Do(context.Background(), "t", Request{Method: http.MethodDelete, Path: "/client/4"}, nil)
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, KindEnvelope, apiErr.Kind)
	assert.Equal(t, "Client has projects", apiErr.Message)
	assert.Equal(t, 0, StatusCode(err))
}

func TestEnvelopeMissingData(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"message": "ok", "status": 200})
	})

	var out models.Project
	_, err := c.Do(context.Background(), "t", Request{Method: http.MethodGet, Path: "/project/1"}, &out)
	require.Error(t, err)
	assert.Equal(t, "Missing data in server response", err.Error())
}

func TestEnvelopeMalformedBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	})

	_, err := c.Do(context.Background(), "t", Request{Method: http.MethodGet, Path: "/project"}, nil)
	require.Error(t, err)
	assert.Equal(t, "Invalid response from server", err.Error())
}

func TestDeleteWithoutDataSucceeds(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"message": "deleted", "status": 200, "data": nil})
	})

	msg, err := c.Do(context.Background(), "t", Request{Method: http.MethodDelete, Path: "/country/2"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "deleted", msg)
}

func TestNetworkError(t *testing.T) {
	c := New("http://127.0.0.1:1", nil, logger.Discard())

	_, err := c.Do(context.Background(), "t", Request{Method: http.MethodGet, Path: "/project"}, nil)
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, KindNetwork, apiErr.Kind)
}

func TestPublicCallHasNoAuthorization(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{"status": 200, "data": map[string]any{"token": "abc"}})
	})

	var out struct {
		Token string `json:"token"`
	}
	_, err := c.DoPublic(context.Background(), Request{Method: http.MethodPost, Path: "/auth/login"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "abc", out.Token)
}

func TestRequestIDPropagation(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "req-42", r.Header.Get("X-Request-ID"))
		writeJSON(w, http.StatusOK, map[string]any{"status": 200})
	})

	ctx := WithRequestID(context.Background(), "req-42")
	_, err := c.Do(ctx, "t", Request{Method: http.MethodPatch, Path: "/client/1/activate"}, nil)
	require.NoError(t, err)
}

func TestResourceOf(t *testing.T) {
	assert.Equal(t, "project", resourceOf("/project/3/start"))
	assert.Equal(t, "client", resourceOf("/client"))
	assert.Equal(t, "root", resourceOf("/"))
}
