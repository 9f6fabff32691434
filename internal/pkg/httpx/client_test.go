package httpx_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"courier-dispatch/internal/pkg/httpx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counterStub struct{ n int64 }

func (c *counterStub) Inc() { atomic.AddInt64(&c.n, 1) }

func (c *counterStub) Count() int64 { return atomic.LoadInt64(&c.n) }

type payload struct {
	Value string `json:"value"`
}

func TestClient_GetJSON_SendsQueryAndHeaders(t *testing.T) {
	// Arrange
	var gotQuery, gotAgent, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotAgent = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		_, _ = w.Write([]byte(`{"value":"ok"}`))
	}))
	defer srv.Close()

	client := httpx.NewClient(httpx.WithHeader("User-Agent", "courier-dispatch-test"))

	// Act
	var out payload
	err := client.GetJSON(t.Context(), srv.URL+"/search", url.Values{"q": {"Rua A, Sao Paulo"}}, &out)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "ok", out.Value)
	assert.Equal(t, "Rua A, Sao Paulo", gotQuery)
	assert.Equal(t, "courier-dispatch-test", gotAgent)
	assert.Equal(t, "application/json", gotAccept)
}

func TestClient_GetJSON_RetriesTransientFailures(t *testing.T) {
	// Arrange
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"value":"third time"}`))
	}))
	defer srv.Close()

	retries := &counterStub{}
	client := httpx.NewClient(
		httpx.WithRetry(httpx.RetryConfig{MaxAttempts: 4, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}),
		httpx.WithRetryCounter(retries),
	)

	// Act
	var out payload
	err := client.GetJSON(t.Context(), srv.URL, nil, &out)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "third time", out.Value)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Equal(t, int64(2), retries.Count())
}

func TestClient_GetJSON_DoesNotRetryClientErrors(t *testing.T) {
	// Arrange
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "bad key", http.StatusForbidden)
	}))
	defer srv.Close()

	retries := &counterStub{}
	client := httpx.NewClient(
		httpx.WithRetry(httpx.RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond}),
		httpx.WithRetryCounter(retries),
	)

	// Act
	var out payload
	err := client.GetJSON(t.Context(), srv.URL, nil, &out)

	// Assert
	var statusErr *httpx.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusForbidden, statusErr.Code)
	assert.Equal(t, "bad key", statusErr.Body)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Zero(t, retries.Count())
}

func TestClient_GetJSON_SingleAttemptByDefault(t *testing.T) {
	// Arrange
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	// Act
	var out payload
	err := httpx.NewClient().GetJSON(t.Context(), srv.URL, nil, &out)

	// Assert
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_GetJSON_MalformedBody(t *testing.T) {
	// Arrange
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	// Act
	var out payload
	err := httpx.NewClient().GetJSON(t.Context(), srv.URL, nil, &out)

	// Assert
	require.ErrorContains(t, err, "decode response")
}

func TestClient_GetJSON_CancelledContext(t *testing.T) {
	// Arrange
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	// Act
	var out payload
	err := httpx.NewClient(httpx.WithRateLimit(1)).GetJSON(ctx, srv.URL, nil, &out)

	// Assert
	require.ErrorIs(t, err, context.Canceled)
}
