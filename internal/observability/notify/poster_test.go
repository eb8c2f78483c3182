package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPosterRetriesUntilSuccess(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	p := NewPoster("test hook", srv.URL, time.Second, 2, nil)
	require.NoError(t, p.PostJSON(context.Background(), map[string]string{"text": "hi"}))
	assert.EqualValues(t, 3, calls.Load())
}

func TestPosterReturnsLastErrorWithBody(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, strings.Repeat("x", 10<<10), http.StatusBadRequest)
	}))
	t.Cleanup(srv.Close)

	p := NewPoster("test hook", srv.URL, time.Second, 0, nil)
	err := p.PostJSON(context.Background(), struct{}{})
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "test hook 400 Bad Request: xxx"))
	assert.LessOrEqual(t, len(err.Error()), 5<<10, "error body is truncated")
	assert.EqualValues(t, 1, calls.Load(), "no retries configured")
}

func TestPosterStopsOnCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	p := NewPoster("test hook", srv.URL, time.Second, 100, nil)
	err := p.PostJSON(ctx, struct{}{})
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPosterEncodeError(t *testing.T) {
	p := NewPoster("test hook", "http://127.0.0.1:1", time.Second, 0, nil)
	err := p.PostJSON(context.Background(), map[string]any{"bad": make(chan int)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "encode test hook payload")
}

func TestFallback(t *testing.T) {
	assert.Equal(t, "x", Fallback("  ", "x"))
	assert.Equal(t, "y", Fallback("y", "x"))
}
