package middlewarectx_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/auth-service/internal/http/middlewarectx"
)

// CounterStoreMock считает запросы в памяти, без истечения окна.
type CounterStoreMock struct {
	mu     sync.Mutex
	counts map[string]int64
	err    error
}

func newCounterStoreMock() *CounterStoreMock {
	return &CounterStoreMock{counts: make(map[string]int64)}
}

func (m *CounterStoreMock) IncrWithinWindow(_ context.Context, key string, _ time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	m.counts[key]++
	return m.counts[key], nil
}

func TestWindowLimitMiddleware(t *testing.T) {
	logger := newNoopLogger()

	okHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("allows up to the limit then rejects", func(t *testing.T) {
		store := newCounterStoreMock()
		mw := middlewarectx.WindowLimitMiddleware(store, "signup", 3, 15*time.Minute, logger)(okHandler)

		for i := range 3 {
			req := httptest.NewRequest(http.MethodPost, "/signup", nil)
			req.RemoteAddr = "10.0.0.1:12345"
			rec := httptest.NewRecorder()
			mw.ServeHTTP(rec, req)
			assert.Equalf(t, http.StatusOK, rec.Code, "request %d should pass", i+1)
		}

		req := httptest.NewRequest(http.MethodPost, "/signup", nil)
		req.RemoteAddr = "10.0.0.1:12345"
		rec := httptest.NewRecorder()
		mw.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	})

	t.Run("counts per client IP", func(t *testing.T) {
		store := newCounterStoreMock()
		mw := middlewarectx.WindowLimitMiddleware(store, "signup", 1, 15*time.Minute, logger)(okHandler)

		first := httptest.NewRequest(http.MethodPost, "/signup", nil)
		first.RemoteAddr = "10.0.0.1:12345"
		rec := httptest.NewRecorder()
		mw.ServeHTTP(rec, first)
		assert.Equal(t, http.StatusOK, rec.Code)

		other := httptest.NewRequest(http.MethodPost, "/signup", nil)
		other.RemoteAddr = "10.0.0.2:54321"
		rec = httptest.NewRecorder()
		mw.ServeHTTP(rec, other)
		assert.Equal(t, http.StatusOK, rec.Code)

		repeat := httptest.NewRequest(http.MethodPost, "/signup", nil)
		repeat.RemoteAddr = "10.0.0.1:11111"
		rec = httptest.NewRecorder()
		mw.ServeHTTP(rec, repeat)
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	})

	t.Run("store error lets request through", func(t *testing.T) {
		store := newCounterStoreMock()
		store.err = errors.New("redis unavailable")
		mw := middlewarectx.WindowLimitMiddleware(store, "login", 1, 15*time.Minute, logger)(okHandler)

		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:12345"
		rec := httptest.NewRecorder()
		mw.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
