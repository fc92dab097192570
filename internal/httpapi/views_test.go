package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruit-engine/internal/listing"
)

func TestViewRegistry_SweepDropsIdleViews(t *testing.T) {
	now := testNow
	reg := NewViewRegistry(10*time.Minute, func() time.Time { return now })

	idle := reg.Open(listing.NewController(nil, listing.ViewState{}, nil))
	busy := reg.Open(listing.NewController(nil, listing.ViewState{}, nil))
	require.NotEqual(t, idle, busy)

	now = now.Add(8 * time.Minute)
	_, ok := reg.Get(busy)
	require.True(t, ok)

	now = now.Add(5 * time.Minute)
	assert.Equal(t, 1, reg.Sweep())
	assert.Equal(t, 1, reg.Len())

	_, ok = reg.Get(idle)
	assert.False(t, ok)
	_, ok = reg.Get(busy)
	assert.True(t, ok)
}

func TestRecover_ReturnsJSONError(t *testing.T) {
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), RequestID, Recover)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-1")
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "req-1", rec.Header().Get("X-Request-ID"))
	assert.Contains(t, rec.Body.String(), `"request_id":"req-1"`)
}

func TestClientLimiter_PerClient(t *testing.T) {
	cl := NewClientLimiter(0.001, 1)

	a := httptest.NewRequest(http.MethodPost, "/", nil)
	a.RemoteAddr = "10.0.0.1:5000"
	b := httptest.NewRequest(http.MethodPost, "/", nil)
	b.RemoteAddr = "10.0.0.2:5000"

	assert.True(t, cl.Allow(a))
	assert.False(t, cl.Allow(a))
	assert.True(t, cl.Allow(b))
}

func TestClientLimiter_SweepForgetsIdleClients(t *testing.T) {
	now := testNow
	cl := NewClientLimiter(0.001, 1)
	cl.now = func() time.Time { return now }

	a := httptest.NewRequest(http.MethodPost, "/", nil)
	a.RemoteAddr = "10.0.0.1:5000"
	b := httptest.NewRequest(http.MethodPost, "/", nil)
	b.RemoteAddr = "10.0.0.2:5000"

	require.True(t, cl.Allow(a))
	now = now.Add(20 * time.Minute)
	require.True(t, cl.Allow(b))
	require.Equal(t, 2, cl.Len())

	now = now.Add(15 * time.Minute)
	assert.Equal(t, 1, cl.Sweep(30*time.Minute))
	assert.Equal(t, 1, cl.Len())

	assert.True(t, cl.Allow(a), "a forgotten client starts with a fresh bucket")
	assert.False(t, cl.Allow(b))
}
