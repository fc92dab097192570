package httpapi

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type clientBucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// ClientLimiter rate-limits state-changing requests per client address.
type ClientLimiter struct {
	mu  sync.Mutex
	m   map[string]*clientBucket
	r   rate.Limit
	b   int
	now func() time.Time
}

func NewClientLimiter(reqPerSec float64, burst int) *ClientLimiter {
	return &ClientLimiter{
		m:   make(map[string]*clientBucket),
		r:   rate.Limit(reqPerSec),
		b:   burst,
		now: time.Now,
	}
}

func (cl *ClientLimiter) limiterFor(client string) *rate.Limiter {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	if cb, ok := cl.m[client]; ok {
		cb.lastSeen = cl.now()
		return cb.lim
	}
	lim := rate.NewLimiter(cl.r, cl.b)
	cl.m[client] = &clientBucket{lim: lim, lastSeen: cl.now()}
	return lim
}

func (cl *ClientLimiter) Allow(r *http.Request) bool {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return cl.limiterFor(host).Allow()
}

// Sweep forgets clients not seen for idle and returns how many went.
func (cl *ClientLimiter) Sweep(idle time.Duration) int {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	cutoff := cl.now().Add(-idle)
	n := 0
	for client, cb := range cl.m {
		if cb.lastSeen.Before(cutoff) {
			delete(cl.m, client)
			n++
		}
	}
	return n
}

func (cl *ClientLimiter) Len() int {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return len(cl.m)
}
