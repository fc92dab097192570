package httpapi

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"recruit-engine/internal/listing"
)

// A page names its view in this header (set through hx-headers) or in
// the view_id form field. Each open page has its own id.
const (
	ViewHeader = "X-View-ID"
	viewField  = "view_id"
)

type viewEntry struct {
	ctl      *listing.Controller
	lastSeen time.Time
}

// ViewRegistry keeps one listing controller per open page. Each page load
// opens a fresh view; idle views are dropped by Sweep.
type ViewRegistry struct {
	mu    sync.Mutex
	views map[string]*viewEntry
	ttl   time.Duration
	now   func() time.Time
}

func NewViewRegistry(ttl time.Duration, now func() time.Time) *ViewRegistry {
	if now == nil {
		now = time.Now
	}
	return &ViewRegistry{views: make(map[string]*viewEntry), ttl: ttl, now: now}
}

func (v *ViewRegistry) Open(ctl *listing.Controller) string {
	id := uuid.NewString()
	v.mu.Lock()
	v.views[id] = &viewEntry{ctl: ctl, lastSeen: v.now()}
	v.mu.Unlock()
	return id
}

// Get returns the view and marks it as recently used.
func (v *ViewRegistry) Get(id string) (*listing.Controller, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	e, ok := v.views[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = v.now()
	return e.ctl, true
}

func (v *ViewRegistry) Close(id string) {
	v.mu.Lock()
	delete(v.views, id)
	v.mu.Unlock()
}

// Sweep removes views idle for longer than the TTL and returns how many went.
func (v *ViewRegistry) Sweep() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	cutoff := v.now().Add(-v.ttl)
	n := 0
	for id, e := range v.views {
		if e.lastSeen.Before(cutoff) {
			delete(v.views, id)
			n++
		}
	}
	return n
}

func (v *ViewRegistry) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.views)
}

func (v *ViewRegistry) fromRequest(r *http.Request) (string, *listing.Controller, bool) {
	id := r.Header.Get(ViewHeader)
	if id == "" {
		id = r.PostFormValue(viewField)
	}
	if id == "" {
		return "", nil, false
	}
	ctl, ok := v.Get(id)
	return id, ctl, ok
}
