package listing

import (
	"context"
	"html/template"
	"slices"
	"strings"
	"sync"
	"time"

	"recruit-engine/internal/confirm"
	"recruit-engine/internal/domain"
)

// DefaultPageSize is the number of cards the view ever shows.
const DefaultPageSize = 12

// Deactivator submits the deactivation of one posting.
type Deactivator interface {
	Deactivate(ctx context.Context, id int64) error
}

type Option func(*Controller)

func WithPageSize(n int) Option {
	return func(c *Controller) { c.pageSize = n }
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// Controller owns one management view: the master collection handed over
// at load, the current ViewState and the confirmation gate bound to the
// rendered cards. Events are serialized.
type Controller struct {
	mu sync.Mutex

	master   []domain.JobRecord
	state    ViewState
	pageSize int
	now      func() time.Time
	render   func(domain.JobRecord, time.Time) (template.HTML, error)

	gate        *confirm.Gate
	deactivator Deactivator

	projection []domain.JobRecord
}

func NewController(master []domain.JobRecord, initial ViewState, d Deactivator, opts ...Option) *Controller {
	c := &Controller{
		master:      slices.Clone(master),
		state:       initial,
		pageSize:    DefaultPageSize,
		now:         time.Now,
		render:      RenderCard,
		gate:        confirm.New(),
		deactivator: d,
	}
	if c.state.SortKey == "" || c.state.Direction == "" {
		c.state.SortKey, c.state.Direction = ParseSort(DefaultSort)
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Render runs the recompute-and-render cycle without changing state.
func (c *Controller) Render() (template.HTML, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refresh()
}

func (c *Controller) OnQueryChanged(q string) (template.HTML, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Query = q
	return c.refresh()
}

func (c *Controller) OnStatusFilterChanged(status string) (template.HTML, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.StatusFilter = domain.Status(strings.TrimSpace(status))
	return c.refresh()
}

// OnSortChanged takes the sort control's "{key}_{dir}" value.
func (c *Controller) OnSortChanged(v string) (template.HTML, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.SortKey, c.state.Direction = ParseSort(v)
	return c.refresh()
}

// refresh commits the new projection and gate binding only when every
// card rendered.
func (c *Controller) refresh() (template.HTML, error) {
	shown := Project(c.master, c.state, c.pageSize)

	now := c.now()
	var b strings.Builder
	for _, j := range shown {
		card, err := c.render(j, now)
		if err != nil {
			return "", err
		}
		b.WriteString(string(card))
	}

	c.projection = shown
	c.gate.Bind(c.resolver(shown))
	return template.HTML(b.String()), nil
}

// resolver binds the deactivate action of every editable card currently shown.
func (c *Controller) resolver(shown []domain.JobRecord) confirm.Resolver {
	editable := make(map[int64]struct{}, len(shown))
	for _, j := range shown {
		if e, ok := domain.CapabilityOf(j).(domain.EditableJob); ok {
			editable[e.ID] = struct{}{}
		}
	}
	d := c.deactivator
	return func(id int64) (confirm.Action, bool) {
		if _, ok := editable[id]; !ok || d == nil {
			return nil, false
		}
		return func(ctx context.Context) error {
			return d.Deactivate(ctx, id)
		}, true
	}
}

func (c *Controller) State() ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Projection returns a copy of the records last rendered.
func (c *Controller) Projection() []domain.JobRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.projection)
}

func (c *Controller) Gate() *confirm.Gate { return c.gate }

// Lookup finds a record of the master collection by id.
func (c *Controller) Lookup(id int64) (domain.JobRecord, bool) {
	for _, j := range c.master {
		if j.ID == id {
			return j, true
		}
	}
	return domain.JobRecord{}, false
}
