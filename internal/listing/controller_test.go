package listing

import (
	"context"
	"errors"
	"html/template"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruit-engine/internal/confirm"
	"recruit-engine/internal/domain"
)

type fakeDeactivator struct {
	mu    sync.Mutex
	calls []int64
	err   error
}

func (f *fakeDeactivator) Deactivate(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, id)
	return f.err
}

func sampleMaster() []domain.JobRecord {
	return []domain.JobRecord{
		job(1, "Engineer", domain.StatusActive, 100, 2, "2025-07-01"),
		job(2, "Manager", domain.StatusDeactivated, 200, 9, "2025-07-01"),
		job(3, "Sales Engineer", domain.StatusExpired, 50, 1, "2025-07-01"),
		job(4, "Staff Engineer", domain.StatusActive, 300, 0, "2025-07-01"),
	}
}

func newTestController(d Deactivator, opts ...Option) *Controller {
	clock := func() time.Time { return time.Unix(10_000, 0) }
	opts = append([]Option{WithClock(clock)}, opts...)
	return NewController(sampleMaster(), NewViewState("", "", DefaultSort), d, opts...)
}

func cardIDs(t *testing.T, html string) []string {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	var out []string
	doc.Find(".job-card").Each(func(_ int, s *goquery.Selection) {
		out = append(out, s.AttrOr("data-job-id", ""))
	})
	return out
}

func TestController_InitialRender(t *testing.T) {
	c := newTestController(&fakeDeactivator{})
	html, err := c.Render()
	require.NoError(t, err)

	assert.Equal(t, []string{"4", "1", "2", "3"}, cardIDs(t, string(html)))
	assert.Equal(t, ViewState{SortKey: SortPosted, Direction: Desc}, c.State())
}

func TestController_EventsMutateStateAndRerender(t *testing.T) {
	c := newTestController(&fakeDeactivator{})

	html, err := c.OnQueryChanged("ENG")
	require.NoError(t, err)
	assert.Equal(t, []string{"4", "1", "3"}, cardIDs(t, string(html)))
	assert.Equal(t, "ENG", c.State().Query)

	html, err = c.OnSortChanged("posted_asc")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "4", "3"}, cardIDs(t, string(html)))

	html, err = c.OnStatusFilterChanged("expired")
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, cardIDs(t, string(html)))
	assert.Equal(t, domain.StatusExpired, c.State().StatusFilter)

	html, err = c.OnQueryChanged("nothing matches")
	require.NoError(t, err)
	assert.Empty(t, string(html))
	assert.Empty(t, c.Projection())
}

func TestController_PageSize(t *testing.T) {
	c := newTestController(&fakeDeactivator{}, WithPageSize(2))
	html, err := c.Render()
	require.NoError(t, err)
	assert.Equal(t, []string{"4", "1"}, cardIDs(t, string(html)))
}

func TestController_MasterIsCopied(t *testing.T) {
	master := sampleMaster()
	c := NewController(master, NewViewState("", "", ""), nil)
	master[0].Title = "changed"

	j, ok := c.Lookup(1)
	require.True(t, ok)
	assert.Equal(t, "Engineer", j.Title)
}

func TestController_GateBindsOnlyVisibleEditableCards(t *testing.T) {
	d := &fakeDeactivator{}
	c := newTestController(d)
	_, err := c.Render()
	require.NoError(t, err)

	g := c.Gate()
	assert.ErrorIs(t, g.Trigger(2), confirm.ErrNotBound, "deactivated card has no destructive action")
	assert.ErrorIs(t, g.Trigger(99), confirm.ErrNotBound)

	require.NoError(t, g.Trigger(1))
	assert.Equal(t, confirm.PendingConfirmation, g.State())
	assert.Empty(t, d.calls)

	id, err := g.Confirm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	assert.Equal(t, []int64{1}, d.calls)
	assert.Equal(t, confirm.Idle, g.State())

	// Filter job 1 out: its binding goes away with the re-render.
	_, err = c.OnQueryChanged("staff")
	require.NoError(t, err)
	assert.ErrorIs(t, g.Trigger(1), confirm.ErrNotBound)
}

func TestController_RepeatedRendersDoNotStackBindings(t *testing.T) {
	d := &fakeDeactivator{}
	c := newTestController(d)
	for i := 0; i < 5; i++ {
		_, err := c.Render()
		require.NoError(t, err)
	}

	require.NoError(t, c.Gate().Trigger(4))
	_, err := c.Gate().Confirm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{4}, d.calls)
}

func TestController_ConfirmReportsDeactivationError(t *testing.T) {
	d := &fakeDeactivator{err: errors.New("boom")}
	c := newTestController(d)
	_, err := c.Render()
	require.NoError(t, err)

	require.NoError(t, c.Gate().Trigger(1))
	_, err = c.Gate().Confirm(context.Background())
	assert.EqualError(t, err, "boom")
	assert.Equal(t, confirm.Idle, c.Gate().State())
}

func TestController_RenderFailureKeepsPreviousView(t *testing.T) {
	c := newTestController(&fakeDeactivator{})
	html, err := c.OnQueryChanged("staff")
	require.NoError(t, err)
	require.Equal(t, []string{"4"}, cardIDs(t, string(html)))

	boom := errors.New("template broke")
	c.render = func(j domain.JobRecord, now time.Time) (template.HTML, error) {
		if j.ID == 2 {
			return "", boom
		}
		return RenderCard(j, now)
	}

	_, err = c.OnQueryChanged("")
	require.ErrorIs(t, err, boom)

	shown := c.Projection()
	require.Len(t, shown, 1)
	assert.Equal(t, int64(4), shown[0].ID)

	g := c.Gate()
	assert.ErrorIs(t, g.Trigger(1), confirm.ErrNotBound, "binding still follows the last rendered cards")
	assert.NoError(t, g.Trigger(4))
}
