package httpapi

import (
	"errors"
	"html/template"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/phuslu/log"

	"recruit-engine/internal/config"
	"recruit-engine/internal/confirm"
	"recruit-engine/internal/csrf"
	"recruit-engine/internal/domain"
	"recruit-engine/internal/events"
	"recruit-engine/internal/listing"
	"recruit-engine/internal/notify"
	"recruit-engine/internal/store"
)

type JobsHandler struct {
	Store  *store.DB
	Hub    *events.Hub
	CfgVal *atomic.Value // stores config.Config
	Views  *ViewRegistry
	Now    func() time.Time
}

type option struct {
	Value string
	Label string
}

var statusOptions = []option{
	{"", "All statuses"},
	{string(domain.StatusActive), "Active"},
	{string(domain.StatusDeactivated), "Deactivated"},
	{string(domain.StatusExpired), "Expired"},
}

var sortOptions = []option{
	{"posted_desc", "Newest first"},
	{"posted_asc", "Oldest first"},
	{"deadline_asc", "Deadline soonest"},
	{"deadline_desc", "Deadline latest"},
	{"apps_desc", "Most applications"},
	{"apps_asc", "Fewest applications"},
}

type managePage struct {
	Token         string
	ViewID        string
	NotifyFailure string
	Total         string
	PageSize      int
	Notify        bool
	State         listing.ViewState
	StatusValue   string
	SortValue     string
	StatusOptions []option
	SortOptions   []option
	Cards         template.HTML
	MasterJSON    template.JS
}

// Page serves the management page and opens a new view for it. Initial
// query, status and sort may come from the query string.
func (h JobsHandler) Page(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cfg := h.CfgVal.Load().(config.Config)

	master, err := h.Store.ListJobRecords(ctx, h.Now())
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "list_failed", err.Error())
		return
	}
	notifyOn, err := h.Store.GetNotify(ctx)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "settings_failed", err.Error())
		return
	}

	q := r.URL.Query()
	sort := q.Get("sort")
	if sort == "" {
		sort = cfg.Listing.DefaultSort
	}
	initial := listing.NewViewState(q.Get("q"), q.Get("status"), sort)

	ctl := listing.NewController(master, initial, h.Store,
		listing.WithPageSize(cfg.Listing.PageSize),
		listing.WithClock(h.Now),
	)
	cards, err := ctl.Render()
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "render_failed", err.Error())
		return
	}
	payload, err := listing.EncodeMaster(master)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "encode_failed", err.Error())
		return
	}

	viewID := h.Views.Open(ctl)

	st := ctl.State()
	renderPage(w, r, http.StatusOK, "manage_jobs", managePage{
		Token:         csrf.Token(r),
		ViewID:        viewID,
		NotifyFailure: notify.FailureMessage,
		Total:         humanize.Comma(int64(len(master))),
		PageSize:      cfg.Listing.PageSize,
		Notify:        notifyOn,
		State:         st,
		StatusValue:   string(st.StatusFilter),
		SortValue:     st.SortValue(),
		StatusOptions: statusOptions,
		SortOptions:   sortOptions,
		Cards:         cards,
		MasterJSON:    template.JS(payload),
	})
}

// view resolves the caller's open view. A missing or expired view makes the
// browser reload the page.
func (h JobsHandler) view(w http.ResponseWriter, r *http.Request) (string, *listing.Controller, bool) {
	id, ctl, ok := h.Views.fromRequest(r)
	if !ok {
		fullReload(w)
		WriteError(w, r, http.StatusGone, "view_expired", "view expired, reload the page")
		return "", nil, false
	}
	return id, ctl, true
}

func (h JobsHandler) Query(w http.ResponseWriter, r *http.Request) {
	if _, ctl, ok := h.view(w, r); ok {
		html, err := ctl.OnQueryChanged(r.PostFormValue("q"))
		h.writeCards(w, r, html, err)
	}
}

func (h JobsHandler) Status(w http.ResponseWriter, r *http.Request) {
	if _, ctl, ok := h.view(w, r); ok {
		html, err := ctl.OnStatusFilterChanged(r.PostFormValue("status"))
		h.writeCards(w, r, html, err)
	}
}

func (h JobsHandler) Sort(w http.ResponseWriter, r *http.Request) {
	if _, ctl, ok := h.view(w, r); ok {
		html, err := ctl.OnSortChanged(r.PostFormValue("sort"))
		h.writeCards(w, r, html, err)
	}
}

func (h JobsHandler) writeCards(w http.ResponseWriter, r *http.Request, html template.HTML, err error) {
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "render_failed", err.Error())
		return
	}
	writeHTML(w, http.StatusOK, html)
}

// Trigger records a pending deactivation and returns the confirmation
// surface. Nothing is changed until Confirm.
func (h JobsHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		WriteError(w, r, http.StatusBadRequest, "bad_id", "invalid job id")
		return
	}
	_, ctl, ok := h.view(w, r)
	if !ok {
		return
	}
	if err := ctl.Gate().Trigger(id); err != nil {
		if errors.Is(err, confirm.ErrNotBound) {
			WriteError(w, r, http.StatusNotFound, "not_deactivatable", "job cannot be deactivated from this view")
			return
		}
		WriteError(w, r, http.StatusInternalServerError, "trigger_failed", err.Error())
		return
	}
	job, _ := ctl.Lookup(id)
	renderPage(w, r, http.StatusOK, "confirm", job)
}

// Confirm runs the pending deactivation exactly once, then asks for a
// full reload.
func (h JobsHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	viewID, ctl, ok := h.view(w, r)
	if !ok {
		return
	}
	id, err := ctl.Gate().Confirm(r.Context())
	switch {
	case errors.Is(err, confirm.ErrNothingPending):
		WriteError(w, r, http.StatusConflict, "nothing_pending", "no deactivation awaiting confirmation")
		return
	case errors.Is(err, store.ErrNotFound):
		WriteError(w, r, http.StatusNotFound, "not_found", "job not found")
		return
	case err != nil:
		log.Error().Err(err).Str("request_id", RequestIDFrom(r.Context())).Int64("job_id", id).Msg("deactivate failed")
		WriteError(w, r, http.StatusInternalServerError, "deactivate_failed", err.Error())
		return
	}

	log.Info().Str("request_id", RequestIDFrom(r.Context())).Int64("job_id", id).Msg("job deactivated")
	h.Hub.Emit(RequestIDFrom(r.Context()), events.TypeJobDeactivated, map[string]any{"id": id})
	h.Views.Close(viewID)
	fullReload(w)
	w.WriteHeader(http.StatusOK)
}

func (h JobsHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if _, ctl, ok := h.view(w, r); ok {
		ctl.Gate().Cancel()
		writeHTML(w, http.StatusOK, "")
	}
}

// Duplicate copies a closed posting into a new active one and asks for a
// full reload.
func (h JobsHandler) Duplicate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		WriteError(w, r, http.StatusBadRequest, "bad_id", "invalid job id")
		return
	}
	newID, err := h.Store.Duplicate(r.Context(), id, h.Now())
	switch {
	case errors.Is(err, store.ErrNotFound):
		WriteError(w, r, http.StatusNotFound, "not_found", "job not found")
		return
	case errors.Is(err, store.ErrStillActive):
		WriteError(w, r, http.StatusConflict, "still_active", "only closed postings can be duplicated")
		return
	case err != nil:
		WriteError(w, r, http.StatusInternalServerError, "duplicate_failed", err.Error())
		return
	}

	h.Hub.Emit(RequestIDFrom(r.Context()), events.TypeJobDuplicated, map[string]any{"id": id, "new_id": newID})
	fullReload(w)
	writeJSON(w, map[string]any{"ok": true, "id": newID})
}

type applicationRow struct {
	ID        int64
	Candidate string
	Received  string
}

type applicationsPage struct {
	Title        string
	Count        string
	Applications []applicationRow
}

func (h JobsHandler) Applications(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		WriteError(w, r, http.StatusBadRequest, "bad_id", "invalid job id")
		return
	}
	ctx := r.Context()
	title, err := h.Store.JobTitle(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		WriteError(w, r, http.StatusNotFound, "not_found", "job not found")
		return
	}
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "lookup_failed", err.Error())
		return
	}
	apps, err := h.Store.ListApplications(ctx, id)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "list_failed", err.Error())
		return
	}

	now := h.Now()
	rows := make([]applicationRow, 0, len(apps))
	for _, a := range apps {
		rows = append(rows, applicationRow{
			ID:        a.ID,
			Candidate: a.CandidateName,
			Received:  listing.RelativeAge(a.AppliedAt.Unix(), now),
		})
	}
	renderPage(w, r, http.StatusOK, "applications", applicationsPage{
		Title:        title,
		Count:        humanize.Comma(int64(len(apps))),
		Applications: rows,
	})
}
