package listing

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"recruit-engine/internal/domain"
)

const deadlineLayout = "2006-01-02"

// Project derives the visible subset of master: query filter, status
// filter, status-ranked sort, then a hard cap of pageSize records.
// master is never modified.
func Project(master []domain.JobRecord, state ViewState, pageSize int) []domain.JobRecord {
	if pageSize <= 0 {
		return []domain.JobRecord{}
	}

	q := strings.ToLower(strings.TrimSpace(state.Query))
	out := make([]domain.JobRecord, 0, len(master))
	for _, j := range master {
		if q != "" && !j.TitleContains(q) {
			continue
		}
		if state.StatusFilter != "" && j.Status != state.StatusFilter {
			continue
		}
		out = append(out, j)
	}

	dir := 1
	if state.Direction == Desc {
		dir = -1
	}
	key := sortValue(state.SortKey)

	slices.SortStableFunc(out, func(a, b domain.JobRecord) int {
		if c := cmp.Compare(a.Status.Rank(), b.Status.Rank()); c != 0 {
			return c
		}
		return cmp.Compare(key(a), key(b)) * dir
	})

	if len(out) > pageSize {
		out = out[:pageSize]
	}
	return out
}

func sortValue(k SortKey) func(domain.JobRecord) int64 {
	switch k {
	case SortDeadline:
		return deadlineUnix
	case SortApps:
		return func(j domain.JobRecord) int64 { return int64(j.ApplicationsCount) }
	default:
		return func(j domain.JobRecord) int64 { return j.PostedAtEpochSeconds }
	}
}

// deadlineUnix parses the calendar deadline; unparsable values sort as the zero instant.
func deadlineUnix(j domain.JobRecord) int64 {
	t, err := time.Parse(deadlineLayout, strings.TrimSpace(j.ApplicationDeadline))
	if err != nil {
		return time.Time{}.Unix()
	}
	return t.Unix()
}
