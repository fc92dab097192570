package listing

import (
	"strings"

	"recruit-engine/internal/domain"
)

type SortKey string

const (
	SortPosted   SortKey = "posted"
	SortDeadline SortKey = "deadline"
	SortApps     SortKey = "apps"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// DefaultSort matches the sort select's initial option.
const DefaultSort = "posted_desc"

// ViewState is the user-controlled part of the management view.
type ViewState struct {
	Query        string
	StatusFilter domain.Status // empty means all
	SortKey      SortKey
	Direction    Direction
}

// SortValue encodes key and direction the way the sort control submits them.
func (s ViewState) SortValue() string {
	return string(s.SortKey) + "_" + string(s.Direction)
}

// ParseSort decodes a "{key}_{dir}" control value. Anything it does not
// recognise falls back to DefaultSort.
func ParseSort(v string) (SortKey, Direction) {
	key, dir, ok := strings.Cut(strings.TrimSpace(v), "_")
	if !ok {
		return ParseSort(DefaultSort)
	}
	k := SortKey(strings.ToLower(key))
	switch k {
	case SortPosted, SortDeadline, SortApps:
	default:
		return ParseSort(DefaultSort)
	}
	switch Direction(strings.ToLower(dir)) {
	case Asc:
		return k, Asc
	case Desc:
		return k, Desc
	}
	return ParseSort(DefaultSort)
}

// NewViewState builds the state the controls show on first load.
func NewViewState(query, status, sort string) ViewState {
	key, dir := ParseSort(sort)
	return ViewState{
		Query:        query,
		StatusFilter: domain.Status(strings.TrimSpace(status)),
		SortKey:      key,
		Direction:    dir,
	}
}
