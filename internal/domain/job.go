package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type Status string

const (
	StatusActive      Status = "active"
	StatusDeactivated Status = "deactivated"
	StatusExpired     Status = "expired"
)

// Rank orders postings for display: active, deactivated, expired, then anything else.
func (s Status) Rank() int {
	switch s {
	case StatusActive:
		return 0
	case StatusDeactivated:
		return 1
	case StatusExpired:
		return 2
	default:
		return 3
	}
}

// Label is the badge text: the status with its first letter upper-cased.
func (s Status) Label() string {
	str := string(s)
	r, size := utf8.DecodeRuneInString(str)
	if r == utf8.RuneError {
		return str
	}
	return string(unicode.ToUpper(r)) + str[size:]
}

// JobRecord is one posting as handed to the management view.
type JobRecord struct {
	ID                    int64  `json:"job_id" validate:"gt=0"`
	Title                 string `json:"title" validate:"required"`
	Department            string `json:"department"`
	WorkType              string `json:"work_type"`
	Status                Status `json:"status" validate:"required"`
	PostedAtEpochSeconds  int64  `json:"posted_at_ts" validate:"gte=0"`
	ApplicationDeadline   string `json:"application_deadline" validate:"required,datetime=2006-01-02"`
	NumCandidatesRequired int    `json:"num_candidates_required" validate:"gte=0"`
	ApplicationsCount     int    `json:"applications_count" validate:"gte=0"`
	DaysLeft              int    `json:"days_left"` // server supplied, may be negative
}

// TitleContains reports whether the title holds q, ignoring case.
// q is expected to be lower-cased already.
func (j JobRecord) TitleContains(q string) bool {
	return strings.Contains(strings.ToLower(j.Title), q)
}

// Capability is the set of actions a posting offers. It is either
// EditableJob or DuplicableJob.
type Capability interface {
	JobID() int64
	capability()
}

// EditableJob is a live posting: it can be edited and deactivated.
type EditableJob struct{ ID int64 }

// DuplicableJob is a closed posting: it can only be copied into a new one.
type DuplicableJob struct{ ID int64 }

func (e EditableJob) JobID() int64   { return e.ID }
func (d DuplicableJob) JobID() int64 { return d.ID }

func (EditableJob) capability()   {}
func (DuplicableJob) capability() {}

func CapabilityOf(j JobRecord) Capability {
	if j.Status == StatusActive {
		return EditableJob{ID: j.ID}
	}
	return DuplicableJob{ID: j.ID}
}
