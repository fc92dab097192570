package listing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruit-engine/internal/domain"
)

const validPayload = `[
  {"job_id": 1000, "title": "Engineer", "department": "IT", "work_type": "Remote",
   "status": "active", "posted_at_ts": 1700000000, "application_deadline": "2025-07-01",
   "num_candidates_required": 2, "applications_count": 5, "days_left": -3}
]`

func TestDecodeMaster(t *testing.T) {
	jobs, err := DecodeMaster(strings.NewReader(validPayload))
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, domain.JobRecord{
		ID: 1000, Title: "Engineer", Department: "IT", WorkType: "Remote",
		Status: domain.StatusActive, PostedAtEpochSeconds: 1700000000,
		ApplicationDeadline: "2025-07-01", NumCandidatesRequired: 2,
		ApplicationsCount: 5, DaysLeft: -3,
	}, jobs[0])
}

func TestDecodeMaster_Rejects(t *testing.T) {
	tests := map[string]string{
		"not json":       `{`,
		"unknown field":  `[{"job_id":1,"title":"a","status":"active","application_deadline":"2025-01-01","salary":1}]`,
		"missing title":  `[{"job_id":1,"status":"active","application_deadline":"2025-01-01"}]`,
		"zero id":        `[{"job_id":0,"title":"a","status":"active","application_deadline":"2025-01-01"}]`,
		"bad deadline":   `[{"job_id":1,"title":"a","status":"active","application_deadline":"01/07/2025"}]`,
		"negative count": `[{"job_id":1,"title":"a","status":"active","application_deadline":"2025-01-01","applications_count":-1}]`,
		"duplicate id": `[{"job_id":1,"title":"a","status":"active","application_deadline":"2025-01-01"},
		                  {"job_id":1,"title":"b","status":"active","application_deadline":"2025-01-01"}]`,
	}
	for name, payload := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeMaster(strings.NewReader(payload))
			assert.Error(t, err)
		})
	}
}

func TestEncodeMaster(t *testing.T) {
	s, err := EncodeMaster(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", s)

	jobs, err := DecodeMaster(strings.NewReader(validPayload))
	require.NoError(t, err)
	s, err = EncodeMaster(jobs)
	require.NoError(t, err)
	assert.Contains(t, s, `"posted_at_ts":1700000000`)
	assert.Contains(t, s, `"days_left":-3`)
}
