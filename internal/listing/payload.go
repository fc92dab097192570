package listing

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"

	"recruit-engine/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// DecodeMaster reads a JSON array of job records and validates each one.
func DecodeMaster(r io.Reader) ([]domain.JobRecord, error) {
	var jobs []domain.JobRecord
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&jobs); err != nil {
		return nil, fmt.Errorf("decode jobs: %w", err)
	}
	if err := ValidateMaster(jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

func ValidateMaster(jobs []domain.JobRecord) error {
	seen := make(map[int64]bool, len(jobs))
	for i, j := range jobs {
		if err := validate.Struct(j); err != nil {
			return fmt.Errorf("jobs[%d]: %w", i, err)
		}
		if seen[j.ID] {
			return fmt.Errorf("jobs[%d]: duplicate job_id %d", i, j.ID)
		}
		seen[j.ID] = true
	}
	return nil
}

// EncodeMaster is the payload embedded in the page for the client.
func EncodeMaster(jobs []domain.JobRecord) (string, error) {
	if jobs == nil {
		jobs = []domain.JobRecord{}
	}
	b, err := json.Marshal(jobs)
	if err != nil {
		return "", fmt.Errorf("encode jobs: %w", err)
	}
	return string(b), nil
}
