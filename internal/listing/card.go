package listing

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"recruit-engine/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var cardTmpl = template.Must(template.ParseFS(templateFS, "templates/card.html"))

type editAction struct {
	ID         int64
	EditURL    string
	TriggerURL string
}

type duplicateAction struct {
	ID           int64
	DuplicateURL string
}

type cardView struct {
	ID              int64
	Title           string
	Department      string
	WorkType        string
	Status          string
	StatusLabel     string
	Posted          int64
	PostedAgo       string
	Deadline        string
	DaysLeft        int
	Vacancies       string
	Applications    string
	ApplicationsURL string

	Edit      *editAction
	Duplicate *duplicateAction
}

func ApplicationsURL(id int64) string { return fmt.Sprintf("/employer/jobs/%d/applications/", id) }
func EditURL(id int64) string         { return fmt.Sprintf("/employer/edit_job/%d/", id) }
func DeactivateURL(id int64) string   { return fmt.Sprintf("/employer/jobs/view/deactivate/%d", id) }
func DuplicateURL(id int64) string    { return fmt.Sprintf("/employer/jobs/%d/duplicate", id) }

// RenderCard builds the markup for one posting. All text is escaped.
func RenderCard(job domain.JobRecord, now time.Time) (template.HTML, error) {
	v := cardView{
		ID:              job.ID,
		Title:           job.Title,
		Department:      job.Department,
		WorkType:        job.WorkType,
		Status:          string(job.Status),
		StatusLabel:     job.Status.Label(),
		Posted:          job.PostedAtEpochSeconds,
		PostedAgo:       RelativeAge(job.PostedAtEpochSeconds, now),
		Deadline:        job.ApplicationDeadline,
		DaysLeft:        job.DaysLeft,
		Vacancies:       countLabel(job.NumCandidatesRequired, "Vacancy", "Vacancies"),
		Applications:    countLabel(job.ApplicationsCount, "Application", "Applications"),
		ApplicationsURL: ApplicationsURL(job.ID),
	}

	switch c := domain.CapabilityOf(job).(type) {
	case domain.EditableJob:
		v.Edit = &editAction{ID: c.ID, EditURL: EditURL(c.ID), TriggerURL: DeactivateURL(c.ID)}
	case domain.DuplicableJob:
		v.Duplicate = &duplicateAction{ID: c.ID, DuplicateURL: DuplicateURL(c.ID)}
	default:
		return "", fmt.Errorf("render job %d: unhandled capability %T", job.ID, c)
	}

	var buf bytes.Buffer
	if err := cardTmpl.ExecuteTemplate(&buf, "card", v); err != nil {
		return "", fmt.Errorf("render job %d: %w", job.ID, err)
	}
	return template.HTML(buf.String()), nil
}

func countLabel(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
