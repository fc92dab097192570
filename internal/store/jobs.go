package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"recruit-engine/internal/domain"
)

const dateLayout = "2006-01-02"

// first id handed out on an empty table
const firstJobID = 1000

type Application struct {
	ID             int64     `json:"id"`
	JobID          int64     `json:"job_id"`
	CandidateName  string    `json:"candidate_name"`
	CandidateEmail string    `json:"candidate_email"`
	AppliedAt      time.Time `json:"applied_at"`
}

// ListJobRecords returns every posting with its status, days left and
// application count derived as of now.
func (d *DB) ListJobRecords(ctx context.Context, now time.Time) ([]domain.JobRecord, error) {
	rows, err := d.Pool.QueryContext(ctx, `
SELECT p.job_id, p.title, p.department, p.work_type, p.is_active, p.posted_at,
       p.application_deadline, p.num_candidates_required,
       (SELECT COUNT(*) FROM applications a WHERE a.job_id = p.job_id)
FROM job_posts p
ORDER BY p.posted_at DESC;`)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	today := dateOf(now)
	out := []domain.JobRecord{}
	for rows.Next() {
		var (
			j        domain.JobRecord
			active   bool
			postedAt string
		)
		if err := rows.Scan(&j.ID, &j.Title, &j.Department, &j.WorkType, &active, &postedAt,
			&j.ApplicationDeadline, &j.NumCandidatesRequired, &j.ApplicationsCount); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, postedAt); err == nil {
			j.PostedAtEpochSeconds = t.Unix()
		}
		deadline, err := time.Parse(dateLayout, j.ApplicationDeadline)
		if err != nil {
			return nil, fmt.Errorf("job %d: bad deadline %q: %w", j.ID, j.ApplicationDeadline, err)
		}
		j.DaysLeft = int(deadline.Sub(today).Hours() / 24)
		j.Status = deriveStatus(active, deadline, today)
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func deriveStatus(active bool, deadline, today time.Time) domain.Status {
	switch {
	case !active:
		return domain.StatusDeactivated
	case deadline.Before(today):
		return domain.StatusExpired
	default:
		return domain.StatusActive
	}
}

// dateOf drops the clock part of t, keeping its calendar day in UTC.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Deactivate closes an active posting.
func (d *DB) Deactivate(ctx context.Context, id int64) error {
	res, err := d.Pool.ExecContext(ctx,
		`UPDATE job_posts SET is_active = 0 WHERE job_id = ? AND is_active = 1;`, id)
	if err != nil {
		return fmt.Errorf("deactivate job %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deactivate job %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Duplicate copies a closed posting into a new active one posted at now.
func (d *DB) Duplicate(ctx context.Context, id int64, now time.Time) (int64, error) {
	tx, err := d.Pool.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	var (
		title, dept, workType, deadline string
		active                          bool
		vacancies                       int
	)
	err = tx.QueryRowContext(ctx, `
SELECT title, department, work_type, is_active, application_deadline, num_candidates_required
FROM job_posts WHERE job_id = ?;`, id).Scan(&title, &dept, &workType, &active, &deadline, &vacancies)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("load job %d: %w", id, err)
	}
	if dl, err := time.Parse(dateLayout, deadline); err == nil && active && !dl.Before(dateOf(now)) {
		return 0, ErrStillActive
	}

	newID, err := nextJobID(ctx, tx)
	if err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx, `
INSERT INTO job_posts(job_id, title, department, work_type, is_active, posted_at, application_deadline, num_candidates_required)
VALUES(?,?,?,?,1,?,?,?);`,
		newID, title, dept, workType, now.UTC().Format(time.RFC3339), deadline, vacancies); err != nil {
		return 0, fmt.Errorf("insert copy of job %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return newID, nil
}

func nextJobID(ctx context.Context, tx *sql.Tx) (int64, error) {
	var last sql.NullInt64
	if err := tx.QueryRowContext(ctx, `SELECT MAX(job_id) FROM job_posts;`).Scan(&last); err != nil {
		return 0, fmt.Errorf("next job id: %w", err)
	}
	if !last.Valid {
		return firstJobID, nil
	}
	return last.Int64 + 1, nil
}

// ImportJobs loads records as posts. Records that already exist are
// skipped. applications_count placeholder applications are created so
// counts survive the round trip. Returns how many posts were added.
func (d *DB) ImportJobs(ctx context.Context, jobs []domain.JobRecord) (int, error) {
	tx, err := d.Pool.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	added := 0
	for _, j := range jobs {
		posted := time.Unix(j.PostedAtEpochSeconds, 0).UTC()
		res, err := tx.ExecContext(ctx, `
INSERT OR IGNORE INTO job_posts(job_id, title, department, work_type, is_active, posted_at, application_deadline, num_candidates_required)
VALUES(?,?,?,?,?,?,?,?);`,
			j.ID, cleanText(j.Title), cleanText(j.Department), cleanText(j.WorkType),
			j.Status != domain.StatusDeactivated, posted.Format(time.RFC3339),
			strings.TrimSpace(j.ApplicationDeadline), j.NumCandidatesRequired)
		if err != nil {
			return 0, fmt.Errorf("import job %d: %w", j.ID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			continue
		}
		added++
		for i := 1; i <= j.ApplicationsCount; i++ {
			if _, err := tx.ExecContext(ctx, `
INSERT INTO applications(job_id, candidate_name, candidate_email, applied_at) VALUES(?,?,?,?);`,
				j.ID, fmt.Sprintf("Applicant %d", i), fmt.Sprintf("applicant%d.job%d@example.com", i, j.ID),
				posted.Format(time.RFC3339)); err != nil {
				return 0, fmt.Errorf("import applications for job %d: %w", j.ID, err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return added, nil
}

// AddApplication records a candidate applying to job id.
func (d *DB) AddApplication(ctx context.Context, a Application) (int64, error) {
	res, err := d.Pool.ExecContext(ctx, `
INSERT INTO applications(job_id, candidate_name, candidate_email, applied_at) VALUES(?,?,?,?);`,
		a.JobID, cleanText(a.CandidateName), strings.TrimSpace(a.CandidateEmail), a.AppliedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("add application: %w", err)
	}
	return res.LastInsertId()
}

// JobTitle returns the title of job id, or ErrNotFound.
func (d *DB) JobTitle(ctx context.Context, id int64) (string, error) {
	var title string
	err := d.Pool.QueryRowContext(ctx, `SELECT title FROM job_posts WHERE job_id = ?;`, id).Scan(&title)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return title, err
}

func (d *DB) ListApplications(ctx context.Context, jobID int64) ([]Application, error) {
	rows, err := d.Pool.QueryContext(ctx, `
SELECT id, job_id, candidate_name, candidate_email, applied_at
FROM applications WHERE job_id = ?
ORDER BY applied_at DESC, id DESC;`, jobID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	out := []Application{}
	for rows.Next() {
		var a Application
		var at string
		if err := rows.Scan(&a.ID, &a.JobID, &a.CandidateName, &a.CandidateEmail, &at); err != nil {
			return nil, err
		}
		a.AppliedAt, _ = time.Parse(time.RFC3339, at)
		out = append(out, a)
	}
	return out, rows.Err()
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
