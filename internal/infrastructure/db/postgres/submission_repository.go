package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/99minutos/microtasks/internal/core/domain"
)

type SubmissionRepository struct {
	db *sql.DB
}

func NewSubmissionRepository(db *sql.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// Create inserts a pending submission in a single statement. The row is only
// written when the task exists, so a missing task yields no row.
func (r *SubmissionRepository) Create(ctx context.Context, taskID, userID int64, evidence string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	const q = `
INSERT INTO submissions (task_id, user_id, evidence)
SELECT $1::bigint, $2::bigint, $3::text
WHERE EXISTS (SELECT 1 FROM tasks WHERE id = $1::bigint)
RETURNING id`

	var id int64
	err := r.db.QueryRowContext(ctx, q, taskID, userID, evidence).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return 0, domain.ErrTaskNotFound
	case pgErrorCode(err) == codeForeignKeyViolation:
		return 0, domain.ErrUserNotFound
	case err != nil:
		return 0, fmt.Errorf("insert submission: %w", err)
	}
	return id, nil
}

func (r *SubmissionRepository) FindByID(ctx context.Context, id int64) (*domain.Submission, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	const q = `
SELECT id, task_id, user_id, evidence, status, created_at, reviewed_at
FROM submissions
WHERE id = $1`

	var (
		s          domain.Submission
		status     string
		reviewedAt sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.TaskID, &s.UserID, &s.Evidence, &status, &s.CreatedAt, &reviewedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("find submission: %w", err)
	}
	s.Status = domain.SubmissionStatus(status)
	if reviewedAt.Valid {
		s.ReviewedAt = &reviewedAt.Time
	}
	return &s, nil
}

const listAllSubmissions = `
SELECT s.id, s.task_id, s.user_id, s.evidence, s.status, s.created_at, s.reviewed_at,
       COALESCE(t.title, ''), COALESCE(u.name, '')
FROM submissions s
LEFT JOIN tasks t ON t.id = s.task_id
LEFT JOIN users u ON u.id = s.user_id
ORDER BY s.created_at DESC, s.id DESC`

const listUserSubmissions = `
SELECT s.id, s.task_id, s.user_id, s.evidence, s.status, s.created_at, s.reviewed_at,
       COALESCE(t.title, ''), ''
FROM submissions s
LEFT JOIN tasks t ON t.id = s.task_id
WHERE s.user_id = $1
ORDER BY s.created_at DESC, s.id DESC`

// List returns the rows selected by scope, newest first. Submitter names are
// only joined when the scope asks for them.
func (r *SubmissionRepository) List(ctx context.Context, scope domain.SubmissionScope) ([]domain.Submission, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var (
		rows *sql.Rows
		err  error
	)
	if scope.UserID == 0 {
		rows, err = r.db.QueryContext(ctx, listAllSubmissions)
	} else {
		rows, err = r.db.QueryContext(ctx, listUserSubmissions, scope.UserID)
	}
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	out := []domain.Submission{}
	for rows.Next() {
		var (
			s          domain.Submission
			status     string
			reviewedAt sql.NullTime
			userName   string
		)
		if err := rows.Scan(&s.ID, &s.TaskID, &s.UserID, &s.Evidence, &status, &s.CreatedAt, &reviewedAt, &s.TaskTitle, &userName); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		s.Status = domain.SubmissionStatus(status)
		if reviewedAt.Valid {
			s.ReviewedAt = &reviewedAt.Time
		}
		if scope.IncludeSubmitter {
			s.UserName = userName
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return out, nil
}

// UpdateStatus performs a conditional write so that two concurrent reviews
// cannot both succeed.
func (r *SubmissionRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.SubmissionStatus) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	const q = `
UPDATE submissions
SET status = $3, reviewed_at = NOW()
WHERE id = $1 AND status = $2`

	res, err := r.db.ExecContext(ctx, q, id, string(from), string(to))
	if err != nil {
		return fmt.Errorf("update submission status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update submission status: %w", err)
	}
	if n > 0 {
		return nil
	}

	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM submissions WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("update submission status: %w", err)
	}
	if !exists {
		return domain.ErrSubmissionNotFound
	}
	return domain.ErrInvalidTransition
}
