package ports

import (
	"context"

	"github.com/99minutos/microtasks/internal/core/domain"
)

// SubmissionRepository defines persistence operations for the submission ledger.
type SubmissionRepository interface {
	// Create inserts a pending submission and returns its ID.
	// Returns domain.ErrTaskNotFound when the task does not exist.
	Create(ctx context.Context, taskID, userID int64, evidence string) (int64, error)
	FindByID(ctx context.Context, id int64) (*domain.Submission, error)
	// List returns the rows selected by scope, newest first.
	List(ctx context.Context, scope domain.SubmissionScope) ([]domain.Submission, error)
	// UpdateStatus moves a submission from one status to another. It returns
	// domain.ErrSubmissionNotFound when the row is absent and
	// domain.ErrInvalidTransition when its current status is not from.
	UpdateStatus(ctx context.Context, id int64, from, to domain.SubmissionStatus) error
}

// IdempotencyStore remembers which submission a client-supplied key produced.
type IdempotencyStore interface {
	// Claim reserves key before the write. claimed is false when an earlier
	// request already completed, in which case its submission ID is returned.
	// Returns domain.ErrRequestInProgress while another request holds key.
	Claim(ctx context.Context, userID int64, key string) (submissionID int64, claimed bool, err error)
	Complete(ctx context.Context, userID int64, key string, submissionID int64) error
	Release(ctx context.Context, userID int64, key string) error
}

// ReviewRecorder receives accepted reviews for the audit trail.
type ReviewRecorder interface {
	Record(event domain.ReviewEvent)
}

// ReviewAuditRepository persists review events.
type ReviewAuditRepository interface {
	Insert(ctx context.Context, event domain.ReviewEvent) error
}
