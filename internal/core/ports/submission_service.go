package ports

import (
	"context"

	"github.com/99minutos/microtasks/internal/core/domain"
)

// CreateSubmissionInput carries the data needed to submit evidence for a task.
type CreateSubmissionInput struct {
	Caller         domain.Caller
	TaskID         int64
	Evidence       string
	IdempotencyKey string
}

// SubmissionResult is returned after creating a submission.
type SubmissionResult struct {
	ID int64
	// Replayed is true when the Idempotency-Key matched an earlier submission.
	Replayed bool
}

// ReviewInput carries a reviewer's decision.
type ReviewInput struct {
	Caller       domain.Caller
	SubmissionID int64
	Status       string
}

// SubmissionService defines use-case operations for submissions.
type SubmissionService interface {
	CreateSubmission(ctx context.Context, input CreateSubmissionInput) (*SubmissionResult, error)
	ListSubmissions(ctx context.Context, caller domain.Caller) ([]domain.Submission, error)
	ListOwnSubmissions(ctx context.Context, caller domain.Caller) ([]domain.Submission, error)
	ReviewSubmission(ctx context.Context, input ReviewInput) error
}
