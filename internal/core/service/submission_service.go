package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/microtasks/internal/core/domain"
	"github.com/99minutos/microtasks/internal/core/ports"
)

type SubmissionService struct {
	repo        ports.SubmissionRepository
	idempotency ports.IdempotencyStore
	recorder    ports.ReviewRecorder
	logger      zerolog.Logger
	now         func() time.Time
}

// NewSubmissionService wires the ledger. idempotency and recorder may be nil,
// which disables key replay and the review audit trail respectively.
func NewSubmissionService(
	repo ports.SubmissionRepository,
	idempotency ports.IdempotencyStore,
	recorder ports.ReviewRecorder,
	logger zerolog.Logger,
) *SubmissionService {
	return &SubmissionService{
		repo:        repo,
		idempotency: idempotency,
		recorder:    recorder,
		logger:      logger,
		now:         time.Now,
	}
}

// CreateSubmission records evidence for a task on behalf of the caller. The
// submitter is always the caller. An idempotency key is claimed before the
// write: a completed key replays the earlier submission ID, and a key held by
// an in-flight request fails with domain.ErrRequestInProgress.
func (s *SubmissionService) CreateSubmission(ctx context.Context, in ports.CreateSubmissionInput) (*ports.SubmissionResult, error) {
	key := strings.TrimSpace(in.IdempotencyKey)
	claimed := false
	if key != "" && s.idempotency != nil {
		id, ok, err := s.idempotency.Claim(ctx, in.Caller.ID, key)
		switch {
		case errors.Is(err, domain.ErrRequestInProgress):
			return nil, fmt.Errorf("create submission: %w", err)
		case err != nil:
			s.logger.Warn().Err(err).Int64("user_id", in.Caller.ID).Msg("idempotency claim failed, creating anyway")
		case !ok:
			s.logger.Info().Str("idempotency_key", key).Int64("submission_id", id).Msg("idempotent replay")
			return &ports.SubmissionResult{ID: id, Replayed: true}, nil
		default:
			claimed = true
		}
	}

	id, err := s.repo.Create(ctx, in.TaskID, in.Caller.ID, in.Evidence)
	if err != nil {
		if claimed {
			if rerr := s.idempotency.Release(context.WithoutCancel(ctx), in.Caller.ID, key); rerr != nil {
				s.logger.Warn().Err(rerr).Str("idempotency_key", key).Msg("failed to release idempotency key")
			}
		}
		return nil, fmt.Errorf("create submission: %w", err)
	}

	if claimed {
		if err := s.idempotency.Complete(context.WithoutCancel(ctx), in.Caller.ID, key, id); err != nil {
			s.logger.Warn().Err(err).Int64("submission_id", id).Msg("failed to store idempotency key")
		}
	}

	s.logger.Info().Int64("submission_id", id).Int64("task_id", in.TaskID).Int64("user_id", in.Caller.ID).Msg("submission created")
	return &ports.SubmissionResult{ID: id}, nil
}

// ListSubmissions returns the rows the caller's role allows: every row for
// admins, only their own for everyone else.
func (s *SubmissionService) ListSubmissions(ctx context.Context, caller domain.Caller) ([]domain.Submission, error) {
	return s.repo.List(ctx, domain.ListScope(caller))
}

// ListOwnSubmissions returns the caller's own submissions regardless of role.
func (s *SubmissionService) ListOwnSubmissions(ctx context.Context, caller domain.Caller) ([]domain.Submission, error) {
	return s.repo.List(ctx, domain.OwnScope(caller))
}

// ReviewSubmission applies an admin's decision to a pending submission.
func (s *SubmissionService) ReviewSubmission(ctx context.Context, in ports.ReviewInput) error {
	// 1. Authorization short-circuits before any store access.
	if err := domain.CanReviewSubmission(in.Caller); err != nil {
		return err
	}

	// 2. Only terminal statuses may be requested.
	next, err := domain.ParseReviewStatus(in.Status)
	if err != nil {
		return err
	}

	// 3. Validate the transition against the stored status.
	current, err := s.repo.FindByID(ctx, in.SubmissionID)
	if err != nil {
		return fmt.Errorf("review submission: %w", err)
	}
	if !current.Status.CanTransitionTo(next) {
		return fmt.Errorf("review submission: %w (from %s to %s)", domain.ErrInvalidTransition, current.Status, next)
	}

	// 4. Conditional write; a concurrent review makes this fail with ErrInvalidTransition.
	if err := s.repo.UpdateStatus(ctx, in.SubmissionID, current.Status, next); err != nil {
		return fmt.Errorf("review submission: %w", err)
	}

	// 5. Audit trail (non-fatal, asynchronous).
	if s.recorder != nil {
		s.recorder.Record(domain.ReviewEvent{
			SubmissionID: in.SubmissionID,
			ReviewerID:   in.Caller.ID,
			From:         current.Status,
			To:           next,
			ReviewedAt:   s.now().UTC(),
		})
	}

	s.logger.Info().
		Int64("submission_id", in.SubmissionID).
		Int64("reviewer_id", in.Caller.ID).
		Str("status", string(next)).
		Msg("submission reviewed")

	return nil
}
