package domain

import "time"

// SubmissionStatus represents the review state of a submission.
type SubmissionStatus string

const (
	StatusPending  SubmissionStatus = "pending"
	StatusApproved SubmissionStatus = "approved"
	StatusRejected SubmissionStatus = "rejected"
)

// validTransitions defines the review state machine. Both outgoing edges of
// pending are terminal.
var validTransitions = map[SubmissionStatus][]SubmissionStatus{
	StatusPending: {StatusApproved, StatusRejected},
}

// ParseReviewStatus validates a status supplied by a reviewer. Only terminal
// statuses can be requested.
func ParseReviewStatus(s string) (SubmissionStatus, error) {
	switch SubmissionStatus(s) {
	case StatusApproved, StatusRejected:
		return SubmissionStatus(s), nil
	default:
		return "", ErrInvalidStatus
	}
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s SubmissionStatus) CanTransitionTo(next SubmissionStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Submission is a worker's evidence for a task, awaiting or past review.
type Submission struct {
	ID         int64            `json:"id"`
	TaskID     int64            `json:"task_id"`
	UserID     int64            `json:"user_id"`
	Evidence   string           `json:"evidence"`
	Status     SubmissionStatus `json:"status"`
	CreatedAt  time.Time        `json:"created_at"`
	ReviewedAt *time.Time       `json:"reviewed_at,omitempty"`

	// Populated by list queries.
	TaskTitle string `json:"task_title"`
	UserName  string `json:"user_name,omitempty"`
}

// ReviewEvent records a single accepted review for the audit trail.
type ReviewEvent struct {
	SubmissionID int64
	ReviewerID   int64
	From         SubmissionStatus
	To           SubmissionStatus
	ReviewedAt   time.Time
}
