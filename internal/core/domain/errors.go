package domain

import "errors"

// Credential errors.
var (
	ErrMissingCredentials = errors.New("email and password are required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRole        = errors.New("role must be one of: admin, worker")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
)

// Authorization errors.
var ErrPermissionDenied = errors.New("admin only")

// Catalog and ledger errors.
var (
	ErrInvalidTask        = errors.New("invalid task")
	ErrTaskNotFound       = errors.New("task not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrInvalidStatus      = errors.New("status must be one of: approved, rejected")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrRequestInProgress  = errors.New("a request with this idempotency key is in progress")
)
