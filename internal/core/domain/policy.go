package domain

// SubmissionScope describes which submission rows a caller may see.
type SubmissionScope struct {
	// UserID restricts rows to a single submitter. Zero means all rows.
	UserID int64
	// IncludeSubmitter joins the submitter's name into each row.
	IncludeSubmitter bool
}

// CanPublishTask allows only admins to publish tasks.
func CanPublishTask(c Caller) error {
	if !c.IsAdmin() {
		return ErrPermissionDenied
	}
	return nil
}

// CanReviewSubmission allows only admins to change a submission's status.
func CanReviewSubmission(c Caller) error {
	if !c.IsAdmin() {
		return ErrPermissionDenied
	}
	return nil
}

// ListScope returns the rows visible on the general submissions listing:
// admins see everything with submitter names, everyone else only their own.
func ListScope(c Caller) SubmissionScope {
	if c.IsAdmin() {
		return SubmissionScope{IncludeSubmitter: true}
	}
	return SubmissionScope{UserID: c.ID}
}

// OwnScope is always restricted to the caller, regardless of role.
func OwnScope(c Caller) SubmissionScope {
	return SubmissionScope{UserID: c.ID}
}
