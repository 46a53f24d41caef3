package domain

import (
	"errors"
	"testing"
)

func TestCanPublishTask(t *testing.T) {
	if err := CanPublishTask(Caller{ID: 1, Role: RoleAdmin}); err != nil {
		t.Fatalf("admin should publish, got %v", err)
	}
	if err := CanPublishTask(Caller{ID: 2, Role: RoleWorker}); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	if err := CanPublishTask(Caller{ID: 3}); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied for empty role, got %v", err)
	}
}

func TestCanReviewSubmission(t *testing.T) {
	if err := CanReviewSubmission(Caller{ID: 1, Role: RoleAdmin}); err != nil {
		t.Fatalf("admin should review, got %v", err)
	}
	if err := CanReviewSubmission(Caller{ID: 2, Role: RoleWorker}); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestListScope(t *testing.T) {
	admin := ListScope(Caller{ID: 1, Role: RoleAdmin})
	if admin.UserID != 0 || !admin.IncludeSubmitter {
		t.Fatalf("admin scope should be unrestricted with submitter, got %+v", admin)
	}

	worker := ListScope(Caller{ID: 7, Role: RoleWorker})
	if worker.UserID != 7 || worker.IncludeSubmitter {
		t.Fatalf("worker scope should be own rows without submitter, got %+v", worker)
	}
}

func TestOwnScope_IgnoresRole(t *testing.T) {
	for _, role := range []Role{RoleAdmin, RoleWorker} {
		s := OwnScope(Caller{ID: 9, Role: role})
		if s.UserID != 9 || s.IncludeSubmitter {
			t.Fatalf("role %s: unexpected scope %+v", role, s)
		}
	}
}
