package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/99minutos/microtasks/internal/api/middleware"
	"github.com/99minutos/microtasks/internal/core/domain"
	"github.com/99minutos/microtasks/internal/core/ports"
)

type stubSubmissionService struct {
	createFn func(ctx context.Context, in ports.CreateSubmissionInput) (*ports.SubmissionResult, error)
	listFn   func(ctx context.Context, caller domain.Caller) ([]domain.Submission, error)
	mineFn   func(ctx context.Context, caller domain.Caller) ([]domain.Submission, error)
	reviewFn func(ctx context.Context, in ports.ReviewInput) error
}

func (s *stubSubmissionService) CreateSubmission(ctx context.Context, in ports.CreateSubmissionInput) (*ports.SubmissionResult, error) {
	return s.createFn(ctx, in)
}

func (s *stubSubmissionService) ListSubmissions(ctx context.Context, caller domain.Caller) ([]domain.Submission, error) {
	return s.listFn(ctx, caller)
}

func (s *stubSubmissionService) ListOwnSubmissions(ctx context.Context, caller domain.Caller) ([]domain.Submission, error) {
	return s.mineFn(ctx, caller)
}

func (s *stubSubmissionService) ReviewSubmission(ctx context.Context, in ports.ReviewInput) error {
	return s.reviewFn(ctx, in)
}

func TestSubmissionHandler_Create(t *testing.T) {
	stub := &stubSubmissionService{
		createFn: func(ctx context.Context, in ports.CreateSubmissionInput) (*ports.SubmissionResult, error) {
			if in.Caller != worker || in.TaskID != 10 || in.Evidence != "done, see link" || in.IdempotencyKey != "k-1" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &ports.SubmissionResult{ID: 3}, nil
		},
	}
	c, rec := newJSONContext(http.MethodPost, "/api/submissions", `{"taskId":10,"evidence":"done, see link"}`)
	c.Request().Header.Set(IdempotencyHeader, " k-1 ")
	c.Set(middleware.CallerKey, worker)

	if err := NewSubmissionHandler(stub).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != float64(3) {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if _, ok := resp["replayed"]; ok {
		t.Fatalf("replayed must be omitted for new submissions")
	}
}

func TestSubmissionHandler_Create_Replayed(t *testing.T) {
	stub := &stubSubmissionService{
		createFn: func(ctx context.Context, in ports.CreateSubmissionInput) (*ports.SubmissionResult, error) {
			return &ports.SubmissionResult{ID: 3, Replayed: true}, nil
		},
	}
	c, rec := newJSONContext(http.MethodPost, "/api/submissions", `{"taskId":10,"evidence":"x"}`)
	c.Set(middleware.CallerKey, worker)

	if err := NewSubmissionHandler(stub).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"replayed":true`) {
		t.Fatalf("expected replayed flag, got %s", rec.Body.String())
	}
}

func TestSubmissionHandler_Create_Validation(t *testing.T) {
	stub := &stubSubmissionService{
		createFn: func(ctx context.Context, in ports.CreateSubmissionInput) (*ports.SubmissionResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewSubmissionHandler(stub)

	for _, body := range []string{`{"evidence":"x"}`, `{"taskId":0}`, `{"taskId":-4}`, `not-json`} {
		c, _ := newJSONContext(http.MethodPost, "/api/submissions", body)
		c.Set(middleware.CallerKey, worker)
		expectHTTPError(t, h.Create(c), http.StatusBadRequest)
	}

	c, _ := newJSONContext(http.MethodPost, "/api/submissions", `{"taskId":1}`)
	c.Request().Header.Set(IdempotencyHeader, strings.Repeat("k", maxIdempotencyKeyLen+1))
	c.Set(middleware.CallerKey, worker)
	expectHTTPError(t, h.Create(c), http.StatusBadRequest)
}

func TestSubmissionHandler_Create_UnknownTask(t *testing.T) {
	stub := &stubSubmissionService{
		createFn: func(ctx context.Context, in ports.CreateSubmissionInput) (*ports.SubmissionResult, error) {
			return nil, domain.ErrTaskNotFound
		},
	}
	c, _ := newJSONContext(http.MethodPost, "/api/submissions", `{"taskId":99,"evidence":"x"}`)
	c.Set(middleware.CallerKey, worker)

	if err := NewSubmissionHandler(stub).Create(c); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestSubmissionHandler_List_PassesCaller(t *testing.T) {
	created := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	stub := &stubSubmissionService{
		listFn: func(ctx context.Context, caller domain.Caller) ([]domain.Submission, error) {
			if caller != admin {
				t.Fatalf("unexpected caller: %+v", caller)
			}
			return []domain.Submission{{
				ID: 1, TaskID: 10, UserID: 2, Evidence: "e", Status: domain.StatusPending,
				CreatedAt: created, TaskTitle: "Translate doc", UserName: "Worker",
			}}, nil
		},
	}
	c, rec := newJSONContext(http.MethodGet, "/api/submissions", "")
	c.Set(middleware.CallerKey, admin)

	if err := NewSubmissionHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 1 || resp[0]["status"] != "pending" || resp[0]["task_title"] != "Translate doc" || resp[0]["user_name"] != "Worker" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestSubmissionHandler_Mine_OmitsSubmitterName(t *testing.T) {
	stub := &stubSubmissionService{
		mineFn: func(ctx context.Context, caller domain.Caller) ([]domain.Submission, error) {
			if caller != worker {
				t.Fatalf("unexpected caller: %+v", caller)
			}
			return []domain.Submission{{ID: 1, TaskID: 10, UserID: 2, Status: domain.StatusApproved, TaskTitle: "Translate doc"}}, nil
		},
	}
	c, rec := newJSONContext(http.MethodGet, "/api/submissions/mine", "")
	c.Set(middleware.CallerKey, worker)

	if err := NewSubmissionHandler(stub).Mine(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if strings.Contains(rec.Body.String(), "user_name") {
		t.Fatalf("own listing must not carry user_name: %s", rec.Body.String())
	}
}

func TestSubmissionHandler_Review(t *testing.T) {
	stub := &stubSubmissionService{
		reviewFn: func(ctx context.Context, in ports.ReviewInput) error {
			if in.Caller != admin || in.SubmissionID != 5 || in.Status != "approved" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return nil
		},
	}
	c, rec := newJSONContext(http.MethodPut, "/api/submissions/5", `{"status":"approved"}`)
	c.SetParamNames("id")
	c.SetParamValues("5")
	c.Set(middleware.CallerKey, admin)

	if err := NewSubmissionHandler(stub).Review(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestSubmissionHandler_Review_BadInput(t *testing.T) {
	stub := &stubSubmissionService{
		reviewFn: func(ctx context.Context, in ports.ReviewInput) error {
			t.Fatalf("should not be called")
			return nil
		},
	}
	h := NewSubmissionHandler(stub)

	c, _ := newJSONContext(http.MethodPut, "/api/submissions/abc", `{"status":"approved"}`)
	c.SetParamNames("id")
	c.SetParamValues("abc")
	c.Set(middleware.CallerKey, admin)
	expectHTTPError(t, h.Review(c), http.StatusBadRequest)

	c, _ = newJSONContext(http.MethodPut, "/api/submissions/5", `{}`)
	c.SetParamNames("id")
	c.SetParamValues("5")
	c.Set(middleware.CallerKey, admin)
	expectHTTPError(t, h.Review(c), http.StatusBadRequest)
}

func TestSubmissionHandler_Review_PropagatesDomainErrors(t *testing.T) {
	for _, want := range []error{domain.ErrInvalidStatus, domain.ErrInvalidTransition, domain.ErrSubmissionNotFound, domain.ErrPermissionDenied} {
		stub := &stubSubmissionService{
			reviewFn: func(ctx context.Context, in ports.ReviewInput) error { return want },
		}
		c, _ := newJSONContext(http.MethodPut, "/api/submissions/5", `{"status":"pending"}`)
		c.SetParamNames("id")
		c.SetParamValues("5")
		c.Set(middleware.CallerKey, admin)

		if err := NewSubmissionHandler(stub).Review(c); !errors.Is(err, want) {
			t.Fatalf("expected %v, got %v", want, err)
		}
	}
}
