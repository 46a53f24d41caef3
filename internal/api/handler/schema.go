package handler

import (
	"time"

	"github.com/shopspring/decimal"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// --- Tasks ---

type createTaskRequest struct {
	Title       string          `json:"title"       validate:"required"`
	Description string          `json:"description"`
	Reward      decimal.Decimal `json:"reward"      swaggertype:"number"`
}

type createdResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

type taskResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Reward      float64   `json:"reward"`
	CreatedAt   time.Time `json:"created_at"`
}

// --- Submissions ---

type createSubmissionRequest struct {
	TaskID   int64  `json:"taskId"   validate:"required,gt=0"`
	Evidence string `json:"evidence"`
}

type createSubmissionResponse struct {
	Message  string `json:"message"`
	ID       int64  `json:"id"`
	Replayed bool   `json:"replayed,omitempty"`
}

type reviewSubmissionRequest struct {
	Status string `json:"status" validate:"required"`
}

type submissionResponse struct {
	ID         int64      `json:"id"`
	TaskID     int64      `json:"task_id"`
	UserID     int64      `json:"user_id"`
	Evidence   string     `json:"evidence"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
	TaskTitle  string     `json:"task_title"`
	UserName   string     `json:"user_name,omitempty"`
}
