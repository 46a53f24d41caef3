package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/99minutos/microtasks/internal/core/domain"
)

// CreateTaskInput carries the fields needed to publish a task.
type CreateTaskInput struct {
	Caller      domain.Caller
	Title       string
	Description string
	Reward      decimal.Decimal
}

// TaskService defines use-case operations for the task catalog.
type TaskService interface {
	CreateTask(ctx context.Context, input CreateTaskInput) (int64, error)
	ListTasks(ctx context.Context) ([]domain.Task, error)
}
