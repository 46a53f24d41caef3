package ports

import (
	"context"

	"github.com/99minutos/microtasks/internal/core/domain"
)

// TaskRepository defines persistence operations for the task catalog.
type TaskRepository interface {
	Create(ctx context.Context, t *domain.Task) (int64, error)
	// List returns all tasks, newest first.
	List(ctx context.Context) ([]domain.Task, error)
}
