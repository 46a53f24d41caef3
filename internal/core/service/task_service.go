package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/99minutos/microtasks/internal/core/domain"
	"github.com/99minutos/microtasks/internal/core/ports"
)

// maxReward is the largest value the tasks.reward NUMERIC(12,2) column holds.
var maxReward = decimal.RequireFromString("9999999999.99")

type TaskService struct {
	repo   ports.TaskRepository
	logger zerolog.Logger
}

func NewTaskService(repo ports.TaskRepository, logger zerolog.Logger) *TaskService {
	return &TaskService{repo: repo, logger: logger}
}

// CreateTask publishes a new task. Only admins may publish; the check runs
// before any store access.
func (s *TaskService) CreateTask(ctx context.Context, in ports.CreateTaskInput) (int64, error) {
	if err := domain.CanPublishTask(in.Caller); err != nil {
		return 0, err
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return 0, fmt.Errorf("%w: title is required", domain.ErrInvalidTask)
	}
	reward := in.Reward.Round(2)
	if reward.IsNegative() {
		return 0, fmt.Errorf("%w: reward must not be negative", domain.ErrInvalidTask)
	}
	if reward.GreaterThan(maxReward) {
		return 0, fmt.Errorf("%w: reward must not exceed %s", domain.ErrInvalidTask, maxReward.StringFixed(2))
	}

	task := &domain.Task{
		Title:       title,
		Description: in.Description,
		Reward:      reward,
	}

	id, err := s.repo.Create(ctx, task)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create task")
		return 0, err
	}

	s.logger.Info().Int64("task_id", id).Int64("admin_id", in.Caller.ID).Msg("task published")
	return id, nil
}

// ListTasks returns every task, newest first. No filtering applies.
func (s *TaskService) ListTasks(ctx context.Context) ([]domain.Task, error) {
	return s.repo.List(ctx)
}
