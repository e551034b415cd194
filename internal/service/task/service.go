package task

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"taskmanager/internal/model"
	"taskmanager/internal/repository"
	"taskmanager/pkg/logger"
	"taskmanager/pkg/metrics"
)

type Service struct {
	repo   repository.TaskRepository
	logger *zap.Logger
}

func NewService(repo repository.TaskRepository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// CreateTask validates t and stores it. The returned task carries the id assigned by the store.
func (s *Service) CreateTask(ctx context.Context, t *model.Task) (created *model.Task, err error) {
	defer func() { metrics.IncrementTaskOperation("create", resultLabel(err)) }()

	if t == nil {
		return nil, fmt.Errorf("%w: task is required", ErrInvalidArgument)
	}
	if t.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidArgument)
	}

	created = &model.Task{
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		IsCompleted: t.IsCompleted,
	}
	id, err := s.repo.Insert(ctx, created)
	if err != nil {
		return nil, err
	}
	created.ID = id

	logger.WithTrace(ctx, s.logger).Info("Task created", zap.Int("task_id", id))
	return created, nil
}

// GetTask returns the task with the given id, or nil when there is none.
func (s *Service) GetTask(ctx context.Context, id int) (t *model.Task, err error) {
	defer func() { metrics.IncrementTaskOperation("get", resultLabel(err)) }()

	t, err = s.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrTaskNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) GetAllTasks(ctx context.Context) (tasks []model.Task, err error) {
	defer func() { metrics.IncrementTaskOperation("list", resultLabel(err)) }()

	tasks, err = s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

// UpdateTask merges t into the stored task with the same id. Title and description
// overwrite only when non-empty, the due date only when set. The completion flag is
// always taken from t.
func (s *Service) UpdateTask(ctx context.Context, t *model.Task) (updated *model.Task, err error) {
	defer func() { metrics.IncrementTaskOperation("update", resultLabel(err)) }()

	if t == nil {
		return nil, fmt.Errorf("%w: task is required", ErrInvalidArgument)
	}

	existing, err := s.repo.FindByID(ctx, t.ID)
	if errors.Is(err, repository.ErrTaskNotFound) {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, t.ID)
	}
	if err != nil {
		return nil, err
	}

	if t.Title != "" {
		existing.Title = t.Title
	}
	if t.Description != nil && *t.Description != "" {
		existing.Description = t.Description
	}
	if t.DueDate != nil {
		existing.DueDate = t.DueDate
	}
	if t.IsCompleted != existing.IsCompleted {
		existing.IsCompleted = t.IsCompleted
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrNotFound, t.ID)
		}
		return nil, err
	}

	logger.WithTrace(ctx, s.logger).Info("Task updated", zap.Int("task_id", existing.ID))
	return existing, nil
}

// DeleteTask removes the task with the given id. Unknown ids are not an error.
func (s *Service) DeleteTask(ctx context.Context, id int) (err error) {
	defer func() { metrics.IncrementTaskOperation("delete", resultLabel(err)) }()

	n, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		logger.WithTrace(ctx, s.logger).Debug("Delete of unknown task ignored", zap.Int("task_id", id))
	}
	return nil
}
