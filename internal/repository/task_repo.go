package repository

import (
	"context"
	"errors"
	"time"

	"taskmanager/internal/model"
	"taskmanager/pkg/metrics"
	"taskmanager/pkg/otel"
)

const tasksTable = "tasks"

// ErrTaskNotFound is returned by FindByID when no row matches.
var ErrTaskNotFound = errors.New("task not found")

// TaskRepository is the single-table task store. Every call touches at most one row,
// except List which scans the table.
type TaskRepository interface {
	// EnsureSchema creates the tasks table when it does not exist yet.
	EnsureSchema(ctx context.Context) error
	// Insert stores t and returns the id assigned by the store.
	Insert(ctx context.Context, t *model.Task) (int, error)
	FindByID(ctx context.Context, id int) (*model.Task, error)
	List(ctx context.Context) ([]model.Task, error)
	// Update writes every mutable column of t to the row with t.ID.
	Update(ctx context.Context, t *model.Task) error
	// Delete removes the row with the given id and reports how many rows went away.
	Delete(ctx context.Context, id int) (int64, error)
	Ping(ctx context.Context) error
	Close()
}

// instrument runs a query inside a tracing span and records its latency.
func instrument(ctx context.Context, system, operation, query string, fn func(context.Context) error) error {
	start := time.Now()
	err := otel.WithDBSpan(ctx, system, operation, query, fn)
	metrics.RecordDBQueryDuration(operation, tasksTable, time.Since(start))
	return err
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
