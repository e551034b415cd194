package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"taskmanager/internal/model"
)

const postgresSystem = "postgresql"

type PostgresTaskRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgresTaskRepository(db *pgxpool.Pool, logger *zap.Logger) *PostgresTaskRepository {
	return &PostgresTaskRepository{db: db, logger: logger}
}

func (r *PostgresTaskRepository) EnsureSchema(ctx context.Context) error {
	query := `
        CREATE TABLE IF NOT EXISTS tasks (
            id           SERIAL PRIMARY KEY,
            title        TEXT NOT NULL CHECK (title <> ''),
            description  TEXT NULL,
            due_date     TIMESTAMPTZ NULL,
            is_completed BOOLEAN NOT NULL DEFAULT FALSE
        )
    `
	err := instrument(ctx, postgresSystem, "create_table", query, func(ctx context.Context) error {
		_, err := r.db.Exec(ctx, query)
		return err
	})
	if err != nil {
		r.logger.Error("Failed to ensure tasks schema", zap.Error(err))
		return fmt.Errorf("ensure schema: %w", err)
	}
	r.logger.Info("Tasks schema ready")
	return nil
}

func (r *PostgresTaskRepository) Insert(ctx context.Context, t *model.Task) (int, error) {
	r.logger.Debug("Inserting task", zap.String("title", t.Title))
	query := `
        INSERT INTO tasks (title, description, due_date, is_completed)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `
	var id int
	err := instrument(ctx, postgresSystem, "insert", query, func(ctx context.Context) error {
		return r.db.QueryRow(ctx, query,
			t.Title,
			t.Description,
			utcPtr(t.DueDate),
			t.IsCompleted,
		).Scan(&id)
	})
	if err != nil {
		r.logger.Error("Failed to insert task", zap.Error(err), zap.String("title", t.Title))
		return 0, fmt.Errorf("insert task: %w", err)
	}
	r.logger.Info("Task inserted successfully", zap.Int("task_id", id))
	return id, nil
}

func (r *PostgresTaskRepository) FindByID(ctx context.Context, id int) (*model.Task, error) {
	r.logger.Debug("Finding task", zap.Int("task_id", id))
	query := `
        SELECT id, title, description, due_date, is_completed
        FROM tasks
        WHERE id = $1
    `
	var t model.Task
	err := instrument(ctx, postgresSystem, "select", query, func(ctx context.Context) error {
		return r.db.QueryRow(ctx, query, id).Scan(
			&t.ID,
			&t.Title,
			&t.Description,
			&t.DueDate,
			&t.IsCompleted,
		)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		r.logger.Error("Failed to find task", zap.Error(err), zap.Int("task_id", id))
		return nil, fmt.Errorf("find task %d: %w", id, err)
	}
	t.DueDate = utcPtr(t.DueDate)
	return &t, nil
}

func (r *PostgresTaskRepository) List(ctx context.Context) ([]model.Task, error) {
	r.logger.Debug("Listing tasks")
	query := `
        SELECT id, title, description, due_date, is_completed
        FROM tasks
    `
	tasks := []model.Task{}
	err := instrument(ctx, postgresSystem, "select", query, func(ctx context.Context) error {
		rows, err := r.db.Query(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var t model.Task
			if err := rows.Scan(
				&t.ID,
				&t.Title,
				&t.Description,
				&t.DueDate,
				&t.IsCompleted,
			); err != nil {
				return err
			}
			t.DueDate = utcPtr(t.DueDate)
			tasks = append(tasks, t)
		}
		return rows.Err()
	})
	if err != nil {
		r.logger.Error("Failed to list tasks", zap.Error(err))
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	r.logger.Info("Tasks listed successfully", zap.Int("count", len(tasks)))
	return tasks, nil
}

func (r *PostgresTaskRepository) Update(ctx context.Context, t *model.Task) error {
	r.logger.Debug("Updating task", zap.Int("task_id", t.ID))
	query := `
        UPDATE tasks
        SET title = $2, description = $3, due_date = $4, is_completed = $5
        WHERE id = $1
    `
	var rowsAffected int64
	err := instrument(ctx, postgresSystem, "update", query, func(ctx context.Context) error {
		tag, err := r.db.Exec(ctx, query,
			t.ID,
			t.Title,
			t.Description,
			utcPtr(t.DueDate),
			t.IsCompleted,
		)
		rowsAffected = tag.RowsAffected()
		return err
	})
	if err != nil {
		r.logger.Error("Failed to update task", zap.Error(err), zap.Int("task_id", t.ID))
		return fmt.Errorf("update task %d: %w", t.ID, err)
	}
	if rowsAffected == 0 {
		return ErrTaskNotFound
	}
	r.logger.Info("Task updated", zap.Int("task_id", t.ID))
	return nil
}

func (r *PostgresTaskRepository) Delete(ctx context.Context, id int) (int64, error) {
	r.logger.Debug("Deleting task", zap.Int("task_id", id))
	query := `DELETE FROM tasks WHERE id = $1`
	var rowsAffected int64
	err := instrument(ctx, postgresSystem, "delete", query, func(ctx context.Context) error {
		tag, err := r.db.Exec(ctx, query, id)
		rowsAffected = tag.RowsAffected()
		return err
	})
	if err != nil {
		r.logger.Error("Failed to delete task", zap.Error(err), zap.Int("task_id", id))
		return 0, fmt.Errorf("delete task %d: %w", id, err)
	}
	r.logger.Info("Task delete executed",
		zap.Int("task_id", id),
		zap.Int64("rows_affected", rowsAffected),
	)
	return rowsAffected, nil
}

func (r *PostgresTaskRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func (r *PostgresTaskRepository) Close() {
	r.db.Close()
}
