package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"taskmanager/internal/model"
	"taskmanager/pkg/db"
)

var sqlSchemas = map[string]string{
	db.DriverSQLite: `
        CREATE TABLE IF NOT EXISTS tasks (
            id           INTEGER PRIMARY KEY AUTOINCREMENT,
            title        TEXT NOT NULL CHECK (title <> ''),
            description  TEXT NULL,
            due_date     DATETIME NULL,
            is_completed BOOLEAN NOT NULL DEFAULT 0
        )
    `,
	db.DriverMySQL: `
        CREATE TABLE IF NOT EXISTS tasks (
            id           INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
            title        TEXT NOT NULL CHECK (title <> ''),
            description  TEXT NULL,
            due_date     DATETIME(6) NULL,
            is_completed BOOLEAN NOT NULL DEFAULT FALSE
        )
    `,
}

// SQLTaskRepository stores tasks through database/sql. It serves the sqlite and mysql
// drivers, which share the "?" placeholder syntax and LastInsertId.
type SQLTaskRepository struct {
	db     *sql.DB
	driver string
	slow   *db.SlowQueryTracer
	logger *zap.Logger
}

// NewSQLTaskRepository wraps sqlDB for the given driver. Queries slower than
// slowThreshold are reported as slow queries; zero selects the default threshold.
func NewSQLTaskRepository(sqlDB *sql.DB, driver string, slowThreshold time.Duration, logger *zap.Logger) (*SQLTaskRepository, error) {
	if _, ok := sqlSchemas[driver]; !ok {
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}
	return &SQLTaskRepository{
		db:     sqlDB,
		driver: driver,
		slow:   db.NewSlowQueryTracer(logger, slowThreshold),
		logger: logger,
	}, nil
}

// run instruments fn and reports it when it exceeds the slow-query threshold.
func (r *SQLTaskRepository) run(ctx context.Context, operation, query string, fn func(context.Context) error) error {
	start := time.Now()
	err := instrument(ctx, r.driver, operation, query, fn)
	r.slow.Observe(query, time.Since(start), r.driver+" "+operation)
	return err
}

func (r *SQLTaskRepository) EnsureSchema(ctx context.Context) error {
	query := sqlSchemas[r.driver]
	err := r.run(ctx, "create_table", query, func(ctx context.Context) error {
		_, err := r.db.ExecContext(ctx, query)
		return err
	})
	if err != nil {
		r.logger.Error("Failed to ensure tasks schema", zap.String("driver", r.driver), zap.Error(err))
		return fmt.Errorf("ensure schema: %w", err)
	}
	r.logger.Info("Tasks schema ready", zap.String("driver", r.driver))
	return nil
}

func (r *SQLTaskRepository) Insert(ctx context.Context, t *model.Task) (int, error) {
	r.logger.Debug("Inserting task", zap.String("title", t.Title))
	query := `
        INSERT INTO tasks (title, description, due_date, is_completed)
        VALUES (?, ?, ?, ?)
    `
	var id int64
	err := r.run(ctx, "insert", query, func(ctx context.Context) error {
		res, err := r.db.ExecContext(ctx, query,
			t.Title,
			nullString(t.Description),
			nullTime(t.DueDate),
			t.IsCompleted,
		)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		r.logger.Error("Failed to insert task", zap.Error(err), zap.String("title", t.Title))
		return 0, fmt.Errorf("insert task: %w", err)
	}
	r.logger.Info("Task inserted successfully", zap.Int64("task_id", id))
	return int(id), nil
}

func (r *SQLTaskRepository) FindByID(ctx context.Context, id int) (*model.Task, error) {
	r.logger.Debug("Finding task", zap.Int("task_id", id))
	query := `
        SELECT id, title, description, due_date, is_completed
        FROM tasks
        WHERE id = ?
    `
	var t *model.Task
	err := r.run(ctx, "select", query, func(ctx context.Context) error {
		var err error
		t, err = scanTask(r.db.QueryRowContext(ctx, query, id))
		return err
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		r.logger.Error("Failed to find task", zap.Error(err), zap.Int("task_id", id))
		return nil, fmt.Errorf("find task %d: %w", id, err)
	}
	return t, nil
}

func (r *SQLTaskRepository) List(ctx context.Context) ([]model.Task, error) {
	r.logger.Debug("Listing tasks")
	query := `
        SELECT id, title, description, due_date, is_completed
        FROM tasks
    `
	tasks := []model.Task{}
	err := r.run(ctx, "select", query, func(ctx context.Context) error {
		rows, err := r.db.QueryContext(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			t, err := scanTask(rows)
			if err != nil {
				return err
			}
			tasks = append(tasks, *t)
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

func (r *SQLTaskRepository) Update(ctx context.Context, t *model.Task) error {
	r.logger.Debug("Updating task", zap.Int("task_id", t.ID))
	query := `
        UPDATE tasks
        SET title = ?, description = ?, due_date = ?, is_completed = ?
        WHERE id = ?
    `
	var rowsAffected int64
	err := r.run(ctx, "update", query, func(ctx context.Context) error {
		res, err := r.db.ExecContext(ctx, query,
			t.Title,
			nullString(t.Description),
			nullTime(t.DueDate),
			t.IsCompleted,
			t.ID,
		)
		if err != nil {
			return err
		}
		rowsAffected, err = res.RowsAffected()
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

func (r *SQLTaskRepository) Delete(ctx context.Context, id int) (int64, error) {
	r.logger.Debug("Deleting task", zap.Int("task_id", id))
	query := `DELETE FROM tasks WHERE id = ?`
	var rowsAffected int64
	err := r.run(ctx, "delete", query, func(ctx context.Context) error {
		res, err := r.db.ExecContext(ctx, query, id)
		if err != nil {
			return err
		}
		rowsAffected, err = res.RowsAffected()
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

func (r *SQLTaskRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLTaskRepository) Close() {
	if err := r.db.Close(); err != nil {
		r.logger.Warn("Failed to close database", zap.Error(err))
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*model.Task, error) {
	var (
		t           model.Task
		description sql.NullString
		dueDate     sql.NullTime
	)
	if err := row.Scan(&t.ID, &t.Title, &description, &dueDate, &t.IsCompleted); err != nil {
		return nil, err
	}
	if description.Valid {
		t.Description = &description.String
	}
	if dueDate.Valid {
		t.DueDate = utcPtr(&dueDate.Time)
	}
	return &t, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
