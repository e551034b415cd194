package repository

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"taskmanager/internal/model"
	"taskmanager/pkg/config"
	"taskmanager/pkg/db"
)

func newSQLiteRepository(t *testing.T) *SQLTaskRepository {
	t.Helper()
	return newSQLiteRepositoryWith(t, 0, zap.NewNop())
}

func newSQLiteRepositoryWith(t *testing.T, slowThreshold time.Duration, logger *zap.Logger) *SQLTaskRepository {
	t.Helper()
	sqlDB, err := db.OpenSQL(config.DBConfig{Driver: db.DriverSQLite, Path: db.MemoryPath}, zap.NewNop())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	repo, err := NewSQLTaskRepository(sqlDB, db.DriverSQLite, slowThreshold, logger)
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	t.Cleanup(repo.Close)

	if err := repo.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return repo
}

func TestSQLiteTaskRepository(t *testing.T) {
	exerciseRepository(t, newSQLiteRepository(t))
}

func TestSQLiteRejectsEmptyTitle(t *testing.T) {
	repo := newSQLiteRepository(t)
	if _, err := repo.Insert(context.Background(), &model.Task{}); err == nil {
		t.Fatal("expected check constraint to reject empty title")
	}
}

func TestNewSQLTaskRepositoryRejectsPostgres(t *testing.T) {
	if _, err := NewSQLTaskRepository(nil, db.DriverPostgres, 0, zap.NewNop()); err == nil {
		t.Fatal("expected error for postgres driver")
	}
}

func TestSQLTaskRepositoryReportsSlowQueries(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	repo := newSQLiteRepositoryWith(t, time.Nanosecond, zap.New(core))

	if _, err := repo.Insert(context.Background(), &model.Task{Title: "slow"}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	entries := logs.FilterMessage("slow-query").All()
	if len(entries) == 0 {
		t.Fatal("expected slow-query log for insert")
	}
	last := entries[len(entries)-1].ContextMap()
	if last["command_tag"] != "sqlite insert" {
		t.Fatalf("unexpected command tag %v", last["command_tag"])
	}
}

func TestSQLTaskRepositoryIgnoresFastQueries(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	repo := newSQLiteRepositoryWith(t, time.Hour, zap.New(core))

	if _, err := repo.List(context.Background()); err != nil {
		t.Fatalf("list: %v", err)
	}
	if n := logs.FilterMessage("slow-query").Len(); n != 0 {
		t.Fatalf("expected no slow-query logs, got %d", n)
	}
}
