package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"taskmanager/internal/model"
)

func strPtr(s string) *string { return &s }

// exerciseRepository runs the store contract against a freshly created, empty schema.
func exerciseRepository(t *testing.T, repo TaskRepository) {
	t.Helper()
	ctx := context.Background()

	if err := repo.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema twice: %v", err)
	}

	due := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	full := &model.Task{Title: "write report", Description: strPtr("quarterly"), DueDate: &due, IsCompleted: true}
	bare := &model.Task{Title: "call back"}

	fullID, err := repo.Insert(ctx, full)
	if err != nil {
		t.Fatalf("insert full: %v", err)
	}
	bareID, err := repo.Insert(ctx, bare)
	if err != nil {
		t.Fatalf("insert bare: %v", err)
	}
	if fullID <= 0 || bareID <= 0 || fullID == bareID {
		t.Fatalf("expected distinct positive ids, got %d and %d", fullID, bareID)
	}

	got, err := repo.FindByID(ctx, fullID)
	if err != nil {
		t.Fatalf("find full: %v", err)
	}
	if got.Title != "write report" || got.Description == nil || *got.Description != "quarterly" || !got.IsCompleted {
		t.Fatalf("unexpected full task %+v", got)
	}
	if got.DueDate == nil || !got.DueDate.Equal(due) {
		t.Fatalf("expected due date %v, got %v", due, got.DueDate)
	}

	got, err = repo.FindByID(ctx, bareID)
	if err != nil {
		t.Fatalf("find bare: %v", err)
	}
	if got.Description != nil || got.DueDate != nil || got.IsCompleted {
		t.Fatalf("expected nullable columns to stay empty, got %+v", got)
	}

	if _, err := repo.Insert(ctx, &model.Task{}); err == nil {
		t.Fatal("expected the store to reject an empty title")
	}

	if _, err := repo.FindByID(ctx, 9999); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}

	got.Title = "call back tomorrow"
	got.IsCompleted = true
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	updated, err := repo.FindByID(ctx, bareID)
	if err != nil {
		t.Fatalf("find updated: %v", err)
	}
	if updated.Title != "call back tomorrow" || !updated.IsCompleted {
		t.Fatalf("update not persisted: %+v", updated)
	}

	// writing back the stored values matches the row even though nothing changes
	if err := repo.Update(ctx, updated); err != nil {
		t.Fatalf("no-op update: %v", err)
	}
	unchanged, err := repo.FindByID(ctx, fullID)
	if err != nil {
		t.Fatalf("find full for no-op update: %v", err)
	}
	if err := repo.Update(ctx, unchanged); err != nil {
		t.Fatalf("no-op update with due date: %v", err)
	}

	if err := repo.Update(ctx, &model.Task{ID: 9999, Title: "ghost"}); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound on missing update, got %v", err)
	}

	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(all))
	}

	n, err := repo.Delete(ctx, fullID)
	if err != nil || n != 1 {
		t.Fatalf("delete existing: n=%d err=%v", n, err)
	}
	n, err = repo.Delete(ctx, 9999)
	if err != nil || n != 0 {
		t.Fatalf("delete missing: n=%d err=%v", n, err)
	}

	all, err = repo.List(ctx)
	if err != nil {
		t.Fatalf("list after delete: %v", err)
	}
	if len(all) != 1 || all[0].ID != bareID {
		t.Fatalf("unexpected tasks after delete: %+v", all)
	}

	if err := repo.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
}
