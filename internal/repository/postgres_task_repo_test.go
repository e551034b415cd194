package repository

import (
	"context"
	"os/exec"
	"testing"

	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"go.uber.org/zap"

	"taskmanager/pkg/config"
	"taskmanager/pkg/db"
)

// dockerAvailable reports whether a Docker daemon is reachable; testcontainers
// panics instead of returning an error when it is not.
func dockerAvailable() bool {
	return exec.Command("docker", "info").Run() == nil
}

func newPostgresRepository(t *testing.T) *PostgresTaskRepository {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping PostgreSQL integration test in short mode")
	}
	if !dockerAvailable() {
		t.Skip("Docker not available, skipping PostgreSQL integration tests")
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("taskmanager"),
		postgres.WithUsername("taskmanager"),
		postgres.WithPassword("taskmanager"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Skipf("failed to start PostgreSQL container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}

	pool, err := db.NewConnectionFromDSN(dsn, config.DBConfig{Driver: db.DriverPostgres, MaxConns: 4}, zap.NewNop())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	repo := NewPostgresTaskRepository(pool, zap.NewNop())
	t.Cleanup(repo.Close)

	if err := repo.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return repo
}

func TestPostgresTaskRepository(t *testing.T) {
	exerciseRepository(t, newPostgresRepository(t))
}
