package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeBase(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "base.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write base.yaml: %v", err)
	}
	return dir
}

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("CONFIG_ENV", "local")
	dir := writeBase(t, "log:\n  level: debug\n")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DB.Driver != "sqlite" || cfg.DB.Path != ":memory:" {
		t.Fatalf("expected in-memory sqlite default, got %+v", cfg.DB)
	}
	if cfg.Server.Port != ":8080" || cfg.Server.BasePath != "/TaskManager" || cfg.Server.ShutdownTimeout != 30*time.Second {
		t.Fatalf("unexpected server defaults %+v", cfg.Server)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("expected log level from file, got %q", cfg.Log.Level)
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("CONFIG_ENV", "local")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "pg")
	t.Setenv("SERVER_PORT", ":9090")
	dir := writeBase(t, "db:\n  driver: sqlite\n  port: 5432\n")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DB.Driver != "postgres" || cfg.DB.Host != "pg" || cfg.DB.Port != 5432 {
		t.Fatalf("unexpected db config %+v", cfg.DB)
	}
	if cfg.Server.Port != ":9090" {
		t.Fatalf("unexpected port %q", cfg.Server.Port)
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("CONFIG_ENV", "local")
	dir := writeBase(t, "db:\n  driver: oracle\n")

	if _, err := Load(dir); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}
