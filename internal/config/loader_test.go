package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return dir
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.File != "" || cfg.Target != TargetSQL || cfg.LogMode != "dev" || cfg.Database.Port != 5432 {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadFileValues(t *testing.T) {
	dir := writeConfig(t, `
log:
  mode: prod
translate:
  target: GORM
  table: users
  columns:
    joinedAt: joined_at
database:
  host: db.internal
  port: 6543
`)
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.File == "" {
		t.Fatalf("expected config file to be recorded")
	}
	if cfg.LogMode != "prod" || cfg.Target != TargetGorm || cfg.Table != "users" {
		t.Fatalf("unexpected translate config %+v", cfg)
	}
	if cfg.Columns["joinedat"] != "joined_at" {
		t.Fatalf("expected column mapping, got %v", cfg.Columns)
	}
	if cfg.Database.Host != "db.internal" || cfg.Database.Port != 6543 || cfg.Database.User != "postgres" {
		t.Fatalf("unexpected database config %+v", cfg.Database)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := writeConfig(t, "translate:\n  table: users\n")
	t.Setenv("CRITERIACTL_TRANSLATE_TABLE", "accounts")
	t.Setenv("CRITERIACTL_DATABASE_PORT", "15432")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Table != "accounts" || cfg.Database.Port != 15432 {
		t.Fatalf("expected env overrides, got %+v", cfg)
	}
}

func TestLoadRejectsUnknownTarget(t *testing.T) {
	dir := writeConfig(t, "translate:\n  target: mongo\n")
	if _, err := Load(dir); err == nil {
		t.Fatalf("expected unknown target error")
	}
}
