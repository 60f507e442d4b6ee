package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return dir
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	dir := writeConfig(t, `
server:
  mode: debug
database:
  driver: sqlite
  path: test.db
jwt:
  secret: s
storage:
  type: minio
`)

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Course.TopLimit != 10 {
		t.Fatalf("top limit: want=10 got=%d", cfg.Course.TopLimit)
	}
	if cfg.Exam.PassPercentage != 80 {
		t.Fatalf("pass percentage: want=80 got=%v", cfg.Exam.PassPercentage)
	}
	if cfg.JWT.ExpireTime != 24*time.Hour {
		t.Fatalf("jwt expiry: want=24h got=%v", cfg.JWT.ExpireTime)
	}
	if cfg.JWT.CookieName != "session_token" {
		t.Fatalf("cookie name: got=%q", cfg.JWT.CookieName)
	}
	if cfg.Storage.MediaURL != "/media" {
		t.Fatalf("media url: got=%q", cfg.Storage.MediaURL)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	dir := writeConfig(t, `
database:
  driver: sqlite
jwt:
  secret: s
storage:
  type: minio
`)
	t.Setenv("DATABASE_PATH", "/tmp/override.db")

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Database.Path != "/tmp/override.db" {
		t.Fatalf("database path: got=%q", cfg.Database.Path)
	}
}

func TestValidateRejectsShortSecretInRelease(t *testing.T) {
	cfg := Default()
	cfg.Server.Mode = "release"
	cfg.JWT.Secret = "short"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for short secret in release mode")
	}
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	cfg := Default()
	cfg.Database.Driver = "oracle"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestValidateRejectsPassPercentageOutOfRange(t *testing.T) {
	cfg := Default()
	cfg.Exam.PassPercentage = 120
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for pass percentage above 100")
	}
}

func TestValidateRejectsUnknownServerMode(t *testing.T) {
	cfg := Default()
	cfg.Server.Mode = "production"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unsupported server mode")
	}
}
