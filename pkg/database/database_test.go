package database

import (
	"onlinecourse_backend/internal/config"
	"onlinecourse_backend/internal/model"
	"path/filepath"
	"testing"
)

func TestDialectorRejectsUnknownDriver(t *testing.T) {
	if _, err := Dialector(&config.DatabaseConfig{Driver: "oracle"}); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestDialectorNames(t *testing.T) {
	cases := map[string]string{
		"mysql":    "mysql",
		"postgres": "postgres",
		"sqlite":   "sqlite",
	}
	for driver, want := range cases {
		cfg := &config.DatabaseConfig{Driver: driver, Path: filepath.Join(t.TempDir(), "x.db")}
		d, err := Dialector(cfg)
		if err != nil {
			t.Fatalf("Dialector(%s): %v", driver, err)
		}
		if d.Name() != want {
			t.Fatalf("Dialector(%s): want=%s got=%s", driver, want, d.Name())
		}
	}
}

func TestMigrateAndEnsureAdmin(t *testing.T) {
	cfg := &config.DatabaseConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "app.db")}
	db, err := InitDB(cfg, "release")
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	admin := &config.AdminConfig{Username: "root", Password: "pw123456"}
	if err := EnsureAdmin(db, admin); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}
	if err := EnsureAdmin(db, admin); err != nil {
		t.Fatalf("EnsureAdmin second call: %v", err)
	}

	var users []model.User
	if err := db.Where("username = ?", "root").Find(&users).Error; err != nil {
		t.Fatalf("query users: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("admin users: want=1 got=%d", len(users))
	}
	if !users[0].IsStaff() {
		t.Fatalf("admin role: got=%q", users[0].Role)
	}
}
