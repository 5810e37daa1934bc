package config

import "testing"

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when JWT_SECRET is unset")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Server.Port)
	}
	if cfg.JWT.ExpireHours != 24 {
		t.Fatalf("expected 24h default expiry, got %d", cfg.JWT.ExpireHours)
	}
	if cfg.AI.TimeoutSec != 15 {
		t.Fatalf("expected 15s default AI timeout, got %d", cfg.AI.TimeoutSec)
	}
}

func TestDatabaseDSN(t *testing.T) {
	explicit := DatabaseConfig{URL: "postgres://example/db"}
	if explicit.DSN() != "postgres://example/db" {
		t.Fatalf("DATABASE_URL must win, got %q", explicit.DSN())
	}

	built := DatabaseConfig{
		Host: "db", Port: "5432", User: "app", Password: "pw", DBName: "careers", SSLMode: "disable",
	}
	want := "postgres://app:pw@db:5432/careers?sslmode=disable"
	if built.DSN() != want {
		t.Fatalf("expected %q, got %q", want, built.DSN())
	}
}
