package cliparse

import (
	"testing"
)

func TestParseFlagsDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_TYPE", "")

	cfg, err := ParseFlags([]string{"-d", "postgres://localhost/tehillim"})
	if err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}
	if cfg.Port != 3446 {
		t.Errorf("Expected default port 3446, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("Expected default database type sqlite, got %q", cfg.DatabaseType)
	}
}

func TestParseFlagsExplicit(t *testing.T) {
	cfg, err := ParseFlags([]string{
		"-p", "8080",
		"-d", "postgres://localhost/tehillim",
		"-t", "postgres",
		"-text-api", "http://localhost:9999/api",
	})
	if err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("Expected port 8080, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "postgres" {
		t.Errorf("Expected postgres, got %q", cfg.DatabaseType)
	}
	if cfg.TextAPIBaseURL != "http://localhost:9999/api" {
		t.Errorf("Expected text API base URL, got %q", cfg.TextAPIBaseURL)
	}
}

func TestParseFlagsEnvFallback(t *testing.T) {
	t.Setenv("PORT", "9001")
	t.Setenv("DATABASE_URL", "file:env.db")
	t.Setenv("DATABASE_TYPE", "sqlite")
	t.Setenv("TEXT_API_BASE_URL", "http://example.test/api")

	cfg, err := ParseFlags(nil)
	if err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}
	if cfg.Port != 9001 {
		t.Errorf("Expected port from env, got %d", cfg.Port)
	}
	if cfg.DatabaseURL != "file:env.db" {
		t.Errorf("Expected database URL from env, got %q", cfg.DatabaseURL)
	}
	if cfg.TextAPIBaseURL != "http://example.test/api" {
		t.Errorf("Expected text API URL from env, got %q", cfg.TextAPIBaseURL)
	}
}

func TestParseFlagsMissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	if _, err := ParseFlags(nil); err == nil {
		t.Error("Expected an error without a database URL")
	}
}

func TestParseFlagsBadDatabaseType(t *testing.T) {
	if _, err := ParseFlags([]string{"-d", "file:x.db", "-t", "mysql"}); err == nil {
		t.Error("Expected an error for unsupported database type")
	}
}

func TestParseFlagsBadPortEnv(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	t.Setenv("DATABASE_URL", "file:x.db")

	if _, err := ParseFlags(nil); err == nil {
		t.Error("Expected an error for a non-numeric PORT")
	}
}
