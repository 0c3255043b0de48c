// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseFlags_EnvVars(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("SESSION_SALT", "test-salt")
	t.Setenv("SESSION_TTL", "2h")

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "postgres" {
		t.Errorf("expected postgres, got %s", cfg.DatabaseType)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Errorf("expected 2h session TTL, got %v", cfg.SessionTTL)
	}
	if cfg.CookieName != DefaultCookieName {
		t.Errorf("expected default cookie name, got %s", cfg.CookieName)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("SESSION_SALT", "")

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "-session-salt", "s1"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("expected sqlite default, got %s", cfg.DatabaseType)
	}
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"missing salt", map[string]string{"SESSION_SALT": ""}, nil},
		{"postgres without url", map[string]string{"SESSION_SALT": "s", "DATABASE_URL": ""}, []string{"-t", "postgres"}},
		{"unknown database type", map[string]string{"SESSION_SALT": "s"}, []string{"-t", "mysql"}},
		{"bad ttl", map[string]string{"SESSION_SALT": "s", "SESSION_TTL": "soon"}, nil},
		{"bad port", map[string]string{"SESSION_SALT": "s", "PORT": "eighty"}, nil},
		{"bad cookie flag", map[string]string{"SESSION_SALT": "s", "COOKIE_SECURE": "maybe"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := ParseFlags(tt.args); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("POLLWISE_TEST_VALUE=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("POLLWISE_TEST_VALUE", "")
	os.Unsetenv("POLLWISE_TEST_VALUE")

	if err := LoadEnvFile(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadEnvFile() error = %v", err)
	}
	if got := os.Getenv("POLLWISE_TEST_VALUE"); got != "from-file" {
		t.Errorf("expected value from file, got %q", got)
	}
}
