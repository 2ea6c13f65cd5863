package testutil

import (
	"testing"
)

func clearTestDBEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"TEST_DB_HOST", "TEST_DB_PORT", "TEST_DB_USER", "TEST_DB_PASSWORD", "TEST_DB_NAME", "TEST_DB_SSL_MODE"} {
		t.Setenv(key, "")
	}
}

func TestDefaultTestDBConfig(t *testing.T) {
	t.Run("defaults to local test database port 55432", func(t *testing.T) {
		clearTestDBEnv(t)

		cfg := DefaultTestDBConfig()
		want := TestDBConfig{
			Host:     "localhost",
			Port:     "55432",
			User:     "booking",
			Password: "booking",
			DBName:   "booking_test",
			SSLMode:  "disable",
		}
		if cfg != want {
			t.Errorf("DefaultTestDBConfig() = %+v, want %+v", cfg, want)
		}
	})

	t.Run("respects TEST_DB_* environment variables", func(t *testing.T) {
		clearTestDBEnv(t)
		t.Setenv("TEST_DB_HOST", "postgres")
		t.Setenv("TEST_DB_PORT", "5432")
		t.Setenv("TEST_DB_NAME", "ci")

		cfg := DefaultTestDBConfig()
		if cfg.Host != "postgres" {
			t.Errorf("expected Host=postgres, got %s", cfg.Host)
		}
		if cfg.Port != "5432" {
			t.Errorf("expected Port=5432 (CI DB), got %s", cfg.Port)
		}
		if cfg.DBName != "ci" {
			t.Errorf("expected DBName=ci, got %s", cfg.DBName)
		}
	})
}

func TestTestDBConfigDSN(t *testing.T) {
	cfg := TestDBConfig{Host: "db", Port: "5432", User: "u", Password: "p@ss", DBName: "booking", SSLMode: "disable"}
	want := "postgres://u:p%40ss@db:5432/booking?sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}

func TestEnvBool(t *testing.T) {
	for value, want := range map[string]bool{"1": true, "TRUE": true, "yes": true, "y": true, "0": false, "": false, "off": false} {
		t.Setenv("TESTUTIL_FLAG", value)
		if got := envBool("TESTUTIL_FLAG"); got != want {
			t.Errorf("envBool(%q) = %v, want %v", value, got, want)
		}
	}
}

func TestGenerateSchemaName(t *testing.T) {
	name := generateSchemaName()
	if len(name) != len("t_")+8 || name[:2] != "t_" {
		t.Errorf("unexpected schema name %q", name)
	}
}
