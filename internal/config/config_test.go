package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"FLOWPLAN_CONFIG",
		"DATABASE_URL",
		"REDIS_URL",
		"RABBITMQ_URL",
		"DEBUG_MODE",
		"OTEL_ENABLED",
		"OTEL_EXPORTER_OTLP_ENDPOINT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/flowplan_test")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("DEBUG_MODE", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.DatabaseURL != "postgres://localhost/flowplan_test" {
		t.Errorf("database url = %q", cfg.DatabaseURL)
	}
	if cfg.RedisURL != "redis://localhost:6379" {
		t.Errorf("redis url = %q", cfg.RedisURL)
	}
	if !cfg.DebugMode {
		t.Error("debug mode should be enabled")
	}
	if cfg.RabbitMQURL != "" {
		t.Errorf("rabbitmq url should default empty, got %q", cfg.RabbitMQURL)
	}
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	clearConfigEnv(t)

	if _, err := Load(); err == nil {
		t.Error("Load should fail without DATABASE_URL")
	}
}

func TestLoadFromFile(t *testing.T) {
	clearConfigEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("database_url: postgres://filehost/flowplan\nrabbitmq_url: amqp://filehost:5672\notel_enabled: true\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("FLOWPLAN_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.DatabaseURL != "postgres://filehost/flowplan" {
		t.Errorf("database url = %q", cfg.DatabaseURL)
	}
	if cfg.RabbitMQURL != "amqp://filehost:5672" {
		t.Errorf("rabbitmq url = %q", cfg.RabbitMQURL)
	}
	if !cfg.OTELEnabled {
		t.Error("otel should be enabled from file")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	clearConfigEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("database_url: postgres://filehost/flowplan\nredis_url: redis://filehost:6379\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("FLOWPLAN_CONFIG", path)
	t.Setenv("DATABASE_URL", "postgres://envhost/flowplan")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.DatabaseURL != "postgres://envhost/flowplan" {
		t.Errorf("env must win, got %q", cfg.DatabaseURL)
	}
	if cfg.RedisURL != "redis://filehost:6379" {
		t.Errorf("file value should survive when env unset, got %q", cfg.RedisURL)
	}
}

func TestLoadRejectsUnreadableFile(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("FLOWPLAN_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("DATABASE_URL", "postgres://localhost/flowplan")

	if _, err := Load(); err == nil {
		t.Error("Load should fail when the config file cannot be read")
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		value        string
		defaultValue bool
		want         bool
	}{
		{value: "true", want: true},
		{value: "false", defaultValue: true, want: false},
		{value: "1", want: true},
		{value: "0", defaultValue: true, want: false},
		{value: "yes", want: true},
		{value: "garbage", want: false},
		{value: "", defaultValue: true, want: true},
	}

	for _, tt := range tests {
		t.Run("value "+tt.value, func(t *testing.T) {
			key := "FLOWPLAN_TEST_BOOL"
			if tt.value == "" {
				os.Unsetenv(key)
			} else {
				t.Setenv(key, tt.value)
			}

			if got := getEnvBool(key, tt.defaultValue); got != tt.want {
				t.Errorf("getEnvBool(%q, %v) = %v, want %v", tt.value, tt.defaultValue, got, tt.want)
			}
		})
	}
}
