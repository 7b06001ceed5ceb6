package config

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "FRONTEND_URL", "DB_PATH", "SESSION_TTL", "RETENTION_INTERVAL", "CONTENT_DIR", "LOG_LEVEL", "ALLOWED_ORIGINS"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := &Config{
		Port:              "8080",
		DBPath:            "./data/fula.db",
		SessionTTL:        720 * time.Hour,
		RetentionInterval: time.Hour,
		LogLevel:          slog.LevelInfo,
		AllowedOrigins:    []string{"*"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	if !cfg.IsDevelopment() {
		t.Error("empty FRONTEND_URL should be development")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DB_PATH", "/tmp/x.db")
	t.Setenv("SESSION_TTL", "3600")
	t.Setenv("RETENTION_INTERVAL", "5m")
	t.Setenv("CONTENT_DIR", t.TempDir())
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("FRONTEND_URL", "https://fula.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.SessionTTL != time.Hour {
		t.Errorf("SessionTTL = %v, want 1h from bare seconds", cfg.SessionTTL)
	}
	if cfg.RetentionInterval != 5*time.Minute {
		t.Errorf("RetentionInterval = %v", cfg.RetentionInterval)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v", cfg.LogLevel)
	}
	if diff := cmp.Diff([]string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins); diff != "" {
		t.Errorf("origins mismatch (-want +got):\n%s", diff)
	}
	if cfg.IsDevelopment() {
		t.Error("public FRONTEND_URL should not be development")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"PORT", ""},
		{"LOG_LEVEL", "chatty"},
		{"CONTENT_DIR", "/definitely/not/here"},
		{"ALLOWED_ORIGINS", " , "},
		{"SESSION_TTL", "-1h"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Load() with %s=%q succeeded", tt.key, tt.value)
			}
		})
	}
}
