package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SCORING_AI_TIMEOUT", "")
	t.Setenv("MAX_FILE_SIZE", "")
	t.Setenv("DEFAULT_LOCALE", "")
	t.Setenv("QDRANT_URL", "")

	cfg := Load()

	if cfg.Scoring.AITimeout != 120*time.Second {
		t.Errorf("unexpected AI timeout %v", cfg.Scoring.AITimeout)
	}
	if cfg.Storage.MaxFileSize != 10485760 {
		t.Errorf("unexpected max file size %d", cfg.Storage.MaxFileSize)
	}
	if cfg.Server.DefaultLocale != "vi" {
		t.Errorf("unexpected default locale %q", cfg.Server.DefaultLocale)
	}
	if cfg.RubricRetrievalEnabled() {
		t.Error("retrieval must be disabled without a Qdrant URL")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SCORING_AI_TIMEOUT", "45s")
	t.Setenv("SCORING_FALLBACK_DELAY", "not-a-duration")
	t.Setenv("WORKER_CONCURRENCY", "7")
	t.Setenv("AI_TEMPERATURE", "0.7")
	t.Setenv("LOG_JSON", "true")
	t.Setenv("QDRANT_URL", "localhost:6334")
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg := Load()

	if cfg.Scoring.AITimeout != 45*time.Second {
		t.Errorf("unexpected AI timeout %v", cfg.Scoring.AITimeout)
	}
	if cfg.Scoring.FallbackDelay != 3*time.Second {
		t.Errorf("invalid duration should fall back to the default, got %v", cfg.Scoring.FallbackDelay)
	}
	if cfg.Worker.Concurrency != 7 {
		t.Errorf("unexpected concurrency %d", cfg.Worker.Concurrency)
	}
	if cfg.AI.Temperature != 0.7 {
		t.Errorf("unexpected temperature %v", cfg.AI.Temperature)
	}
	if !cfg.Log.JSON {
		t.Error("expected JSON logging")
	}
	if !cfg.RubricRetrievalEnabled() {
		t.Error("expected retrieval to be enabled")
	}
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "jobs"}}

	want := "host=db port=5432 user=u password=p dbname=jobs sslmode=disable"
	if got := cfg.GetDatabaseDSN(); got != want {
		t.Fatalf("GetDatabaseDSN = %q, want %q", got, want)
	}
}
