package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoadDefaultsForDevProfile(t *testing.T) {
	lookup := mapLookup(map[string]string{})
	cfg, err := Load("tengeql-api", lookup)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Profile != ProfileDev {
		t.Fatalf("Profile = %q, want %q", cfg.Profile, ProfileDev)
	}
	if cfg.HTTP.Address != ":8080" {
		t.Fatalf("HTTP.Address = %q", cfg.HTTP.Address)
	}
	if cfg.Observability.LogLevel != slog.LevelDebug {
		t.Fatalf("LogLevel = %v", cfg.Observability.LogLevel)
	}
	if cfg.Catalog.MaxOpenConns != 20 {
		t.Fatalf("Catalog.MaxOpenConns = %d", cfg.Catalog.MaxOpenConns)
	}
	if cfg.ObjectStore.Endpoint != "localhost:9000" {
		t.Fatalf("ObjectStore.Endpoint = %q", cfg.ObjectStore.Endpoint)
	}
	if cfg.Dataset.Prefix != "datasets/transactions" {
		t.Fatalf("Dataset.Prefix = %q", cfg.Dataset.Prefix)
	}
	if cfg.Dataset.DefaultRowLimit != 100 {
		t.Fatalf("Dataset.DefaultRowLimit = %d", cfg.Dataset.DefaultRowLimit)
	}
	if cfg.AI.FallbackEnabled {
		t.Fatal("AI.FallbackEnabled should default to false")
	}
	if cfg.AI.Model != "gpt-4o-mini" {
		t.Fatalf("AI.Model = %q", cfg.AI.Model)
	}
	if cfg.Classifier.Enabled {
		t.Fatal("Classifier.Enabled should default to false")
	}
	if cfg.Classifier.Model != "facebook/bart-large-mnli" {
		t.Fatalf("Classifier.Model = %q", cfg.Classifier.Model)
	}
	if cfg.Loader.Rows != 50000 {
		t.Fatalf("Loader.Rows = %d", cfg.Loader.Rows)
	}
	if !cfg.Loader.Replace {
		t.Fatal("Loader.Replace should default to true")
	}
}

func TestLoadProdProfileDefaults(t *testing.T) {
	lookup := mapLookup(map[string]string{"TENGEQL_PROFILE": "prod"})
	cfg, err := Load("tengeql-api", lookup)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Profile != ProfileProd {
		t.Fatalf("Profile = %q, want %q", cfg.Profile, ProfileProd)
	}
	if cfg.Observability.LogLevel != slog.LevelInfo {
		t.Fatalf("LogLevel = %v", cfg.Observability.LogLevel)
	}
	if !cfg.ObjectStore.UseSSL {
		t.Fatal("ObjectStore.UseSSL should default to true in prod")
	}
	if cfg.ObjectStore.AutoCreateBucket {
		t.Fatal("ObjectStore.AutoCreateBucket should default to false in prod")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	lookup := mapLookup(map[string]string{
		"TENGEQL_HTTP_ADDR":                 ":9090",
		"TENGEQL_CATALOG_DSN":               "postgres://case:1234@db:5432/transactions",
		"TENGEQL_DATASET_DEFAULT_ROW_LIMIT": "250",
		"TENGEQL_AI_FALLBACK_ENABLED":       "true",
		"TENGEQL_AI_API_KEY":                "sk-test",
		"TENGEQL_AI_TIMEOUT":                "5s",
		"TENGEQL_CLASSIFIER_ENABLED":        "true",
		"TENGEQL_LOADER_SEED":               "42",
		"TENGEQL_LOG_LEVEL":                 "error",
	})
	cfg, err := Load("tengeql-api", lookup)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.HTTP.Address != ":9090" {
		t.Fatalf("HTTP.Address = %q", cfg.HTTP.Address)
	}
	if cfg.Catalog.DSN != "postgres://case:1234@db:5432/transactions" {
		t.Fatalf("Catalog.DSN = %q", cfg.Catalog.DSN)
	}
	if cfg.Dataset.DefaultRowLimit != 250 {
		t.Fatalf("Dataset.DefaultRowLimit = %d", cfg.Dataset.DefaultRowLimit)
	}
	if !cfg.AI.FallbackEnabled {
		t.Fatal("AI.FallbackEnabled should be true")
	}
	if cfg.AI.APIKey != "sk-test" {
		t.Fatalf("AI.APIKey = %q", cfg.AI.APIKey)
	}
	if cfg.AI.Timeout != 5*time.Second {
		t.Fatalf("AI.Timeout = %v", cfg.AI.Timeout)
	}
	if !cfg.Classifier.Enabled {
		t.Fatal("Classifier.Enabled should be true")
	}
	if cfg.Loader.Seed != 42 {
		t.Fatalf("Loader.Seed = %d", cfg.Loader.Seed)
	}
	if cfg.Observability.LogLevel != slog.LevelError {
		t.Fatalf("LogLevel = %v", cfg.Observability.LogLevel)
	}
}

func TestLoadRejectsInvalidProfile(t *testing.T) {
	lookup := mapLookup(map[string]string{"TENGEQL_PROFILE": "staging"})
	if _, err := Load("tengeql-api", lookup); err == nil {
		t.Fatal("expected error for invalid profile")
	}
}

func TestLoadRejectsInvalidDuration(t *testing.T) {
	lookup := mapLookup(map[string]string{"TENGEQL_HTTP_READ_TIMEOUT": "soon"})
	if _, err := Load("tengeql-api", lookup); err == nil {
		t.Fatal("expected error for invalid duration")
	}
}

func TestLoadRejectsNonPositiveRowLimit(t *testing.T) {
	lookup := mapLookup(map[string]string{"TENGEQL_DATASET_DEFAULT_ROW_LIMIT": "0"})
	if _, err := Load("tengeql-api", lookup); err == nil {
		t.Fatal("expected error for zero row limit")
	}
}

func mapLookup(values map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		value, ok := values[key]
		return value, ok
	}
}
