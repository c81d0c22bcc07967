package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_EmbeddedDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Source != SourceDemo {
		t.Errorf("default source = %q, want demo", cfg.Source)
	}
	if cfg.Interval() != 30*time.Second {
		t.Errorf("default interval = %v, want 30s", cfg.Interval())
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "source: backend\nendpoint: http://graph.internal/api/graph\ninterval_seconds: 10\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Source != SourceBackend || cfg.Endpoint != "http://graph.internal/api/graph" {
		t.Errorf("file override not applied: %+v", cfg)
	}
	if cfg.IntervalSeconds != 10 {
		t.Errorf("interval = %d, want 10", cfg.IntervalSeconds)
	}
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("TOPOMAP_SOURCE", "aws")
	t.Setenv("TOPOMAP_INTERVAL_SECONDS", "45")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Source != SourceAWS {
		t.Errorf("env source not applied: %q", cfg.Source)
	}
	if cfg.IntervalSeconds != 45 {
		t.Errorf("env interval not applied: %d", cfg.IntervalSeconds)
	}
}

func TestLoad_RejectsInvalid(t *testing.T) {
	t.Setenv("TOPOMAP_SOURCE", "carrier-pigeon")
	if _, err := Load(""); err == nil {
		t.Error("expected error for unknown source")
	}

	t.Setenv("TOPOMAP_SOURCE", "backend")
	t.Setenv("TOPOMAP_ENDPOINT", "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("endpoint: \"\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for backend source without endpoint")
	}
}
