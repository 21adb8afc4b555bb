package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/marketpulse/salescope/pkg/salescope/internalerr"
	"github.com/marketpulse/salescope/pkg/salescope/store"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "salescope.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
db: /tmp/reports.db
workers: 8
identity_policy: filename
ingest_timeout: 90s
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DB != "/tmp/reports.db" {
		t.Errorf("db = %q", cfg.DB)
	}
	if cfg.Workers != 8 {
		t.Errorf("workers = %d", cfg.Workers)
	}
	if cfg.Policy() != store.PolicyFilename {
		t.Errorf("policy = %q", cfg.IdentityPolicy)
	}
	if cfg.IngestTimeout.Std() != 90*time.Second {
		t.Errorf("timeout = %v", cfg.IngestTimeout.Std())
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `db: only.db`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Workers != 4 {
		t.Errorf("missing workers should default to 4, got %d", cfg.Workers)
	}
	if cfg.Policy() != store.PolicyContent {
		t.Errorf("missing policy should default to content, got %q", cfg.IdentityPolicy)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []string{
		"db: ''\n",
		"workers: 0\n",
		"identity_policy: nonsense\n",
		"ingest_timeout: -5s\n",
	}
	for _, content := range cases {
		path := writeConfig(t, content)
		if _, err := Load(path); !errors.Is(err, internalerr.ErrInvalidConfig) {
			t.Errorf("config %q should fail validation, got %v", content, err)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("missing config file should error")
	}
}
