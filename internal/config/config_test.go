package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Dialect != "mysql" {
		t.Errorf("Dialect = %q, want mysql", cfg.Dialect)
	}
	if !cfg.EnableDrop {
		t.Error("EnableDrop should default true")
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schemadrift.toml")
	body := `
dialect = "postgres"
dsn = "postgres://localhost/app"
enable_drop = false

[logging]
level = "debug"
format = "json"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Dialect != "postgres" || cfg.DSN != "postgres://localhost/app" {
		t.Errorf("unexpected dialect/dsn: %+v", cfg)
	}
	if cfg.EnableDrop {
		t.Error("EnableDrop should have been overridden to false")
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
}

func TestLoadKeepsDefaultsForOmittedFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schemadrift.toml")
	if err := os.WriteFile(path, []byte(`dsn = "mysql://localhost/app"`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Dialect != "mysql" {
		t.Errorf("Dialect should keep default, got %q", cfg.Dialect)
	}
	if !cfg.EnableDrop {
		t.Error("EnableDrop should keep default true")
	}
}

func TestLoadRejectsUnrecognizedKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schemadrift.toml")
	if err := os.WriteFile(path, []byte(`bogus_key = "oops"`), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for an unrecognized config key")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}
