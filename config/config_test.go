package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("want defaults, got %#v", cfg)
	}
}

func TestLoad_OverlaysFileOntoDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".loxrc.toml")
	if err := os.WriteFile(path, []byte(`color = false
prompt = "lox> "
`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Color != false || cfg.Prompt != "lox> " {
		t.Fatalf("want color=false prompt=\"lox> \", got %#v", cfg)
	}
	if cfg.AllowProfiling != Default().AllowProfiling {
		t.Fatalf("fields not present in the file must keep their default, got %#v", cfg)
	}
}

func TestLoad_MalformedFileIsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".loxrc.toml")
	if err := os.WriteFile(path, []byte("this is not = [valid toml"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("want an error for malformed TOML")
	}
}
