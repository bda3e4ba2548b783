package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "ember.toml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
[store]
path = "cache/programs.db"

[log]
verbosity = 2
`)

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Store.Path != "cache/programs.db" {
		t.Errorf("Store.Path = %q, want cache/programs.db", c.Store.Path)
	}
	if c.Log.Verbosity != 2 {
		t.Errorf("Log.Verbosity = %d, want 2", c.Log.Verbosity)
	}
	want := filepath.Join(c.Dir, "cache", "programs.db")
	if c.StorePath() != want {
		t.Errorf("StorePath() = %q, want %q", c.StorePath(), want)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "")

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Store.Path != filepath.Join(".ember", "programs.db") {
		t.Errorf("Store.Path = %q, want default", c.Store.Path)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "[store\npath = ")
	if _, err := Load(dir); err == nil {
		t.Error("expected parse error")
	}
}

func TestFindAndLoadWalksUp(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "[log]\nverbosity = 1\n")

	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	c, err := FindAndLoad(nested)
	if err != nil {
		t.Fatalf("FindAndLoad: %v", err)
	}
	if c == nil {
		t.Fatal("config not found from nested directory")
	}
	if c.Log.Verbosity != 1 {
		t.Errorf("Log.Verbosity = %d, want 1", c.Log.Verbosity)
	}
}

func TestFindAndLoadMissing(t *testing.T) {
	c, err := FindAndLoad(t.TempDir())
	if err != nil {
		t.Fatalf("FindAndLoad: %v", err)
	}
	if c != nil {
		t.Errorf("expected nil config, got %+v", c)
	}
}
