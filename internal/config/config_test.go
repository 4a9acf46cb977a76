package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadOrCreateWritesDefaults(t *testing.T) {
	t.Setenv("DAFTAR_URL", "https://example.supabase.co")
	t.Setenv("DAFTAR_ANON_KEY", "anon-key")

	path := filepath.Join(t.TempDir(), DefaultConfigFileName)
	cfg, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if cfg.DefaultSort != "latest" {
		t.Errorf("DefaultSort = %q", cfg.DefaultSort)
	}
	if cfg.Keys.Add != "a" || cfg.Keys.Search != "/" {
		t.Errorf("default keymap = %+v", cfg.Keys)
	}
	if cfg.BackendURL != "https://example.supabase.co" || cfg.AnonKey != "anon-key" {
		t.Errorf("credentials not applied: %q %q", cfg.BackendURL, cfg.AnonKey)
	}
}

func TestLoadOrCreateRequiresCredentials(t *testing.T) {
	t.Setenv("DAFTAR_URL", "")
	t.Setenv("DAFTAR_ANON_KEY", "")

	path := filepath.Join(t.TempDir(), DefaultConfigFileName)
	if _, err := LoadOrCreate(path); err == nil {
		t.Fatal("expected error without credentials")
	}
}

func TestLoadOrCreateReadsExistingFile(t *testing.T) {
	t.Setenv("DAFTAR_URL", "https://example.supabase.co")
	t.Setenv("DAFTAR_ANON_KEY", "anon-key")

	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFileName)
	content := "default_sort = \"oldest\"\n\n[keys]\nadd = \"n\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DefaultSort != "oldest" {
		t.Errorf("DefaultSort = %q", cfg.DefaultSort)
	}
	if cfg.Keys.Add != "n" {
		t.Errorf("Keys.Add = %q", cfg.Keys.Add)
	}
	if cfg.SessionDBPath != filepath.Join(dir, DefaultSessionDBName) {
		t.Errorf("SessionDBPath = %q", cfg.SessionDBPath)
	}
}
