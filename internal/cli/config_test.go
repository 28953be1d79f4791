package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), configFileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
paper = "letter"
margin = 36.0
scale-floor = 0.25
center = true
jpeg-quality = 92
format = "pdf,png"
`)

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Paper != "letter" {
		t.Errorf("Paper = %q, want letter", cfg.Paper)
	}
	if cfg.Margin != 36 {
		t.Errorf("Margin = %g, want 36", cfg.Margin)
	}
	if cfg.ScaleFloor != 0.25 {
		t.Errorf("ScaleFloor = %g, want 0.25", cfg.ScaleFloor)
	}
	if !cfg.Center {
		t.Error("Center should be true")
	}
	if cfg.JPEGQuality != 92 {
		t.Errorf("JPEGQuality = %d, want 92", cfg.JPEGQuality)
	}
	if cfg.Format != "pdf,png" {
		t.Errorf("Format = %q", cfg.Format)
	}
}

func TestLoadConfigUnknownKey(t *testing.T) {
	path := writeConfig(t, `papr = "a4"`)
	if _, err := loadConfig(path); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	if _, err := loadConfig("/does/not/exist.toml"); err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestLoadConfigNoFileIsFine(t *testing.T) {
	// Run from an empty directory with no XDG config.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("absent config should not error: %v", err)
	}
	if cfg != (Config{}) {
		t.Errorf("expected zero config, got %+v", cfg)
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	path := writeConfig(t, `paper = [broken`)
	if _, err := loadConfig(path); err == nil {
		t.Fatal("expected error for malformed TOML")
	}
}
