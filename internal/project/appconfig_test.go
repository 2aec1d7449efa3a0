package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/RackPlan/internal/model"
)

func TestSaveAndLoadAppConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := model.DefaultAppConfig()
	cfg.DefaultRackHeight = 24
	cfg.DefaultFace = model.FaceRear
	cfg.LogLevel = "debug"
	cfg.RecentLayouts = []string{"/tmp/lab.rackplan.json", "/tmp/dc.rackplan.json"}

	if err := SaveAppConfig(path, cfg); err != nil {
		t.Fatalf("SaveAppConfig failed: %v", err)
	}

	loaded, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}

	if loaded.DefaultRackHeight != 24 {
		t.Errorf("expected DefaultRackHeight=24, got %d", loaded.DefaultRackHeight)
	}
	if loaded.DefaultFace != model.FaceRear {
		t.Errorf("expected DefaultFace=rear, got %s", loaded.DefaultFace)
	}
	if loaded.LogLevel != "debug" {
		t.Errorf("expected LogLevel=debug, got %s", loaded.LogLevel)
	}
	if len(loaded.RecentLayouts) != 2 {
		t.Errorf("expected 2 recent layouts, got %d", len(loaded.RecentLayouts))
	}
}

func TestLoadAppConfigMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent", "config.json")

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}

	defaults := model.DefaultAppConfig()
	if cfg.DefaultRackHeight != defaults.DefaultRackHeight {
		t.Errorf("expected default rack height %d, got %d", defaults.DefaultRackHeight, cfg.DefaultRackHeight)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected log level info, got %s", cfg.LogLevel)
	}
}

func TestLoadAppConfigPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"default_rack_height":12}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if cfg.DefaultRackHeight != 12 {
		t.Errorf("expected DefaultRackHeight=12, got %d", cfg.DefaultRackHeight)
	}
	if cfg.DefaultRackWidth != model.RackWidth19 {
		t.Errorf("expected default width to survive, got %d", cfg.DefaultRackWidth)
	}
}

func TestLoadAppConfigInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	if err := os.WriteFile(path, []byte("not valid json{{{"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadAppConfig(path)
	if err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
}

func TestSaveAppConfigCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "dir", "config.json")

	cfg := model.DefaultAppConfig()
	if err := SaveAppConfig(path, cfg); err != nil {
		t.Fatalf("SaveAppConfig should create parent dirs: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}
}

func TestLoadAppConfigNilRecentLayouts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	// Write config with null recent_layouts
	data := []byte(`{"default_rack_height":42,"recent_layouts":null}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if cfg.RecentLayouts == nil {
		t.Error("RecentLayouts should not be nil after loading")
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()
	if filepath.Base(path) != "config.json" {
		t.Errorf("expected filename config.json, got %s", filepath.Base(path))
	}
	if filepath.Base(filepath.Dir(path)) != ".rackplan" {
		t.Errorf("expected parent dir .rackplan, got %s", filepath.Dir(path))
	}
}
