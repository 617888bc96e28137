package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ironsheep/pov-bitmap-mcp/internal/ledmap"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	p, ok := cfg.Profile("")
	if !ok {
		t.Fatal("default profile missing")
	}
	if p.Mode != ledmap.ModeGrid || p.Resolution != 16 {
		t.Errorf("default profile: got %v/%d, want grid/16", p.Mode, p.Resolution)
	}

	fan, ok := cfg.Profile("fan72")
	if !ok {
		t.Fatal("fan72 profile missing")
	}
	if fan.Mode != ledmap.ModePolar || fan.Resolution != 72 || fan.Divisions != 150 {
		t.Errorf("fan72: got %+v", fan.Settings)
	}
}

func TestProfileNames_Sorted(t *testing.T) {
	want := []string{"fan72", "matrix16", "matrix32", "matrix8"}
	if diff := cmp.Diff(want, DefaultConfig().ProfileNames()); diff != "" {
		t.Errorf("ProfileNames (-want +got):\n%s", diff)
	}
}

func TestLoad_EmptyAndMissing(t *testing.T) {
	for _, path := range []string{"", filepath.Join(t.TempDir(), "absent.yaml")} {
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%q) failed: %v", path, err)
		}
		if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
			t.Errorf("Load(%q) not default (-want +got):\n%s", path, diff)
		}
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	want := DefaultConfig()
	want.Workers = 3
	if err := Save(path, want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("directory holds %d entries, want 1", len(entries))
	}
}

func TestLoad_HandWritten(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
default_profile: spinner
profiles:
  spinner:
    description: 32 LED prop
    mode: pov
    resolution: 32
    divisions: 90
    threshold: 100
    invert: true
    line_shift: 5
    filter: lanczos
    adjust:
      contrast: 0.25
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.PreviewSize != 400 {
		t.Errorf("PreviewSize not defaulted: got %d", cfg.PreviewSize)
	}

	p, ok := cfg.Profile("")
	if !ok {
		t.Fatal("default profile not resolved")
	}
	want := ledmap.Settings{
		Mode:       ledmap.ModePolar,
		Resolution: 32,
		Divisions:  90,
		Threshold:  100,
		Invert:     true,
		LineShift:  5,
		Filter:     "lanczos",
	}
	want.Adjust.Contrast = 0.25
	if diff := cmp.Diff(want, p.Settings); diff != "" {
		t.Errorf("settings (-want +got):\n%s", diff)
	}
	if p.Description != "32 LED prop" {
		t.Errorf("Description: got %q", p.Description)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", "profiles: [unclosed"},
		{"mode", "profiles:\n  x:\n    mode: hexagonal\n    resolution: 8\n"},
		{"odd polar", "profiles:\n  x:\n    mode: polar\n    resolution: 7\n    divisions: 10\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.data), 0o644); err != nil {
				t.Fatalf("WriteFile failed: %v", err)
			}
			if _, err := Load(path); err == nil {
				t.Error("Load should fail")
			}
		})
	}

	path := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(path, []byte("profiles:\n  x:\n    mode: polar\n    resolution: 7\n    divisions: 10\n"), 0o644)
	if _, err := Load(path); !errors.Is(err, ledmap.ErrInvalidSettings) {
		t.Errorf("got %v, want ErrInvalidSettings", err)
	}
}

func TestNormalize(t *testing.T) {
	cfg := &Config{Workers: -2, DefaultProfile: "ghost"}
	cfg.Normalize()

	if cfg.Workers != 0 || cfg.PreviewSize != 400 || cfg.Profiles == nil || cfg.DefaultProfile != "" {
		t.Errorf("Normalize: got %+v", cfg)
	}
	if _, ok := cfg.Profile(""); ok {
		t.Error("Profile(\"\") should fail without a default")
	}
}

func TestSave_Errors(t *testing.T) {
	if err := Save("", DefaultConfig()); err == nil {
		t.Error("empty path should fail")
	}
	if err := Save(filepath.Join(t.TempDir(), "c.yaml"), nil); err == nil {
		t.Error("nil config should fail")
	}
}
