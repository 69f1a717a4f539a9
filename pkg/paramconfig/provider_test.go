package paramconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/avfatigue/fatigue-core/internal/fatigue"
)

func TestResolveUnknownPreset(t *testing.T) {
	if _, err := Resolve(Document{Preset: "bogus"}); err == nil {
		t.Fatal("expected an error for an unknown preset")
	}
}

func TestResolveNoOverridesReturnsBasePreset(t *testing.T) {
	params, err := Resolve(Document{Preset: "conservative"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := fatigue.ConservativePreset()
	if params.Preset != want.Preset {
		t.Errorf("Preset = %q, want %q", params.Preset, want.Preset)
	}
	if params.Homeostatic != want.Homeostatic {
		t.Errorf("Homeostatic = %+v, want %+v", params.Homeostatic, want.Homeostatic)
	}
}

func TestResolveAppliesOverridesAndTagsPreset(t *testing.T) {
	base := fatigue.DefaultParameters()
	override := base.Risk
	override.LowMin = 85

	params, err := Resolve(Document{
		Preset:    "default",
		Overrides: &Overrides{Risk: &override},
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if params.Risk.LowMin != 85 {
		t.Errorf("Risk.LowMin = %v, want 85", params.Risk.LowMin)
	}
	if params.Preset != "custom:default" {
		t.Errorf("Preset = %q, want %q", params.Preset, "custom:default")
	}
	// Untouched sub-bundles should still come from the base preset.
	if params.Homeostatic != base.Homeostatic {
		t.Errorf("Homeostatic changed unexpectedly: %+v", params.Homeostatic)
	}
}

func TestPresetProviderLoad(t *testing.T) {
	p := PresetProvider{Name: "liberal"}
	params, err := p.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if params.Preset != "liberal" {
		t.Errorf("Preset = %q, want %q", params.Preset, "liberal")
	}
}

func TestPresetProviderLoadUnknownName(t *testing.T) {
	p := PresetProvider{Name: "nonexistent"}
	if _, err := p.Load(); err == nil {
		t.Fatal("expected an error for an unknown preset name")
	}
}

func TestFileProviderLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "params.yaml")
	doc := "preset: research\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	params, err := NewFileProvider(path).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if params.Preset != "research" {
		t.Errorf("Preset = %q, want %q", params.Preset, "research")
	}
}

func TestFileProviderLoadMissingFile(t *testing.T) {
	_, err := NewFileProvider("/nonexistent/path/params.yaml").Load()
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
