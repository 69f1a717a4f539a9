// Package paramconfig loads fatigue.Parameters bundles from YAML
// documents, mirroring the provider-interface shape the teacher repo
// uses for its own YAML-backed configuration (pkg/config.ConfigProvider
// / YAMLProvider): a small interface so an in-memory or future
// remote-backed provider can stand in for the file-backed one without
// touching callers.
package paramconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/avfatigue/fatigue-core/internal/fatigue"
)

// Provider resolves a named or custom Parameters bundle.
type Provider interface {
	Load() (fatigue.Parameters, error)
}

// Document is the YAML shape of a parameters file. Preset selects one of
// the four named presets as a base; Overrides, when non-nil, replaces
// individual sub-bundles on top of that base so a document only needs to
// name the sub-bundles it wants to change. A named sub-bundle replaces
// the preset's one whole: fields left out of it are zero, not inherited.
type Document struct {
	Preset    string     `yaml:"preset"`
	Overrides *Overrides `yaml:"overrides,omitempty"`
}

// Overrides mirrors fatigue.Parameters' sub-structs with every sub-struct
// optional (pointer/zero-value-means-unset would require reflection to
// detect, so instead each populated sub-struct entirely replaces the
// base preset's — the same coarse-grained override grain the teacher's
// StorageData/ControllerData YAML tags use for their own optional
// nested blocks).
type Overrides struct {
	Homeostatic  *fatigue.HomeostaticParams  `yaml:"homeostatic,omitempty"`
	Circadian    *fatigue.CircadianParams    `yaml:"circadian,omitempty"`
	Inertia      *fatigue.InertiaParams      `yaml:"inertia,omitempty"`
	Weights      *fatigue.WeightParams       `yaml:"weights,omitempty"`
	SleepDebt    *fatigue.SleepDebtParams    `yaml:"sleep_debt,omitempty"`
	JetLag       *fatigue.JetLagParams       `yaml:"jet_lag,omitempty"`
	SleepQuality *fatigue.SleepQualityParams `yaml:"sleep_quality,omitempty"`
	Risk         *fatigue.RiskThresholds     `yaml:"risk,omitempty"`
}

// FileProvider loads a Document from a YAML file on disk.
type FileProvider struct {
	Path string
}

// NewFileProvider builds a FileProvider for the given path.
func NewFileProvider(path string) *FileProvider {
	return &FileProvider{Path: path}
}

// Load reads and resolves the file at p.Path.
func (p *FileProvider) Load() (fatigue.Parameters, error) {
	raw, err := os.ReadFile(p.Path)
	if err != nil {
		return fatigue.Parameters{}, fmt.Errorf("paramconfig: reading %s: %w", p.Path, err)
	}
	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fatigue.Parameters{}, fmt.Errorf("paramconfig: parsing %s: %w", p.Path, err)
	}
	return Resolve(doc)
}

// PresetProvider resolves one of the named presets without reading a
// file, for callers driven entirely by a --preset flag.
type PresetProvider struct {
	Name string
}

// Load resolves the preset by name.
func (p PresetProvider) Load() (fatigue.Parameters, error) {
	params, ok := fatigue.PresetByName(p.Name)
	if !ok {
		return fatigue.Parameters{}, fmt.Errorf("paramconfig: unknown preset %q", p.Name)
	}
	return params, nil
}

// Resolve applies doc's preset and overrides to produce a Parameters
// bundle.
func Resolve(doc Document) (fatigue.Parameters, error) {
	base, ok := fatigue.PresetByName(doc.Preset)
	if !ok {
		return fatigue.Parameters{}, fmt.Errorf("paramconfig: unknown preset %q", doc.Preset)
	}
	if doc.Overrides == nil {
		return base, nil
	}
	o := doc.Overrides
	if o.Homeostatic != nil {
		base.Homeostatic = *o.Homeostatic
	}
	if o.Circadian != nil {
		base.Circadian = *o.Circadian
	}
	if o.Inertia != nil {
		base.Inertia = *o.Inertia
	}
	if o.Weights != nil {
		base.Weights = *o.Weights
	}
	if o.SleepDebt != nil {
		base.SleepDebt = *o.SleepDebt
	}
	if o.JetLag != nil {
		base.JetLag = *o.JetLag
	}
	if o.SleepQuality != nil {
		base.SleepQuality = *o.SleepQuality
	}
	if o.Risk != nil {
		base.Risk = *o.Risk
	}
	base.Preset = "custom:" + doc.Preset
	return base, nil
}
