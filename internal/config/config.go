package config

import (
	"errors"
	"os"
	"path/filepath"

	"ratescope/internal/billing"
	"ratescope/internal/model"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML) for a calculation run.
type Config struct {
	// TariffFile and ProfileFile may be absolute or relative to the config
	// file's directory.
	TariffFile  string `yaml:"tariff_file"`
	ProfileFile string `yaml:"profile_file"`
	Output      string `yaml:"output"`

	Engine EngineConfig `yaml:"engine"`

	// Tariff overlays scalar overrides onto the loaded tariff, e.g. to try
	// a different fixed charge without editing the tariff document.
	Tariff TariffOverrides `yaml:"tariff"`
}

// EngineConfig carries run options.
type EngineConfig struct {
	IntervalMinutes  int     `yaml:"interval_minutes"`
	ServiceVoltageKV float64 `yaml:"service_voltage_kv"`
}

// ToOptions converts the engine section into billing options.
func (e EngineConfig) ToOptions(output string) billing.Options {
	return billing.Options{
		IntervalMinutes:  e.IntervalMinutes,
		ServiceVoltageKV: e.ServiceVoltageKV,
		OutputCSV:        output,
	}
}

// TariffOverrides holds optional scalar overrides. Nil fields keep the
// loaded tariff's value.
type TariffOverrides struct {
	FixedCharge         *float64 `yaml:"fixed_charge"`
	MinMonthlyCharge    *float64 `yaml:"min_monthly_charge"`
	PowerFactor         *float64 `yaml:"power_factor"`
	ReactivePowerCharge *float64 `yaml:"reactive_power_charge"`
}

// ApplyTo overlays the non-nil overrides onto a tariff.
func (o TariffOverrides) ApplyTo(t *model.Tariff) {
	if o.FixedCharge != nil {
		t.FixedCharge = *o.FixedCharge
	}
	if o.MinMonthlyCharge != nil {
		t.MinMonthlyCharge = *o.MinMonthlyCharge
	}
	if o.PowerFactor != nil {
		t.PowerFactor = *o.PowerFactor
	}
	if o.ReactivePowerCharge != nil {
		t.ReactivePowerCharge = *o.ReactivePowerCharge
	}
}

// Load reads and validates a config file, resolving relative input paths
// against the config file's directory when they exist there.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads a config without validating it. Useful for
// debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	c.TariffFile = resolveRelative(path, c.TariffFile)
	c.ProfileFile = resolveRelative(path, c.ProfileFile)
	return &c, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.TariffFile == "" {
		return errors.New("tariff_file is required")
	}
	if c.ProfileFile == "" {
		return errors.New("profile_file is required")
	}
	if c.Engine.IntervalMinutes < 0 {
		return errors.New("engine.interval_minutes must be >= 0")
	}
	return nil
}

// resolveRelative prefers interpreting relative paths as relative to the
// config file directory, falling back to the provided path (relative to
// cwd) if nothing exists there.
func resolveRelative(cfgPath, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	cand := filepath.Join(filepath.Dir(cfgPath), p)
	if _, err := os.Stat(cand); err == nil {
		return cand
	}
	return p
}
