// Package config loads nesting job configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"

	"github.com/fabworks/nestcut/internal/model"
	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the full job configuration: placement constraints, bar
// settings, the stock catalog, and export targets.
type Config struct {
	Sheet  SheetConfig  `yaml:"sheet"`
	Linear LinearConfig `yaml:"linear"`

	Sheets []StockSheet `yaml:"sheets"`

	// Densities maps material grades to densities in kg/m3. Grades not
	// listed fall back to the built-in table.
	Densities map[string]float64 `yaml:"densities"`

	Export ExportConfig `yaml:"export"`
}

// SheetConfig holds the 2D packer constraints. Rotation is expressed as
// an opt-out so the zero value keeps it enabled.
type SheetConfig struct {
	EdgeClearance   float64 `yaml:"edge_clearance" env:"NESTCUT_EDGE_CLEARANCE" env-default:"10"`
	PartClearance   float64 `yaml:"part_clearance" env:"NESTCUT_PART_CLEARANCE" env-default:"5"`
	DisableRotation bool    `yaml:"disable_rotation" env:"NESTCUT_DISABLE_ROTATION"`
}

// LinearConfig holds the 1D packer constraints.
type LinearConfig struct {
	StockLength    float64 `yaml:"stock_length" env:"NESTCUT_STOCK_LENGTH" env-default:"6000"`
	LeftAllowance  float64 `yaml:"left_allowance" env:"NESTCUT_LEFT_ALLOWANCE" env-default:"10"`
	RightAllowance float64 `yaml:"right_allowance" env:"NESTCUT_RIGHT_ALLOWANCE" env-default:"10"`
	Kerf           float64 `yaml:"kerf" env:"NESTCUT_KERF" env-default:"3"`
	Goal           string  `yaml:"goal" env:"NESTCUT_GOAL" env-default:"waste"`
	Trials         int     `yaml:"trials" env:"NESTCUT_TRIALS" env-default:"50"`
	Seed           int64   `yaml:"seed" env:"NESTCUT_SEED" env-default:"1"`
}

// StockSheet is one catalog entry of purchasable sheet stock.
type StockSheet struct {
	Label     string  `yaml:"label"`
	Length    float64 `yaml:"length"`
	Width     float64 `yaml:"width"`
	Thickness float64 `yaml:"thickness"`
	Grade     string  `yaml:"grade"`
	Quantity  int     `yaml:"quantity"` // 0 means unbounded supply
}

// ExportConfig names the output files. Empty paths disable the export.
type ExportConfig struct {
	PDF    string `yaml:"pdf" env:"NESTCUT_EXPORT_PDF"`
	Excel  string `yaml:"excel" env:"NESTCUT_EXPORT_EXCEL"`
	Labels string `yaml:"labels" env:"NESTCUT_EXPORT_LABELS"`
}

// Load reads the configuration from the given YAML path. Environment
// variables override file values. An empty path yields the defaults
// from the environment alone.
func Load(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("cannot read environment config: %w", err)
		}
		return &cfg, nil
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	return &cfg, nil
}

// SheetSettings converts the sheet section to packer settings.
func (c *Config) SheetSettings() model.SheetSettings {
	return model.SheetSettings{
		EdgeClearance: c.Sheet.EdgeClearance,
		PartClearance: c.Sheet.PartClearance,
		AllowRotation: !c.Sheet.DisableRotation,
	}
}

// LinearSettings converts the linear section to packer settings.
func (c *Config) LinearSettings() model.LinearSettings {
	goal := model.GoalWaste
	if c.Linear.Goal == string(model.GoalSpeed) {
		goal = model.GoalSpeed
	}
	return model.LinearSettings{
		StockLength:    c.Linear.StockLength,
		LeftAllowance:  c.Linear.LeftAllowance,
		RightAllowance: c.Linear.RightAllowance,
		Kerf:           c.Linear.Kerf,
		Goal:           goal,
		Trials:         c.Linear.Trials,
	}
}

// Capacities converts the stock catalog to sheet capacities.
func (c *Config) Capacities() []model.SheetCapacity {
	caps := make([]model.SheetCapacity, 0, len(c.Sheets))
	for _, s := range c.Sheets {
		caps = append(caps, model.NewSheetCapacity(s.Label, s.Length, s.Width, s.Thickness, s.Grade, s.Quantity))
	}
	return caps
}

// DensityTable merges the configured density overrides over the
// built-in table.
func (c *Config) DensityTable() model.DensityTable {
	table := model.DefaultDensityTable()
	for grade, density := range c.Densities {
		table.Densities[grade] = density
	}
	return table
}
