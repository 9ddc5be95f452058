package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/banshee-data/trajectory.report/internal/units"
)

// DefaultConfigPath is the path to the canonical analysis defaults file.
const DefaultConfigPath = "config/analysis.defaults.json"

// AnalysisConfig holds the bin sizes, source mapping and window of a report
// run. Every field is optional; the Get* methods supply defaults for fields
// left unset, so partial files are safe.
type AnalysisConfig struct {
	// Aggregation bins
	SpaceBinFeet   *float64 `json:"space_bin_feet,omitempty" yaml:"space_bin_feet" validate:"omitempty,gt=0"`
	TimeBinSeconds *float64 `json:"time_bin_seconds,omitempty" yaml:"time_bin_seconds" validate:"omitempty,gt=0"`
	SpeedBinMPH    *float64 `json:"speed_bin_mph,omitempty" yaml:"speed_bin_mph" validate:"omitempty,gt=0"`
	DensityBinVPM  *float64 `json:"density_bin_vpm,omitempty" yaml:"density_bin_vpm" validate:"omitempty,gt=0"`

	// Speed-density curve buckets need more than this many cells.
	MinCurveSamples *int `json:"min_curve_samples,omitempty" yaml:"min_curve_samples" validate:"omitempty,gte=0"`

	// Model source mapping
	ModelLaneBase *int    `json:"model_lane_base,omitempty" yaml:"model_lane_base" validate:"omitempty,gte=0"`
	ModelTable    *string `json:"model_table,omitempty" yaml:"model_table" validate:"omitempty,max=64"`

	// Window and presentation
	SiteTimezone *string `json:"site_timezone,omitempty" yaml:"site_timezone"`
	StartTime    *string `json:"start_time,omitempty" yaml:"start_time" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	EndTime      *string `json:"end_time,omitempty" yaml:"end_time" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	OutputDir    *string `json:"output_dir,omitempty" yaml:"output_dir" validate:"omitempty,min=1"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyAnalysisConfig returns an AnalysisConfig with all fields unset.
func EmptyAnalysisConfig() *AnalysisConfig {
	return &AnalysisConfig{}
}

// DefaultAnalysisConfig returns a config with every field populated with
// its default.
func DefaultAnalysisConfig() *AnalysisConfig {
	return &AnalysisConfig{
		SpaceBinFeet:    ptrFloat64(100),
		TimeBinSeconds:  ptrFloat64(60),
		SpeedBinMPH:     ptrFloat64(5),
		DensityBinVPM:   ptrFloat64(5),
		MinCurveSamples: ptrInt(50),
		ModelLaneBase:   ptrInt(8),
		ModelTable:      ptrString("trajectories"),
		SiteTimezone:    ptrString(units.DefaultSiteTimezone),
		OutputDir:       ptrString("out"),
	}
}

// LoadAnalysisConfig loads an AnalysisConfig from a .json, .yaml or .yml
// file of at most 1MB and validates it.
func LoadAnalysisConfig(path string) (*AnalysisConfig, error) {
	cleanPath := filepath.Clean(path)
	ext := filepath.Ext(cleanPath)
	if ext != ".json" && ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("config file must have .json, .yaml or .yml extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyAnalysisConfig()
	if ext == ".json" {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath from the current directory
// or one of its parents. Panics if the file cannot be loaded; intended for
// test setup.
func MustLoadDefaultConfig() *AnalysisConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath, // from internal/<pkg>/
		"../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadAnalysisConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks field ranges with struct tags, then the cross-field rules
// the tags cannot express.
func (c *AnalysisConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	if c.ModelTable != nil && !isIdentifier(*c.ModelTable) {
		return fmt.Errorf("model_table %q must be a plain SQL identifier", *c.ModelTable)
	}
	if c.SiteTimezone != nil && !units.IsTimezoneValid(*c.SiteTimezone) {
		return fmt.Errorf("site_timezone %q is not a valid IANA timezone", *c.SiteTimezone)
	}

	start, end, err := c.window()
	if err != nil {
		return err
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return fmt.Errorf("end_time %s is before start_time %s", *c.EndTime, *c.StartTime)
	}
	return nil
}

// isIdentifier reports whether s is a non-empty run of letters, digits and
// underscores not starting with a digit.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

func (c *AnalysisConfig) window() (start, end time.Time, err error) {
	if c.StartTime != nil && *c.StartTime != "" {
		if start, err = time.Parse(time.RFC3339, *c.StartTime); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start_time '%s': %w", *c.StartTime, err)
		}
	}
	if c.EndTime != nil && *c.EndTime != "" {
		if end, err = time.Parse(time.RFC3339, *c.EndTime); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end_time '%s': %w", *c.EndTime, err)
		}
	}
	return start, end, nil
}

// GetWindow returns the configured inclusive time window. A zero bound is
// open.
func (c *AnalysisConfig) GetWindow() (start, end time.Time) {
	start, end, err := c.window()
	if err != nil {
		return time.Time{}, time.Time{}
	}
	return start, end
}

// GetSpaceBinFeet returns the space_bin_feet value or the default.
func (c *AnalysisConfig) GetSpaceBinFeet() float64 {
	if c.SpaceBinFeet == nil {
		return 100
	}
	return *c.SpaceBinFeet
}

// GetTimeBinSeconds returns the time_bin_seconds value or the default.
func (c *AnalysisConfig) GetTimeBinSeconds() float64 {
	if c.TimeBinSeconds == nil {
		return 60
	}
	return *c.TimeBinSeconds
}

// GetSpeedBinMPH returns the speed_bin_mph value or the default.
func (c *AnalysisConfig) GetSpeedBinMPH() float64 {
	if c.SpeedBinMPH == nil {
		return 5
	}
	return *c.SpeedBinMPH
}

// GetDensityBinVPM returns the density_bin_vpm value or the default.
func (c *AnalysisConfig) GetDensityBinVPM() float64 {
	if c.DensityBinVPM == nil {
		return 5
	}
	return *c.DensityBinVPM
}

// GetMinCurveSamples returns the min_curve_samples value or the default.
func (c *AnalysisConfig) GetMinCurveSamples() int {
	if c.MinCurveSamples == nil {
		return 50
	}
	return *c.MinCurveSamples
}

// GetModelLaneBase returns the model_lane_base value or the default.
func (c *AnalysisConfig) GetModelLaneBase() int {
	if c.ModelLaneBase == nil {
		return 8
	}
	return *c.ModelLaneBase
}

// GetModelTable returns the model_table value or the default.
func (c *AnalysisConfig) GetModelTable() string {
	if c.ModelTable == nil || *c.ModelTable == "" {
		return "trajectories"
	}
	return *c.ModelTable
}

// GetSiteTimezone returns the site_timezone value or the default.
func (c *AnalysisConfig) GetSiteTimezone() string {
	if c.SiteTimezone == nil || *c.SiteTimezone == "" {
		return units.DefaultSiteTimezone
	}
	return *c.SiteTimezone
}

// GetLocation loads the site timezone, falling back to UTC.
func (c *AnalysisConfig) GetLocation() *time.Location {
	loc, err := time.LoadLocation(c.GetSiteTimezone())
	if err != nil {
		return time.UTC
	}
	return loc
}

// GetOutputDir returns the output_dir value or the default.
func (c *AnalysisConfig) GetOutputDir() string {
	if c.OutputDir == nil || *c.OutputDir == "" {
		return "out"
	}
	return *c.OutputDir
}
