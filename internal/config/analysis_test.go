package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return path
}

func TestDefaultAnalysisConfig(t *testing.T) {
	cfg := DefaultAnalysisConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults do not validate: %v", err)
	}
	if cfg.SpaceBinFeet == nil || *cfg.SpaceBinFeet != 100 {
		t.Errorf("Expected SpaceBinFeet 100, got %v", cfg.SpaceBinFeet)
	}
	if cfg.GetTimeBinSeconds() != 60 {
		t.Errorf("GetTimeBinSeconds() = %f, want 60", cfg.GetTimeBinSeconds())
	}
	if cfg.GetModelLaneBase() != 8 {
		t.Errorf("GetModelLaneBase() = %d, want 8", cfg.GetModelLaneBase())
	}
}

func TestGetterDefaults(t *testing.T) {
	cfg := EmptyAnalysisConfig()

	assert.Equal(t, 100.0, cfg.GetSpaceBinFeet())
	assert.Equal(t, 60.0, cfg.GetTimeBinSeconds())
	assert.Equal(t, 5.0, cfg.GetSpeedBinMPH())
	assert.Equal(t, 5.0, cfg.GetDensityBinVPM())
	assert.Equal(t, 50, cfg.GetMinCurveSamples())
	assert.Equal(t, 8, cfg.GetModelLaneBase())
	assert.Equal(t, "trajectories", cfg.GetModelTable())
	assert.Equal(t, "America/Los_Angeles", cfg.GetSiteTimezone())
	assert.Equal(t, "out", cfg.GetOutputDir())

	start, end := cfg.GetWindow()
	assert.True(t, start.IsZero())
	assert.True(t, end.IsZero())
}

func TestLoadAnalysisConfigJSON(t *testing.T) {
	path := writeConfig(t, "run.json", `{
  "space_bin_feet": 50,
  "time_bin_seconds": 30,
  "site_timezone": "UTC",
  "start_time": "2005-04-13T17:00:00Z",
  "end_time": "2005-04-13T17:15:00Z"
}`)

	cfg, err := LoadAnalysisConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 50.0, cfg.GetSpaceBinFeet())
	assert.Equal(t, 30.0, cfg.GetTimeBinSeconds())
	assert.Equal(t, 5.0, cfg.GetSpeedBinMPH(), "unset fields fall back to defaults")
	assert.Equal(t, time.UTC, cfg.GetLocation())

	start, end := cfg.GetWindow()
	assert.True(t, start.Equal(time.Date(2005, 4, 13, 17, 0, 0, 0, time.UTC)))
	assert.Equal(t, 15*time.Minute, end.Sub(start))
}

func TestLoadAnalysisConfigYAML(t *testing.T) {
	path := writeConfig(t, "run.yml", `
speed_bin_mph: 2.5
model_lane_base: 6
model_table: model_run_1
output_dir: reports
`)

	cfg, err := LoadAnalysisConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 2.5, cfg.GetSpeedBinMPH())
	assert.Equal(t, 6, cfg.GetModelLaneBase())
	assert.Equal(t, "model_run_1", cfg.GetModelTable())
	assert.Equal(t, "reports", cfg.GetOutputDir())
}

func TestLoadDefaultConfigFile(t *testing.T) {
	cfg := MustLoadDefaultConfig()
	assert.Equal(t, *DefaultAnalysisConfig().SpaceBinFeet, cfg.GetSpaceBinFeet())
	assert.Equal(t, DefaultAnalysisConfig().GetModelTable(), cfg.GetModelTable())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *AnalysisConfig
		wantErr bool
	}{
		{name: "empty", cfg: EmptyAnalysisConfig()},
		{name: "zero space bin", cfg: &AnalysisConfig{SpaceBinFeet: ptrFloat64(0)}, wantErr: true},
		{name: "negative time bin", cfg: &AnalysisConfig{TimeBinSeconds: ptrFloat64(-1)}, wantErr: true},
		{name: "negative lane base", cfg: &AnalysisConfig{ModelLaneBase: ptrInt(-1)}, wantErr: true},
		{name: "bad timezone", cfg: &AnalysisConfig{SiteTimezone: ptrString("Mars/Olympus")}, wantErr: true},
		{name: "bad start time", cfg: &AnalysisConfig{StartTime: ptrString("yesterday")}, wantErr: true},
		{
			name: "end before start",
			cfg: &AnalysisConfig{
				StartTime: ptrString("2005-04-13T17:15:00Z"),
				EndTime:   ptrString("2005-04-13T17:00:00Z"),
			},
			wantErr: true,
		},
		{name: "table injection", cfg: &AnalysisConfig{ModelTable: ptrString("t; DROP TABLE x")}, wantErr: true},
		{name: "table leading digit", cfg: &AnalysisConfig{ModelTable: ptrString("1t")}, wantErr: true},
		{name: "open-ended window", cfg: &AnalysisConfig{StartTime: ptrString("2005-04-13T17:00:00-07:00")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadAnalysisConfigRejects(t *testing.T) {
	_, err := LoadAnalysisConfig("/some/path/config.toml")
	assert.Error(t, err, "unsupported extension")

	_, err = LoadAnalysisConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := writeConfig(t, "broken.json", `{"space_bin_feet": "wide"}`)
	_, err = LoadAnalysisConfig(path)
	assert.Error(t, err)

	path = writeConfig(t, "invalid.yaml", "space_bin_feet: -5\n")
	_, err = LoadAnalysisConfig(path)
	assert.Error(t, err)
}

func TestLoadAnalysisConfigRejectsLargeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "large.json")
	if err := os.WriteFile(path, make([]byte, 2*1024*1024), 0644); err != nil {
		t.Fatalf("Failed to write large file: %v", err)
	}
	if _, err := LoadAnalysisConfig(path); err == nil {
		t.Error("Expected error for file size > 1MB, got nil")
	}
}
