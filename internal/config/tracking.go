package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/banshee-data/areatrack/internal/area"
	"github.com/banshee-data/areatrack/internal/fsutil"
)

// DefaultConfigPath is the path to the canonical tracking defaults file.
const DefaultConfigPath = "config/tracking.defaults.json"

// TrackingConfig holds the caller-tunable values of an area tracking run.
// Every field is optional; the Get* methods supply defaults for nil fields.
type TrackingConfig struct {
	// Precision is the smallest linear area ratio treated as non-zero by
	// the progress metric.
	Precision *float64 `json:"precision,omitempty"`

	// Dimension, when non-zero, must equal the dimension declared by the
	// trace; a mismatch fails the run. Zero accepts any trace.
	Dimension *int `json:"dimension,omitempty"`

	// LogEvery logs one tracker line every N levels. Zero disables logging.
	LogEvery *int `json:"log_every,omitempty"`

	// MaxLevels stops a replay after N levels. Zero replays everything.
	MaxLevels *int `json:"max_levels,omitempty"`

	PlotTitle *string `json:"plot_title,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrInt(v int) *int             { return &v }
func ptrString(v string) *string    { return &v }

// EmptyTrackingConfig returns a TrackingConfig with all fields set to nil.
func EmptyTrackingConfig() *TrackingConfig {
	return &TrackingConfig{}
}

// DefaultTrackingConfig returns a TrackingConfig with every field set to its
// built-in default.
func DefaultTrackingConfig() *TrackingConfig {
	return &TrackingConfig{
		Precision: ptrFloat64(area.DefaultPrecision),
		Dimension: ptrInt(0),
		LogEvery:  ptrInt(1),
		MaxLevels: ptrInt(0),
		PlotTitle: ptrString("Remaining search volume"),
	}
}

// LoadTrackingConfig loads a TrackingConfig from a JSON file in fsys.
// The file must have a .json extension and be at most 1MB. Fields omitted
// from the file stay nil and fall back to defaults.
func LoadTrackingConfig(fsys fsutil.FileSystem, path string) (*TrackingConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := fsys.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := fsys.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTrackingConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical defaults from DefaultConfigPath,
// searching the current directory and its parents up to the repo root.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *TrackingConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath, // from internal/config/
		"../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadTrackingConfig(fsutil.OSFileSystem{}, path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *TrackingConfig) Validate() error {
	if c.Precision != nil {
		if err := area.ValidatePrecision(*c.Precision); err != nil {
			return fmt.Errorf("precision: %w", err)
		}
	}
	if c.Dimension != nil && *c.Dimension < 0 {
		return fmt.Errorf("dimension must be non-negative, got %d", *c.Dimension)
	}
	if c.LogEvery != nil && *c.LogEvery < 0 {
		return fmt.Errorf("log_every must be non-negative, got %d", *c.LogEvery)
	}
	if c.MaxLevels != nil && *c.MaxLevels < 0 {
		return fmt.Errorf("max_levels must be non-negative, got %d", *c.MaxLevels)
	}
	return nil
}

// GetPrecision returns the precision value or the default.
func (c *TrackingConfig) GetPrecision() float64 {
	if c.Precision == nil {
		return area.DefaultPrecision
	}
	return *c.Precision
}

// GetDimension returns the expected trace dimension, or 0 when unset.
func (c *TrackingConfig) GetDimension() int {
	if c.Dimension == nil {
		return 0
	}
	return *c.Dimension
}

// GetLogEvery returns the log_every value or the default.
func (c *TrackingConfig) GetLogEvery() int {
	if c.LogEvery == nil {
		return 1 // default
	}
	return *c.LogEvery
}

// GetMaxLevels returns the max_levels value or the default.
func (c *TrackingConfig) GetMaxLevels() int {
	if c.MaxLevels == nil {
		return 0 // unbounded
	}
	return *c.MaxLevels
}

// GetPlotTitle returns the plot_title value or the default.
func (c *TrackingConfig) GetPlotTitle() string {
	if c.PlotTitle == nil || *c.PlotTitle == "" {
		return "Remaining search volume"
	}
	return *c.PlotTitle
}
