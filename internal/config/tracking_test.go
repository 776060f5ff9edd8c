package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/banshee-data/areatrack/internal/area"
	"github.com/banshee-data/areatrack/internal/fsutil"
	"github.com/banshee-data/areatrack/internal/testutil"
)

func TestDefaultTrackingConfig(t *testing.T) {
	cfg := DefaultTrackingConfig()

	if cfg.Precision == nil || *cfg.Precision != 1e-15 {
		t.Errorf("Expected Precision 1e-15, got %v", cfg.Precision)
	}
	if cfg.LogEvery == nil || *cfg.LogEvery != 1 {
		t.Errorf("Expected LogEvery 1, got %v", cfg.LogEvery)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}

	if cfg.GetPrecision() != area.DefaultPrecision {
		t.Errorf("GetPrecision() = %g, want %g", cfg.GetPrecision(), area.DefaultPrecision)
	}
	if cfg.GetDimension() != 0 {
		t.Errorf("GetDimension() = %d, want 0", cfg.GetDimension())
	}
	if cfg.GetMaxLevels() != 0 {
		t.Errorf("GetMaxLevels() = %d, want 0", cfg.GetMaxLevels())
	}
	if cfg.GetPlotTitle() != "Remaining search volume" {
		t.Errorf("GetPlotTitle() = %q", cfg.GetPlotTitle())
	}
}

func TestEmptyTrackingConfig_Getters(t *testing.T) {
	cfg := EmptyTrackingConfig()

	if cfg.GetPrecision() != area.DefaultPrecision {
		t.Errorf("GetPrecision() = %g, want default", cfg.GetPrecision())
	}
	if cfg.GetLogEvery() != 1 {
		t.Errorf("GetLogEvery() = %d, want 1", cfg.GetLogEvery())
	}
	if cfg.GetDimension() != 0 || cfg.GetMaxLevels() != 0 {
		t.Errorf("unexpected zero-value getters: dim=%d max=%d", cfg.GetDimension(), cfg.GetMaxLevels())
	}
	if cfg.GetPlotTitle() == "" {
		t.Error("GetPlotTitle() should never be empty")
	}
}

func TestLoadTrackingConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "tracking.json")

	testJSON := `{
  "precision": 1e-8,
  "dimension": 3,
  "log_every": 10,
  "max_levels": 400
}`
	if err := os.WriteFile(configPath, []byte(testJSON), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadTrackingConfig(fsutil.OSFileSystem{}, configPath)
	testutil.AssertNoError(t, err)

	if cfg.GetPrecision() != 1e-8 {
		t.Errorf("GetPrecision() = %g, want 1e-8", cfg.GetPrecision())
	}
	if cfg.GetDimension() != 3 {
		t.Errorf("GetDimension() = %d, want 3", cfg.GetDimension())
	}
	if cfg.GetLogEvery() != 10 {
		t.Errorf("GetLogEvery() = %d, want 10", cfg.GetLogEvery())
	}
	if cfg.GetMaxLevels() != 400 {
		t.Errorf("GetMaxLevels() = %d, want 400", cfg.GetMaxLevels())
	}
	// Omitted field keeps its default.
	if cfg.PlotTitle != nil {
		t.Errorf("PlotTitle should be nil when omitted, got %q", *cfg.PlotTitle)
	}
}

func TestLoadTrackingConfig_Errors(t *testing.T) {
	tmpDir := t.TempDir()

	write := func(name, body string) string {
		p := filepath.Join(tmpDir, name)
		if err := os.WriteFile(p, []byte(body), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
		return p
	}

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{"wrong extension", write("cfg.yaml", "{}"), ".json extension"},
		{"missing file", filepath.Join(tmpDir, "missing.json"), "failed to stat"},
		{"bad json", write("bad.json", "{"), "failed to parse"},
		{"precision zero", write("p0.json", `{"precision": 0}`), "precision"},
		{"precision too large", write("p2.json", `{"precision": 2.5}`), "precision"},
		{"negative dimension", write("dim.json", `{"dimension": -1}`), "dimension"},
		{"negative log_every", write("log.json", `{"log_every": -2}`), "log_every"},
		{"negative max_levels", write("max.json", `{"max_levels": -2}`), "max_levels"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTrackingConfig(fsutil.OSFileSystem{}, tt.path)
			testutil.AssertError(t, err)
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadTrackingConfig_TooLarge(t *testing.T) {
	p := filepath.Join(t.TempDir(), "big.json")
	big := make([]byte, 1024*1024+1)
	for i := range big {
		big[i] = ' '
	}
	if err := os.WriteFile(p, big, 0644); err != nil {
		t.Fatalf("Failed to write big config: %v", err)
	}
	if _, err := LoadTrackingConfig(fsutil.OSFileSystem{}, p); err == nil || !strings.Contains(err.Error(), "too large") {
		t.Errorf("expected too large error, got %v", err)
	}
}

func TestLoadTrackingConfig_MemoryFileSystem(t *testing.T) {
	fsys := fsutil.NewMemoryFileSystem()
	fsys.WriteFile("cfg/tracking.json", []byte(`{"plot_title": "Box volume", "log_every": 0}`))

	cfg, err := LoadTrackingConfig(fsys, "cfg/tracking.json")
	testutil.AssertNoError(t, err)
	if cfg.GetPlotTitle() != "Box volume" {
		t.Errorf("GetPlotTitle() = %q, want %q", cfg.GetPlotTitle(), "Box volume")
	}
	if cfg.GetLogEvery() != 0 {
		t.Errorf("GetLogEvery() = %d, want 0", cfg.GetLogEvery())
	}

	_, err = LoadTrackingConfig(fsys, "cfg/missing.json")
	testutil.AssertError(t, err)
}

func TestValidate_PrecisionWrapsInvalidInput(t *testing.T) {
	cfg := &TrackingConfig{Precision: ptrFloat64(-1)}
	if err := cfg.Validate(); !errors.Is(err, area.ErrInvalidInput) {
		t.Errorf("Validate() = %v, want ErrInvalidInput", err)
	}
}

func TestMustLoadDefaultConfig(t *testing.T) {
	cfg := MustLoadDefaultConfig()
	if cfg.GetPrecision() != area.DefaultPrecision {
		t.Errorf("defaults file precision = %g, want %g", cfg.GetPrecision(), area.DefaultPrecision)
	}
	if cfg.GetPlotTitle() != "Remaining search volume" {
		t.Errorf("defaults file plot_title = %q", cfg.GetPlotTitle())
	}
}
