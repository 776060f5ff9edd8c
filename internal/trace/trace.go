// Package trace reads subdivision traces recorded by an external search
// driver so they can be replayed through the area tracker.
//
// A trace is JSON:
//
//	{
//	  "dimension": 2,
//	  "source": "optional description",
//	  "levels": [
//	    [{"lower": [-1, -1], "upper": [0, 1], "parent": -1}, ...],
//	    [{"lower": [-1, -1], "upper": [1, 0], "parent": 0}, ...]
//	  ]
//	}
//
// Each box is given in its parent's local [-1,1]^n frame and parent indexes
// the previous level. Entries of the first level always hang off the root
// domain; their parent field is ignored.
package trace

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/banshee-data/areatrack/internal/area"
	"github.com/banshee-data/areatrack/internal/fsutil"
	"github.com/banshee-data/areatrack/internal/tracker"
)

// MaxFileSize bounds the size of trace files accepted by Load.
const MaxFileSize = 64 * 1024 * 1024

// Entry is one box of a recorded level.
type Entry struct {
	area.Box
	Parent int `json:"parent"`
}

// Trace is a recorded subdivision run.
type Trace struct {
	Dimension int       `json:"dimension"`
	Source    string    `json:"source,omitempty"`
	Levels    [][]Entry `json:"levels"`
}

// Load reads and validates a trace file.
func Load(fsys fsutil.FileSystem, path string) (*Trace, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("trace file must have .json extension, got %q", ext)
	}

	info, err := fsys.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat trace file: %w", err)
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("trace file too large: %d bytes (max %d)", info.Size(), MaxFileSize)
	}

	data, err := fsys.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read trace file: %w", err)
	}

	tr, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("invalid trace %s: %w", cleanPath, err)
	}
	if tr.Source == "" {
		tr.Source = filepath.Base(cleanPath)
	}
	return tr, nil
}

// Decode reads and validates a trace from r.
func Decode(r io.Reader) (*Trace, error) {
	var tr Trace
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&tr); err != nil {
		return nil, fmt.Errorf("failed to parse trace JSON: %w", err)
	}
	if err := tr.Validate(); err != nil {
		return nil, err
	}
	return &tr, nil
}

// Validate checks every box and parent reference in the trace.
func (t *Trace) Validate() error {
	if t.Dimension <= 0 {
		return fmt.Errorf("%w: trace dimension must be positive, got %d", area.ErrInvalidInput, t.Dimension)
	}
	if len(t.Levels) == 0 {
		return fmt.Errorf("%w: trace has no levels", area.ErrInvalidInput)
	}

	prev := 0
	for li, level := range t.Levels {
		for ei, e := range level {
			if err := e.Box.Validate(); err != nil {
				return fmt.Errorf("level %d entry %d: %w", li, ei, err)
			}
			if e.Box.Dim() != t.Dimension {
				return fmt.Errorf("%w: level %d entry %d has dimension %d, want %d",
					area.ErrInvalidInput, li, ei, e.Box.Dim(), t.Dimension)
			}
			if li > 0 && (e.Parent < 0 || e.Parent >= prev) {
				return fmt.Errorf("%w: level %d entry %d references parent %d of %d",
					area.ErrInvalidInput, li, ei, e.Parent, prev)
			}
		}
		prev = len(level)
	}
	return nil
}

// Children converts level i into tracker children.
func (t *Trace) Children(i int) []tracker.Child {
	level := t.Levels[i]
	out := make([]tracker.Child, len(level))
	for j, e := range level {
		parent := e.Parent
		if i == 0 {
			parent = tracker.NoParent
		}
		out[j] = tracker.Child{Box: e.Box, Parent: parent}
	}
	return out
}
