package tracker

import (
	"fmt"
	"math"
	"sync"

	"github.com/banshee-data/areatrack/internal/area"
	"github.com/banshee-data/areatrack/internal/monitoring"
	"gonum.org/v1/gonum/stat"
)

// NoParent marks a child of the root domain.
const NoParent = -1

var logf = monitoring.Prefixed("tracker")

// Child is one box of a subdivision level.
type Child struct {
	Box    area.Box
	Parent int
}

// Config configures a Tracker.
type Config struct {
	Dimension int
	Precision float64
	// LogEvery logs one line every N levels; zero disables logging.
	LogEvery int
}

// Sample summarises one subdivision level.
type Sample struct {
	Level        int
	Leaves       int
	TotalLogArea float64
	Fraction     float64
	Progress     float64
	// Spread of the finite per-leaf log areas.
	MeanLeafLogArea   float64
	StdDevLeafLogArea float64
}

// Tracker records the area of a subdivision frontier level by level.
// It is safe for concurrent use, though levels must be supplied in order.
type Tracker struct {
	mu      sync.Mutex
	cfg     Config
	level   int
	leaves  []float64
	samples []Sample
}

// New creates a Tracker. The dimension must be positive and the precision
// must satisfy area.ValidatePrecision.
func New(cfg Config) (*Tracker, error) {
	if cfg.Dimension <= 0 {
		return nil, fmt.Errorf("%w: dimension must be positive, got %d", area.ErrInvalidInput, cfg.Dimension)
	}
	if err := area.ValidatePrecision(cfg.Precision); err != nil {
		return nil, err
	}
	if cfg.LogEvery < 0 {
		cfg.LogEvery = 0
	}
	return &Tracker{cfg: cfg}, nil
}

// Step consumes the next subdivision level. On error the tracker state is
// left unchanged.
func (t *Tracker) Step(children []Child) (Sample, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	leaves := make([]area.Leaf, len(children))
	for i, c := range children {
		if c.Box.Dim() != t.cfg.Dimension {
			return Sample{}, fmt.Errorf("%w: level %d child %d has dimension %d, want %d",
				area.ErrInvalidInput, t.level, i, c.Box.Dim(), t.cfg.Dimension)
		}
		switch {
		case c.Parent == NoParent:
			leaves[i] = area.Leaf{Box: c.Box}
		case c.Parent >= 0 && c.Parent < len(t.leaves):
			leaves[i] = area.Leaf{Box: c.Box, AncestorLogArea: t.leaves[c.Parent]}
		default:
			return Sample{}, fmt.Errorf("%w: level %d child %d references parent %d of %d",
				area.ErrInvalidInput, t.level, i, c.Parent, len(t.leaves))
		}
	}

	s := Sample{Level: t.level, Leaves: len(children)}
	var perLeaf []float64
	if len(leaves) == 0 {
		s.TotalLogArea = math.Inf(-1)
		s.MeanLeafLogArea = math.Inf(-1)
	} else {
		total, logAreas, err := area.AggregateLogAreas(leaves)
		if err != nil {
			return Sample{}, fmt.Errorf("level %d: %w", t.level, err)
		}
		s.TotalLogArea = total
		s.MeanLeafLogArea, s.StdDevLeafLogArea = spread(logAreas)
		perLeaf = logAreas
	}
	s.Fraction = area.ToLinear(s.TotalLogArea)
	s.Progress = area.Progress(s.TotalLogArea, t.cfg.Dimension, t.cfg.Precision)

	t.leaves = perLeaf
	t.samples = append(t.samples, s)
	t.level++

	if t.cfg.LogEvery > 0 && s.Level%t.cfg.LogEvery == 0 {
		logf("level=%d leaves=%d log_area=%.6g fraction=%.3g progress=%.4f",
			s.Level, s.Leaves, s.TotalLogArea, s.Fraction, s.Progress)
	}
	return s, nil
}

// Level returns the index the next Step call will record.
func (t *Tracker) Level() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.level
}

// Samples returns a copy of every recorded sample.
func (t *Tracker) Samples() []Sample {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Sample(nil), t.samples...)
}

// LeafLogAreas returns a copy of the current frontier's per-leaf log areas.
func (t *Tracker) LeafLogAreas() []float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]float64(nil), t.leaves...)
}

// spread returns the mean and sample standard deviation of the finite log
// areas. Degenerate leaves (-Inf) are skipped; with none left the mean is
// -Inf.
func spread(logAreas []float64) (mean, stddev float64) {
	finite := make([]float64, 0, len(logAreas))
	for _, x := range logAreas {
		if !math.IsInf(x, 0) {
			finite = append(finite, x)
		}
	}
	switch len(finite) {
	case 0:
		return math.Inf(-1), 0
	case 1:
		return finite[0], 0
	}
	return stat.MeanStdDev(finite, nil)
}
