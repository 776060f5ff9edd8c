package report

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/areatrack/internal/fsutil"
	"github.com/banshee-data/areatrack/internal/tracker"
)

// ErrNoData is returned when no sample has a finite value to plot.
var ErrNoData = errors.New("no finite samples to plot")

// PNG file names written by WritePNGs.
const (
	LogAreaPNG  = "log_area.png"
	ProgressPNG = "progress.png"
)

var (
	logAreaColor  = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	meanLeafColor = color.RGBA{R: 255, G: 127, B: 14, A: 255}
	progressColor = color.RGBA{R: 44, G: 160, B: 44, A: 255}
)

// WritePNGs writes LogAreaPNG and ProgressPNG into dir and returns their
// paths.
func WritePNGs(fsys fsutil.FileSystem, dir, title string, samples []tracker.Sample) ([]string, error) {
	if err := fsys.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	pArea := plot.New()
	pArea.Title.Text = title + " - log area"
	pArea.X.Label.Text = "Level"
	pArea.Y.Label.Text = "log(fraction of domain)"
	total := series(samples, func(s tracker.Sample) float64 { return s.TotalLogArea })
	if len(total) == 0 {
		return nil, ErrNoData
	}
	if err := addLine(pArea, "total", total, logAreaColor); err != nil {
		return nil, err
	}
	mean := series(samples, func(s tracker.Sample) float64 { return s.MeanLeafLogArea })
	if len(mean) > 0 {
		if err := addLine(pArea, "mean leaf", mean, meanLeafColor); err != nil {
			return nil, err
		}
	}

	pProgress := plot.New()
	pProgress.Title.Text = title + " - progress"
	pProgress.X.Label.Text = "Level"
	pProgress.Y.Label.Text = "Progress"
	progress := series(samples, func(s tracker.Sample) float64 { return s.Progress })
	if err := addLine(pProgress, "progress", progress, progressColor); err != nil {
		return nil, err
	}

	outputs := []struct {
		name string
		plot *plot.Plot
	}{
		{LogAreaPNG, pArea},
		{ProgressPNG, pProgress},
	}
	paths := make([]string, 0, len(outputs))
	for _, out := range outputs {
		path := filepath.Join(dir, out.name)
		if err := savePNG(fsys, out.plot, path); err != nil {
			return nil, fmt.Errorf("%s: %w", out.name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func series(samples []tracker.Sample, value func(tracker.Sample) float64) plotter.XYs {
	pts := make(plotter.XYs, 0, len(samples))
	for _, s := range samples {
		v := value(s)
		if math.IsInf(v, 0) || math.IsNaN(v) {
			continue
		}
		pts = append(pts, plotter.XY{X: float64(s.Level), Y: v})
	}
	return pts
}

func addLine(p *plot.Plot, label string, pts plotter.XYs, c color.Color) error {
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Color = c
	line.Width = vg.Points(1.5)
	p.Add(line)
	p.Legend.Add(label, line)
	return nil
}

func savePNG(fsys fsutil.FileSystem, p *plot.Plot, path string) error {
	wt, err := p.WriterTo(20*vg.Centimeter, 12*vg.Centimeter, "png")
	if err != nil {
		return err
	}
	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := wt.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
