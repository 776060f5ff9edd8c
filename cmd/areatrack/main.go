// Command areatrack replays a recorded subdivision trace through the area
// tracker, reporting the remaining fraction of the search domain and the
// progress metric level by level.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/banshee-data/areatrack/internal/config"
	"github.com/banshee-data/areatrack/internal/fsutil"
	"github.com/banshee-data/areatrack/internal/monitoring"
	"github.com/banshee-data/areatrack/internal/report"
	"github.com/banshee-data/areatrack/internal/store"
	"github.com/banshee-data/areatrack/internal/trace"
	"github.com/banshee-data/areatrack/internal/tracker"
	"github.com/banshee-data/areatrack/internal/version"
)

type options struct {
	configPath  string
	tracePath   string
	dbPath      string
	pngDir      string
	htmlPath    string
	showVersion bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("areatrack", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configPath, "config", "", "Tracking config JSON (defaults apply when empty)")
	fs.StringVar(&o.tracePath, "trace", "", "Subdivision trace JSON to replay (required)")
	fs.StringVar(&o.dbPath, "db", "", "SQLite database to record the run in")
	fs.StringVar(&o.pngDir, "png", "", "Directory for PNG charts")
	fs.StringVar(&o.htmlPath, "html", "", "Path of an HTML chart page")
	fs.BoolVar(&o.showVersion, "version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if !o.showVersion && o.tracePath == "" {
		return o, fmt.Errorf("-trace is required")
	}
	return o, nil
}

func run(args []string, stdout, stderr io.Writer, fsys fsutil.FileSystem) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if opts.showVersion {
		fmt.Fprintln(stdout, version.String("areatrack"))
		return nil
	}

	cfg := config.EmptyTrackingConfig()
	if opts.configPath != "" {
		if cfg, err = config.LoadTrackingConfig(fsys, opts.configPath); err != nil {
			return err
		}
	}

	tr, err := trace.Load(fsys, opts.tracePath)
	if err != nil {
		return err
	}
	if dim := cfg.GetDimension(); dim != 0 && dim != tr.Dimension {
		return fmt.Errorf("config dimension %d does not match trace dimension %d", dim, tr.Dimension)
	}

	trk, err := tracker.New(tracker.Config{
		Dimension: tr.Dimension,
		Precision: cfg.GetPrecision(),
		LogEvery:  cfg.GetLogEvery(),
	})
	if err != nil {
		return err
	}

	var (
		db    *store.Store
		runID string
	)
	if opts.dbPath != "" {
		if db, err = store.Open(opts.dbPath); err != nil {
			return err
		}
		defer db.Close()
		r, err := db.CreateRun(tr.Dimension, cfg.GetPrecision(), tr.Source)
		if err != nil {
			return err
		}
		runID = r.ID
		monitoring.Logf("recording run %s in %s", runID, opts.dbPath)
	}

	levels := len(tr.Levels)
	if maxLevels := cfg.GetMaxLevels(); maxLevels > 0 && maxLevels < levels {
		levels = maxLevels
	}
	for i := 0; i < levels; i++ {
		if _, err := trk.Step(tr.Children(i)); err != nil {
			return err
		}
	}
	samples := trk.Samples()

	if db != nil {
		if err := db.AppendSamples(runID, samples); err != nil {
			return err
		}
	}

	title := cfg.GetPlotTitle()
	if opts.pngDir != "" {
		paths, err := report.WritePNGs(fsys, opts.pngDir, title, samples)
		if err != nil {
			return fmt.Errorf("failed to write PNG charts: %w", err)
		}
		monitoring.Logf("wrote %v", paths)
	}
	if opts.htmlPath != "" {
		f, err := fsys.Create(opts.htmlPath)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", opts.htmlPath, err)
		}
		if err := report.WriteHTML(f, title, samples); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		monitoring.Logf("wrote %s", opts.htmlPath)
	}

	last := samples[len(samples)-1]
	fmt.Fprintf(stdout, "source=%s dim=%d levels=%d leaves=%d log_area=%.6g fraction=%.6g progress=%.6f\n",
		tr.Source, tr.Dimension, len(samples), last.Leaves, last.TotalLogArea, last.Fraction, last.Progress)
	if runID != "" {
		fmt.Fprintf(stdout, "run_id=%s\n", runID)
	}
	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr, fsutil.OSFileSystem{}); err != nil {
		log.Fatalf("areatrack: %v", err)
	}
}
