package telemetry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/forage/config"
)

// RunInfo identifies one simulation run in its output directory.
type RunInfo struct {
	RunID     string    `yaml:"run_id"`
	Seed      int64     `yaml:"seed"`
	StartedAt time.Time `yaml:"started_at"`
}

// csvSink appends records to one CSV file, writing the header once.
type csvSink struct {
	f             *os.File
	headerWritten bool
}

func openSink(dir, name string) (*csvSink, error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return &csvSink{f: f}, nil
}

func (s *csvSink) write(records any) error {
	if !s.headerWritten {
		if err := gocsv.Marshal(records, s.f); err != nil {
			return err
		}
		s.headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(records, s.f)
}

// OutputManager handles structured experiment output with CSV logging.
// A nil *OutputManager is valid and discards everything.
type OutputManager struct {
	dir       string
	telemetry *csvSink
	perf      *csvSink
	lifetimes *csvSink
	bookmarks *csvSink
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	var err error
	if om.telemetry, err = openSink(dir, "telemetry.csv"); err != nil {
		return nil, err
	}
	if om.perf, err = openSink(dir, "perf.csv"); err != nil {
		om.Close()
		return nil, err
	}
	if om.lifetimes, err = openSink(dir, "lifetimes.csv"); err != nil {
		om.Close()
		return nil, err
	}
	if om.bookmarks, err = openSink(dir, "bookmarks.csv"); err != nil {
		om.Close()
		return nil, err
	}
	return om, nil
}

// WriteConfig saves the effective configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteRunInfo saves the run identity as run.yaml.
func (om *OutputManager) WriteRunInfo(info RunInfo) error {
	if om == nil {
		return nil
	}
	data, err := yaml.Marshal(info)
	if err != nil {
		return fmt.Errorf("marshaling run info: %w", err)
	}
	if err := os.WriteFile(filepath.Join(om.dir, "run.yaml"), data, 0644); err != nil {
		return fmt.Errorf("writing run.yaml: %w", err)
	}
	return nil
}

// WriteTelemetry writes a window stats record to telemetry.csv.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}
	if err := om.telemetry.write([]WindowStats{stats}); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}

// WritePerf writes a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int32) error {
	if om == nil {
		return nil
	}
	if err := om.perf.write([]PerfStatsCSV{stats.ToCSV(windowEnd)}); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// WriteLifetimes appends retired agent records to lifetimes.csv.
func (om *OutputManager) WriteLifetimes(records []LifetimeStats) error {
	if om == nil || len(records) == 0 {
		return nil
	}
	if err := om.lifetimes.write(records); err != nil {
		return fmt.Errorf("writing lifetimes: %w", err)
	}
	return nil
}

// WriteBookmarks appends triggered bookmarks to bookmarks.csv.
func (om *OutputManager) WriteBookmarks(bookmarks []Bookmark) error {
	if om == nil || len(bookmarks) == 0 {
		return nil
	}
	if err := om.bookmarks.write(bookmarks); err != nil {
		return fmt.Errorf("writing bookmarks: %w", err)
	}
	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	var errs []error
	for _, s := range []*csvSink{om.telemetry, om.perf, om.lifetimes, om.bookmarks} {
		if s != nil {
			errs = append(errs, s.f.Close())
		}
	}
	return errors.Join(errs...)
}
