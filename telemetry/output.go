package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/tilewalk/config"
)

// csvFile is an output file that writes its header once.
type csvFile struct {
	f             *os.File
	headerWritten bool
}

func (c *csvFile) write(records any) error {
	if !c.headerWritten {
		if err := gocsv.Marshal(records, c.f); err != nil {
			return err
		}
		c.headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(records, c.f)
}

// OutputManager writes run output to a directory: the effective config,
// windowed stats, perf stats and optionally the raw event log.
type OutputManager struct {
	dir    string
	stats  *csvFile
	perf   *csvFile
	events *csvFile
}

// NewOutputManager creates the output directory and its CSV files.
// Returns nil if dir is empty (output disabled). events.csv is only
// created when eventLog is set.
func NewOutputManager(dir string, eventLog bool) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	names := []string{"stats.csv", "perf.csv"}
	if eventLog {
		names = append(names, "events.csv")
	}
	files := make([]*csvFile, 0, len(names))
	for _, name := range names {
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			for _, opened := range files {
				opened.f.Close()
			}
			return nil, fmt.Errorf("creating %s: %w", name, err)
		}
		files = append(files, &csvFile{f: f})
	}
	om.stats, om.perf = files[0], files[1]
	if eventLog {
		om.events = files[2]
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

// WriteStats appends a window stats record to stats.csv.
func (om *OutputManager) WriteStats(stats WindowStats) error {
	if om == nil {
		return nil
	}
	if err := om.stats.write([]WindowStats{stats}); err != nil {
		return fmt.Errorf("writing stats: %w", err)
	}
	return nil
}

// WritePerf appends the step profile for the window ending at windowEnd to
// perf.csv.
func (om *OutputManager) WritePerf(stats ProfileStats, windowEnd int32) error {
	if om == nil {
		return nil
	}
	if err := om.perf.write([]ProfileRow{stats.Row(windowEnd)}); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// WriteEvents appends event records to events.csv. A no-op when the event
// log is disabled or records is empty.
func (om *OutputManager) WriteEvents(records []EventRecord) error {
	if om == nil || om.events == nil || len(records) == 0 {
		return nil
	}
	if err := om.events.write(records); err != nil {
		return fmt.Errorf("writing events: %w", err)
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

// Close closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	for _, c := range []*csvFile{om.stats, om.perf, om.events} {
		if c == nil {
			continue
		}
		if err := c.f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
