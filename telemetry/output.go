package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/schelling/config"
)

// OutputManager handles structured experiment output with CSV logging.
type OutputManager struct {
	dir        string
	trialsFile *os.File
	classFile  *os.File

	// Track if headers have been written
	trialsHeaderWritten bool
	classHeaderWritten  bool
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

	f, err := os.Create(filepath.Join(dir, "trials.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating trials.csv: %w", err)
	}
	om.trialsFile = f

	f, err = os.Create(filepath.Join(dir, "classes.csv"))
	if err != nil {
		om.trialsFile.Close()
		return nil, fmt.Errorf("creating classes.csv: %w", err)
	}
	om.classFile = f

	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteTrial writes one trial record to trials.csv and its class records
// to classes.csv.
func (om *OutputManager) WriteTrial(ts TrialStats, cs []ClassStats) error {
	if om == nil {
		return nil
	}

	if err := writeRecords(om.trialsFile, []TrialStats{ts}, &om.trialsHeaderWritten); err != nil {
		return fmt.Errorf("writing trial: %w", err)
	}
	if len(cs) == 0 {
		return nil
	}
	if err := writeRecords(om.classFile, cs, &om.classHeaderWritten); err != nil {
		return fmt.Errorf("writing class stats: %w", err)
	}
	return nil
}

// WriteSummary writes the experiment summary to summary.csv, replacing any
// previous summary.
func (om *OutputManager) WriteSummary(summary []SeriesSummary) error {
	if om == nil {
		return nil
	}

	f, err := os.Create(filepath.Join(om.dir, "summary.csv"))
	if err != nil {
		return fmt.Errorf("creating summary.csv: %w", err)
	}
	defer f.Close()

	if err := gocsv.Marshal(summary, f); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	return nil
}

// writeRecords appends records, including the header on first write only.
func writeRecords[T any](f *os.File, records []T, headerWritten *bool) error {
	if !*headerWritten {
		if err := gocsv.Marshal(records, f); err != nil {
			return err
		}
		*headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(records, f)
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

	var firstErr error
	if om.trialsFile != nil {
		if err := om.trialsFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if om.classFile != nil {
		if err := om.classFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
