package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/parkview/config"
	"github.com/pthm-cable/parkview/coverage"
)

// OutputManager handles structured run output with CSV logging.
type OutputManager struct {
	dir           string
	rotationsFile *os.File
	framesFile    *os.File

	// Track if headers have been written
	rotationsHeaderWritten bool
	framesHeaderWritten    bool
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	// Create output directory
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	// Open rotations.csv
	rotationsPath := filepath.Join(dir, "rotations.csv")
	f, err := os.Create(rotationsPath)
	if err != nil {
		return nil, fmt.Errorf("creating rotations.csv: %w", err)
	}
	om.rotationsFile = f

	// Open frames.csv
	framesPath := filepath.Join(dir, "frames.csv")
	f, err = os.Create(framesPath)
	if err != nil {
		om.rotationsFile.Close()
		return nil, fmt.Errorf("creating frames.csv: %w", err)
	}
	om.framesFile = f

	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	configPath := filepath.Join(om.dir, "config.yaml")
	return cfg.WriteYAML(configPath)
}

// WriteRotation writes a rotation event record to rotations.csv.
func (om *OutputManager) WriteRotation(ev RotationEvent) error {
	if om == nil {
		return nil
	}

	records := []RotationEvent{ev}

	if !om.rotationsHeaderWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, om.rotationsFile); err != nil {
			return fmt.Errorf("writing rotation: %w", err)
		}
		om.rotationsHeaderWritten = true
	} else {
		// Subsequent writes skip headers
		if err := gocsv.MarshalWithoutHeaders(records, om.rotationsFile); err != nil {
			return fmt.Errorf("writing rotation: %w", err)
		}
	}

	return nil
}

// WriteFrames writes a frame stats record to frames.csv.
func (om *OutputManager) WriteFrames(stats FrameStats, windowEnd int64) error {
	if om == nil {
		return nil
	}

	csvRecord := stats.ToCSV(windowEnd)
	records := []FrameStatsCSV{csvRecord}

	if !om.framesHeaderWritten {
		if err := gocsv.Marshal(records, om.framesFile); err != nil {
			return fmt.Errorf("writing frames: %w", err)
		}
		om.framesHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.framesFile); err != nil {
			return fmt.Errorf("writing frames: %w", err)
		}
	}

	return nil
}

// WriteCoverage saves a coverage report as coverage.csv plus a JSON
// summary.
func (om *OutputManager) WriteCoverage(r *coverage.Report) error {
	if om == nil || r == nil {
		return nil
	}

	csvPath := filepath.Join(om.dir, "coverage.csv")
	f, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("creating coverage.csv: %w", err)
	}
	defer f.Close()

	if err := r.WriteCSV(f); err != nil {
		return err
	}

	summaryPath := filepath.Join(om.dir, "coverage_summary.json")
	return r.WriteSummaryJSON(summaryPath)
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

	if om.rotationsFile != nil {
		if err := om.rotationsFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if om.framesFile != nil {
		if err := om.framesFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
