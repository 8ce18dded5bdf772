package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/shapenav/config"
)

// OutputManager handles structured run output with CSV logging.
type OutputManager struct {
	dir       string
	plansFile *os.File

	plansHeaderWritten bool
}

// NewOutputManager creates a new output manager and initializes the output
// directory. Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	plansPath := filepath.Join(dir, "plans.csv")
	f, err := os.Create(plansPath)
	if err != nil {
		return nil, fmt.Errorf("creating plans.csv: %w", err)
	}
	om.plansFile = f

	return om, nil
}

// WriteConfig saves the active configuration as YAML alongside the CSV logs.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WritePlan appends one plan record to plans.csv.
func (om *OutputManager) WritePlan(rec PlanRecord) error {
	if om == nil {
		return nil
	}

	records := []PlanRecord{rec}
	if !om.plansHeaderWritten {
		if err := gocsv.Marshal(records, om.plansFile); err != nil {
			return fmt.Errorf("writing plans.csv: %w", err)
		}
		om.plansHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, om.plansFile); err != nil {
		return fmt.Errorf("writing plans.csv: %w", err)
	}
	return nil
}

// WriteSummary writes the single-row session summary to summary.csv.
func (om *OutputManager) WriteSummary(rec SummaryRecord) error {
	if om == nil {
		return nil
	}

	f, err := os.Create(filepath.Join(om.dir, "summary.csv"))
	if err != nil {
		return fmt.Errorf("creating summary.csv: %w", err)
	}
	defer f.Close()

	if err := gocsv.Marshal([]SummaryRecord{rec}, f); err != nil {
		return fmt.Errorf("writing summary.csv: %w", err)
	}
	return nil
}

// Close flushes and closes the CSV files.
func (om *OutputManager) Close() {
	if om == nil {
		return
	}
	if om.plansFile != nil {
		om.plansFile.Close()
	}
}
