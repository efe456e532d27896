package mood

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/moodify-labs/moodify/internal/dataset"
)

// Report is the training artifact written after a train run. It records
// the evaluation alongside the data-quality counts so a run can be judged
// without rerunning it.
type Report struct {
	TrainedAt    time.Time          `yaml:"trained_at"`
	TrainRows    int                `yaml:"train_rows"`
	TestRows     int                `yaml:"test_rows"`
	DroppedRows  dataset.DropReport `yaml:"-"`
	Dropped      droppedCounts      `yaml:"dropped"`
	Seed         int64              `yaml:"seed"`
	TestFraction float64            `yaml:"test_fraction"`
	Evaluation   *Evaluation        `yaml:"evaluation"`
}

type droppedCounts struct {
	Missing    int `yaml:"missing_features"`
	OutOfRange int `yaml:"out_of_range"`
}

// WriteReport marshals the report to YAML at path.
func WriteReport(path string, r *Report) error {
	r.Dropped = droppedCounts{
		Missing:    r.DroppedRows.Missing,
		OutOfRange: r.DroppedRows.OutOfRange,
	}

	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	return nil
}
