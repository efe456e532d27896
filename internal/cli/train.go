package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/moodify-labs/moodify/internal/dataset"
	"github.com/moodify-labs/moodify/internal/mood"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train and evaluate the mood classifier",
	Long: `Load song_mood_data.csv, drop rows with missing or out-of-range
features, hold out a stratified test split, fit the classifier, and report
accuracy and per-mood precision/recall. The evaluation is written as a
YAML report.`,
	RunE: runTrain,
}

func init() {
	trainCmd.Flags().Float64("test-fraction", 0.2, "fraction of each mood held out for evaluation")
	trainCmd.Flags().Int64("seed", 42, "train/test split shuffle seed")
	trainCmd.Flags().String("report-path", "model_report.yaml", "evaluation report output path")
	rootCmd.AddCommand(trainCmd)
}

func runTrain(cmd *cobra.Command, _ []string) error {
	model, report, err := trainModel()
	if err != nil {
		return err
	}

	eval := report.Evaluation
	logger.Info("classifier trained",
		"train_rows", report.TrainRows,
		"test_rows", report.TestRows,
		"accuracy", fmt.Sprintf("%.3f", eval.Accuracy))
	for _, label := range model.Labels() {
		m := eval.PerClass[label]
		logger.Info("per-mood metrics", "mood", label,
			"precision", fmt.Sprintf("%.3f", m.Precision),
			"recall", fmt.Sprintf("%.3f", m.Recall),
			"support", m.Support)
	}

	if err := mood.WriteReport(cfg.Train.ReportPath, report); err != nil {
		return err
	}
	logger.Info("report written", "path", cfg.Train.ReportPath)
	return nil
}

// trainModel runs the full training stage: load, clean, split, fit,
// evaluate. Shared by train and recommend. Any error is fatal to the
// stage: a model that failed to train must not feed recommendations.
func trainModel() (*mood.Model, *mood.Report, error) {
	rows, err := dataset.ReadTracks(cfg.SongMoodPath())
	if err != nil {
		return nil, nil, err
	}

	labeled, dropped := dataset.CleanLabeled(rows)
	if dropped.Total() > 0 {
		logger.Warn("dropped labeled rows",
			"missing", dropped.Missing, "out_of_range", dropped.OutOfRange)
	}
	if len(labeled) == 0 {
		return nil, nil, mood.ErrEmptyTrainingSet
	}

	splitCfg := mood.SplitConfig{
		TestFraction: cfg.Train.TestFraction,
		Seed:         cfg.Train.Seed,
	}
	train, test, err := mood.StratifiedSplit(labeled, splitCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("splitting dataset: %w", err)
	}

	model, err := mood.Train(train)
	if err != nil {
		return nil, nil, fmt.Errorf("training classifier: %w", err)
	}

	eval, err := mood.Evaluate(model, test)
	if err != nil {
		return nil, nil, fmt.Errorf("evaluating classifier: %w", err)
	}

	report := &mood.Report{
		TrainedAt:    time.Now().UTC(),
		TrainRows:    len(train),
		TestRows:     len(test),
		DroppedRows:  dropped,
		Seed:         cfg.Train.Seed,
		TestFraction: cfg.Train.TestFraction,
		Evaluation:   eval,
	}
	return model, report, nil
}
