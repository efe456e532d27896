package mood

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/moodify-labs/moodify/internal/dataset"
)

func TestEvaluate_PerfectSeparation(t *testing.T) {
	tracks := trainingSet()
	model, err := Train(tracks)
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}

	eval, err := Evaluate(model, tracks)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	if eval.Accuracy != 1 {
		t.Errorf("Accuracy = %v, want 1", eval.Accuracy)
	}
	if eval.Rows != len(tracks) {
		t.Errorf("Rows = %d, want %d", eval.Rows, len(tracks))
	}

	for _, m := range dataset.Moods() {
		c := eval.PerClass[m]
		if c.Precision != 1 || c.Recall != 1 || c.F1 != 1 {
			t.Errorf("%s metrics = %+v, want all 1", m, c)
		}
		if c.Support != 2 {
			t.Errorf("%s support = %d, want 2", m, c.Support)
		}
	}

	// Confusion matrix should be diagonal.
	for i := range eval.Confusion {
		for j, n := range eval.Confusion[i] {
			want := 0
			if i == j {
				want = 2
			}
			if n != want {
				t.Errorf("Confusion[%d][%d] = %d, want %d", i, j, n, want)
			}
		}
	}
}

func TestEvaluate_CountsMislabels(t *testing.T) {
	model, err := Train(trainingSet())
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}

	// A sad-sounding row mislabeled happy must cost accuracy and recall.
	test := []dataset.Track{
		labeledTrack("ok", dataset.MoodSad, archetypes[dataset.MoodSad]),
		labeledTrack("mislabeled", dataset.MoodHappy, archetypes[dataset.MoodSad]),
	}

	eval, err := Evaluate(model, test)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	if eval.Accuracy != 0.5 {
		t.Errorf("Accuracy = %v, want 0.5", eval.Accuracy)
	}
	happy := eval.PerClass[dataset.MoodHappy]
	if happy.Recall != 0 {
		t.Errorf("happy recall = %v, want 0", happy.Recall)
	}
	sad := eval.PerClass[dataset.MoodSad]
	if sad.Recall != 1 {
		t.Errorf("sad recall = %v, want 1", sad.Recall)
	}
	if sad.Precision != 0.5 {
		t.Errorf("sad precision = %v, want 0.5", sad.Precision)
	}
}

func TestEvaluate_EmptyTestSet(t *testing.T) {
	model, err := Train(trainingSet())
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}

	if _, err := Evaluate(model, nil); err == nil {
		t.Error("Evaluate() accepted an empty test set")
	}
}

func TestEvaluate_UnknownMood(t *testing.T) {
	model, err := Train(trainingSet())
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}

	test := []dataset.Track{
		labeledTrack("bad", dataset.Mood("angry"), archetypes[dataset.MoodSad]),
	}
	if _, err := Evaluate(model, test); err == nil {
		t.Error("Evaluate() accepted an unknown mood label")
	}
}

func TestWriteReport(t *testing.T) {
	tracks := trainingSet()
	model, err := Train(tracks)
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	eval, err := Evaluate(model, tracks)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	report := &Report{
		TrainedAt:    time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		TrainRows:    len(tracks),
		TestRows:     len(tracks),
		DroppedRows:  dataset.DropReport{Missing: 2, OutOfRange: 1},
		Seed:         42,
		TestFraction: 0.2,
		Evaluation:   eval,
	}

	path := filepath.Join(t.TempDir(), "model_report.yaml")
	if err := WriteReport(path, report); err != nil {
		t.Fatalf("WriteReport() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}
	content := string(data)
	for _, want := range []string{"accuracy: 1", "missing_features: 2", "out_of_range: 1", "seed: 42"} {
		if !strings.Contains(content, want) {
			t.Errorf("report missing %q:\n%s", want, content)
		}
	}
}
