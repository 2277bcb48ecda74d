package model

import (
	"os"
	"path/filepath"
	"testing"
)

func loadTestClassifier(t *testing.T, weights string) *Classifier {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.json")
	if err := os.WriteFile(path, []byte(weights), 0o644); err != nil {
		t.Fatalf("write weights: %v", err)
	}
	classifier, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	return classifier
}

func TestPredict(t *testing.T) {
	classifier := loadTestClassifier(t, `{"bias": -0.1, "weights": {"great": 1.5, "loved": 1.0, "awful": -2.0, "boring": -1.0}}`)

	tests := []struct {
		name string
		text string
		want string
	}{
		{"positive review", "I loved it, a great watch!", LabelPositive},
		{"negative review", "Awful and boring from the first minute.", LabelNegative},
		{"case folded tokens", "GREAT GREAT GREAT", LabelPositive},
		{"unknown words fall to bias", "completely unrecognized vocabulary here", LabelNegative},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			label, ok := classifier.Predict(tc.text)
			if !ok {
				t.Fatalf("Predict(%q) not ok", tc.text)
			}
			if label != tc.want {
				t.Fatalf("Predict(%q) = %q, want %q", tc.text, label, tc.want)
			}
		})
	}
}

func TestPredictNilClassifier(t *testing.T) {
	var classifier *Classifier
	if _, ok := classifier.Predict("anything"); ok {
		t.Fatal("nil classifier Predict() reported ok")
	}
}

func TestPredictDegenerateArtifact(t *testing.T) {
	classifier := loadTestClassifier(t, `{"bias": 1e308, "weights": {"great": 1e308}}`)
	if _, ok := classifier.Predict("great great"); ok {
		t.Fatal("Predict() reported ok for an overflowing score")
	}
}

func TestLoadRejectsBadArtifacts(t *testing.T) {
	tests := []struct {
		name    string
		weights string
	}{
		{"invalid json", `{"bias": `},
		{"wrong types", `{"bias": "x", "weights": {}}`},
		{"empty weights", `{"bias": 0.0, "weights": {}}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "model.json")
			if err := os.WriteFile(path, []byte(tc.weights), 0o644); err != nil {
				t.Fatalf("write weights: %v", err)
			}
			if _, err := Load(path); err == nil {
				t.Fatal("Load() expected error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("Load() expected error for missing file")
	}
}

func TestIsPositive(t *testing.T) {
	tests := []struct {
		label string
		want  bool
	}{
		{"positive", true},
		{"POSITIVE", true},
		{"Positive", true},
		{"negative", false},
		{"neutral", false},
		{"", false},
	}

	for _, tc := range tests {
		if got := IsPositive(tc.label); got != tc.want {
			t.Fatalf("IsPositive(%q) = %v, want %v", tc.label, got, tc.want)
		}
	}
}
