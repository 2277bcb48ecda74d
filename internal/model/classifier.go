package model

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"
	"unicode"
)

// Sentiment labels produced by the classifier. Any other label an artifact
// might emit is treated as negative by IsPositive.
const (
	LabelPositive = "positive"
	LabelNegative = "negative"
)

// artifactPayload is the on-disk shape of model.json: a logistic regression
// over lowercase tokens, exported by the training job.
type artifactPayload struct {
	Bias    float64            `json:"bias"`
	Weights map[string]float64 `json:"weights"`
}

// Classifier is the loaded predictive artifact. It is immutable after Load
// and safe for concurrent use.
type Classifier struct {
	bias    float64
	weights map[string]float64
}

// Load reads a serialized classifier from path.
func Load(path string) (*Classifier, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read weights: %w", err)
	}

	var artifact artifactPayload
	if err := json.Unmarshal(payload, &artifact); err != nil {
		return nil, fmt.Errorf("parse weights: %w", err)
	}
	if len(artifact.Weights) == 0 {
		return nil, fmt.Errorf("artifact has no weights")
	}

	return &Classifier{bias: artifact.Bias, weights: artifact.Weights}, nil
}

// Predict classifies text as positive or negative. ok=false signals an
// internal evaluation failure (degenerate artifact), never a panic.
func (c *Classifier) Predict(text string) (string, bool) {
	if c == nil || len(c.weights) == 0 {
		return "", false
	}

	score := c.bias
	for _, token := range tokenize(text) {
		score += c.weights[token]
	}
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return "", false
	}

	if score >= 0 {
		return LabelPositive, true
	}
	return LabelNegative, true
}

// IsPositive reports whether a classifier label counts as the positive
// class. Everything that is not a case-insensitive "positive" is negative.
func IsPositive(label string) bool {
	return strings.EqualFold(label, LabelPositive)
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}
