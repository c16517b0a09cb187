package classifier

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// artifact is the JSON shape the offline trainer exports: a linear
// one-vs-rest SVM as one weight vector and intercept per class.
type artifact struct {
	Classes    []string    `json:"classes"`
	Weights    [][]float64 `json:"weights"`
	Intercepts []float64   `json:"intercepts"`
}

// SVM is a linear multi-class model over HOG descriptors. Loaded once at
// process start and read-only afterwards.
type SVM struct {
	classes    []string
	weights    [][]float64
	intercepts []float64
	features   int
}

// LoadSVM reads and validates a trainer artifact.
func LoadSVM(path string) (*SVM, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}

	var a artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parse artifact: %w", err)
	}

	if len(a.Classes) == 0 {
		return nil, fmt.Errorf("artifact has no classes")
	}
	if len(a.Weights) != len(a.Classes) || len(a.Intercepts) != len(a.Classes) {
		return nil, fmt.Errorf("artifact shape mismatch: %d classes, %d weight vectors, %d intercepts",
			len(a.Classes), len(a.Weights), len(a.Intercepts))
	}

	features := len(a.Weights[0])
	if features == 0 {
		return nil, fmt.Errorf("artifact weight vectors are empty")
	}
	for i, w := range a.Weights {
		if len(w) != features {
			return nil, fmt.Errorf("weight vector %d has %d features, want %d", i, len(w), features)
		}
	}

	return &SVM{
		classes:    a.Classes,
		weights:    a.Weights,
		intercepts: a.Intercepts,
		features:   features,
	}, nil
}

// Classify scores the descriptor against every class and converts the
// decision margins into a probability distribution via softmax. Ties on the
// top probability resolve to the earliest class in artifact order.
func (m *SVM) Classify(descriptor []float64) (Prediction, error) {
	if len(descriptor) != m.features {
		return Prediction{}, fmt.Errorf("descriptor has %d features, model expects %d", len(descriptor), m.features)
	}

	margins := make([]float64, len(m.classes))
	maxMargin := math.Inf(-1)
	for i, w := range m.weights {
		var dot float64
		for j, x := range descriptor {
			dot += w[j] * x
		}
		margins[i] = dot + m.intercepts[i]
		if margins[i] > maxMargin {
			maxMargin = margins[i]
		}
	}

	// Softmax, shifted by the max margin for numeric stability
	var sum float64
	probs := make([]float64, len(margins))
	for i, margin := range margins {
		probs[i] = math.Exp(margin - maxMargin)
		sum += probs[i]
	}

	distribution := make(map[string]float64, len(m.classes))
	best := 0
	for i := range probs {
		probs[i] /= sum
		distribution[m.classes[i]] = probs[i]
		if probs[i] > probs[best] {
			best = i
		}
	}

	return Prediction{
		Label:        m.classes[best],
		Confidence:   probs[best],
		Distribution: distribution,
	}, nil
}
