// Package classifier wraps the pre-trained street-issue model. The real
// implementation loads a JSON artifact exported by the offline trainer; when
// the artifact is missing or corrupt the service runs with a degraded
// classifier instead so submissions are never blocked on the model.
package classifier

import (
	"github.com/streetpulse/streetpulse/internal/pkg/logger"
)

// Raw labels are lowercase-with-underscore tokens from the trainer's closed
// label set. Normalization to display form happens downstream.
const (
	FallbackLabel      = "other_urban_issue"
	FallbackConfidence = 0.5
)

// Prediction is the model output for one descriptor.
type Prediction struct {
	Label        string
	Confidence   float64
	Distribution map[string]float64
}

// Classifier maps a descriptor to a label with a per-class confidence
// distribution. Implementations are immutable after construction and safe
// for concurrent use.
type Classifier interface {
	Classify(descriptor []float64) (Prediction, error)
}

// Select loads the artifact at path and picks the implementation once at
// startup: the real model on success, the degraded stub otherwise.
func Select(path string) Classifier {
	model, err := LoadSVM(path)
	if err != nil {
		logger.Warn("classifier artifact %q unusable, running degraded: %v", path, err)
		return Degraded{}
	}

	logger.Info("classifier artifact loaded: %d classes, %d features", len(model.classes), model.features)
	return model
}

// Degraded is the no-model fallback: every call yields the fixed
// low-confidence default.
type Degraded struct{}

func (Degraded) Classify(descriptor []float64) (Prediction, error) {
	return Prediction{
		Label:        FallbackLabel,
		Confidence:   FallbackConfidence,
		Distribution: map[string]float64{FallbackLabel: FallbackConfidence},
	}, nil
}
