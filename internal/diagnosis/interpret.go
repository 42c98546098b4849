package diagnosis

import (
	"fmt"
	"math"

	"github.com/Brownie44l1/medict-api/internal/domain"
)

// Interpret picks the most probable label. Ties go to the lowest index. The outcome
// depends only on whether that label is the domain's negative label.
func Interpret(d *domain.Domain, probabilities []float32) (*domain.Prediction, error) {
	if len(probabilities) == 0 {
		return nil, invalidVector(d, "empty probability vector")
	}
	if len(probabilities) != len(d.Labels) {
		return nil, invalidVector(d, fmt.Sprintf("got %d probabilities for %d labels", len(probabilities), len(d.Labels)))
	}

	maxIdx := 0
	for i, p := range probabilities {
		if math.IsNaN(float64(p)) {
			return nil, invalidVector(d, fmt.Sprintf("probability %d is NaN", i))
		}
		if p > probabilities[maxIdx] {
			maxIdx = i
		}
	}

	label := d.Labels[maxIdx]
	outcome := domain.Positive
	if label == d.NegativeLabel {
		outcome = domain.Negative
	}

	probs := make([]float32, len(probabilities))
	copy(probs, probabilities)

	return &domain.Prediction{
		Index:         maxIdx,
		Label:         label,
		Confidence:    probabilities[maxIdx],
		Probabilities: probs,
		Outcome:       outcome,
	}, nil
}

func invalidVector(d *domain.Domain, msg string) error {
	return &domain.Error{
		Op:     "diagnosis.interpret",
		Kind:   domain.KindInvalidVector,
		Domain: d.Kind.String(),
		Msg:    msg,
	}
}
