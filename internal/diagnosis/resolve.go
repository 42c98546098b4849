package diagnosis

import (
	"fmt"

	"github.com/Brownie44l1/medict-api/internal/domain"
)

// Resolve maps a prediction to the domain's clinical content. Negative outcomes get the
// negative message and no precaution.
func Resolve(d *domain.Domain, p *domain.Prediction) (*domain.Guidance, error) {
	if p.Outcome == domain.Negative {
		return &domain.Guidance{Message: d.NegativeMessage}, nil
	}

	msg, ok := d.PositiveMessages[p.Label]
	if !ok || msg == "" {
		return nil, missingContent(d, p.Label, "message")
	}
	precaution, ok := d.Precautions[p.Label]
	if !ok || precaution == "" {
		return nil, missingContent(d, p.Label, "precaution")
	}

	return &domain.Guidance{Message: msg, Precaution: precaution}, nil
}

func missingContent(d *domain.Domain, label, what string) error {
	return &domain.Error{
		Op:     "diagnosis.resolve",
		Kind:   domain.KindMissingContent,
		Domain: d.Kind.String(),
		Msg:    fmt.Sprintf("no %s for label %q", what, label),
	}
}
