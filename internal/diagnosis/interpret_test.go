package diagnosis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Brownie44l1/medict-api/internal/domain"
)

func kidneyDomain() *domain.Domain {
	return &domain.Domain{
		Kind:          domain.Kidney,
		Name:          "Kidney Cancer",
		Labels:        []string{"Cyst", "Normal", "Stone", "Tumor"},
		NegativeLabel: "Normal",
		PositiveMessages: map[string]string{
			"Cyst":  "cyst found",
			"Stone": "stone found",
			"Tumor": "tumor found",
		},
		NegativeMessage: "no evidence of kidney cancer",
		Precautions: map[string]string{
			"Cyst":  "<ol><li>hydrate</li></ol>",
			"Stone": "<ol><li>drink water</li></ol>",
			"Tumor": "<ol><li>follow up</li></ol>",
		},
	}
}

func TestInterpret(t *testing.T) {
	tests := []struct {
		name       string
		probs      []float32
		wantIndex  int
		wantLabel  string
		wantConf   float32
		wantResult domain.Outcome
	}{
		{
			name:       "unique maximum positive",
			probs:      []float32{0.10, 0.05, 0.80, 0.05},
			wantIndex:  2,
			wantLabel:  "Stone",
			wantConf:   0.80,
			wantResult: domain.Positive,
		},
		{
			name:       "negative label",
			probs:      []float32{0.05, 0.85, 0.05, 0.05},
			wantIndex:  1,
			wantLabel:  "Normal",
			wantConf:   0.85,
			wantResult: domain.Negative,
		},
		{
			name:       "tie goes to lowest index",
			probs:      []float32{0.4, 0.4, 0.1, 0.1},
			wantIndex:  0,
			wantLabel:  "Cyst",
			wantConf:   0.4,
			wantResult: domain.Positive,
		},
		{
			name:       "tie between later entries",
			probs:      []float32{0.1, 0.2, 0.35, 0.35},
			wantIndex:  2,
			wantLabel:  "Stone",
			wantConf:   0.35,
			wantResult: domain.Positive,
		},
		{
			name:       "low confidence still positive",
			probs:      []float32{0.26, 0.25, 0.25, 0.24},
			wantIndex:  0,
			wantLabel:  "Cyst",
			wantConf:   0.26,
			wantResult: domain.Positive,
		},
		{
			name:       "last index",
			probs:      []float32{0, 0, 0, 1},
			wantIndex:  3,
			wantLabel:  "Tumor",
			wantConf:   1,
			wantResult: domain.Positive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Interpret(kidneyDomain(), tt.probs)
			require.NoError(t, err)
			require.Equal(t, tt.wantIndex, p.Index)
			require.Equal(t, tt.wantLabel, p.Label)
			require.Equal(t, tt.wantConf, p.Confidence)
			require.Equal(t, tt.wantResult, p.Outcome)
			require.Equal(t, tt.probs, p.Probabilities)
		})
	}
}

func TestInterpretInvalidVector(t *testing.T) {
	for name, probs := range map[string][]float32{
		"empty":     {},
		"nil":       nil,
		"too short": {0.5, 0.3, 0.2},
		"too long":  {0.2, 0.2, 0.2, 0.2, 0.2},
		"nan":       {0.2, float32(math.NaN()), 0.5, 0.3},
	} {
		t.Run(name, func(t *testing.T) {
			p, err := Interpret(kidneyDomain(), probs)
			require.ErrorIs(t, err, domain.ErrInvalidVector)
			require.Nil(t, p)
		})
	}
}

func TestInterpretDoesNotAliasInput(t *testing.T) {
	probs := []float32{0.1, 0.2, 0.6, 0.1}
	p, err := Interpret(kidneyDomain(), probs)
	require.NoError(t, err)

	probs[2] = 0
	require.Equal(t, float32(0.6), p.Probabilities[2])
}
