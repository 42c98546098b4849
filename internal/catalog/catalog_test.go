package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Brownie44l1/medict-api/internal/domain"
)

const kidneyOnly = `
positive_advice: see a doctor
negative_advice: keep checking
domains:
  - kind: kidney
    name: Kidney Cancer
    description: renal
    labels:
      0: Cyst
      1: Normal
      2: Stone
      3: Tumor
    negative_label: Normal
    negative_message: nothing found
    positive_messages:
      Cyst: cyst found
      Stone: stone found
      Tumor: tumor found
    precautions:
      Cyst: <ol><li>hydrate</li></ol>
      Stone: <ol><li>drink water</li></ol>
      Tumor: <ol><li>follow up</li></ol>
`

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	list := c.List()
	require.Len(t, list, 3)
	require.Equal(t, domain.Lung, list[0].Kind)
	require.Equal(t, domain.Kidney, list[1].Kind)
	require.Equal(t, domain.Brain, list[2].Kind)

	kidney, err := c.Get("kidney")
	require.NoError(t, err)
	require.Equal(t, []string{"Cyst", "Normal", "Stone", "Tumor"}, kidney.Labels)
	require.Equal(t, "Normal", kidney.NegativeLabel)
	require.Contains(t, kidney.Precautions["Stone"], "Increase fluid intake")

	brain, err := c.Get("Brain Tumor")
	require.NoError(t, err)
	require.Equal(t, "no_tumor", brain.NegativeLabel)
	require.Equal(t, 0, brain.LabelIndex("no_tumor"))

	require.Equal(t, "Please consult a doctor for further evaluation and treatment.", c.PositiveAdvice)
	require.NotEmpty(t, c.NegativeAdvice)

	for _, d := range list {
		require.NoError(t, ValidateContent(d))
		require.NoError(t, Validate(d, 4))
	}
}

func TestGetUnknownDomain(t *testing.T) {
	c, err := Load([]byte(kidneyOnly))
	require.NoError(t, err)

	_, err = c.Get("liver")
	require.ErrorIs(t, err, domain.ErrUnknownDomain)

	_, err = c.Get("lung")
	require.ErrorIs(t, err, domain.ErrUnknownDomain)

	_, err = c.ByKind(domain.Brain)
	require.ErrorIs(t, err, domain.ErrUnknownDomain)
}

func TestValidateDimensionMismatch(t *testing.T) {
	c, err := Load([]byte(kidneyOnly))
	require.NoError(t, err)
	d, err := c.Get("kidney")
	require.NoError(t, err)

	err = Validate(d, 3)
	require.ErrorIs(t, err, domain.ErrConfiguration)
	require.Contains(t, err.Error(), "4 labels but model produces 3 outputs")
}

func TestLoadRejectsBrokenTables(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		kind domain.ErrorKind
	}{
		{
			name: "no domains",
			yaml: "domains: []",
			kind: domain.KindConfiguration,
		},
		{
			name: "unknown kind",
			yaml: `
domains:
  - kind: liver
    name: Liver
    labels: {0: Normal}
    negative_label: Normal
    negative_message: ok
`,
			kind: domain.KindConfiguration,
		},
		{
			name: "gap in label indices",
			yaml: `
domains:
  - kind: lung
    name: Lung
    labels: {0: Normal, 2: Mass}
    negative_label: Normal
    negative_message: ok
`,
			kind: domain.KindConfiguration,
		},
		{
			name: "negative label missing",
			yaml: `
domains:
  - kind: lung
    name: Lung
    labels: {0: Clear, 1: Mass}
    negative_label: Normal
    negative_message: ok
`,
			kind: domain.KindConfiguration,
		},
		{
			name: "positive label without precaution",
			yaml: `
domains:
  - kind: lung
    name: Lung
    labels: {0: Normal, 1: Mass}
    negative_label: Normal
    negative_message: ok
    positive_messages: {Mass: mass found}
`,
			kind: domain.KindMissingContent,
		},
		{
			name: "duplicate kind",
			yaml: `
domains:
  - kind: lung
    name: Lung
    labels: {0: Normal}
    negative_label: Normal
    negative_message: ok
  - kind: LUNG
    name: Lung again
    labels: {0: Normal}
    negative_label: Normal
    negative_message: ok
`,
			kind: domain.KindConfiguration,
		},
		{
			name: "malformed yaml",
			yaml: "domains: [",
			kind: domain.KindConfiguration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.yaml))
			require.Error(t, err)
			require.True(t, domain.IsKind(err, tt.kind), "got %v", err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(kidneyOnly), 0o600))

	c, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, c.List(), 1)
	require.Equal(t, "see a doctor", c.PositiveAdvice)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, domain.ErrConfiguration)
}
