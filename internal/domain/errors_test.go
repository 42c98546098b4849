package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorWrapUnwrap(t *testing.T) {
	root := errors.New("root")
	err := &Error{Op: "infer", Kind: KindInference, Domain: "kidney", Err: root}

	require.ErrorIs(t, err, root)
	require.ErrorIs(t, err, ErrInference)
	require.NotErrorIs(t, err, ErrInvalidVector)

	var got *Error
	require.ErrorAs(t, err, &got)
	require.Equal(t, KindInference, got.Kind)
	require.Equal(t, "infer: inference (domain=kidney): root", err.Error())
}

func TestIsKindThroughWrapping(t *testing.T) {
	err := fmt.Errorf("classify: %w", &Error{Kind: KindInvalidImage, Msg: "zero size"})

	require.True(t, IsKind(err, KindInvalidImage))
	require.False(t, IsKind(err, KindInference))
	require.Equal(t, KindInvalidImage, KindOf(err))
	require.Equal(t, ErrorKind(""), KindOf(errors.New("plain")))
}

func TestStartupKinds(t *testing.T) {
	require.True(t, KindModelLoad.Startup())
	require.True(t, KindConfiguration.Startup())
	require.False(t, KindInference.Startup())
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("  Kidney ")
	require.NoError(t, err)
	require.Equal(t, Kidney, k)
	require.Equal(t, "kidney", k.String())

	_, err = ParseKind("liver")
	require.ErrorIs(t, err, ErrUnknownDomain)

	var parsed Kind
	require.NoError(t, parsed.UnmarshalText([]byte("brain")))
	require.Equal(t, Brain, parsed)
	require.False(t, Kind(0).Valid())
}

func TestPositiveLabels(t *testing.T) {
	d := &Domain{Labels: []string{"Cyst", "Normal", "Stone", "Tumor"}, NegativeLabel: "Normal"}

	require.Equal(t, []string{"Cyst", "Stone", "Tumor"}, d.PositiveLabels())
	require.Equal(t, 2, d.LabelIndex("Stone"))
	require.Equal(t, -1, d.LabelIndex("Polyp"))
}
