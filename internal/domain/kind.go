package domain

import (
	"strings"
)

// Kind identifies one of the supported diagnostic areas.
type Kind int

const (
	Lung Kind = iota + 1
	Kidney
	Brain
)

// Kinds lists every supported kind in catalog order.
func Kinds() []Kind {
	return []Kind{Lung, Kidney, Brain}
}

func (k Kind) String() string {
	switch k {
	case Lung:
		return "lung"
	case Kidney:
		return "kidney"
	case Brain:
		return "brain"
	}
	return "unknown"
}

func (k Kind) Valid() bool {
	return k >= Lung && k <= Brain
}

// ParseKind accepts the kind key in any case, surrounding whitespace ignored.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "lung":
		return Lung, nil
	case "kidney":
		return Kidney, nil
	case "brain":
		return Brain, nil
	}
	return 0, &Error{Op: "parse kind", Kind: KindUnknownDomain, Domain: name}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
