package catalog

import (
	"fmt"
	"strings"

	"github.com/Brownie44l1/medict-api/internal/domain"
)

func MapDomain(yd YAMLDomain) (*domain.Domain, error) {
	kind, err := domain.ParseKind(yd.Kind)
	if err != nil {
		return nil, invalidField(yd.Kind, "kind", fmt.Sprintf("unsupported kind %q", yd.Kind))
	}
	if strings.TrimSpace(yd.Name) == "" {
		return nil, invalidField(kind.String(), "name", "display name is required")
	}

	labels, err := mapLabels(kind, yd.Labels)
	if err != nil {
		return nil, err
	}

	d := &domain.Domain{
		Kind:             kind,
		Name:             strings.TrimSpace(yd.Name),
		Description:      strings.TrimSpace(yd.Description),
		Labels:           labels,
		NegativeLabel:    yd.NegativeLabel,
		NegativeMessage:  strings.TrimSpace(yd.NegativeMessage),
		PositiveMessages: trimValues(yd.PositiveMessages),
		Precautions:      trimValues(yd.Precautions),
	}

	if err := ValidateContent(d); err != nil {
		return nil, err
	}
	return d, nil
}

// mapLabels turns the index->name table into a slice, requiring indices 0..N-1.
func mapLabels(kind domain.Kind, in map[int]string) ([]string, error) {
	if len(in) == 0 {
		return nil, invalidField(kind.String(), "labels", "at least one label is required")
	}

	out := make([]string, len(in))
	seen := make(map[string]bool, len(in))
	for i := 0; i < len(in); i++ {
		name, ok := in[i]
		if !ok {
			return nil, invalidField(kind.String(), "labels", fmt.Sprintf("indices must be contiguous from 0, missing %d", i))
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, invalidField(kind.String(), fmt.Sprintf("labels[%d]", i), "label name is required")
		}
		if seen[name] {
			return nil, invalidField(kind.String(), fmt.Sprintf("labels[%d]", i), fmt.Sprintf("duplicate label %q", name))
		}
		seen[name] = true
		out[i] = name
	}
	return out, nil
}

func trimValues(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return out
}

func invalidField(dom, field, msg string) error {
	return &domain.Error{
		Op:     "catalog.map",
		Kind:   domain.KindConfiguration,
		Domain: dom,
		Msg:    fmt.Sprintf("%s: %s", field, msg),
	}
}
