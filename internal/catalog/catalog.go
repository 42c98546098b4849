package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Brownie44l1/medict-api/internal/domain"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Catalog is the immutable registry of supported domains.
type Catalog struct {
	domains []*domain.Domain
	byKind  map[domain.Kind]*domain.Domain

	PositiveAdvice string
	NegativeAdvice string
}

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return Load(defaultCatalog)
}

func LoadFile(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &domain.Error{
			Op:   "catalog.load_file",
			Kind: domain.KindConfiguration,
			Msg:  path,
			Err:  err,
		}
	}
	return Load(b)
}

func Load(data []byte) (*Catalog, error) {
	var dto YAMLCatalog
	if err := yaml.Unmarshal(data, &dto); err != nil {
		return nil, &domain.Error{
			Op:   "catalog.load",
			Kind: domain.KindConfiguration,
			Err:  err,
		}
	}
	if len(dto.Domains) == 0 {
		return nil, &domain.Error{
			Op:   "catalog.load",
			Kind: domain.KindConfiguration,
			Msg:  "no domains registered",
		}
	}

	c := &Catalog{
		domains:        make([]*domain.Domain, 0, len(dto.Domains)),
		byKind:         make(map[domain.Kind]*domain.Domain, len(dto.Domains)),
		PositiveAdvice: strings.TrimSpace(dto.PositiveAdvice),
		NegativeAdvice: strings.TrimSpace(dto.NegativeAdvice),
	}
	for _, yd := range dto.Domains {
		d, err := MapDomain(yd)
		if err != nil {
			return nil, err
		}
		if _, dup := c.byKind[d.Kind]; dup {
			return nil, invalidField(d.Kind.String(), "kind", "registered more than once")
		}
		c.domains = append(c.domains, d)
		c.byKind[d.Kind] = d
	}
	return c, nil
}

// List returns the domains in registration order.
func (c *Catalog) List() []*domain.Domain {
	out := make([]*domain.Domain, len(c.domains))
	copy(out, c.domains)
	return out
}

// Get looks a domain up by kind key ("kidney") or display name ("Kidney Cancer").
func (c *Catalog) Get(name string) (*domain.Domain, error) {
	if kind, err := domain.ParseKind(name); err == nil {
		if d, ok := c.byKind[kind]; ok {
			return d, nil
		}
	}
	for _, d := range c.domains {
		if strings.EqualFold(d.Name, strings.TrimSpace(name)) {
			return d, nil
		}
	}
	return nil, &domain.Error{Op: "catalog.get", Kind: domain.KindUnknownDomain, Domain: name}
}

func (c *Catalog) ByKind(kind domain.Kind) (*domain.Domain, error) {
	d, ok := c.byKind[kind]
	if !ok {
		return nil, &domain.Error{Op: "catalog.get", Kind: domain.KindUnknownDomain, Domain: kind.String()}
	}
	return d, nil
}

// Validate checks that the domain's label table matches its model's output dimension.
func Validate(d *domain.Domain, outputDim int) error {
	if len(d.Labels) != outputDim {
		return &domain.Error{
			Op:     "catalog.validate",
			Kind:   domain.KindConfiguration,
			Domain: d.Kind.String(),
			Msg:    fmt.Sprintf("%d labels but model produces %d outputs", len(d.Labels), outputDim),
		}
	}
	return nil
}

// ValidateContent checks the negative label and that every positive label has a message
// and a precaution.
func ValidateContent(d *domain.Domain) error {
	count := 0
	for _, l := range d.Labels {
		if l == d.NegativeLabel {
			count++
		}
	}
	if count != 1 {
		return invalidField(d.Kind.String(), "negative_label",
			fmt.Sprintf("%q must appear exactly once in labels, found %d", d.NegativeLabel, count))
	}
	if d.NegativeMessage == "" {
		return missingContent(d, d.NegativeLabel, "negative message")
	}

	for _, l := range d.PositiveLabels() {
		if d.PositiveMessages[l] == "" {
			return missingContent(d, l, "positive message")
		}
		if d.Precautions[l] == "" {
			return missingContent(d, l, "precaution")
		}
	}

	for _, table := range []map[string]string{d.PositiveMessages, d.Precautions} {
		for l := range table {
			if d.LabelIndex(l) < 0 || l == d.NegativeLabel {
				return invalidField(d.Kind.String(), "content", fmt.Sprintf("content for unknown positive label %q", l))
			}
		}
	}
	return nil
}

func missingContent(d *domain.Domain, label, what string) error {
	return &domain.Error{
		Op:     "catalog.validate_content",
		Kind:   domain.KindMissingContent,
		Domain: d.Kind.String(),
		Msg:    fmt.Sprintf("no %s for label %q", what, label),
	}
}
