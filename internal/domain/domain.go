package domain

// Domain is one diagnostic area with its label table and clinical content.
// Labels[i] names the classifier's i-th output.
type Domain struct {
	Kind             Kind
	Name             string
	Description      string
	Labels           []string
	NegativeLabel    string
	PositiveMessages map[string]string
	NegativeMessage  string
	Precautions      map[string]string
}

// LabelIndex returns the position of label, or -1.
func (d *Domain) LabelIndex(label string) int {
	for i, l := range d.Labels {
		if l == label {
			return i
		}
	}
	return -1
}

// PositiveLabels returns every label except the negative one, in label order.
func (d *Domain) PositiveLabels() []string {
	out := make([]string, 0, len(d.Labels))
	for _, l := range d.Labels {
		if l != d.NegativeLabel {
			out = append(out, l)
		}
	}
	return out
}

type Outcome string

const (
	Positive Outcome = "positive"
	Negative Outcome = "negative"
)

type LabelScore struct {
	Label       string  `json:"label"`
	Probability float32 `json:"probability"`
}

// Prediction is the interpreted classifier output for a single request.
type Prediction struct {
	Index         int
	Label         string
	Confidence    float32
	Probabilities []float32
	Outcome       Outcome
}

// Guidance is the clinical content resolved for a prediction.
// Precaution is empty for negative outcomes.
type Guidance struct {
	Message    string
	Precaution string
	Advice     string
}

func (g *Guidance) HasPrecaution() bool {
	return g.Precaution != ""
}

// Diagnosis is what the pipeline hands to a presentation layer.
type Diagnosis struct {
	Domain        Kind         `json:"domain"`
	DomainName    string       `json:"domain_name"`
	Label         string       `json:"label"`
	Confidence    float32      `json:"confidence"`
	Outcome       Outcome      `json:"outcome"`
	Probabilities []LabelScore `json:"probabilities"`
	Message       string       `json:"message"`
	Precaution    string       `json:"precaution,omitempty"`
	Advice        string       `json:"advice,omitempty"`
}
