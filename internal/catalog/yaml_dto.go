package catalog

type YAMLCatalog struct {
	PositiveAdvice string       `yaml:"positive_advice"`
	NegativeAdvice string       `yaml:"negative_advice"`
	Domains        []YAMLDomain `yaml:"domains"`
}

type YAMLDomain struct {
	Kind            string         `yaml:"kind"`
	Name            string         `yaml:"name"`
	Description     string         `yaml:"description"`
	Labels          map[int]string `yaml:"labels"`
	NegativeLabel   string         `yaml:"negative_label"`
	NegativeMessage string         `yaml:"negative_message"`

	PositiveMessages map[string]string `yaml:"positive_messages"`
	Precautions      map[string]string `yaml:"precautions"`
}
