package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Metadata describes an exported model. It is stored next to the .onnx file.
type Metadata struct {
	InputShape  []int64  `json:"input_shape"`
	OutputShape []int64  `json:"output_shape"`
	Classes     []string `json:"classes,omitempty"`
	ImageSize   int      `json:"image_size,omitempty"`
	InputName   string   `json:"input_name,omitempty"`
	OutputName  string   `json:"output_name,omitempty"`
}

// OutputDim is the length of the probability vector the model returns.
func (m Metadata) OutputDim() int {
	if len(m.OutputShape) == 0 {
		return 0
	}
	return int(m.OutputShape[len(m.OutputShape)-1])
}

func (m Metadata) InputElements() int {
	if len(m.InputShape) == 0 {
		return 0
	}
	n := 1
	for _, d := range m.InputShape {
		n *= int(d)
	}
	return n
}

func ReadMetadata(path string) (Metadata, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to read metadata: %w", err)
	}

	var metadata Metadata
	if err := json.Unmarshal(raw, &metadata); err != nil {
		return Metadata{}, fmt.Errorf("failed to parse metadata: %w", err)
	}
	if len(metadata.InputShape) == 0 || len(metadata.OutputShape) == 0 {
		return Metadata{}, fmt.Errorf("metadata %s: input_shape and output_shape are required", path)
	}
	for _, d := range append(append([]int64{}, metadata.InputShape...), metadata.OutputShape...) {
		if d <= 0 {
			return Metadata{}, fmt.Errorf("metadata %s: dimensions must be positive", path)
		}
	}
	return metadata, nil
}

var ErrNoArtifact = errors.New("model artifact not found")

// Artifact locates a domain's model on disk.
type Artifact struct {
	ModelPath    string
	MetadataPath string
}

// Classifier is an opaque handle mapping a fixed-shape input to a probability vector.
type Classifier interface {
	Run(input []float32) ([]float32, error)
	Metadata() Metadata
	Close() error
}
