package preprocess

import "fmt"

const Channels = 3

// Tensor is a dense float32 batch laid out as [1, S, S, 3] (NHWC).
type Tensor struct {
	Shape []int64
	Data  []float32
}

// NewTensor wraps data as a single-image batch of the given side length.
func NewTensor(size int, data []float32) (Tensor, error) {
	want := size * size * Channels
	if len(data) != want {
		return Tensor{}, fmt.Errorf("expected %d values, got %d", want, len(data))
	}
	return Tensor{
		Shape: []int64{1, int64(size), int64(size), Channels},
		Data:  data,
	}, nil
}

// Elements returns the number of values the shape describes.
func (t Tensor) Elements() int64 {
	if len(t.Shape) == 0 {
		return 0
	}
	n := int64(1)
	for _, d := range t.Shape {
		n *= d
	}
	return n
}

func (t Tensor) SameShape(shape []int64) bool {
	if len(t.Shape) != len(shape) {
		return false
	}
	for i := range shape {
		if t.Shape[i] != shape[i] {
			return false
		}
	}
	return true
}
