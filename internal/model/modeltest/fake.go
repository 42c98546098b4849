// Package modeltest provides in-memory classifiers for tests.
package modeltest

import (
	"sync"
	"sync/atomic"

	"github.com/Brownie44l1/medict-api/internal/domain"
	"github.com/Brownie44l1/medict-api/internal/model"
)

// Classifier returns Output for every input, or Err when set.
type Classifier struct {
	Meta   model.Metadata
	Output []float32
	Err    error
	// Hook runs inside Run, before the output is returned.
	Hook func(input []float32)

	mu     sync.Mutex
	calls  int
	closed atomic.Bool
}

// New returns a classifier for a size×size×3 input producing output.
func New(size int, output ...float32) *Classifier {
	return &Classifier{
		Meta: model.Metadata{
			InputShape:  []int64{1, int64(size), int64(size), 3},
			OutputShape: []int64{1, int64(len(output))},
		},
		Output: output,
	}
}

func (c *Classifier) Run(input []float32) ([]float32, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()

	if c.Hook != nil {
		c.Hook(input)
	}
	if c.Err != nil {
		return nil, c.Err
	}
	out := make([]float32, len(c.Output))
	copy(out, c.Output)
	return out, nil
}

func (c *Classifier) Metadata() model.Metadata {
	return c.Meta
}

func (c *Classifier) Close() error {
	c.closed.Store(true)
	return nil
}

func (c *Classifier) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func (c *Classifier) Closed() bool {
	return c.closed.Load()
}

// Opener serves pre-built classifiers by domain kind; kinds without one fail to open.
func Opener(byKind map[domain.Kind]model.Classifier, openErr error) model.OpenFunc {
	return func(d *domain.Domain, _ model.Artifact) (model.Classifier, error) {
		if openErr != nil {
			return nil, openErr
		}
		c, ok := byKind[d.Kind]
		if !ok {
			return nil, model.ErrNoArtifact
		}
		return c, nil
	}
}
