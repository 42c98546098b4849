package model

import (
	"context"
	"fmt"

	"github.com/Brownie44l1/medict-api/internal/domain"
	"github.com/Brownie44l1/medict-api/internal/preprocess"
)

// Executor runs a domain's classifier. Calls to one domain are serialized, calls to
// different domains run in parallel. Failures are returned as-is, never retried.
type Executor struct {
	registry *Registry
}

func NewExecutor(registry *Registry) *Executor {
	return &Executor{registry: registry}
}

func (e *Executor) Infer(ctx context.Context, d *domain.Domain, t preprocess.Tensor) ([]float32, error) {
	h, err := e.registry.handle(d.Kind)
	if err != nil {
		return nil, err
	}

	meta := h.classifier.Metadata()
	if len(meta.InputShape) > 0 && !t.SameShape(meta.InputShape) {
		return nil, inferenceError(d, fmt.Sprintf("classifier expects shape %v, got %v", meta.InputShape, t.Shape), nil)
	}
	if int64(len(t.Data)) != t.Elements() {
		return nil, inferenceError(d, fmt.Sprintf("tensor holds %d values for shape %v", len(t.Data), t.Shape), nil)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, inferenceError(d, "classifier closed", nil)
	}
	if err := ctx.Err(); err != nil {
		return nil, inferenceError(d, "canceled before run", err)
	}

	probs, err := h.classifier.Run(t.Data)
	if err != nil {
		return nil, inferenceError(d, "", err)
	}
	if len(probs) != len(d.Labels) {
		return nil, inferenceError(d, fmt.Sprintf("classifier returned %d values for %d labels", len(probs), len(d.Labels)), nil)
	}
	return probs, nil
}

func inferenceError(d *domain.Domain, msg string, err error) error {
	return &domain.Error{
		Op:     "model.infer",
		Kind:   domain.KindInference,
		Domain: d.Kind.String(),
		Msg:    msg,
		Err:    err,
	}
}
