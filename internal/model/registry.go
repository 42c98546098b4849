package model

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/Brownie44l1/medict-api/internal/domain"
)

// OpenFunc builds a classifier handle from an artifact.
type OpenFunc func(d *domain.Domain, a Artifact) (Classifier, error)

type handle struct {
	classifier Classifier
	// one invocation in flight per domain; closed is guarded by mu
	mu     sync.Mutex
	closed bool
}

// Registry holds one classifier per domain. Handles are never replaced once loaded.
type Registry struct {
	open OpenFunc

	mu      sync.RWMutex
	handles map[domain.Kind]*handle
	closed  bool
}

func NewRegistry(open OpenFunc) *Registry {
	return &Registry{
		open:    open,
		handles: make(map[domain.Kind]*handle),
	}
}

// Load opens the domain's artifact. Safe to call concurrently for different domains.
func (r *Registry) Load(ctx context.Context, d *domain.Domain, a Artifact) (Classifier, error) {
	if err := ctx.Err(); err != nil {
		return nil, loadError(d, "canceled", err)
	}

	r.mu.RLock()
	_, exists := r.handles[d.Kind]
	closed := r.closed
	r.mu.RUnlock()
	if closed {
		return nil, loadError(d, "registry closed", nil)
	}
	if exists {
		return nil, loadError(d, "already loaded", nil)
	}

	c, err := r.open(d, a)
	if err != nil {
		return nil, loadError(d, a.ModelPath, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		_ = c.Close()
		return nil, loadError(d, "registry closed", nil)
	}
	if _, exists := r.handles[d.Kind]; exists {
		_ = c.Close()
		return nil, loadError(d, "already loaded", nil)
	}
	r.handles[d.Kind] = &handle{classifier: c}
	return c, nil
}

func (r *Registry) Get(kind domain.Kind) (Classifier, error) {
	h, err := r.handle(kind)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	closed := r.closed
	r.mu.RUnlock()
	if closed {
		return nil, &domain.Error{Op: "model.get", Kind: domain.KindInference, Domain: kind.String(), Msg: "registry closed"}
	}
	return h.classifier, nil
}

// Kinds returns the loaded domains in enum order, or nothing once closed.
func (r *Registry) Kinds() []domain.Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return nil
	}

	out := make([]domain.Kind, 0, len(r.handles))
	for k := range r.handles {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Close waits for in-flight calls and releases every classifier. Handles stay
// registered so late callers get an inference error rather than an unknown domain.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true

	var errs []error
	for _, h := range r.handles {
		h.mu.Lock()
		if err := h.classifier.Close(); err != nil {
			errs = append(errs, err)
		}
		h.closed = true
		h.mu.Unlock()
	}
	return errors.Join(errs...)
}

func (r *Registry) handle(kind domain.Kind) (*handle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.handles[kind]
	if !ok {
		return nil, &domain.Error{Op: "model.get", Kind: domain.KindUnknownDomain, Domain: kind.String()}
	}
	return h, nil
}

func loadError(d *domain.Domain, msg string, err error) error {
	return &domain.Error{
		Op:     "model.load",
		Kind:   domain.KindModelLoad,
		Domain: d.Kind.String(),
		Msg:    msg,
		Err:    err,
	}
}
