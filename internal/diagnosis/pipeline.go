package diagnosis

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Brownie44l1/medict-api/internal/catalog"
	"github.com/Brownie44l1/medict-api/internal/domain"
	"github.com/Brownie44l1/medict-api/internal/model"
	"github.com/Brownie44l1/medict-api/internal/preprocess"
)

type requestIDKey struct{}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Pipeline runs normalize -> infer -> interpret -> resolve for one request.
type Pipeline struct {
	catalog    *catalog.Catalog
	normalizer *preprocess.Normalizer
	executor   *model.Executor
	log        *zap.Logger
}

func NewPipeline(c *catalog.Catalog, n *preprocess.Normalizer, e *model.Executor, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		catalog:    c,
		normalizer: n,
		executor:   e,
		log:        log,
	}
}

func (p *Pipeline) Domains() []*domain.Domain {
	return p.catalog.List()
}

func (p *Pipeline) ImageSize() int {
	return p.normalizer.Size
}

// Classify diagnoses an uploaded scan for the named domain.
func (p *Pipeline) Classify(ctx context.Context, name string, raw []byte) (*domain.Diagnosis, error) {
	start := time.Now()

	d, err := p.catalog.Get(name)
	if err != nil {
		return nil, p.fail(ctx, name, err)
	}

	t, err := p.normalizer.Normalize(raw)
	if err != nil {
		return nil, p.fail(ctx, name, err)
	}

	return p.run(ctx, d, t, start)
}

// ClassifyTensor skips decoding and resizing; data must already be S×S×3 in [0,1].
func (p *Pipeline) ClassifyTensor(ctx context.Context, name string, data []float32) (*domain.Diagnosis, error) {
	start := time.Now()

	d, err := p.catalog.Get(name)
	if err != nil {
		return nil, p.fail(ctx, name, err)
	}

	t, err := preprocess.NewTensor(p.normalizer.Size, data)
	if err != nil {
		return nil, p.fail(ctx, name, &domain.Error{
			Op:     "diagnosis.classify_tensor",
			Kind:   domain.KindInvalidImage,
			Domain: d.Kind.String(),
			Msg:    "tensor is not one RGB image at the serving size",
			Err:    err,
		})
	}

	return p.run(ctx, d, t, start)
}

func (p *Pipeline) run(ctx context.Context, d *domain.Domain, t preprocess.Tensor, start time.Time) (*domain.Diagnosis, error) {
	probs, err := p.executor.Infer(ctx, d, t)
	if err != nil {
		return nil, p.fail(ctx, d.Kind.String(), err)
	}

	prediction, err := Interpret(d, probs)
	if err != nil {
		return nil, p.fail(ctx, d.Kind.String(), err)
	}

	guidance, err := Resolve(d, prediction)
	if err != nil {
		return nil, p.fail(ctx, d.Kind.String(), err)
	}

	guidance.Advice = p.catalog.NegativeAdvice
	if prediction.Outcome == domain.Positive {
		guidance.Advice = p.catalog.PositiveAdvice
	}

	p.log.Info("Classified scan",
		zap.String("request_id", RequestID(ctx)),
		zap.Stringer("domain", d.Kind),
		zap.String("label", prediction.Label),
		zap.String("outcome", string(prediction.Outcome)),
		zap.Float32("confidence", prediction.Confidence),
		zap.Duration("took", time.Since(start)))

	return NewDiagnosis(d, prediction, guidance), nil
}

func (p *Pipeline) fail(ctx context.Context, name string, err error) error {
	p.log.Warn("Classification failed",
		zap.String("request_id", RequestID(ctx)),
		zap.String("domain", name),
		zap.String("kind", string(domain.KindOf(err))),
		zap.Error(err))
	return err
}

// NewDiagnosis assembles the structure handed to presentation layers.
func NewDiagnosis(d *domain.Domain, p *domain.Prediction, g *domain.Guidance) *domain.Diagnosis {
	scores := make([]domain.LabelScore, len(d.Labels))
	for i, label := range d.Labels {
		scores[i] = domain.LabelScore{Label: label, Probability: p.Probabilities[i]}
	}

	return &domain.Diagnosis{
		Domain:        d.Kind,
		DomainName:    d.Name,
		Label:         p.Label,
		Confidence:    p.Confidence,
		Outcome:       p.Outcome,
		Probabilities: scores,
		Message:       g.Message,
		Precaution:    g.Precaution,
		Advice:        g.Advice,
	}
}
