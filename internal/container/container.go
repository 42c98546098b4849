package container

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Brownie44l1/medict-api/internal/catalog"
	"github.com/Brownie44l1/medict-api/internal/config"
	"github.com/Brownie44l1/medict-api/internal/diagnosis"
	"github.com/Brownie44l1/medict-api/internal/domain"
	"github.com/Brownie44l1/medict-api/internal/model"
	"github.com/Brownie44l1/medict-api/internal/preprocess"
)

type Container struct {
	Catalog  *catalog.Catalog
	Registry *model.Registry
	Pipeline *diagnosis.Pipeline

	closers []func() error
}

// Build loads the catalog and every domain's model, and validates them against each
// other. Any error here means the process must not serve. A nil open uses onnxruntime.
func Build(ctx context.Context, cfg *config.Config, log *zap.Logger, open model.OpenFunc) (*Container, error) {
	cat, err := loadCatalog(cfg)
	if err != nil {
		return nil, err
	}

	c := &Container{Catalog: cat}

	if open == nil {
		rt, err := model.NewONNXRuntime(cfg.ONNXRuntimeLib)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, rt.Close)
		open = rt.Open
	}

	c.Registry = model.NewRegistry(open)
	// registry must close before the runtime it depends on
	c.closers = append([]func() error{c.Registry.Close}, c.closers...)

	g, gctx := errgroup.WithContext(ctx)
	for _, d := range cat.List() {
		g.Go(func() error {
			artifact := cfg.Artifact(d.Kind)
			log.Info("Loading model",
				zap.Stringer("domain", d.Kind),
				zap.String("path", artifact.ModelPath))

			classifier, err := c.Registry.Load(gctx, d, artifact)
			if err != nil {
				return err
			}
			if err := checkModel(d, classifier.Metadata(), cfg.ImageSize); err != nil {
				return err
			}

			log.Info("Model ready",
				zap.Stringer("domain", d.Kind),
				zap.Strings("labels", d.Labels))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		_ = c.Close()
		return nil, err
	}

	normalizer := preprocess.New(cfg.ImageSize)
	normalizer.MaxPixels = cfg.MaxImagePixels
	c.Pipeline = diagnosis.NewPipeline(cat, normalizer, model.NewExecutor(c.Registry), log)
	return c, nil
}

func (c *Container) Close() error {
	var errs []error
	for _, closeFn := range c.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.CatalogPath != "" {
		return catalog.LoadFile(cfg.CatalogPath)
	}
	return catalog.Default()
}

// checkModel ties a loaded model to its domain: output width must match the label table,
// input must be one S×S RGB image, and declared classes must match the labels.
func checkModel(d *domain.Domain, meta model.Metadata, size int) error {
	if err := catalog.Validate(d, meta.OutputDim()); err != nil {
		return err
	}
	if err := catalog.ValidateContent(d); err != nil {
		return err
	}

	want := []int64{1, int64(size), int64(size), preprocess.Channels}
	if !slices.Equal(meta.InputShape, want) {
		return mismatch(d, fmt.Sprintf("model input shape %v, expected %v", meta.InputShape, want))
	}
	if meta.ImageSize != 0 && meta.ImageSize != size {
		return mismatch(d, fmt.Sprintf("model trained at %dpx, serving at %dpx", meta.ImageSize, size))
	}
	if len(meta.Classes) > 0 && !slices.Equal(meta.Classes, d.Labels) {
		return mismatch(d, fmt.Sprintf("model classes %v do not match labels %v", meta.Classes, d.Labels))
	}
	return nil
}

func mismatch(d *domain.Domain, msg string) error {
	return &domain.Error{
		Op:     "container.check_model",
		Kind:   domain.KindConfiguration,
		Domain: d.Kind.String(),
		Msg:    msg,
	}
}
