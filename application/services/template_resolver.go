package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"museum-backend/application/ports"
	"museum-backend/domain/catalog"
	"museum-backend/domain/core/entities"
	"museum-backend/domain/core/valueobjects"
	"museum-backend/pkg/errors"
	"museum-backend/pkg/observability"
)

const sourceCachePrefix = "source:"

// TemplateResolver decides whether a theme can yield a default object and loads its source artifact
type TemplateResolver struct {
	catalog   *catalog.Catalog
	artifacts ports.ArtifactRepository
	cache     ports.Cache
	cacheTTL  time.Duration
	tracer    *observability.Tracer
	logger    *zap.Logger
}

// ResolverOption configures a TemplateResolver
type ResolverOption func(*TemplateResolver)

// WithSourceCache serves repeated source lookups from cache for ttl. A zero ttl disables caching.
func WithSourceCache(cache ports.Cache, ttl time.Duration) ResolverOption {
	return func(r *TemplateResolver) {
		if ttl > 0 {
			r.cache = cache
			r.cacheTTL = ttl
		}
	}
}

// WithResolverTracer records a subsegment per source load
func WithResolverTracer(tracer *observability.Tracer) ResolverOption {
	return func(r *TemplateResolver) { r.tracer = tracer }
}

// NewTemplateResolver creates a new template resolver
func NewTemplateResolver(
	cat *catalog.Catalog,
	artifacts ports.ArtifactRepository,
	logger *zap.Logger,
	opts ...ResolverOption,
) *TemplateResolver {
	r := &TemplateResolver{
		catalog:   cat,
		artifacts: artifacts,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Status reports the template state of a theme without touching the store
func (r *TemplateResolver) Status(themeID valueobjects.ThemeID) catalog.ThemeStatus {
	return r.catalog.Status(themeID)
}

// Template returns the default-object template of a theme
func (r *TemplateResolver) Template(themeID valueobjects.ThemeID) (valueobjects.DefaultObjectTemplate, bool) {
	desc, ok := r.catalog.Lookup(themeID)
	if !ok {
		return valueobjects.DefaultObjectTemplate{}, false
	}
	return desc.DefaultTemplate, true
}

// LoadSource fetches the source artifact referenced by a finalized theme.
// It performs at most one store read per call and never writes.
func (r *TemplateResolver) LoadSource(ctx context.Context, themeID valueobjects.ThemeID) (*entities.SourceArtifact, error) {
	switch r.Status(themeID) {
	case catalog.StatusUnknownTheme:
		return nil, errors.NewUnknownThemeError(themeID.Int())
	case catalog.StatusPlaceholder:
		return nil, errors.NewPlaceholderThemeError(themeID.Int())
	}

	desc, _ := r.catalog.Lookup(themeID)
	ref := desc.DefaultTemplate.SourceArtifactRef

	if r.cache != nil {
		if v, ok := r.cache.Get(ctx, sourceCachePrefix+ref); ok {
			if src, ok := v.(entities.SourceArtifact); ok {
				return &src, nil
			}
		}
	}

	var source *entities.SourceArtifact
	err := r.tracer.TraceFunction(ctx, "resolver.load_source", func(ctx context.Context) error {
		r.tracer.AddAnnotation(ctx, "sourceArtifactRef", ref)
		found, err := r.artifacts.FindSourceByID(ctx, ref)
		if err != nil {
			return errors.NewPersistenceError("find source artifact", err)
		}
		if found == nil {
			return errors.NewSourceMissingError(ref)
		}
		source = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, sourceCachePrefix+ref, *source, int(r.cacheTTL.Seconds())); err != nil {
			r.logger.Debug("failed to cache source artifact", zap.String("sourceID", ref), zap.Error(err))
		}
	}
	return source, nil
}
