package content

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/glowetsu/backend/internal/domain/content"
	"github.com/glowetsu/backend/internal/domain/shared"
	"github.com/glowetsu/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ServiceConfig holds the tunables of the content service
type ServiceConfig struct {
	AboutUsPresence     content.PresencePolicy
	CarouselPresence    content.PresencePolicy
	WhyChooseUsPresence content.PresencePolicy
	// AllowedImageTypes restricts upload content types. Empty allows any.
	AllowedImageTypes []string
}

// DefaultServiceConfig returns the default configuration
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		AboutUsPresence:     content.PresenceDefined,
		CarouselPresence:    content.PresenceDefined,
		WhyChooseUsPresence: content.PresenceDefined,
	}
}

// Service reads, seeds and updates the singleton content documents
type Service struct {
	repo    content.Repository
	cache   content.Cache
	storage ImageStorage
	config  ServiceConfig
	logger  *zap.Logger
	metrics *telemetry.ContentMetrics
}

// NewService creates a new Service. cache may be nil.
func NewService(
	repo content.Repository,
	cache content.Cache,
	storage ImageStorage,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:    repo,
		cache:   cache,
		storage: storage,
		config:  DefaultServiceConfig(),
		logger:  logger,
	}
}

// SetConfig sets the service configuration
func (s *Service) SetConfig(config ServiceConfig) {
	s.config = config
}

// SetMetrics sets the content metrics recorder
func (s *Service) SetMetrics(m *telemetry.ContentMetrics) {
	s.metrics = m
}

// Config returns the service configuration
func (s *Service) Config() ServiceConfig {
	return s.config
}

// readThrough serves kind from the cache, falling back to load and then
// seeding the defaults when nothing is stored. Cache failures are logged and
// otherwise ignored.
func readThrough[T any](
	ctx context.Context,
	s *Service,
	kind content.Kind,
	load func(context.Context) (*T, error),
	seed func(context.Context) (*T, error),
) (_ *T, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "content", "get_"+kind.String(),
		attribute.String(telemetry.SpanAttrContentKind, kind.String()))
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	// version is read before load so an update landing in between makes Set fail
	var version uint64
	cacheable := false
	if s.cache != nil {
		payload, ok, err := s.cache.Get(ctx, kind)
		if err != nil {
			s.logger.Warn("Content cache read failed", zap.String("kind", kind.String()), zap.Error(err))
		} else if ok {
			var doc T
			if err := json.Unmarshal(payload, &doc); err == nil {
				s.recordCacheLookup(ctx, kind, true)
				return &doc, nil
			}
			s.logger.Warn("Discarding undecodable cache entry", zap.String("kind", kind.String()))
		}
		s.recordCacheLookup(ctx, kind, false)

		if version, err = s.cache.Version(ctx, kind); err != nil {
			s.logger.Warn("Content cache version read failed", zap.String("kind", kind.String()), zap.Error(err))
		} else {
			cacheable = true
		}
	}

	doc, err := load(ctx)
	if errors.Is(err, shared.ErrNotFound) {
		s.logger.Info("Seeding default content", zap.String("kind", kind.String()))
		doc, err = seed(ctx)
		if err == nil && s.metrics != nil {
			s.metrics.DocumentSeeded(ctx, kind.String())
		}
	}
	if err != nil {
		return nil, err
	}

	if cacheable {
		s.storeCached(ctx, kind, version, doc)
	}
	return doc, nil
}

func (s *Service) storeCached(ctx context.Context, kind content.Kind, version uint64, doc any) {
	payload, err := json.Marshal(doc)
	if err != nil {
		return
	}
	err = s.cache.Set(ctx, kind, version, payload)
	switch {
	case errors.Is(err, content.ErrStaleCacheVersion):
		s.logger.Debug("Skipping cache fill after concurrent update", zap.String("kind", kind.String()))
	case err != nil:
		s.logger.Warn("Content cache write failed", zap.String("kind", kind.String()), zap.Error(err))
	}
}

func (s *Service) recordCacheLookup(ctx context.Context, kind content.Kind, hit bool) {
	if s.metrics != nil {
		s.metrics.CacheLookup(ctx, kind.String(), hit)
	}
}

// startUpdate opens the span of an update and returns the function that
// closes it and records the outcome
func (s *Service) startUpdate(ctx context.Context, kind content.Kind) (context.Context, func(error)) {
	ctx, span := telemetry.StartServiceSpan(ctx, "content", "update_"+kind.String(),
		attribute.String(telemetry.SpanAttrContentKind, kind.String()))
	return ctx, func(err error) {
		telemetry.RecordError(span, err)
		span.End()
		if s.metrics != nil {
			s.metrics.DocumentUpdated(ctx, kind.String(), err)
		}
	}
}

func (s *Service) invalidate(ctx context.Context, kind content.Kind) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, kind); err != nil {
		s.logger.Warn("Content cache invalidation failed", zap.String("kind", kind.String()), zap.Error(err))
	}
}

// GetAboutUs returns the About-Us document, seeding it on first access
func (s *Service) GetAboutUs(ctx context.Context) (*content.AboutUs, error) {
	return readThrough(ctx, s, content.KindAboutUs, s.repo.FindAboutUs,
		func(ctx context.Context) (*content.AboutUs, error) {
			doc := content.DefaultAboutUs()
			doc.EnsureIDs()
			return s.repo.SeedAboutUs(ctx, doc)
		})
}

// GetCarousel returns the carousel document, seeding it on first access
func (s *Service) GetCarousel(ctx context.Context) (*content.Carousel, error) {
	return readThrough(ctx, s, content.KindCarousel, s.repo.FindCarousel,
		func(ctx context.Context) (*content.Carousel, error) {
			doc := content.DefaultCarousel()
			doc.EnsureIDs()
			return s.repo.SeedCarousel(ctx, doc)
		})
}

// GetWhyChooseUs returns the Why-Choose-Us document, seeding it on first access
func (s *Service) GetWhyChooseUs(ctx context.Context) (*content.WhyChooseUs, error) {
	return readThrough(ctx, s, content.KindWhyChooseUs, s.repo.FindWhyChooseUs,
		func(ctx context.Context) (*content.WhyChooseUs, error) {
			doc := content.DefaultWhyChooseUs()
			doc.EnsureIDs()
			return s.repo.SeedWhyChooseUs(ctx, doc)
		})
}

// loadOrDefault returns the stored document or fresh defaults when absent
func loadOrDefault[T any](ctx context.Context, load func(context.Context) (*T, error), def func() *T) (*T, error) {
	doc, err := load(ctx)
	if errors.Is(err, shared.ErrNotFound) {
		return def(), nil
	}
	return doc, err
}

// UpdateAboutUs applies patch to the stored About-Us document and persists it
func (s *Service) UpdateAboutUs(ctx context.Context, patch content.AboutUsPatch) (_ *content.AboutUs, err error) {
	ctx, done := s.startUpdate(ctx, content.KindAboutUs)
	defer func() { done(err) }()

	doc, err := loadOrDefault(ctx, s.repo.FindAboutUs, content.DefaultAboutUs)
	if err != nil {
		return nil, err
	}

	doc.Apply(patch, s.config.AboutUsPresence)
	doc.EnsureIDs()
	doc.Normalize()
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.SaveAboutUs(ctx, doc); err != nil {
		return nil, err
	}
	s.invalidate(ctx, content.KindAboutUs)

	s.logger.Info("About-Us content updated", zap.Int("team_members", len(doc.TeamMembers)))
	return doc, nil
}

// UpdateCarousel replaces the slide list. A patch without slides is rejected
// before anything is read or written.
func (s *Service) UpdateCarousel(ctx context.Context, patch content.CarouselPatch) (_ *content.Carousel, err error) {
	ctx, done := s.startUpdate(ctx, content.KindCarousel)
	defer func() { done(err) }()

	if patch.Slides == nil {
		return nil, content.ErrSlidesRequired
	}

	doc, err := loadOrDefault(ctx, s.repo.FindCarousel, content.DefaultCarousel)
	if err != nil {
		return nil, err
	}

	doc.Apply(patch, s.config.CarouselPresence)
	doc.EnsureIDs()
	doc.Normalize()
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.SaveCarousel(ctx, doc); err != nil {
		return nil, err
	}
	s.invalidate(ctx, content.KindCarousel)

	trace.SpanFromContext(ctx).SetAttributes(attribute.Int(telemetry.SpanAttrItemCount, len(doc.Slides)))
	s.logger.Info("Carousel updated", zap.Int("slides", len(doc.Slides)))
	return doc, nil
}

// UpdateWhyChooseUs applies patch to the stored Why-Choose-Us document
func (s *Service) UpdateWhyChooseUs(ctx context.Context, patch content.WhyChooseUsPatch) (_ *content.WhyChooseUs, err error) {
	ctx, done := s.startUpdate(ctx, content.KindWhyChooseUs)
	defer func() { done(err) }()

	doc, err := loadOrDefault(ctx, s.repo.FindWhyChooseUs, content.DefaultWhyChooseUs)
	if err != nil {
		return nil, err
	}

	doc.Apply(patch, s.config.WhyChooseUsPresence)
	doc.EnsureIDs()
	doc.Normalize()
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.SaveWhyChooseUs(ctx, doc); err != nil {
		return nil, err
	}
	s.invalidate(ctx, content.KindWhyChooseUs)

	s.logger.Info("Why-Choose-Us content updated", zap.Int("features", len(doc.Features)))
	return doc, nil
}

// StoredKinds lists the kinds that currently have a stored document
func (s *Service) StoredKinds(ctx context.Context) ([]content.Kind, error) {
	return s.repo.Kinds(ctx)
}
