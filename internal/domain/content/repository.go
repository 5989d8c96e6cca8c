package content

import (
	"context"
	"errors"
)

// Repository persists the singleton content documents. Each document is
// addressed by its Kind; Find* return shared.ErrNotFound when nothing is stored.
type Repository interface {
	FindAboutUs(ctx context.Context) (*AboutUs, error)
	FindCarousel(ctx context.Context) (*Carousel, error)
	FindWhyChooseUs(ctx context.Context) (*WhyChooseUs, error)

	// Save* upsert the document and refresh its timestamps
	SaveAboutUs(ctx context.Context, doc *AboutUs) error
	SaveCarousel(ctx context.Context, doc *Carousel) error
	SaveWhyChooseUs(ctx context.Context, doc *WhyChooseUs) error

	// Seed* insert doc only when no document exists and return whatever is stored afterwards
	SeedAboutUs(ctx context.Context, doc *AboutUs) (*AboutUs, error)
	SeedCarousel(ctx context.Context, doc *Carousel) (*Carousel, error)
	SeedWhyChooseUs(ctx context.Context, doc *WhyChooseUs) (*WhyChooseUs, error)

	// Kinds returns the kinds that currently have a stored document
	Kinds(ctx context.Context) ([]Kind, error)
}

// ErrStaleCacheVersion is returned by Cache.Set when the kind was
// invalidated after the given version was read
var ErrStaleCacheVersion = errors.New("content cache version changed")

// Cache is a read-through cache for serialized documents. Every Invalidate
// advances the version of the kind, and Set only stores a payload whose
// version is still current, so a read that began before an update cannot
// write the replaced document back.
type Cache interface {
	Get(ctx context.Context, kind Kind) ([]byte, bool, error)
	Version(ctx context.Context, kind Kind) (uint64, error)
	Set(ctx context.Context, kind Kind, version uint64, payload []byte) error
	Invalidate(ctx context.Context, kind Kind) error
}
