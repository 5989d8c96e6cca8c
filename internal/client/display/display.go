// Package display reads the public content for the site pages. Reads never
// fail: whatever the API does not supply is taken from the shared defaults.
package display

import (
	"context"

	"github.com/glowetsu/backend/internal/client"
	"github.com/glowetsu/backend/internal/domain/content"
	"go.uber.org/zap"
)

// Source tells where a document came from
type Source int

const (
	// SourceLive means the API answered
	SourceLive Source = iota
	// SourceFallback means the request failed and the defaults were used whole
	SourceFallback
)

// Fetcher reads the public content endpoints
type Fetcher struct {
	api    *client.Client
	logger *zap.Logger
}

// New creates a Fetcher. logger may be nil.
func New(api *client.Client, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{api: api, logger: logger}
}

func (f *Fetcher) fetch(ctx context.Context, kind content.Kind, out any) Source {
	if err := f.api.Get(ctx, "/content/"+kind.Slug()+"/public", out); err != nil {
		f.logger.Warn("Falling back to default content",
			zap.String("kind", kind.String()),
			zap.Error(err),
		)
		return SourceFallback
	}
	return SourceLive
}

func orDefault(v *string, def string) {
	if *v == "" {
		*v = def
	}
}

// FetchAboutUs returns the About-Us page content. Empty text fields and a
// missing list take their default; an empty list is kept.
func (f *Fetcher) FetchAboutUs(ctx context.Context) (*content.AboutUs, Source) {
	def := content.DefaultAboutUs()
	var doc content.AboutUs
	if src := f.fetch(ctx, content.KindAboutUs, &doc); src == SourceFallback {
		return def, src
	}

	orDefault(&doc.HeroTitle, def.HeroTitle)
	orDefault(&doc.HeroSubtitle, def.HeroSubtitle)
	orDefault(&doc.StoryTitle, def.StoryTitle)
	orDefault(&doc.StoryImage, def.StoryImage)
	if doc.StoryParagraphs == nil {
		doc.StoryParagraphs = def.StoryParagraphs
	}
	if doc.TeamMembers == nil {
		doc.TeamMembers = def.TeamMembers
	}
	return &doc, SourceLive
}

// FetchCarousel returns the home-page carousel. A missing slide list takes the
// default slides.
func (f *Fetcher) FetchCarousel(ctx context.Context) (*content.Carousel, Source) {
	def := content.DefaultCarousel()
	var doc content.Carousel
	if src := f.fetch(ctx, content.KindCarousel, &doc); src == SourceFallback {
		return def, src
	}

	if doc.Slides == nil {
		doc.Slides = def.Slides
	}
	for i := range doc.Slides {
		orDefault(&doc.Slides[i].ButtonText, content.DefaultButtonText)
		orDefault(&doc.Slides[i].ButtonLink, content.DefaultButtonLink)
	}
	return &doc, SourceLive
}

// FetchWhyChooseUs returns the Why-Choose-Us section
func (f *Fetcher) FetchWhyChooseUs(ctx context.Context) (*content.WhyChooseUs, Source) {
	def := content.DefaultWhyChooseUs()
	var doc content.WhyChooseUs
	if src := f.fetch(ctx, content.KindWhyChooseUs, &doc); src == SourceFallback {
		return def, src
	}

	orDefault(&doc.MainTitle, def.MainTitle)
	orDefault(&doc.MainDescription, def.MainDescription)
	orDefault(&doc.Image, def.Image)
	if doc.Features == nil {
		doc.Features = def.Features
	}
	return &doc, SourceLive
}

// VisibleTeamMembers returns the members the About page shows
func VisibleTeamMembers(doc *content.AboutUs) []content.TeamMember {
	return doc.VisibleTeamMembers()
}

// VisibleSlides returns the slides the home page rotates through
func VisibleSlides(doc *content.Carousel) []content.Slide {
	return doc.VisibleSlides()
}

// VisibleFeatures returns the features the home page lists
func VisibleFeatures(doc *content.WhyChooseUs) []content.Feature {
	return doc.VisibleFeatures()
}
