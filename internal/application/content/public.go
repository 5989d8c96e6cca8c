package content

import (
	"context"

	"github.com/glowetsu/backend/internal/domain/content"
)

// PublicAboutUs returns the About-Us document with only active team members, sorted by order
func (s *Service) PublicAboutUs(ctx context.Context) (*content.AboutUs, error) {
	doc, err := s.GetAboutUs(ctx)
	if err != nil {
		return nil, err
	}
	doc.TeamMembers = doc.VisibleTeamMembers()
	return doc, nil
}

// PublicCarousel returns the active slides sorted by order
func (s *Service) PublicCarousel(ctx context.Context) (*content.Carousel, error) {
	doc, err := s.GetCarousel(ctx)
	if err != nil {
		return nil, err
	}
	doc.Slides = doc.VisibleSlides()
	return doc, nil
}

// PublicWhyChooseUs returns the Why-Choose-Us document with only active features
func (s *Service) PublicWhyChooseUs(ctx context.Context) (*content.WhyChooseUs, error) {
	doc, err := s.GetWhyChooseUs(ctx)
	if err != nil {
		return nil, err
	}
	doc.Features = doc.VisibleFeatures()
	return doc, nil
}
