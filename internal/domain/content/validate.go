package content

import (
	"fmt"

	"github.com/glowetsu/backend/internal/domain/shared"
)

func requiredError(field string) error {
	return shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("%s is required", field))
}

func requireAll(fields ...[2]string) error {
	for _, f := range fields {
		if f[1] == "" {
			return requiredError(f[0])
		}
	}
	return nil
}

// Validate checks the required fields of the document and its members
func (a *AboutUs) Validate() error {
	if err := requireAll(
		[2]string{"heroTitle", a.HeroTitle},
		[2]string{"heroSubtitle", a.HeroSubtitle},
		[2]string{"storyTitle", a.StoryTitle},
		[2]string{"storyImage", a.StoryImage},
	); err != nil {
		return err
	}
	for i, m := range a.TeamMembers {
		prefix := fmt.Sprintf("teamMembers[%d].", i)
		if err := requireAll(
			[2]string{prefix + "name", m.Name},
			[2]string{prefix + "role", m.Role},
			[2]string{prefix + "image", m.Image},
			[2]string{prefix + "description", m.Description},
		); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the required fields of every slide
func (c *Carousel) Validate() error {
	for i, s := range c.Slides {
		prefix := fmt.Sprintf("slides[%d].", i)
		if err := requireAll(
			[2]string{prefix + "image", s.Image},
			[2]string{prefix + "title", s.Title},
			[2]string{prefix + "subtitle", s.Subtitle},
		); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the required fields of the document and its features
func (w *WhyChooseUs) Validate() error {
	if err := requireAll(
		[2]string{"mainTitle", w.MainTitle},
		[2]string{"mainDescription", w.MainDescription},
		[2]string{"image", w.Image},
	); err != nil {
		return err
	}
	for i, f := range w.Features {
		prefix := fmt.Sprintf("features[%d].", i)
		if err := requireAll(
			[2]string{prefix + "icon", f.Icon},
			[2]string{prefix + "title", f.Title},
			[2]string{prefix + "description", f.Description},
		); err != nil {
			return err
		}
	}
	return nil
}
