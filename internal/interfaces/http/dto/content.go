package dto

import "github.com/glowetsu/backend/internal/domain/content"

// TeamMemberRequest is one team member in an About-Us update
type TeamMemberRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name" binding:"required"`
	Role        string `json:"role" binding:"required"`
	Image       string `json:"image" binding:"required"`
	Description string `json:"description" binding:"required"`
	Order       *int   `json:"order" binding:"required"`
	IsActive    *bool  `json:"isActive"`
}

// UpdateAboutUsRequest is the body of PUT /content/about-us. Absent or null
// fields leave the stored value alone.
type UpdateAboutUsRequest struct {
	HeroTitle       *string              `json:"heroTitle"`
	HeroSubtitle    *string              `json:"heroSubtitle"`
	StoryTitle      *string              `json:"storyTitle"`
	StoryParagraphs *[]string            `json:"storyParagraphs"`
	StoryImage      *string              `json:"storyImage"`
	TeamMembers     *[]TeamMemberRequest `json:"teamMembers" binding:"omitempty,dive"`
}

// SlideRequest is one slide in a carousel update
type SlideRequest struct {
	ID         string  `json:"id"`
	Image      string  `json:"image" binding:"required"`
	Title      string  `json:"title" binding:"required"`
	Subtitle   string  `json:"subtitle" binding:"required"`
	ButtonText *string `json:"buttonText"`
	ButtonLink *string `json:"buttonLink"`
	Order      *int    `json:"order" binding:"required"`
	IsActive   *bool   `json:"isActive"`
}

// UpdateCarouselRequest is the body of PUT /content/carousel
type UpdateCarouselRequest struct {
	Slides *[]SlideRequest `json:"slides" binding:"omitempty,dive"`
}

// FeatureRequest is one feature in a Why-Choose-Us update
type FeatureRequest struct {
	ID          string `json:"id"`
	Icon        string `json:"icon" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	Order       *int   `json:"order" binding:"required"`
	IsActive    *bool  `json:"isActive"`
}

// UpdateWhyChooseUsRequest is the body of PUT /content/why-choose-us
type UpdateWhyChooseUsRequest struct {
	MainTitle       *string           `json:"mainTitle"`
	MainDescription *string           `json:"mainDescription"`
	Image           *string           `json:"image"`
	Features        *[]FeatureRequest `json:"features" binding:"omitempty,dive"`
}

func valueOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

// ToPatch converts the request into a domain patch. Members without isActive are active.
func (r *UpdateAboutUsRequest) ToPatch() content.AboutUsPatch {
	patch := content.AboutUsPatch{
		HeroTitle:       r.HeroTitle,
		HeroSubtitle:    r.HeroSubtitle,
		StoryTitle:      r.StoryTitle,
		StoryParagraphs: r.StoryParagraphs,
		StoryImage:      r.StoryImage,
	}
	if r.TeamMembers != nil {
		members := make([]content.TeamMember, 0, len(*r.TeamMembers))
		for _, m := range *r.TeamMembers {
			members = append(members, content.TeamMember{
				ID:          m.ID,
				Name:        m.Name,
				Role:        m.Role,
				Image:       m.Image,
				Description: m.Description,
				Order:       valueOr(m.Order, 0),
				IsActive:    valueOr(m.IsActive, true),
			})
		}
		patch.TeamMembers = &members
	}
	return patch
}

// ToPatch converts the request into a domain patch. Missing button fields get
// their defaults.
func (r *UpdateCarouselRequest) ToPatch() content.CarouselPatch {
	if r.Slides == nil {
		return content.CarouselPatch{}
	}
	slides := make([]content.Slide, 0, len(*r.Slides))
	for _, s := range *r.Slides {
		slides = append(slides, content.Slide{
			ID:         s.ID,
			Image:      s.Image,
			Title:      s.Title,
			Subtitle:   s.Subtitle,
			ButtonText: valueOr(s.ButtonText, content.DefaultButtonText),
			ButtonLink: valueOr(s.ButtonLink, content.DefaultButtonLink),
			Order:      valueOr(s.Order, 0),
			IsActive:   valueOr(s.IsActive, true),
		})
	}
	return content.CarouselPatch{Slides: &slides}
}

// ToPatch converts the request into a domain patch
func (r *UpdateWhyChooseUsRequest) ToPatch() content.WhyChooseUsPatch {
	patch := content.WhyChooseUsPatch{
		MainTitle:       r.MainTitle,
		MainDescription: r.MainDescription,
		Image:           r.Image,
	}
	if r.Features != nil {
		features := make([]content.Feature, 0, len(*r.Features))
		for _, f := range *r.Features {
			features = append(features, content.Feature{
				ID:          f.ID,
				Icon:        f.Icon,
				Title:       f.Title,
				Description: f.Description,
				Order:       valueOr(f.Order, 0),
				IsActive:    valueOr(f.IsActive, true),
			})
		}
		patch.Features = &features
	}
	return patch
}
