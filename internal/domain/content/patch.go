package content

import (
	"fmt"
	"strings"
)

// PresencePolicy decides whether a field supplied in an update is applied
type PresencePolicy string

const (
	// PresenceDefined applies every field whose key was sent with a non-null value,
	// including empty strings and empty lists.
	PresenceDefined PresencePolicy = "defined"
	// PresenceTruthy skips empty strings. Lists are always applied, even when empty.
	PresenceTruthy PresencePolicy = "truthy"
)

// ParsePresencePolicy converts a config value into a PresencePolicy.
// An empty string yields PresenceDefined.
func ParsePresencePolicy(s string) (PresencePolicy, error) {
	switch PresencePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PresenceDefined:
		return PresenceDefined, nil
	case PresenceTruthy:
		return PresenceTruthy, nil
	}
	return "", fmt.Errorf("unknown presence policy %q", s)
}

func (p PresencePolicy) applyString(dst *string, v *string) {
	if v == nil {
		return
	}
	if p == PresenceTruthy && *v == "" {
		return
	}
	*dst = *v
}

// AboutUsPatch carries the fields of an About-Us update. Nil means not sent.
type AboutUsPatch struct {
	HeroTitle       *string
	HeroSubtitle    *string
	StoryTitle      *string
	StoryParagraphs *[]string
	StoryImage      *string
	TeamMembers     *[]TeamMember
}

// Apply overwrites the fields present in p. Lists are replaced wholesale.
func (a *AboutUs) Apply(p AboutUsPatch, policy PresencePolicy) {
	policy.applyString(&a.HeroTitle, p.HeroTitle)
	policy.applyString(&a.HeroSubtitle, p.HeroSubtitle)
	policy.applyString(&a.StoryTitle, p.StoryTitle)
	policy.applyString(&a.StoryImage, p.StoryImage)
	if p.StoryParagraphs != nil {
		a.StoryParagraphs = append([]string{}, (*p.StoryParagraphs)...)
	}
	if p.TeamMembers != nil {
		a.TeamMembers = append([]TeamMember{}, (*p.TeamMembers)...)
	}
}

// CarouselPatch carries a carousel update. Slides is mandatory at the API.
type CarouselPatch struct {
	Slides *[]Slide
}

// Apply replaces the slide list when present
func (c *Carousel) Apply(p CarouselPatch, _ PresencePolicy) {
	if p.Slides != nil {
		c.Slides = append([]Slide{}, (*p.Slides)...)
	}
}

// WhyChooseUsPatch carries the fields of a Why-Choose-Us update
type WhyChooseUsPatch struct {
	MainTitle       *string
	MainDescription *string
	Image           *string
	Features        *[]Feature
}

// Apply overwrites the fields present in p
func (w *WhyChooseUs) Apply(p WhyChooseUsPatch, policy PresencePolicy) {
	policy.applyString(&w.MainTitle, p.MainTitle)
	policy.applyString(&w.MainDescription, p.MainDescription)
	policy.applyString(&w.Image, p.Image)
	if p.Features != nil {
		w.Features = append([]Feature{}, (*p.Features)...)
	}
}
