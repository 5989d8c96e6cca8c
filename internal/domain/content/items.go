package content

import (
	"sort"

	"github.com/google/uuid"
)

// NewItemID returns a fresh stable identifier for a list item
func NewItemID() string {
	return uuid.NewString()
}

// EnsureIDs assigns an id to every team member that lacks one
func (a *AboutUs) EnsureIDs() {
	for i := range a.TeamMembers {
		if a.TeamMembers[i].ID == "" {
			a.TeamMembers[i].ID = NewItemID()
		}
	}
}

// EnsureIDs assigns an id to every slide that lacks one
func (c *Carousel) EnsureIDs() {
	for i := range c.Slides {
		if c.Slides[i].ID == "" {
			c.Slides[i].ID = NewItemID()
		}
	}
}

// EnsureIDs assigns an id to every feature that lacks one
func (w *WhyChooseUs) EnsureIDs() {
	for i := range w.Features {
		if w.Features[i].ID == "" {
			w.Features[i].ID = NewItemID()
		}
	}
}

// VisibleTeamMembers returns the active members sorted by order.
// Members with equal order keep their list position.
func (a *AboutUs) VisibleTeamMembers() []TeamMember {
	out := make([]TeamMember, 0, len(a.TeamMembers))
	for _, m := range a.TeamMembers {
		if m.IsActive {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// VisibleSlides returns the active slides sorted by order
func (c *Carousel) VisibleSlides() []Slide {
	out := make([]Slide, 0, len(c.Slides))
	for _, s := range c.Slides {
		if s.IsActive {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// VisibleFeatures returns the active features sorted by order
func (w *WhyChooseUs) VisibleFeatures() []Feature {
	out := make([]Feature, 0, len(w.Features))
	for _, f := range w.Features {
		if f.IsActive {
			out = append(out, f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// Normalize replaces nil lists with empty ones so they encode as [] rather than null
func (a *AboutUs) Normalize() {
	if a.StoryParagraphs == nil {
		a.StoryParagraphs = []string{}
	}
	if a.TeamMembers == nil {
		a.TeamMembers = []TeamMember{}
	}
}

// Normalize replaces a nil slide list with an empty one
func (c *Carousel) Normalize() {
	if c.Slides == nil {
		c.Slides = []Slide{}
	}
}

// Normalize replaces a nil feature list with an empty one
func (w *WhyChooseUs) Normalize() {
	if w.Features == nil {
		w.Features = []Feature{}
	}
}
