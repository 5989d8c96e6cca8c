package content

import (
	"time"
)

// Kind identifies one of the singleton content documents
type Kind string

const (
	KindAboutUs     Kind = "about_us"
	KindCarousel    Kind = "carousel"
	KindWhyChooseUs Kind = "why_choose_us"
)

// Kinds lists every content kind in a stable order
var Kinds = []Kind{KindAboutUs, KindCarousel, KindWhyChooseUs}

// String returns the storage key of the kind
func (k Kind) String() string {
	return string(k)
}

// IsValid reports whether k is a known kind
func (k Kind) IsValid() bool {
	switch k {
	case KindAboutUs, KindCarousel, KindWhyChooseUs:
		return true
	}
	return false
}

// Slug returns the URL path segment used for the kind
func (k Kind) Slug() string {
	switch k {
	case KindAboutUs:
		return "about-us"
	case KindCarousel:
		return "carousel"
	case KindWhyChooseUs:
		return "why-choose-us"
	}
	return ""
}

// Timestamps are maintained by the storage layer
type Timestamps struct {
	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// TeamMember is one person shown in the About-Us team section
type TeamMember struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	Image       string `json:"image"`
	Description string `json:"description"`
	Order       int    `json:"order"`
	IsActive    bool   `json:"isActive"`
}

// AboutUs is the About-Us page document
type AboutUs struct {
	HeroTitle       string       `json:"heroTitle"`
	HeroSubtitle    string       `json:"heroSubtitle"`
	StoryTitle      string       `json:"storyTitle"`
	StoryParagraphs []string     `json:"storyParagraphs"`
	StoryImage      string       `json:"storyImage"`
	TeamMembers     []TeamMember `json:"teamMembers"`
	Timestamps
}

// Slide is one home-page carousel slide
type Slide struct {
	ID         string `json:"id"`
	Image      string `json:"image"`
	Title      string `json:"title"`
	Subtitle   string `json:"subtitle"`
	ButtonText string `json:"buttonText"`
	ButtonLink string `json:"buttonLink"`
	Order      int    `json:"order"`
	IsActive   bool   `json:"isActive"`
}

// Carousel is the home-page carousel document
type Carousel struct {
	Slides []Slide `json:"slides"`
	Timestamps
}

// Feature is one selling point of the Why-Choose-Us section
type Feature struct {
	ID          string `json:"id"`
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Order       int    `json:"order"`
	IsActive    bool   `json:"isActive"`
}

// WhyChooseUs is the Why-Choose-Us section document
type WhyChooseUs struct {
	MainTitle       string    `json:"mainTitle"`
	MainDescription string    `json:"mainDescription"`
	Image           string    `json:"image"`
	Features        []Feature `json:"features"`
	Timestamps
}

// Slide field defaults applied when a slide omits them
const (
	DefaultButtonText = "Explore Now"
	DefaultButtonLink = "/tours"
)

// IconOptions are the icon names the editor offers for features.
// The server stores any string; the list is advisory.
var IconOptions = []string{
	"Users",
	"Star",
	"MapPin",
	"Award",
	"Heart",
	"Globe",
	"Shield",
	"Zap",
	"TrendingUp",
	"Clock",
}

// IsKnownIcon reports whether name is one of IconOptions
func IsKnownIcon(name string) bool {
	for _, icon := range IconOptions {
		if icon == name {
			return true
		}
	}
	return false
}
