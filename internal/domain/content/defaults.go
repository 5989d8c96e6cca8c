package content

// Seed and fallback content. Both the seed-on-read path and the public
// display fallback read from these constructors, so each literal lives here only.

const (
	defaultStoryImage = "https://images.pexels.com/photos/1591373/pexels-photo-1591373.jpeg?auto=compress&cs=tinysrgb&w=600"
	defaultSlideImage = "https://images.pexels.com/photos/1591373/pexels-photo-1591373.jpeg?auto=compress&cs=tinysrgb&w=1200"
	defaultWhyImage   = "https://images.pexels.com/photos/1010657/pexels-photo-1010657.jpeg?auto=compress&cs=tinysrgb&w=600"
	defaultTeamImage  = "https://images.pexels.com/photos/774909/pexels-photo-774909.jpeg?auto=compress&cs=tinysrgb&w=300"
)

// DefaultAboutUs returns the About-Us seed document
func DefaultAboutUs() *AboutUs {
	return &AboutUs{
		HeroTitle:    "About glowetsu",
		HeroSubtitle: "Creating unforgettable memories through authentic travel experiences since 2008",
		StoryTitle:   "Our Story",
		StoryParagraphs: []string{
			"Founded in 2008 by a group of passionate travelers, glowetsu was born from a simple belief: travel should transform lives, not just provide vacations.",
			"We started as a small team organizing adventure trips for friends and family. Word spread quickly about our attention to detail, authentic experiences, and commitment to sustainable tourism.",
			"Today, we're proud to have guided over 50,000 travelers to more than 120 destinations worldwide, while maintaining our core values of authenticity, sustainability, and creating meaningful connections between travelers and local communities.",
		},
		StoryImage: defaultStoryImage,
		TeamMembers: []TeamMember{
			{
				Name:        "Sarah Johnson",
				Role:        "Founder & CEO",
				Image:       defaultTeamImage,
				Description: "Passionate traveler with 20 years in the tourism industry",
				Order:       0,
				IsActive:    true,
			},
		},
	}
}

// DefaultCarousel returns the carousel seed document
func DefaultCarousel() *Carousel {
	return &Carousel{
		Slides: []Slide{
			{
				Image:      defaultSlideImage,
				Title:      "Discover Amazing Destinations",
				Subtitle:   "Experience the world like never before with our curated travel packages",
				ButtonText: "Explore Tours",
				ButtonLink: DefaultButtonLink,
				Order:      0,
				IsActive:   true,
			},
		},
	}
}

// DefaultWhyChooseUs returns the Why-Choose-Us seed document
func DefaultWhyChooseUs() *WhyChooseUs {
	return &WhyChooseUs{
		MainTitle:       "Why Choose glowetsu?",
		MainDescription: "With over 15 years of experience in creating unforgettable travel experiences, we specialize in crafting personalized tours that connect you with the heart and soul of each destination.",
		Image:           defaultWhyImage,
		Features: []Feature{
			{
				Icon:        "Users",
				Title:       "Expert Local Guides",
				Description: "Our passionate local guides share insider knowledge and hidden gems",
				Order:       0,
				IsActive:    true,
			},
			{
				Icon:        "Star",
				Title:       "Premium Quality",
				Description: "Carefully selected accommodations and transportation for your comfort",
				Order:       1,
				IsActive:    true,
			},
			{
				Icon:        "MapPin",
				Title:       "Unique Destinations",
				Description: "From popular attractions to off-the-beaten-path adventures",
				Order:       2,
				IsActive:    true,
			},
		},
	}
}
