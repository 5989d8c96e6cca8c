package editor

import (
	"context"
	"io"
	"slices"

	"github.com/glowetsu/backend/internal/client"
	"github.com/glowetsu/backend/internal/domain/content"
)

// FieldSlideImage is the slot field of a slide image
const FieldSlideImage = "slides.image"

func slideID(s *content.Slide) string { return s.ID }

// CarouselEditor edits the home-page carousel
type CarouselEditor struct {
	session
	slides []content.Slide
}

// NewCarouselEditor creates an editor; call Load before editing
func NewCarouselEditor(api *client.Client) *CarouselEditor {
	return &CarouselEditor{session: newSession(api, content.KindCarousel)}
}

// Load fetches the carousel and replaces the draft with it
func (e *CarouselEditor) Load(ctx context.Context) error {
	var doc content.Carousel
	return e.load(ctx, &doc, func() {
		doc.EnsureIDs()
		doc.Normalize()
		e.slides = doc.Slides
	})
}

// Slides returns a copy of the draft slides
func (e *CarouselEditor) Slides() []content.Slide {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.slides)
}

// AddSlide appends s with a fresh id and the next order and returns the id.
// Empty button fields get their defaults.
func (e *CarouselEditor) AddSlide(s content.Slide) (string, error) {
	s.ID = content.NewItemID()
	if s.ButtonText == "" {
		s.ButtonText = content.DefaultButtonText
	}
	if s.ButtonLink == "" {
		s.ButtonLink = content.DefaultButtonLink
	}
	err := e.edit(func() error {
		s.Order = nextOrder(e.slides, func(x *content.Slide) int { return x.Order })
		e.slides = append(e.slides, s)
		return nil
	})
	if err != nil {
		return "", err
	}
	return s.ID, nil
}

// UpdateSlide applies fn to a slide. fn must not change the id.
func (e *CarouselEditor) UpdateSlide(id string, fn func(*content.Slide)) error {
	return e.edit(func() error {
		i := indexOf(e.slides, id, slideID)
		if i < 0 {
			return ErrItemNotFound
		}
		fn(&e.slides[i])
		e.slides[i].ID = id
		return nil
	})
}

// RemoveSlide deletes a slide
func (e *CarouselEditor) RemoveSlide(id string) error {
	return e.edit(func() error {
		i := indexOf(e.slides, id, slideID)
		if i < 0 {
			return ErrItemNotFound
		}
		e.slides = removeAt(e.slides, i)
		return nil
	})
}

// MoveSlide moves a slide to position to and renumbers every order
func (e *CarouselEditor) MoveSlide(id string, to int) error {
	return e.edit(func() error {
		i := indexOf(e.slides, id, slideID)
		if i < 0 {
			return ErrItemNotFound
		}
		e.slides = moveTo(e.slides, i, to)
		renumber(e.slides, func(s *content.Slide, o int) { s.Order = o })
		return nil
	})
}

// UploadSlideImage uploads the image of the slide with id. The URL is attached
// only if the slide is still in the draft when the upload ends.
func (e *CarouselEditor) UploadSlideImage(ctx context.Context, id, filename string, file io.Reader) (UploadResult, error) {
	return e.upload(ctx, Slot{Field: FieldSlideImage, ItemID: id}, filename, file, func(url string) bool {
		i := indexOf(e.slides, id, slideID)
		if i < 0 {
			return false
		}
		e.slides[i].Image = url
		return true
	})
}

// Save PUTs the whole slide list and returns the stored carousel
func (e *CarouselEditor) Save(ctx context.Context) (*content.Carousel, error) {
	var resp struct {
		Carousel *content.Carousel `json:"carousel"`
	}
	snapshot := func() any {
		doc := &content.Carousel{Slides: slices.Clone(e.slides)}
		doc.Normalize()
		return doc
	}
	if err := e.save(ctx, snapshot, &resp); err != nil {
		return nil, err
	}
	return resp.Carousel, nil
}
