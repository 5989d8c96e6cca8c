package editor

import (
	"context"
	"io"
	"slices"

	"github.com/glowetsu/backend/internal/client"
	"github.com/glowetsu/backend/internal/domain/content"
)

// FieldSectionImage is the slot field of the Why-Choose-Us image
const FieldSectionImage = "image"

// WhyChooseUsDraft is the editable copy of the Why-Choose-Us document
type WhyChooseUsDraft struct {
	MainTitle       string
	MainDescription string
	Image           string
	Features        []content.Feature
}

func featureID(f *content.Feature) string { return f.ID }

// WhyChooseUsEditor edits the Why-Choose-Us section
type WhyChooseUsEditor struct {
	session
	draft WhyChooseUsDraft
}

// NewWhyChooseUsEditor creates an editor; call Load before editing
func NewWhyChooseUsEditor(api *client.Client) *WhyChooseUsEditor {
	return &WhyChooseUsEditor{session: newSession(api, content.KindWhyChooseUs)}
}

// Load fetches the document and replaces the draft with it
func (e *WhyChooseUsEditor) Load(ctx context.Context) error {
	var doc content.WhyChooseUs
	return e.load(ctx, &doc, func() {
		doc.EnsureIDs()
		e.draft = WhyChooseUsDraft{
			MainTitle:       doc.MainTitle,
			MainDescription: doc.MainDescription,
			Image:           doc.Image,
			Features:        doc.Features,
		}
	})
}

// Draft returns a copy of the current draft
func (e *WhyChooseUsEditor) Draft() WhyChooseUsDraft {
	e.mu.Lock()
	defer e.mu.Unlock()
	d := e.draft
	d.Features = slices.Clone(d.Features)
	return d
}

// SetMain sets the section title and description
func (e *WhyChooseUsEditor) SetMain(title, description string) error {
	return e.edit(func() error {
		e.draft.MainTitle = title
		e.draft.MainDescription = description
		return nil
	})
}

// AddFeature appends f with a fresh id and the next order and returns the id.
// Icons outside content.IconOptions are accepted.
func (e *WhyChooseUsEditor) AddFeature(f content.Feature) (string, error) {
	f.ID = content.NewItemID()
	err := e.edit(func() error {
		f.Order = nextOrder(e.draft.Features, func(x *content.Feature) int { return x.Order })
		e.draft.Features = append(e.draft.Features, f)
		return nil
	})
	if err != nil {
		return "", err
	}
	return f.ID, nil
}

// UpdateFeature applies fn to a feature. fn must not change the id.
func (e *WhyChooseUsEditor) UpdateFeature(id string, fn func(*content.Feature)) error {
	return e.edit(func() error {
		i := indexOf(e.draft.Features, id, featureID)
		if i < 0 {
			return ErrItemNotFound
		}
		fn(&e.draft.Features[i])
		e.draft.Features[i].ID = id
		return nil
	})
}

// RemoveFeature deletes a feature
func (e *WhyChooseUsEditor) RemoveFeature(id string) error {
	return e.edit(func() error {
		i := indexOf(e.draft.Features, id, featureID)
		if i < 0 {
			return ErrItemNotFound
		}
		e.draft.Features = removeAt(e.draft.Features, i)
		return nil
	})
}

// MoveFeature moves a feature to position to and renumbers every order
func (e *WhyChooseUsEditor) MoveFeature(id string, to int) error {
	return e.edit(func() error {
		i := indexOf(e.draft.Features, id, featureID)
		if i < 0 {
			return ErrItemNotFound
		}
		e.draft.Features = moveTo(e.draft.Features, i, to)
		renumber(e.draft.Features, func(f *content.Feature, o int) { f.Order = o })
		return nil
	})
}

// UploadImage uploads the section image and sets it on the draft
func (e *WhyChooseUsEditor) UploadImage(ctx context.Context, filename string, file io.Reader) (UploadResult, error) {
	return e.upload(ctx, Slot{Field: FieldSectionImage}, filename, file, func(url string) bool {
		e.draft.Image = url
		return true
	})
}

// Save PUTs the whole draft and returns the stored document
func (e *WhyChooseUsEditor) Save(ctx context.Context) (*content.WhyChooseUs, error) {
	var resp struct {
		WhyChoose *content.WhyChooseUs `json:"whyChoose"`
	}
	snapshot := func() any {
		doc := &content.WhyChooseUs{
			MainTitle:       e.draft.MainTitle,
			MainDescription: e.draft.MainDescription,
			Image:           e.draft.Image,
			Features:        slices.Clone(e.draft.Features),
		}
		doc.Normalize()
		return doc
	}
	if err := e.save(ctx, snapshot, &resp); err != nil {
		return nil, err
	}
	return resp.WhyChoose, nil
}
