package editor

import (
	"context"
	"io"
	"slices"

	"github.com/glowetsu/backend/internal/client"
	"github.com/glowetsu/backend/internal/domain/content"
)

// Slot fields of the About-Us editor
const (
	FieldStoryImage  = "storyImage"
	FieldMemberImage = "teamMembers.image"
)

// Paragraph is a story paragraph with a client-side id. Paragraphs are plain
// strings on the wire.
type Paragraph struct {
	ID   string
	Text string
}

// AboutUsDraft is the editable copy of the About-Us document
type AboutUsDraft struct {
	HeroTitle       string
	HeroSubtitle    string
	StoryTitle      string
	StoryParagraphs []Paragraph
	StoryImage      string
	TeamMembers     []content.TeamMember
}

func (d AboutUsDraft) clone() AboutUsDraft {
	d.StoryParagraphs = slices.Clone(d.StoryParagraphs)
	d.TeamMembers = slices.Clone(d.TeamMembers)
	return d
}

func (d AboutUsDraft) document() *content.AboutUs {
	doc := &content.AboutUs{
		HeroTitle:       d.HeroTitle,
		HeroSubtitle:    d.HeroSubtitle,
		StoryTitle:      d.StoryTitle,
		StoryParagraphs: make([]string, 0, len(d.StoryParagraphs)),
		StoryImage:      d.StoryImage,
		TeamMembers:     slices.Clone(d.TeamMembers),
	}
	for _, p := range d.StoryParagraphs {
		doc.StoryParagraphs = append(doc.StoryParagraphs, p.Text)
	}
	doc.Normalize()
	return doc
}

func memberID(m *content.TeamMember) string { return m.ID }

// AboutUsEditor edits the About-Us document
type AboutUsEditor struct {
	session
	draft AboutUsDraft
}

// NewAboutUsEditor creates an editor; call Load before editing
func NewAboutUsEditor(api *client.Client) *AboutUsEditor {
	return &AboutUsEditor{session: newSession(api, content.KindAboutUs)}
}

// Load fetches the document and replaces the draft with it
func (e *AboutUsEditor) Load(ctx context.Context) error {
	var doc content.AboutUs
	return e.load(ctx, &doc, func() {
		doc.EnsureIDs()
		d := AboutUsDraft{
			HeroTitle:    doc.HeroTitle,
			HeroSubtitle: doc.HeroSubtitle,
			StoryTitle:   doc.StoryTitle,
			StoryImage:   doc.StoryImage,
			TeamMembers:  doc.TeamMembers,
		}
		for _, text := range doc.StoryParagraphs {
			d.StoryParagraphs = append(d.StoryParagraphs, Paragraph{ID: content.NewItemID(), Text: text})
		}
		e.draft = d
	})
}

// Draft returns a copy of the current draft
func (e *AboutUsEditor) Draft() AboutUsDraft {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft.clone()
}

// SetHero sets the hero title and subtitle
func (e *AboutUsEditor) SetHero(title, subtitle string) error {
	return e.edit(func() error {
		e.draft.HeroTitle = title
		e.draft.HeroSubtitle = subtitle
		return nil
	})
}

// SetStory sets the story title and image URL
func (e *AboutUsEditor) SetStory(title, image string) error {
	return e.edit(func() error {
		e.draft.StoryTitle = title
		e.draft.StoryImage = image
		return nil
	})
}

// AddParagraph appends a story paragraph and returns its id
func (e *AboutUsEditor) AddParagraph(text string) (string, error) {
	id := content.NewItemID()
	err := e.edit(func() error {
		e.draft.StoryParagraphs = append(e.draft.StoryParagraphs, Paragraph{ID: id, Text: text})
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// UpdateParagraph replaces the text of a paragraph
func (e *AboutUsEditor) UpdateParagraph(id, text string) error {
	return e.edit(func() error {
		i := indexOf(e.draft.StoryParagraphs, id, func(p *Paragraph) string { return p.ID })
		if i < 0 {
			return ErrItemNotFound
		}
		e.draft.StoryParagraphs[i].Text = text
		return nil
	})
}

// RemoveParagraph deletes a paragraph
func (e *AboutUsEditor) RemoveParagraph(id string) error {
	return e.edit(func() error {
		i := indexOf(e.draft.StoryParagraphs, id, func(p *Paragraph) string { return p.ID })
		if i < 0 {
			return ErrItemNotFound
		}
		e.draft.StoryParagraphs = removeAt(e.draft.StoryParagraphs, i)
		return nil
	})
}

// MoveParagraph moves a paragraph to position to
func (e *AboutUsEditor) MoveParagraph(id string, to int) error {
	return e.edit(func() error {
		i := indexOf(e.draft.StoryParagraphs, id, func(p *Paragraph) string { return p.ID })
		if i < 0 {
			return ErrItemNotFound
		}
		e.draft.StoryParagraphs = moveTo(e.draft.StoryParagraphs, i, to)
		return nil
	})
}

// AddTeamMember appends m with a fresh id and the next order, and returns the id
func (e *AboutUsEditor) AddTeamMember(m content.TeamMember) (string, error) {
	m.ID = content.NewItemID()
	err := e.edit(func() error {
		m.Order = nextOrder(e.draft.TeamMembers, func(t *content.TeamMember) int { return t.Order })
		e.draft.TeamMembers = append(e.draft.TeamMembers, m)
		return nil
	})
	if err != nil {
		return "", err
	}
	return m.ID, nil
}

// UpdateTeamMember applies fn to a member. fn must not change the id.
func (e *AboutUsEditor) UpdateTeamMember(id string, fn func(*content.TeamMember)) error {
	return e.edit(func() error {
		i := indexOf(e.draft.TeamMembers, id, memberID)
		if i < 0 {
			return ErrItemNotFound
		}
		fn(&e.draft.TeamMembers[i])
		e.draft.TeamMembers[i].ID = id
		return nil
	})
}

// RemoveTeamMember deletes a member
func (e *AboutUsEditor) RemoveTeamMember(id string) error {
	return e.edit(func() error {
		i := indexOf(e.draft.TeamMembers, id, memberID)
		if i < 0 {
			return ErrItemNotFound
		}
		e.draft.TeamMembers = removeAt(e.draft.TeamMembers, i)
		return nil
	})
}

// MoveTeamMember moves a member to position to and renumbers every order
func (e *AboutUsEditor) MoveTeamMember(id string, to int) error {
	return e.edit(func() error {
		i := indexOf(e.draft.TeamMembers, id, memberID)
		if i < 0 {
			return ErrItemNotFound
		}
		e.draft.TeamMembers = moveTo(e.draft.TeamMembers, i, to)
		renumber(e.draft.TeamMembers, func(m *content.TeamMember, o int) { m.Order = o })
		return nil
	})
}

// UploadStoryImage uploads the story image and sets it on the draft
func (e *AboutUsEditor) UploadStoryImage(ctx context.Context, filename string, file io.Reader) (UploadResult, error) {
	return e.upload(ctx, Slot{Field: FieldStoryImage}, filename, file, func(url string) bool {
		e.draft.StoryImage = url
		return true
	})
}

// UploadTeamMemberImage uploads a photo for the member with id. The URL is
// attached only if the member is still in the draft when the upload ends.
func (e *AboutUsEditor) UploadTeamMemberImage(ctx context.Context, id, filename string, file io.Reader) (UploadResult, error) {
	return e.upload(ctx, Slot{Field: FieldMemberImage, ItemID: id}, filename, file, func(url string) bool {
		i := indexOf(e.draft.TeamMembers, id, memberID)
		if i < 0 {
			return false
		}
		e.draft.TeamMembers[i].Image = url
		return true
	})
}

// Save PUTs the whole draft and returns the stored document
func (e *AboutUsEditor) Save(ctx context.Context) (*content.AboutUs, error) {
	var resp struct {
		AboutUs *content.AboutUs `json:"aboutUs"`
	}
	if err := e.save(ctx, func() any { return e.draft.document() }, &resp); err != nil {
		return nil, err
	}
	return resp.AboutUs, nil
}
