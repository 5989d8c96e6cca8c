package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/glowetsu/backend/internal/domain/content"
)

// ContentDocumentModel stores one singleton content document per kind.
// The kind is the primary key, so a second row for the same kind cannot exist.
type ContentDocumentModel struct {
	Kind      string    `gorm:"column:kind;type:varchar(32);primaryKey"`
	Payload   string    `gorm:"column:payload;type:jsonb;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ContentDocumentModel) TableName() string {
	return "content_documents"
}

// NewContentDocumentModel encodes doc under kind. Timestamps are carried by the
// columns, not the payload.
func NewContentDocumentModel(kind content.Kind, doc any, ts content.Timestamps) (*ContentDocumentModel, error) {
	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", kind, err)
	}
	return &ContentDocumentModel{
		Kind:      kind.String(),
		Payload:   string(payload),
		CreatedAt: ts.CreatedAt,
		UpdatedAt: ts.UpdatedAt,
	}, nil
}

// Decode unmarshals the payload into dst
func (m *ContentDocumentModel) Decode(dst any) error {
	if err := json.Unmarshal([]byte(m.Payload), dst); err != nil {
		return fmt.Errorf("decode %s payload: %w", m.Kind, err)
	}
	return nil
}

// Timestamps returns the row timestamps
func (m *ContentDocumentModel) Timestamps() content.Timestamps {
	return content.Timestamps{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt}
}

// AboutUsToModel encodes an About-Us document
func AboutUsToModel(doc *content.AboutUs) (*ContentDocumentModel, error) {
	body := *doc
	body.Timestamps = content.Timestamps{}
	return NewContentDocumentModel(content.KindAboutUs, &body, doc.Timestamps)
}

// CarouselToModel encodes a carousel document
func CarouselToModel(doc *content.Carousel) (*ContentDocumentModel, error) {
	body := *doc
	body.Timestamps = content.Timestamps{}
	return NewContentDocumentModel(content.KindCarousel, &body, doc.Timestamps)
}

// WhyChooseUsToModel encodes a Why-Choose-Us document
func WhyChooseUsToModel(doc *content.WhyChooseUs) (*ContentDocumentModel, error) {
	body := *doc
	body.Timestamps = content.Timestamps{}
	return NewContentDocumentModel(content.KindWhyChooseUs, &body, doc.Timestamps)
}

// ToAboutUs decodes the row as an About-Us document
func (m *ContentDocumentModel) ToAboutUs() (*content.AboutUs, error) {
	doc := &content.AboutUs{}
	if err := m.Decode(doc); err != nil {
		return nil, err
	}
	doc.Normalize()
	doc.Timestamps = m.Timestamps()
	return doc, nil
}

// ToCarousel decodes the row as a carousel document
func (m *ContentDocumentModel) ToCarousel() (*content.Carousel, error) {
	doc := &content.Carousel{}
	if err := m.Decode(doc); err != nil {
		return nil, err
	}
	doc.Normalize()
	doc.Timestamps = m.Timestamps()
	return doc, nil
}

// ToWhyChooseUs decodes the row as a Why-Choose-Us document
func (m *ContentDocumentModel) ToWhyChooseUs() (*content.WhyChooseUs, error) {
	doc := &content.WhyChooseUs{}
	if err := m.Decode(doc); err != nil {
		return nil, err
	}
	doc.Normalize()
	doc.Timestamps = m.Timestamps()
	return doc, nil
}
