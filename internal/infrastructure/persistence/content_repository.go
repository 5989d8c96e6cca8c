package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/glowetsu/backend/internal/domain/content"
	"github.com/glowetsu/backend/internal/domain/shared"
	"github.com/glowetsu/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormContentRepository implements content.Repository using GORM
type GormContentRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormContentRepository creates a new GormContentRepository
func NewGormContentRepository(db *gorm.DB) *GormContentRepository {
	return &GormContentRepository{db: db, now: time.Now}
}

func (r *GormContentRepository) findModel(ctx context.Context, kind content.Kind) (*models.ContentDocumentModel, error) {
	var model models.ContentDocumentModel
	err := r.db.WithContext(ctx).Where("kind = ?", kind.String()).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &model, nil
}

// upsert writes model, replacing the payload of an existing row for the same kind
func (r *GormContentRepository) upsert(ctx context.Context, model *models.ContentDocumentModel) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "kind"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).
		Create(model).Error
}

// insertIfAbsent writes model unless a row for its kind already exists
func (r *GormContentRepository) insertIfAbsent(ctx context.Context, model *models.ContentDocumentModel) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "kind"}},
			DoNothing: true,
		}).
		Create(model).Error
}

// touch refreshes the document timestamps ahead of a write
func (r *GormContentRepository) touch(ts *content.Timestamps) {
	now := r.now().UTC()
	if ts.CreatedAt.IsZero() {
		ts.CreatedAt = now
	}
	ts.UpdatedAt = now
}

// FindAboutUs returns the stored About-Us document
func (r *GormContentRepository) FindAboutUs(ctx context.Context) (*content.AboutUs, error) {
	model, err := r.findModel(ctx, content.KindAboutUs)
	if err != nil {
		return nil, err
	}
	return model.ToAboutUs()
}

// FindCarousel returns the stored carousel document
func (r *GormContentRepository) FindCarousel(ctx context.Context) (*content.Carousel, error) {
	model, err := r.findModel(ctx, content.KindCarousel)
	if err != nil {
		return nil, err
	}
	return model.ToCarousel()
}

// FindWhyChooseUs returns the stored Why-Choose-Us document
func (r *GormContentRepository) FindWhyChooseUs(ctx context.Context) (*content.WhyChooseUs, error) {
	model, err := r.findModel(ctx, content.KindWhyChooseUs)
	if err != nil {
		return nil, err
	}
	return model.ToWhyChooseUs()
}

// SaveAboutUs upserts the About-Us document
func (r *GormContentRepository) SaveAboutUs(ctx context.Context, doc *content.AboutUs) error {
	r.touch(&doc.Timestamps)
	model, err := models.AboutUsToModel(doc)
	if err != nil {
		return err
	}
	return r.upsert(ctx, model)
}

// SaveCarousel upserts the carousel document
func (r *GormContentRepository) SaveCarousel(ctx context.Context, doc *content.Carousel) error {
	r.touch(&doc.Timestamps)
	model, err := models.CarouselToModel(doc)
	if err != nil {
		return err
	}
	return r.upsert(ctx, model)
}

// SaveWhyChooseUs upserts the Why-Choose-Us document
func (r *GormContentRepository) SaveWhyChooseUs(ctx context.Context, doc *content.WhyChooseUs) error {
	r.touch(&doc.Timestamps)
	model, err := models.WhyChooseUsToModel(doc)
	if err != nil {
		return err
	}
	return r.upsert(ctx, model)
}

// SeedAboutUs inserts doc when nothing is stored and returns the stored document.
// Concurrent seeders all observe the single row that won the insert.
func (r *GormContentRepository) SeedAboutUs(ctx context.Context, doc *content.AboutUs) (*content.AboutUs, error) {
	r.touch(&doc.Timestamps)
	model, err := models.AboutUsToModel(doc)
	if err != nil {
		return nil, err
	}
	if err := r.insertIfAbsent(ctx, model); err != nil {
		return nil, err
	}
	return r.FindAboutUs(ctx)
}

// SeedCarousel inserts doc when nothing is stored and returns the stored document
func (r *GormContentRepository) SeedCarousel(ctx context.Context, doc *content.Carousel) (*content.Carousel, error) {
	r.touch(&doc.Timestamps)
	model, err := models.CarouselToModel(doc)
	if err != nil {
		return nil, err
	}
	if err := r.insertIfAbsent(ctx, model); err != nil {
		return nil, err
	}
	return r.FindCarousel(ctx)
}

// SeedWhyChooseUs inserts doc when nothing is stored and returns the stored document
func (r *GormContentRepository) SeedWhyChooseUs(ctx context.Context, doc *content.WhyChooseUs) (*content.WhyChooseUs, error) {
	r.touch(&doc.Timestamps)
	model, err := models.WhyChooseUsToModel(doc)
	if err != nil {
		return nil, err
	}
	if err := r.insertIfAbsent(ctx, model); err != nil {
		return nil, err
	}
	return r.FindWhyChooseUs(ctx)
}

// Kinds returns the kinds that have a stored document
func (r *GormContentRepository) Kinds(ctx context.Context) ([]content.Kind, error) {
	var keys []string
	if err := r.db.WithContext(ctx).
		Model(&models.ContentDocumentModel{}).
		Order("kind").
		Pluck("kind", &keys).Error; err != nil {
		return nil, err
	}
	kinds := make([]content.Kind, 0, len(keys))
	for _, k := range keys {
		kinds = append(kinds, content.Kind(k))
	}
	return kinds, nil
}

var _ content.Repository = (*GormContentRepository)(nil)
