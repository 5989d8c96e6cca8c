package persistence

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/glowetsu/backend/internal/domain/content"
	"github.com/glowetsu/backend/internal/domain/shared"
	"github.com/glowetsu/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contentCarouselFixture() *content.Carousel {
	c := content.DefaultCarousel()
	c.EnsureIDs()
	return c
}

// setupContentTestDB creates a file-backed sqlite database with the content table
func setupContentTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase(&config.DatabaseConfig{
		Driver:       "sqlite",
		Path:         filepath.Join(t.TempDir(), "content.db"),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}, nil)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestGormContentRepository_FindMissing(t *testing.T) {
	repo := NewGormContentRepository(setupContentTestDB(t).DB)
	ctx := context.Background()

	_, err := repo.FindAboutUs(ctx)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	_, err = repo.FindCarousel(ctx)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	_, err = repo.FindWhyChooseUs(ctx)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormContentRepository_SaveAndFind(t *testing.T) {
	repo := NewGormContentRepository(setupContentTestDB(t).DB)
	ctx := context.Background()

	doc := content.DefaultAboutUs()
	doc.EnsureIDs()
	require.NoError(t, repo.SaveAboutUs(ctx, doc))
	assert.False(t, doc.CreatedAt.IsZero())

	got, err := repo.FindAboutUs(ctx)
	require.NoError(t, err)
	assert.Equal(t, doc.HeroTitle, got.HeroTitle)
	assert.Equal(t, doc.StoryParagraphs, got.StoryParagraphs)
	require.Len(t, got.TeamMembers, 1)
	assert.Equal(t, doc.TeamMembers[0].ID, got.TeamMembers[0].ID)
	assert.WithinDuration(t, doc.CreatedAt, got.CreatedAt, time.Second)
}

func TestGormContentRepository_SaveOverwritesSingleRow(t *testing.T) {
	db := setupContentTestDB(t)
	repo := NewGormContentRepository(db.DB)
	ctx := context.Background()

	first := contentCarouselFixture()
	require.NoError(t, repo.SaveCarousel(ctx, first))
	created := first.CreatedAt

	second := &content.Carousel{Slides: []content.Slide{}}
	second.CreatedAt = created
	require.NoError(t, repo.SaveCarousel(ctx, second))

	got, err := repo.FindCarousel(ctx)
	require.NoError(t, err)
	assert.NotNil(t, got.Slides)
	assert.Empty(t, got.Slides)
	assert.WithinDuration(t, created, got.CreatedAt, time.Second)

	var count int64
	require.NoError(t, db.DB.Table("content_documents").Where("kind = ?", "carousel").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGormContentRepository_Seed(t *testing.T) {
	repo := NewGormContentRepository(setupContentTestDB(t).DB)
	ctx := context.Background()

	t.Run("seeds when empty", func(t *testing.T) {
		got, err := repo.SeedWhyChooseUs(ctx, content.DefaultWhyChooseUs())
		require.NoError(t, err)
		assert.Len(t, got.Features, 3)
	})

	t.Run("keeps existing document", func(t *testing.T) {
		other := content.DefaultWhyChooseUs()
		other.MainTitle = "Something else"

		got, err := repo.SeedWhyChooseUs(ctx, other)
		require.NoError(t, err)
		assert.Equal(t, content.DefaultWhyChooseUs().MainTitle, got.MainTitle)
	})
}

func TestGormContentRepository_ConcurrentSeed(t *testing.T) {
	repo := NewGormContentRepository(setupContentTestDB(t).DB)
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make([]*content.Carousel, 8)
	errs := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			doc := content.DefaultCarousel()
			doc.EnsureIDs()
			results[i], errs[i] = repo.SeedCarousel(ctx, doc)
		}(i)
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, results[0].Slides[0].ID, results[i].Slides[0].ID)
	}
}

func TestGormContentRepository_Kinds(t *testing.T) {
	repo := NewGormContentRepository(setupContentTestDB(t).DB)
	ctx := context.Background()

	kinds, err := repo.Kinds(ctx)
	require.NoError(t, err)
	assert.Empty(t, kinds)

	require.NoError(t, repo.SaveCarousel(ctx, contentCarouselFixture()))
	_, err = repo.SeedAboutUs(ctx, content.DefaultAboutUs())
	require.NoError(t, err)

	kinds, err = repo.Kinds(ctx)
	require.NoError(t, err)
	assert.Equal(t, []content.Kind{content.KindAboutUs, content.KindCarousel}, kinds)
}
