package integration

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"testing"

	contentapp "github.com/glowetsu/backend/internal/application/content"
	"github.com/glowetsu/backend/internal/client"
	"github.com/glowetsu/backend/internal/client/editor"
	"github.com/glowetsu/backend/internal/domain/content"
	"github.com/glowetsu/backend/internal/interfaces/http/dto"
	"github.com/glowetsu/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPostgresAPI(t *testing.T, opts ...testutil.APIOption) (*testutil.ContentAPI, *TestDB) {
	t.Helper()
	tdb := NewSharedTestDB(t)
	api := testutil.NewContentAPI(t, append([]testutil.APIOption{testutil.WithDatabase(tdb.Database())}, opts...)...)
	return api, tdb
}

func countDocuments(t *testing.T, tdb *TestDB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, tdb.DB.Table("content_documents").Count(&n).Error)
	return n
}

func TestContentAPI_CarouselLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	api, tdb := newPostgresAPI(t)

	resp := api.Do(t, testutil.Request{Path: "/api/content/carousel"})
	require.Equal(t, http.StatusOK, resp.Status, "body: %s", resp.Body)
	seeded := testutil.JSONAs[content.Carousel](t, resp)
	require.Len(t, seeded.Slides, 1)
	assert.Equal(t, "Discover Amazing Destinations", seeded.Slides[0].Title)
	assert.Equal(t, int64(1), countDocuments(t, tdb))

	resp = api.Do(t, testutil.Request{
		Method: http.MethodPut,
		Path:   "/api/content/carousel",
		JSON:   map[string]any{"slides": []any{}},
	})
	require.Equal(t, http.StatusOK, resp.Status, "body: %s", resp.Body)
	updated := testutil.JSONAs[dto.CarouselUpdatedResponse](t, resp)
	assert.Equal(t, "Carousel updated successfully", updated.Message)
	assert.Empty(t, updated.Carousel.Slides)

	resp = api.Do(t, testutil.Request{Path: "/api/content/carousel"})
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Empty(t, testutil.JSONAs[content.Carousel](t, resp).Slides)

	before := resp.Body
	resp = api.Do(t, testutil.Request{
		Method:      http.MethodPut,
		Path:        "/api/content/carousel",
		Body:        strings.NewReader(`{"slides":"not-an-array"}`),
		ContentType: "application/json",
	})
	testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, dto.ErrCodeSlidesRequired)

	resp = api.Do(t, testutil.Request{Path: "/api/content/carousel"})
	assert.JSONEq(t, string(before), string(resp.Body))
}

func TestContentAPI_SeedOnce(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	api, tdb := newPostgresAPI(t)

	const readers = 8
	var wg sync.WaitGroup
	bodies := make([][]byte, readers)
	for i := range readers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			doc, err := api.Service.GetWhyChooseUs(context.Background())
			if assert.NoError(t, err) {
				bodies[i] = []byte(doc.MainTitle)
			}
		}(i)
	}
	wg.Wait()

	for _, b := range bodies {
		assert.Equal(t, content.DefaultWhyChooseUs().MainTitle, string(b))
	}
	assert.Equal(t, int64(1), countDocuments(t, tdb))

	// A second round reads the stored row and inserts nothing
	resp := api.Do(t, testutil.Request{Path: "/api/content/why-choose-us"})
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, int64(1), countDocuments(t, tdb))
}

func TestContentAPI_AboutUsMerge(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	t.Run("defined policy rejects empty required strings", func(t *testing.T) {
		api, _ := newPostgresAPI(t)
		before := api.Do(t, testutil.Request{Path: "/api/content/about-us"})
		require.Equal(t, http.StatusOK, before.Status)

		resp := api.Do(t, testutil.Request{
			Method: http.MethodPut,
			Path:   "/api/content/about-us",
			JSON:   map[string]any{"heroTitle": "", "storyTitle": "Since 2010"},
		})
		testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, dto.ErrCodeValidation)
		assert.Equal(t, "heroTitle is required", testutil.JSONAs[dto.ErrorResponse](t, resp).Message)

		after := api.Do(t, testutil.Request{Path: "/api/content/about-us"})
		require.Equal(t, http.StatusOK, after.Status)
		assert.JSONEq(t, string(before.Body), string(after.Body))
		assert.Equal(t, content.DefaultAboutUs().StoryTitle, testutil.JSONAs[content.AboutUs](t, after).StoryTitle)
	})

	t.Run("truthy policy skips empty strings", func(t *testing.T) {
		cfg := contentapp.DefaultServiceConfig()
		cfg.AboutUsPresence = content.PresenceTruthy
		api, _ := newPostgresAPI(t, testutil.WithServiceConfig(cfg))

		resp := api.Do(t, testutil.Request{
			Method: http.MethodPut,
			Path:   "/api/content/about-us",
			JSON:   map[string]any{"heroTitle": "", "storyParagraphs": []string{}},
		})
		require.Equal(t, http.StatusOK, resp.Status, "body: %s", resp.Body)

		got := testutil.JSONAs[dto.AboutUsUpdatedResponse](t, resp).AboutUs
		assert.Equal(t, content.DefaultAboutUs().HeroTitle, got.HeroTitle)
		assert.Empty(t, got.StoryParagraphs)
	})
}

func TestContentAPI_ListContent(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	api, _ := newPostgresAPI(t)

	resp := api.Do(t, testutil.Request{Path: "/api/content/carousel"})
	require.Equal(t, http.StatusOK, resp.Status)

	resp = api.Do(t, testutil.Request{Path: "/api/content"})
	require.Equal(t, http.StatusOK, resp.Status)
	entries := testutil.JSONAs[[]dto.ContentIndexEntry](t, resp)
	require.Len(t, entries, len(content.Kinds))

	stored := map[string]bool{}
	for _, e := range entries {
		stored[e.Kind] = e.Stored
	}
	assert.True(t, stored[content.KindCarousel.String()])
	assert.False(t, stored[content.KindAboutUs.String()])
	assert.False(t, stored[content.KindWhyChooseUs.String()])
}

func TestContentAPI_EditorRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	api, _ := newPostgresAPI(t, testutil.WithEditorAuth())
	ctx := testutil.ContextWithTimeout(t, defaultTimeout)

	c, err := client.New(client.Config{BaseURL: api.URL(), Token: api.EditorToken(t)})
	require.NoError(t, err)

	ed := editor.NewCarouselEditor(c)
	require.NoError(t, ed.Load(ctx))

	id, err := ed.AddSlide(content.Slide{Image: "b.jpg", Title: "Beach", Subtitle: "Sun", IsActive: true})
	require.NoError(t, err)

	up, err := ed.UploadSlideImage(ctx, id, "beach.png", strings.NewReader("\x89PNG\r\n\x1a\nbeach"))
	require.NoError(t, err)
	assert.True(t, up.Attached)
	assert.True(t, strings.HasPrefix(up.URL, testutil.StorageBaseURL), up.URL)

	// An uploaded URL is not stored until the draft is saved
	resp := api.Do(t, testutil.Request{Path: "/api/content/carousel"})
	require.Len(t, testutil.JSONAs[content.Carousel](t, resp).Slides, 1)

	saved, err := ed.Save(ctx)
	require.NoError(t, err)
	require.Len(t, saved.Slides, 2)
	assert.Equal(t, up.URL, saved.Slides[1].Image)

	reloaded, err := api.Service.GetCarousel(ctx)
	require.NoError(t, err)
	assert.Equal(t, saved.Slides, reloaded.Slides)
}
