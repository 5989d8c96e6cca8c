package router

import (
	"github.com/gin-gonic/gin"
	"github.com/glowetsu/backend/internal/domain/content"
	"github.com/glowetsu/backend/internal/interfaces/http/handler"
	"github.com/glowetsu/backend/internal/interfaces/http/middleware"
)

// ContentRoutesConfig configures the /content routes
type ContentRoutesConfig struct {
	// EditorAuth guards PUT and POST. Nil leaves them open.
	EditorAuth     gin.HandlerFunc
	MaxJSONBytes   int64
	MaxUploadBytes int64
}

// NewContentRoutes builds the /content route group
func NewContentRoutes(h *handler.ContentHandler, cfg ContentRoutesConfig) *DomainGroup {
	write := func(limit int64, fn gin.HandlerFunc) []gin.HandlerFunc {
		chain := make([]gin.HandlerFunc, 0, 3)
		if cfg.EditorAuth != nil {
			chain = append(chain, cfg.EditorAuth)
		}
		return append(chain, middleware.BodyLimit(limit), fn)
	}

	g := NewDomainGroup("content", "/content")
	g.GET("", h.ListContent)
	g.GET("/icons", h.ListIcons)

	type kindRoutes struct {
		kind   content.Kind
		get    gin.HandlerFunc
		public gin.HandlerFunc
		update gin.HandlerFunc
		upload gin.HandlerFunc
	}
	for _, r := range []kindRoutes{
		{content.KindAboutUs, h.GetAboutUs, h.GetPublicAboutUs, h.UpdateAboutUs, h.UploadAboutUsImage},
		{content.KindCarousel, h.GetCarousel, h.GetPublicCarousel, h.UpdateCarousel, h.UploadCarouselImage},
		{content.KindWhyChooseUs, h.GetWhyChooseUs, h.GetPublicWhyChooseUs, h.UpdateWhyChooseUs, h.UploadWhyChooseUsImage},
	} {
		path := "/" + r.kind.Slug()
		g.GET(path, r.get)
		g.GET(path+"/public", r.public)
		g.PUT(path, write(cfg.MaxJSONBytes, r.update)...)
		g.POST(path, write(cfg.MaxUploadBytes, r.upload)...)
	}
	return g
}

// NewSystemRoutes builds the /system route group
func NewSystemRoutes(h *handler.HealthHandler) *DomainGroup {
	g := NewDomainGroup("system", "/system")
	g.GET("/info", h.Info)
	return g
}
