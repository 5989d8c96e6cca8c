package router

import (
	"net/http"
	"path"
	"sort"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Route is one mounted endpoint, as listed by Router.Setup
type Route struct {
	Group  string
	Method string
	Path   string
}

// Router mounts DomainGroups under a common API prefix
type Router struct {
	engine *gin.Engine
	prefix string
	groups []*DomainGroup
	logger *zap.Logger
}

// RouterOption configures a Router
type RouterOption func(*Router)

// WithAPIPrefix mounts every group under prefix instead of /api
func WithAPIPrefix(prefix string) RouterOption {
	return func(r *Router) {
		r.prefix = prefix
	}
}

// WithLogger logs each mounted route at debug level
func WithLogger(logger *zap.Logger) RouterOption {
	return func(r *Router) {
		r.logger = logger
	}
}

// NewRouter creates a Router for engine
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine: engine,
		prefix: "/api",
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register queues g for Setup
func (r *Router) Register(g *DomainGroup) *Router {
	r.groups = append(r.groups, g)
	return r
}

// Setup mounts the queued groups and returns the routes, sorted by path
func (r *Router) Setup() []Route {
	api := r.engine.Group(r.prefix)

	var routes []Route
	for _, g := range r.groups {
		g.mount(api)
		for _, def := range g.routes {
			routes = append(routes, Route{
				Group:  g.name,
				Method: def.method,
				Path:   joinPath(r.prefix, g.prefix, def.path),
			})
		}
	}

	sort.SliceStable(routes, func(i, j int) bool {
		return routes[i].Path < routes[j].Path
	})
	for _, rt := range routes {
		r.logger.Debug("Route mounted",
			zap.String("group", rt.Group),
			zap.String("method", rt.Method),
			zap.String("path", rt.Path),
		)
	}
	return routes
}

// DomainGroup is the set of routes one handler serves under a shared prefix
type DomainGroup struct {
	name       string
	prefix     string
	routes     []routeDef
	middleware []gin.HandlerFunc
}

type routeDef struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// NewDomainGroup creates an empty group
func NewDomainGroup(name, prefix string) *DomainGroup {
	return &DomainGroup{name: name, prefix: prefix}
}

// Use adds middleware run before every route of the group
func (dg *DomainGroup) Use(middleware ...gin.HandlerFunc) *DomainGroup {
	dg.middleware = append(dg.middleware, middleware...)
	return dg
}

func (dg *DomainGroup) handle(method, p string, handlers []gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, routeDef{method: method, path: p, handlers: handlers})
	return dg
}

// GET registers a GET route
func (dg *DomainGroup) GET(p string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodGet, p, handlers)
}

// POST registers a POST route
func (dg *DomainGroup) POST(p string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodPost, p, handlers)
}

// PUT registers a PUT route
func (dg *DomainGroup) PUT(p string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodPut, p, handlers)
}

func (dg *DomainGroup) mount(rg *gin.RouterGroup) {
	group := rg.Group(dg.prefix, dg.middleware...)
	for _, def := range dg.routes {
		group.Handle(def.method, def.path, def.handlers...)
	}
}

// Name returns the group name
func (dg *DomainGroup) Name() string {
	return dg.name
}

func joinPath(parts ...string) string {
	p := path.Join(parts...)
	if p == "" || p[0] != '/' {
		p = "/" + p
	}
	return p
}
