package router

import (
	"strings"

	"github.com/Brownie44l1/minihttp/internal/request"
	"github.com/Brownie44l1/minihttp/internal/response"
)

// Handler builds a response for a decoded request
type Handler func(req *request.Request) *response.Response

// AnyMethod matches every request method
const AnyMethod request.Method = ""

// Route represents a single route
type Route struct {
	Method  request.Method
	Pattern string
	Handler Handler

	prefix bool
}

// Matches reports whether the route accepts method and path. A pattern
// ending in "*" matches every path that starts with the text before it;
// any other pattern must equal the path.
func (rt *Route) Matches(method request.Method, path string) bool {
	if rt.Method != AnyMethod && rt.Method != method {
		return false
	}
	if rt.prefix {
		return strings.HasPrefix(path, strings.TrimSuffix(rt.Pattern, "*"))
	}
	return rt.Pattern == path
}

// Router holds an ordered route table. Routes are tried in registration
// order and the first match wins.
type Router struct {
	routes   []*Route
	notFound Handler
}

// New creates a new router
func New() *Router {
	return &Router{
		routes:   make([]*Route, 0),
		notFound: notFound,
	}
}

func notFound(*request.Request) *response.Response {
	return response.Empty(response.StatusNotFound)
}

// Handle registers a new route
func (r *Router) Handle(method request.Method, pattern string, handler Handler) {
	r.routes = append(r.routes, &Route{
		Method:  method,
		Pattern: pattern,
		Handler: handler,
		prefix:  strings.HasSuffix(pattern, "*"),
	})
}

// Any registers a route for every method
func (r *Router) Any(pattern string, handler Handler) {
	r.Handle(AnyMethod, pattern, handler)
}

// GET is a shortcut for Handle(MethodGet, ...)
func (r *Router) GET(pattern string, handler Handler) {
	r.Handle(request.MethodGet, pattern, handler)
}

// POST is a shortcut for Handle(MethodPost, ...)
func (r *Router) POST(pattern string, handler Handler) {
	r.Handle(request.MethodPost, pattern, handler)
}

// NotFound replaces the fallback used when no route matches
func (r *Router) NotFound(handler Handler) {
	r.notFound = handler
}

// Match finds the first route that matches the given method and path
func (r *Router) Match(method request.Method, path string) (*Route, bool) {
	for _, route := range r.routes {
		if route.Matches(method, path) {
			return route, true
		}
	}
	return nil, false
}

// Route dispatches req to the first matching handler, or the fallback
func (r *Router) Route(req *request.Request) *response.Response {
	if route, ok := r.Match(req.Method, req.Path); ok {
		return route.Handler(req)
	}
	return r.notFound(req)
}
