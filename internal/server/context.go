package server

import (
	"net"
	"time"

	"github.com/Brownie44l1/minihttp/internal/request"
	"github.com/Brownie44l1/minihttp/internal/response"
	"github.com/Brownie44l1/minihttp/internal/router"
)

// Context carries one decoded request and the facts about the connection it
// arrived on. It lives for a single connection.
type Context struct {
	Request    *request.Request
	RequestID  string
	RemoteAddr net.Addr
	Start      time.Time
}

// NewContext creates a new context
func NewContext(req *request.Request, id string, remote net.Addr) *Context {
	return &Context{
		Request:    req,
		RequestID:  id,
		RemoteAddr: remote,
		Start:      time.Now(),
	}
}

// Method returns the HTTP method
func (c *Context) Method() string {
	return c.Request.Method.String()
}

// Path returns the request path
func (c *Context) Path() string {
	return c.Request.Path
}

// GetClientIP returns the peer IP without its port
func (c *Context) GetClientIP() string {
	if c.RemoteAddr == nil {
		return ""
	}
	host, _, err := net.SplitHostPort(c.RemoteAddr.String())
	if err != nil {
		return c.RemoteAddr.String()
	}
	return host
}

// HandlerFunc produces the response for one request
type HandlerFunc func(c *Context) *response.Response

// Middleware wraps a HandlerFunc
type Middleware func(next HandlerFunc) HandlerFunc

// Dispatch adapts a router to a HandlerFunc
func Dispatch(r *router.Router) HandlerFunc {
	return func(c *Context) *response.Response {
		return r.Route(c.Request)
	}
}
