// Package handlers holds the route handlers and the route table that binds
// them to paths.
package handlers

import (
	"strings"

	"github.com/Brownie44l1/minihttp/internal/request"
	"github.com/Brownie44l1/minihttp/internal/response"
	"github.com/Brownie44l1/minihttp/internal/router"
)

const (
	EchoPrefix  = "/echo/"
	FilesPrefix = "/files/"
)

// Register installs the route table on r, in match order. store may be nil,
// in which case the file routes answer 503.
func Register(r *router.Router, store FileStore) {
	r.Any("/", Root)
	r.GET("/user-agent", UserAgent)

	if store != nil {
		files := NewFiles(store)
		r.GET(FilesPrefix+"*", files.Get)
		r.POST(FilesPrefix+"*", files.Put)
	} else {
		r.GET(FilesPrefix+"*", Unavailable)
		r.POST(FilesPrefix+"*", Unavailable)
	}
	r.Any(FilesPrefix+"*", NotFound)

	r.Any(EchoPrefix+"*", Echo)
}

// New returns a router with the full route table installed
func New(store FileStore) *router.Router {
	r := router.New()
	Register(r, store)
	return r
}

func Root(*request.Request) *response.Response {
	return response.Empty(response.StatusOK)
}

func NotFound(*request.Request) *response.Response {
	return response.Empty(response.StatusNotFound)
}

// Echo answers with the part of the path after /echo/
func Echo(req *request.Request) *response.Response {
	if !strings.HasPrefix(req.Path, EchoPrefix) {
		return response.Empty(response.StatusBadRequest)
	}
	return response.Text(response.StatusOK, req.Path[len(EchoPrefix):])
}

// UserAgent reflects the User-Agent header. A missing header gives an
// empty body.
func UserAgent(req *request.Request) *response.Response {
	return response.Text(response.StatusOK, req.Header("User-Agent"))
}
