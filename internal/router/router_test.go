package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Brownie44l1/minihttp/internal/request"
	"github.com/Brownie44l1/minihttp/internal/response"
)

func named(name string) Handler {
	return func(*request.Request) *response.Response {
		return response.Text(response.StatusOK, name)
	}
}

func route(t *testing.T, r *Router, raw string) *response.Response {
	t.Helper()
	req, err := request.Decode([]byte(raw))
	require.NoError(t, err)
	return r.Route(req)
}

func TestExactAndPrefixMatch(t *testing.T) {
	r := New()
	r.Any("/", named("root"))
	r.GET("/files/*", named("files"))
	r.Any("/echo/*", named("echo"))

	assert.Equal(t, "root", string(route(t, r, "GET / HTTP/1.1\r\n\r\n").Body))
	assert.Equal(t, "files", string(route(t, r, "GET /files/a.txt HTTP/1.1\r\n\r\n").Body))
	assert.Equal(t, "echo", string(route(t, r, "PUT /echo/x HTTP/1.1\r\n\r\n").Body))

	// Prefix keeps its trailing slash
	resp := route(t, r, "GET /filesystem HTTP/1.1\r\n\r\n")
	assert.Equal(t, 404, resp.StatusCode)

	// Root is exact, not a prefix of everything
	resp = route(t, r, "GET /other HTTP/1.1\r\n\r\n")
	assert.Equal(t, 404, resp.StatusCode)
}

func TestFirstMatchWins(t *testing.T) {
	r := New()
	r.GET("/files/*", named("read"))
	r.POST("/files/*", named("write"))
	r.Any("/files/*", named("fallback"))

	assert.Equal(t, "read", string(route(t, r, "GET /files/a HTTP/1.1\r\n\r\n").Body))
	assert.Equal(t, "write", string(route(t, r, "POST /files/a HTTP/1.1\r\n\r\n").Body))
	assert.Equal(t, "fallback", string(route(t, r, "DELETE /files/a HTTP/1.1\r\n\r\n").Body))
}

func TestMethodMismatchFallsThrough(t *testing.T) {
	r := New()
	r.GET("/user-agent", named("ua"))

	resp := route(t, r, "POST /user-agent HTTP/1.1\r\n\r\n")
	assert.Equal(t, 404, resp.StatusCode)
	assert.Empty(t, resp.Body)
	assert.Contains(t, resp.Headers, "Content-Length: 0")
}

func TestCustomNotFound(t *testing.T) {
	r := New()
	r.NotFound(named("nothing here"))

	resp := route(t, r, "GET /missing HTTP/1.1\r\n\r\n")
	assert.Equal(t, "nothing here", string(resp.Body))
}

func TestMatch(t *testing.T) {
	r := New()
	r.GET("/a", named("a"))
	r.Any("/b/*", named("b"))

	rt, ok := r.Match(request.MethodGet, "/a")
	require.True(t, ok)
	assert.Equal(t, "/a", rt.Pattern)

	_, ok = r.Match(request.MethodPost, "/a")
	assert.False(t, ok)

	rt, ok = r.Match(request.MethodHead, "/b/c/d")
	require.True(t, ok)
	assert.Equal(t, AnyMethod, rt.Method)
}
