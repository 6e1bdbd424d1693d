package request

import (
	"errors"
	"math"

	"github.com/Brownie44l1/minihttp/internal/headers"
)

const (
	DefaultMaxHeaderBytes = 1 << 20  // 1MB request line + headers
	DefaultMaxBodyBytes   = 10 << 20 // 10MB body
)

var (
	ErrMalformedHeader      = headers.ErrMalformedHeader
	ErrInvalidContentLength = errors.New("invalid Content-Length")
	ErrIncompleteBody       = errors.New("body shorter than Content-Length")
	ErrHeaderTooLarge       = errors.New("headers too large")
	ErrBodyTooLarge         = errors.New("body too large")

	// ErrNoRequest means the peer closed the connection before sending a
	// single byte. It is not a decode failure.
	ErrNoRequest = errors.New("connection closed before request")
)

var decodeErrors = []error{
	ErrMalformedStatusLine,
	ErrUnsupportedMethod,
	ErrMalformedHeader,
	ErrInvalidContentLength,
	ErrIncompleteBody,
	ErrHeaderTooLarge,
	ErrBodyTooLarge,
}

// IsDecodeError reports whether err means the peer sent something that is
// not a request we accept.
func IsDecodeError(err error) bool {
	for _, target := range decodeErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Limits bounds how much RequestFromReader buffers. Zero fields take the
// defaults.
type Limits struct {
	MaxHeaderBytes int
	MaxBodyBytes   int64
}

var unlimited = Limits{
	MaxHeaderBytes: math.MaxInt,
	MaxBodyBytes:   math.MaxInt64,
}

func (l Limits) withDefaults() Limits {
	if l.MaxHeaderBytes <= 0 {
		l.MaxHeaderBytes = DefaultMaxHeaderBytes
	}
	if l.MaxBodyBytes <= 0 {
		l.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return l
}

// Request is decoded once per connection and only read afterwards
type Request struct {
	Method  Method
	Path    string
	Version string
	Headers *headers.Headers
	Body    []byte
}

func newRequest() *Request {
	return &Request{
		Headers: headers.NewHeaders(),
	}
}

// Header returns the value of key, or "" when absent
func (r *Request) Header(key string) string {
	v, _ := r.Headers.Get(key)
	return v
}

// ContentLength returns the declared body length. ok is false when the
// header is absent.
func (r *Request) ContentLength() (int64, bool, error) {
	raw, ok := r.Headers.Get("Content-Length")
	if !ok {
		return 0, false, nil
	}
	cl, err := parseContentLength(raw)
	if err != nil {
		return 0, true, err
	}
	return cl, true, nil
}
