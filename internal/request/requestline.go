package request

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMalformedStatusLine = errors.New("malformed status line")
	ErrUnsupportedMethod   = errors.New("unsupported HTTP method")
)

// Method is one of the request methods the engine understands
type Method string

const (
	MethodGet     Method = "GET"
	MethodPut     Method = "PUT"
	MethodPost    Method = "POST"
	MethodPatch   Method = "PATCH"
	MethodDelete  Method = "DELETE"
	MethodHead    Method = "HEAD"
	MethodOptions Method = "OPTIONS"
	MethodConnect Method = "CONNECT"
)

var methods = []Method{
	MethodGet,
	MethodPut,
	MethodPost,
	MethodPatch,
	MethodDelete,
	MethodHead,
	MethodOptions,
	MethodConnect,
}

func (m Method) String() string {
	return string(m)
}

// ParseMethod matches token case-insensitively, ignoring surrounding
// whitespace, and returns the canonical upper-case method.
func ParseMethod(token string) (Method, error) {
	token = strings.TrimSpace(token)
	for _, m := range methods {
		if strings.EqualFold(token, string(m)) {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedMethod, token)
}

// parseRequestLine parses: METHOD PATH VERSION (line terminator already removed)
func parseRequestLine(line string) (Method, string, string, error) {
	parts := strings.Fields(line)
	if len(parts) != 3 {
		return "", "", "", fmt.Errorf("%w: expected 3 fields, got %d", ErrMalformedStatusLine, len(parts))
	}

	method, err := ParseMethod(parts[0])
	if err != nil {
		return "", "", "", err
	}

	// Path and version are kept verbatim
	return method, parts[1], parts[2], nil
}
