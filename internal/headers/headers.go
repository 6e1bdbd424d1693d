package headers

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrMalformedHeader = errors.New("malformed header")

// Headers holds request headers. Names keep the case they arrived with and
// each name has exactly one value: a repeated name overwrites the earlier one.
type Headers struct {
	headers map[string]string

	// lower-cased name -> the most recently set name with that spelling
	folded map[string]string
}

func NewHeaders() *Headers {
	return &Headers{
		headers: make(map[string]string),
		folded:  make(map[string]string),
	}
}

// Get returns the value stored under key. An exact match is preferred; when
// none exists the lookup falls back to the most recently set name that
// matches case-insensitively.
func (h *Headers) Get(key string) (string, bool) {
	if v, ok := h.headers[key]; ok {
		return v, true
	}
	if name, ok := h.folded[strings.ToLower(key)]; ok {
		return h.headers[name], true
	}
	return "", false
}

// Set stores value under key, replacing any previous value
func (h *Headers) Set(key, value string) {
	h.headers[key] = value
	h.folded[strings.ToLower(key)] = key
}

func (h *Headers) Len() int {
	return len(h.headers)
}

// Names returns the stored header names in sorted order
func (h *Headers) Names() []string {
	names := make([]string, 0, len(h.headers))
	for name := range h.headers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetAllHeaders returns the internal map (for iteration)
func (h *Headers) GetAllHeaders() map[string]string {
	return h.headers
}

// Parse consumes complete header lines from data. A line ends at '\n' and an
// optional '\r' before it is dropped. Parsing stops at the first empty line,
// which is consumed and reported through done. Returns the number of bytes
// consumed; an incomplete trailing line is left for the next call.
func (h *Headers) Parse(data []byte) (int, bool, error) {
	read := 0

	for {
		idx := bytes.IndexByte(data[read:], '\n')
		if idx == -1 {
			// Need more data
			return read, false, nil
		}

		line := bytes.TrimSuffix(data[read:read+idx], []byte("\r"))
		read += idx + 1

		if len(line) == 0 {
			return read, true, nil
		}

		if err := h.ParseLine(line); err != nil {
			return read, false, err
		}
	}
}

// ParseLine parses a single "Name: value" line without its terminator and
// stores it.
func (h *Headers) ParseLine(line []byte) error {
	colonIdx := bytes.IndexByte(line, ':')
	if colonIdx == -1 {
		return fmt.Errorf("%w: no colon in %q", ErrMalformedHeader, line)
	}

	name := strings.TrimSpace(string(line[:colonIdx]))
	value := strings.TrimSpace(string(line[colonIdx+1:]))

	h.Set(name, value)
	return nil
}
