package headers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderParse(t *testing.T) {
	// Test: Valid single header
	h := NewHeaders()
	data := []byte("Host: localhost:4221\r\n")
	n, done, err := h.Parse(data)
	require.NoError(t, err)
	val, ok := h.Get("Host")
	assert.True(t, ok)
	assert.Equal(t, "localhost:4221", val)
	assert.Equal(t, 22, n)
	assert.False(t, done)

	// Test: Valid single header with extra whitespace
	h = NewHeaders()
	data = []byte("Host:   localhost:4221   \r\n")
	_, done, err = h.Parse(data)
	require.NoError(t, err)
	val, ok = h.Get("Host")
	assert.True(t, ok)
	assert.Equal(t, "localhost:4221", val)
	assert.False(t, done)

	// Test: Whitespace around the name is trimmed, not rejected
	h = NewHeaders()
	data = []byte("  Host : localhost\r\n")
	_, _, err = h.Parse(data)
	require.NoError(t, err)
	val, ok = h.Get("Host")
	assert.True(t, ok)
	assert.Equal(t, "localhost", val)

	// Test: Duplicate headers, last one wins
	h = NewHeaders()
	data = []byte("X-Token: first\r\nX-Token: second\r\n")
	_, _, err = h.Parse(data)
	require.NoError(t, err)
	val, _ = h.Get("X-Token")
	assert.Equal(t, "second", val)
	assert.Equal(t, 1, h.Len())

	// Test: Empty line signals end of headers
	h = NewHeaders()
	data = []byte("\r\n")
	n, done, err = h.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, done)

	// Test: Bare LF line endings are accepted
	h = NewHeaders()
	data = []byte("Host: example.com\n\nbody")
	n, done, err = h.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, 19, n)
	assert.True(t, done)

	// Test: Headers followed by empty line
	h = NewHeaders()
	data = []byte("Host: example.com\r\n\r\n")
	n, done, err = h.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, 21, n)
	assert.True(t, done)

	// Test: No colon in header
	h = NewHeaders()
	data = []byte("InvalidHeader\r\n")
	_, _, err = h.Parse(data)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedHeader)

	// Test: Incomplete headers (no line ending yet)
	h = NewHeaders()
	data = []byte("Host: example.com")
	n, done, err = h.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.False(t, done)
	assert.Equal(t, 0, h.Len())

	// Test: Value keeps everything after the first colon
	h = NewHeaders()
	data = []byte("Host: example.com:8080\r\n")
	_, _, err = h.Parse(data)
	require.NoError(t, err)
	val, _ = h.Get("Host")
	assert.Equal(t, "example.com:8080", val)

	// Test: Empty header value (allowed)
	h = NewHeaders()
	data = []byte("X-Empty:\r\n")
	_, _, err = h.Parse(data)
	require.NoError(t, err)
	val, ok = h.Get("X-Empty")
	assert.True(t, ok)
	assert.Equal(t, "", val)
}

func TestHeaderCasePreserved(t *testing.T) {
	h := NewHeaders()
	_, _, err := h.Parse([]byte("Content-Type: application/json\r\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"Content-Type"}, h.Names())
	_, stored := h.GetAllHeaders()["content-type"]
	assert.False(t, stored)

	// Lookups still fall back to a case-insensitive match
	val, ok := h.Get("CONTENT-TYPE")
	assert.True(t, ok)
	assert.Equal(t, "application/json", val)
}

func TestHeaderSet(t *testing.T) {
	h := NewHeaders()
	h.Set("X-Custom", "value1")
	h.Set("X-Custom", "value2")
	val, _ := h.Get("X-Custom")
	assert.Equal(t, "value2", val)
	assert.Equal(t, 1, h.Len())

	val, ok := h.Get("non-existent")
	assert.False(t, ok)
	assert.Equal(t, "", val)
}

func TestHeaderFallbackIsLastWrite(t *testing.T) {
	for i := 0; i < 200; i++ {
		h := NewHeaders()
		h.Set("user-agent", "a")
		h.Set("USER-AGENT", "b")

		val, ok := h.Get("User-Agent")
		require.True(t, ok)
		require.Equal(t, "b", val)
	}

	// An exact spelling still wins over a later differently-cased one
	h := NewHeaders()
	h.Set("User-Agent", "exact")
	h.Set("user-agent", "later")
	val, _ := h.Get("User-Agent")
	assert.Equal(t, "exact", val)
	val, _ = h.Get("USER-AGENT")
	assert.Equal(t, "later", val)
}

func TestParseDifferentlyCasedDuplicates(t *testing.T) {
	h := NewHeaders()
	_, done, err := h.Parse([]byte("user-agent: a\r\nUSER-AGENT: b\r\n\r\n"))
	require.NoError(t, err)
	require.True(t, done)

	val, ok := h.Get("User-Agent")
	assert.True(t, ok)
	assert.Equal(t, "b", val)
}
