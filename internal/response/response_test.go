package response

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeRawBytes(t *testing.T) {
	resp := &Response{
		StatusCode: 200,
		Phrase:     "OK",
		Headers:    []string{"Content-Length: 3", "Connection: close", "Content-Type: text/plain"},
		Body:       []byte("abc"),
	}

	want := "HTTP/1.1 200 OK\r\n" +
		"Content-Length: 3\r\n" +
		"Connection: close\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"abc"
	assert.Equal(t, want, string(resp.Encode()))
}

func TestEncodeAddsNothing(t *testing.T) {
	// The encoder writes exactly what it was given
	resp := &Response{StatusCode: 404, Phrase: "Nope"}

	assert.Equal(t, "HTTP/1.1 404 Nope\r\n\r\n", string(resp.Encode()))
}

func TestBuilderInjectsFramingHeaders(t *testing.T) {
	resp := Text(StatusOK, "hello")

	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "OK", resp.Phrase)
	assert.Equal(t, []string{
		"Content-Length: 5",
		"Connection: close",
		"Content-Type: text/plain",
	}, resp.Headers)
	assert.Equal(t, []byte("hello"), resp.Body)
}

func TestEmptyResponse(t *testing.T) {
	resp := Empty(StatusNotFound)

	want := "HTTP/1.1 404 Not Found\r\n" +
		"Content-Length: 0\r\n" +
		"Connection: close\r\n" +
		"\r\n"
	assert.Equal(t, want, string(resp.Encode()))
}

func TestDataResponse(t *testing.T) {
	resp := Data(StatusOK, []byte{0x00, 0x01, '\n'})

	assert.Contains(t, resp.Headers, "Content-Type: application/octet-stream")
	assert.Contains(t, resp.Headers, "Content-Length: 3")
}

func TestWithPhrase(t *testing.T) {
	resp := Empty(StatusOK).WithPhrase("Fine")

	assert.Equal(t, "HTTP/1.1 200 Fine\r\n", string(resp.Encode()[:19]))
}

func TestUnknownStatusText(t *testing.T) {
	assert.Equal(t, "Unknown Status", StatusText(299))
	assert.Equal(t, "Created", StatusText(StatusCreated))
}

func TestRoundTripThroughGenericParser(t *testing.T) {
	cases := []*Response{
		Text(StatusOK, "hello"),
		Data(StatusOK, []byte("line1\nline2\x00")),
		Empty(StatusCreated),
		Text(StatusInternalServerError, "Encountered error while trying to read file (x): boom"),
		Empty(StatusNotFound).AddHeader("X-Trace", "abc"),
	}

	for _, resp := range cases {
		parsed, err := http.ReadResponse(bufio.NewReader(bytes.NewReader(resp.Encode())), nil)
		require.NoError(t, err)

		assert.Equal(t, resp.StatusCode, parsed.StatusCode)
		assert.Equal(t, resp.Phrase, parsed.Status[4:])

		got := map[string]bool{}
		for name, values := range parsed.Header {
			for _, v := range values {
				got[name+": "+v] = true
			}
		}
		// net/http moves Connection into parsed.Close
		got["Content-Length: "+strconv.FormatInt(parsed.ContentLength, 10)] = true
		if parsed.Close {
			got["Connection: close"] = true
		}
		want := map[string]bool{}
		for _, line := range resp.Headers {
			want[line] = true
		}
		assert.Equal(t, want, got)

		body, err := io.ReadAll(parsed.Body)
		require.NoError(t, err)
		assert.Equal(t, len(resp.Body), len(body))
		assert.True(t, bytes.Equal(resp.Body, body))
	}
}

func TestWriterWritesOnce(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewWriter(buf)

	err := w.WriteResponse(Text(StatusOK, "hi"))
	require.NoError(t, err)
	assert.True(t, w.Written())
	assert.Equal(t, 200, w.StatusCode())
	assert.Equal(t, buf.Len(), w.BytesWritten())
	assert.Contains(t, buf.String(), "\r\n\r\nhi")

	err = w.WriteResponse(Empty(StatusInternalServerError))
	assert.ErrorIs(t, err, ErrAlreadyWritten)
	assert.NotContains(t, buf.String(), "500")
}

func TestWriterRecordsFailure(t *testing.T) {
	w := NewWriter(failingWriter{})

	err := w.WriteResponse(Text(StatusOK, "hi"))
	require.Error(t, err)
	assert.True(t, w.HadError())
}

func TestStatusClasses(t *testing.T) {
	assert.True(t, StatusCreated.IsSuccess())
	assert.True(t, StatusNotFound.IsClientError())
	assert.True(t, StatusServiceUnavailable.IsServerError())
	assert.False(t, StatusOK.IsClientError())
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("broken pipe")
}
