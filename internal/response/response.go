package response

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
)

const (
	ContentTypeText   = "text/plain"
	ContentTypeBinary = "application/octet-stream"
)

var crlf = []byte("\r\n")

// Response is the only value a handler produces. Headers are complete
// "Name: value" lines; Encode writes them verbatim and in order.
type Response struct {
	StatusCode int
	Phrase     string
	Headers    []string
	Body       []byte
}

// New builds a response carrying Content-Length and Connection: close.
// contentType may be empty, in which case no Content-Type line is added.
func New(code StatusCode, contentType string, body []byte) *Response {
	headers := make([]string, 0, 3)
	headers = append(headers,
		"Content-Length: "+strconv.Itoa(len(body)),
		"Connection: close",
	)
	if contentType != "" {
		headers = append(headers, "Content-Type: "+contentType)
	}

	return &Response{
		StatusCode: int(code),
		Phrase:     StatusText(code),
		Headers:    headers,
		Body:       body,
	}
}

// Empty builds a response with no body and no Content-Type
func Empty(code StatusCode) *Response {
	return New(code, "", nil)
}

// Text builds a text/plain response
func Text(code StatusCode, body string) *Response {
	return New(code, ContentTypeText, []byte(body))
}

// Data builds an application/octet-stream response
func Data(code StatusCode, body []byte) *Response {
	return New(code, ContentTypeBinary, body)
}

// WithPhrase replaces the reason phrase
func (r *Response) WithPhrase(phrase string) *Response {
	r.Phrase = phrase
	return r
}

// AddHeader appends a pre-formatted header line
func (r *Response) AddHeader(name, value string) *Response {
	r.Headers = append(r.Headers, name+": "+value)
	return r
}

// Encode returns the exact bytes sent on the wire: status line, header lines,
// blank line, body. Nothing follows the body.
func (r *Response) Encode() []byte {
	var buf bytes.Buffer
	buf.Grow(64 + len(r.Body))
	r.writeTo(&buf)
	return buf.Bytes()
}

// WriteTo encodes r into w
func (r *Response) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(r.Encode())
	return int64(n), err
}

func (r *Response) writeTo(buf *bytes.Buffer) {
	fmt.Fprintf(buf, "HTTP/1.1 %d %s", r.StatusCode, r.Phrase)
	buf.Write(crlf)

	for _, line := range r.Headers {
		buf.WriteString(line)
		buf.Write(crlf)
	}
	buf.Write(crlf)

	buf.Write(r.Body)
}
