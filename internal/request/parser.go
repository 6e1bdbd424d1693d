package request

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Brownie44l1/minihttp/internal/bufferpool"
)

// parserState represents the current state of the request parser
type parserState int

const (
	stateRequestLine parserState = iota
	stateHeaders
	stateBody      // exactly contentLength bytes
	stateRemainder // no Content-Length: take whatever is buffered
	stateDone
)

// parser handles incremental parsing of HTTP requests
type parser struct {
	state         parserState
	limits        Limits
	headerBytes   int
	contentLength int64
}

func newParser(limits Limits) *parser {
	return &parser{
		state:         stateRequestLine,
		limits:        limits,
		contentLength: -1,
	}
}

// parse advances the state machine over data and returns the number of
// bytes consumed. atEOF reports that no more data will follow, which lets a
// final unterminated line count as complete.
func (p *parser) parse(data []byte, req *Request, atEOF bool) (int, error) {
	switch p.state {
	case stateRequestLine:
		return p.parseRequestLine(data, req, atEOF)

	case stateHeaders:
		return p.parseHeaders(data, req, atEOF)

	case stateBody:
		return p.parseFixedBody(data, req)

	case stateRemainder:
		return p.parseRemainder(data, req)

	case stateDone:
		return 0, nil

	default:
		return 0, fmt.Errorf("invalid parser state: %d", p.state)
	}
}

func (p *parser) parseRequestLine(data []byte, req *Request, atEOF bool) (int, error) {
	idx := bytes.IndexByte(data, '\n')
	line, consumed := data, len(data)
	if idx >= 0 {
		line, consumed = data[:idx], idx+1
	} else if !atEOF {
		if len(data) > p.limits.MaxHeaderBytes {
			return 0, ErrHeaderTooLarge
		}
		// Need more data
		return 0, nil
	}

	p.headerBytes += consumed
	if p.headerBytes > p.limits.MaxHeaderBytes {
		return 0, ErrHeaderTooLarge
	}

	method, path, version, err := parseRequestLine(string(bytes.TrimSuffix(line, []byte("\r"))))
	if err != nil {
		return 0, err
	}

	req.Method = method
	req.Path = path
	req.Version = version

	p.state = stateHeaders
	return consumed, nil
}

// parseHeaders parses header lines until the blank line, or until the input
// runs out when atEOF is set.
func (p *parser) parseHeaders(data []byte, req *Request, atEOF bool) (int, error) {
	consumed, done, err := req.Headers.Parse(data)
	if err != nil {
		return 0, err
	}

	if !done && atEOF {
		// The last header line may lack a terminator
		if rest := bytes.TrimSuffix(data[consumed:], []byte("\r")); len(rest) > 0 {
			if err := req.Headers.ParseLine(rest); err != nil {
				return 0, err
			}
		}
		consumed = len(data)
		done = true
	}

	p.headerBytes += consumed
	if p.headerBytes > p.limits.MaxHeaderBytes {
		return 0, ErrHeaderTooLarge
	}
	if !done {
		if p.headerBytes+len(data)-consumed > p.limits.MaxHeaderBytes {
			return 0, ErrHeaderTooLarge
		}
		return consumed, nil
	}

	cl, ok, err := req.ContentLength()
	if err != nil {
		return 0, err
	}
	switch {
	case !ok:
		p.state = stateRemainder
	case cl > p.limits.MaxBodyBytes:
		return 0, fmt.Errorf("%w: Content-Length %d exceeds %d", ErrBodyTooLarge, cl, p.limits.MaxBodyBytes)
	case cl == 0:
		p.state = stateDone
	default:
		p.contentLength = cl
		req.Body = make([]byte, 0, cl)
		p.state = stateBody
	}
	return consumed, nil
}

// parseFixedBody reads body with known Content-Length
func (p *parser) parseFixedBody(data []byte, req *Request) (int, error) {
	remaining := int(p.contentLength) - len(req.Body)
	toRead := min(remaining, len(data))

	req.Body = append(req.Body, data[:toRead]...)
	if len(req.Body) == int(p.contentLength) {
		p.state = stateDone
	}

	return toRead, nil
}

func (p *parser) parseRemainder(data []byte, req *Request) (int, error) {
	if int64(len(data)) > p.limits.MaxBodyBytes {
		return 0, ErrBodyTooLarge
	}
	if len(data) > 0 {
		req.Body = append([]byte(nil), data...)
	}
	p.state = stateDone
	return len(data), nil
}

// Decode parses a complete request held in data. The end of data terminates
// the request line and header section if no blank line was seen. Without a
// Content-Length header every byte after the blank line is the body.
func Decode(data []byte) (*Request, error) {
	req := newRequest()
	p := newParser(unlimited)

	for p.state != stateDone {
		consumed, err := p.parse(data, req, true)
		if err != nil {
			return nil, err
		}
		data = data[consumed:]

		if consumed == 0 && p.state == stateBody {
			return nil, fmt.Errorf("%w: have %d of %d bytes", ErrIncompleteBody, len(req.Body), p.contentLength)
		}
	}

	return req, nil
}

// RequestFromReader reads one request from reader. It keeps reading until
// the header section is complete and, when Content-Length is present, until
// exactly that many body bytes arrived. Without Content-Length the body is
// whatever was received along with the headers; the reader is never drained
// to EOF.
func RequestFromReader(reader io.Reader, limits Limits) (*Request, error) {
	limits = limits.withDefaults()
	req := newRequest()
	p := newParser(limits)

	readBuf := bufferpool.Get(bufferpool.SmallSize)
	defer bufferpool.Put(readBuf)

	var (
		pending   []byte
		totalRead int
		atEOF     bool
	)

	for {
		// Try to parse what we have in buffer first
		consumed, err := p.parse(pending, req, atEOF)
		if err != nil {
			return nil, err
		}
		pending = pending[consumed:]

		if p.state == stateDone {
			return req, nil
		}
		if consumed > 0 {
			continue
		}

		if atEOF {
			if totalRead == 0 {
				return nil, ErrNoRequest
			}
			return nil, fmt.Errorf("%w: %w", ErrIncompleteBody, io.ErrUnexpectedEOF)
		}

		// Need more data - read from connection
		n, err := reader.Read(readBuf)
		if n > 0 {
			pending = append(pending, readBuf[:n]...)
			totalRead += n
		}

		if err != nil {
			if !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("read error: %w", err)
			}
			if totalRead == 0 {
				return nil, ErrNoRequest
			}
			atEOF = true
		}
	}
}

func parseContentLength(raw string) (int64, error) {
	cl, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || cl < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidContentLength, raw)
	}
	return cl, nil
}
