package response

import (
	"bufio"
	"errors"
	"io"
)

var ErrAlreadyWritten = errors.New("response already written")

// Writer sends exactly one response to a connection
type Writer struct {
	w          *bufio.Writer
	written    bool
	statusCode int
	bytes      int
	hadError   bool
}

// NewWriter creates a new response writer
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		w: bufio.NewWriter(w),
	}
}

// WriteResponse encodes r, writes it and flushes. A second call fails with
// ErrAlreadyWritten; a failed write is not retried.
func (w *Writer) WriteResponse(r *Response) error {
	if w.written {
		return ErrAlreadyWritten
	}
	w.written = true
	w.statusCode = r.StatusCode

	n, err := w.w.Write(r.Encode())
	w.bytes = n
	if err != nil {
		w.hadError = true
		return err
	}

	if err := w.w.Flush(); err != nil {
		w.hadError = true
		return err
	}
	return nil
}

// State tracking methods for logging and metrics

func (w *Writer) Written() bool {
	return w.written
}

func (w *Writer) HadError() bool {
	return w.hadError
}

func (w *Writer) StatusCode() int {
	return w.statusCode
}

func (w *Writer) BytesWritten() int {
	return w.bytes
}
