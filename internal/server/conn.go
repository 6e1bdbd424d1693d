package server

import (
	"errors"
	"net"
	"time"

	"github.com/google/uuid"

	"github.com/Brownie44l1/minihttp/internal/request"
	"github.com/Brownie44l1/minihttp/internal/response"
)

// serveConn handles the single request on a connection, then closes it
func (s *Server) serveConn(conn net.Conn, handler HandlerFunc) {
	defer s.conns.Done()
	defer conn.Close()

	s.metrics.ActiveConnections.Add(1)
	defer s.metrics.ActiveConnections.Add(-1)

	id := uuid.NewString()
	start := time.Now()

	if s.config.ReadTimeout > 0 {
		conn.SetReadDeadline(start.Add(s.config.ReadTimeout))
	}

	req, err := request.RequestFromReader(conn, s.config.limits())
	if err != nil {
		s.handleReadError(conn, id, start, err)
		return
	}

	s.Logger.Debug("request decoded",
		Field{"request_id", id},
		Field{"method", req.Method.String()},
		Field{"path", req.Path},
		Field{"body_bytes", len(req.Body)},
	)

	c := NewContext(req, id, conn.RemoteAddr())
	c.Start = start

	s.writeResponse(conn, id, handler(c))
}

// handleReadError answers decode failures with an empty 400. Other read
// failures end the connection without a response.
func (s *Server) handleReadError(conn net.Conn, id string, start time.Time, err error) {
	switch {
	case errors.Is(err, request.ErrNoRequest):
		s.Logger.Debug("connection closed before request",
			Field{"request_id", id},
			Field{"client", conn.RemoteAddr().String()},
		)

	case request.IsDecodeError(err):
		s.metrics.DecodeErrors.Add(1)
		s.metrics.RecordRequest(int(response.StatusBadRequest), time.Since(start))
		s.Logger.Warn("bad request",
			Field{"error", err},
			Field{"request_id", id},
			Field{"client", conn.RemoteAddr().String()},
		)
		s.writeResponse(conn, id, response.Empty(response.StatusBadRequest))

	default:
		s.Logger.Warn("read failed",
			Field{"error", err},
			Field{"request_id", id},
			Field{"client", conn.RemoteAddr().String()},
		)
	}
}

func (s *Server) writeResponse(conn net.Conn, id string, resp *response.Response) {
	if s.config.WriteTimeout > 0 {
		conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	}

	w := response.NewWriter(conn)
	if err := w.WriteResponse(resp); err != nil {
		s.metrics.WriteErrors.Add(1)
		s.Logger.Error("write failed",
			Field{"error", err},
			Field{"request_id", id},
			Field{"status", w.StatusCode()},
			Field{"bytes", w.BytesWritten()},
		)
		return
	}

	s.Logger.Debug("response written",
		Field{"request_id", id},
		Field{"status", w.StatusCode()},
		Field{"bytes", w.BytesWritten()},
	)
}
