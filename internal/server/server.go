package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"github.com/Brownie44l1/minihttp/internal/router"
)

var ErrServerClosed = errors.New("server closed")

// Server accepts connections and serves exactly one request on each
type Server struct {
	Logger Logger

	config      Config
	handler     HandlerFunc
	middlewares []Middleware
	metrics     *Metrics

	mu       sync.Mutex
	listener net.Listener
	closed   atomic.Bool
	conns    sync.WaitGroup
}

// New creates a server dispatching to r. config must not change after
// this call.
func New(config Config, r *router.Router) *Server {
	return &Server{
		Logger:  NewDefaultLogger(),
		config:  config,
		handler: Dispatch(r),
		metrics: NewMetrics(),
	}
}

// Use adds a middleware. Middlewares run in the order they were added, the
// first one outermost. Call before Serve.
func (s *Server) Use(mw Middleware) {
	s.middlewares = append(s.middlewares, mw)
}

func (s *Server) Metrics() *Metrics {
	return s.metrics
}

func (s *Server) Stats() MetricsSnapshot {
	return s.metrics.Snapshot()
}

// ListenAndServe listens on the configured address and serves until Close
// or Shutdown.
func (s *Server) ListenAndServe() error {
	listener, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.config.Addr, err)
	}
	return s.Serve(listener)
}

// Serve accepts connections on listener, handing each to its own goroutine.
// It returns ErrServerClosed once the server is shut down.
func (s *Server) Serve(listener net.Listener) error {
	s.mu.Lock()
	if s.closed.Load() {
		s.mu.Unlock()
		listener.Close()
		return ErrServerClosed
	}
	s.listener = listener
	s.mu.Unlock()

	handler := chain(s.handler, s.middlewares)
	s.Logger.Info("listening", Field{"addr", listener.Addr().String()})

	for {
		conn, err := listener.Accept()
		if err != nil {
			if s.closed.Load() {
				return ErrServerClosed
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			s.Logger.Error("accept failed", Field{"error", err})
			continue
		}

		s.mu.Lock()
		if s.closed.Load() {
			s.mu.Unlock()
			conn.Close()
			return ErrServerClosed
		}
		s.conns.Add(1)
		s.mu.Unlock()

		go s.serveConn(conn, handler)
	}
}

// Close stops accepting connections. In-flight connections keep running.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Swap(true) || s.listener == nil {
		return nil
	}
	return s.listener.Close()
}

// Shutdown stops accepting connections and waits for in-flight ones to
// finish, or for ctx to end.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}

	done := make(chan struct{})
	go func() {
		s.conns.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
