package server

import (
	"fmt"
	"runtime/debug"
	"time"

	"github.com/Brownie44l1/minihttp/internal/response"
)

// chain applies middlewares so that the first one registered runs outermost
func chain(h HandlerFunc, middlewares []Middleware) HandlerFunc {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// RecoveryMiddleware turns a handler panic into an empty 500
func RecoveryMiddleware(logger Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(c *Context) (resp *response.Response) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic recovered",
						Field{"error", fmt.Sprint(err)},
						Field{"stack", string(debug.Stack())},
						Field{"request_id", c.RequestID},
						Field{"path", c.Path()},
					)
					resp = response.Empty(response.StatusInternalServerError)
				}
			}()

			return next(c)
		}
	}
}

// LoggingMiddleware logs every handled request
func LoggingMiddleware(logger Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(c *Context) *response.Response {
			resp := next(c)

			logger.Info("request handled",
				Field{"method", c.Method()},
				Field{"path", c.Path()},
				Field{"status", resp.StatusCode},
				Field{"bytes", len(resp.Body)},
				Field{"duration", time.Since(c.Start)},
				Field{"request_id", c.RequestID},
				Field{"client_ip", c.GetClientIP()},
			)
			return resp
		}
	}
}

// RequestIDMiddleware echoes the connection's request ID in X-Request-ID
func RequestIDMiddleware() Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(c *Context) *response.Response {
			resp := next(c)
			if c.RequestID != "" {
				resp.AddHeader("X-Request-ID", c.RequestID)
			}
			return resp
		}
	}
}

// MetricsMiddleware records request metrics
func MetricsMiddleware(metrics *Metrics) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(c *Context) *response.Response {
			resp := next(c)
			metrics.RecordRequest(resp.StatusCode, time.Since(c.Start))
			return resp
		}
	}
}
