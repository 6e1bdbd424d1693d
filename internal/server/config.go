package server

import (
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/Brownie44l1/minihttp/internal/request"
)

// Config is built once at startup and only read afterwards
type Config struct {
	// Addr is the host:port to listen on
	Addr string

	// Directory is the base directory for /files/. Empty disables the file
	// routes.
	Directory string

	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	MaxHeaderBytes int
	MaxBodyBytes   int64
}

func DefaultConfig() Config {
	return Config{
		Addr:           "127.0.0.1:4221",
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxHeaderBytes: request.DefaultMaxHeaderBytes,
		MaxBodyBytes:   request.DefaultMaxBodyBytes,
	}
}

// Validate checks the values that would otherwise fail late
func (c Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.Addr); err != nil {
		return fmt.Errorf("invalid listen address %q: %w", c.Addr, err)
	}
	if c.ReadTimeout < 0 || c.WriteTimeout < 0 {
		return errors.New("timeouts must not be negative")
	}
	if c.MaxHeaderBytes < 0 || c.MaxBodyBytes < 0 {
		return errors.New("size limits must not be negative")
	}

	if c.Directory != "" {
		info, err := os.Stat(c.Directory)
		if err != nil {
			return fmt.Errorf("directory %q: %w", c.Directory, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("directory %q: not a directory", c.Directory)
		}
	}
	return nil
}

func (c Config) limits() request.Limits {
	return request.Limits{
		MaxHeaderBytes: c.MaxHeaderBytes,
		MaxBodyBytes:   c.MaxBodyBytes,
	}
}
