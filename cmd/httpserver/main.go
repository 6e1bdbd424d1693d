package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/Brownie44l1/minihttp/internal/handlers"
	"github.com/Brownie44l1/minihttp/internal/server"
	"github.com/Brownie44l1/minihttp/internal/storage"
)

func main() {
	config := server.DefaultConfig()

	flag.StringVar(&config.Addr, "addr", config.Addr, "address to listen on")
	flag.StringVar(&config.Directory, "directory", "", "base directory for /files/ (file routes answer 503 when unset)")
	flag.DurationVar(&config.ReadTimeout, "read-timeout", config.ReadTimeout, "time allowed to receive a request, 0 disables")
	flag.DurationVar(&config.WriteTimeout, "write-timeout", config.WriteTimeout, "time allowed to send a response, 0 disables")
	flag.IntVar(&config.MaxHeaderBytes, "max-header", config.MaxHeaderBytes, "maximum bytes of request line and headers")
	flag.Int64Var(&config.MaxBodyBytes, "max-body", config.MaxBodyBytes, "maximum request body bytes")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	logFormat := flag.String("log-format", "console", "console or json")
	flag.Parse()

	logger, err := newLogger(*logLevel, *logFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := config.Validate(); err != nil {
		logger.Error("invalid configuration", server.Field{Key: "error", Value: err})
		os.Exit(2)
	}

	// A nil *storage.Dir must not reach handlers.New as a non-nil interface
	var store handlers.FileStore
	if config.Directory != "" {
		dir, err := storage.NewDir(config.Directory)
		if err != nil {
			logger.Error("open directory", server.Field{Key: "error", Value: err})
			os.Exit(1)
		}
		store = dir
		logger.Info("serving files", server.Field{Key: "directory", Value: dir.Root()})
	}

	srv := server.New(config, handlers.New(store))
	srv.Logger = logger

	srv.Use(server.LoggingMiddleware(logger))
	srv.Use(server.MetricsMiddleware(srv.Metrics()))
	srv.Use(server.RequestIDMiddleware())
	srv.Use(server.RecoveryMiddleware(logger))

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, server.ErrServerClosed) {
			logger.Error("server error", server.Field{Key: "error", Value: err})
			os.Exit(1)
		}
	case sig := <-sigChan:
		logger.Info("shutting down", server.Field{Key: "signal", Value: sig.String()})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown", server.Field{Key: "error", Value: err})
		os.Exit(1)
	}

	stats := srv.Stats()
	logger.Info("server stopped",
		server.Field{Key: "requests", Value: stats.RequestsTotal},
		server.Field{Key: "decode_errors", Value: stats.DecodeErrors},
		server.Field{Key: "errors_4xx", Value: stats.Errors4xx},
		server.Field{Key: "errors_5xx", Value: stats.Errors5xx},
		server.Field{Key: "write_errors", Value: stats.WriteErrors},
		server.Field{Key: "avg_latency", Value: stats.AverageLatency},
	)
}

func newLogger(level, format string) (*server.ZerologLogger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	switch format {
	case "console":
		return server.NewConsoleLogger(os.Stdout, lvl), nil
	case "json":
		return server.NewZerologLogger(zerolog.New(os.Stdout).Level(lvl).With().Timestamp().Logger()), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}
}
