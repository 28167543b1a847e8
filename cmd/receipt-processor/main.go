package main

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/peterbourgon/ff/v4/ffval"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/zombor/receipt-processor/internal/receipt"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	defaults := receipt.DefaultServerConfig()

	fs := ff.NewFlagSet("receipt-processor")
	var (
		port           = fs.IntLong("port", 8080, "HTTP server port")
		logLevel       = fs.StringLong("log-level", "info", "Log level: debug, info, warn or error")
		logFormat      = fs.StringLong("log-format", "text", "Log format: 'text' or 'json'")
		rateLimit      = fs.Float64Long("rate-limit", 0, "Requests per second across all clients (0 disables)")
		rateBurst      = fs.IntLong("rate-burst", 20, "Burst size for the rate limit")
		requestTimeout = fs.DurationLong("request-timeout", defaults.RequestTimeout, "Maximum time to handle a request")
		maxBodyBytes   = int64Long(fs, "max-body-bytes", defaults.MaxBodyBytes, "Maximum receipt body size in bytes")
		shutdownGrace  = fs.DurationLong("shutdown-timeout", 10*time.Second, "Time allowed for in-flight requests on shutdown")
		_              = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("RECEIPT_PROCESSOR"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(*logLevel, *logFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	// Initialize store and metrics
	store := receipt.NewMemoryStore()
	metrics := receipt.NewMetrics(prometheus.DefaultRegisterer, store)

	// Initialize service
	receiptService := receipt.NewServiceWithDeps(store, receipt.NewScorer(), metrics)

	// Initialize server
	server := receipt.NewServer(receiptService, receipt.ServerConfig{
		RateLimit:      *rateLimit,
		RateBurst:      *rateBurst,
		RequestTimeout: *requestTimeout,
		MaxBodyBytes:   *maxBodyBytes,
		Gatherer:       prometheus.DefaultGatherer,
	})

	// Start server in goroutine
	addr := fmt.Sprintf(":%d", *port)
	go func() {
		if err := server.Start(addr); err != nil {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr), "version", version)
	if *rateLimit > 0 {
		slog.Info("Rate limit enabled", "rps", *rateLimit, "burst", *rateBurst)
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), *shutdownGrace)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}

// newLogger builds the process logger from the configured level and format
// int64Long defines an int64 flag; ff/v4 has no Int64Long helper.
func int64Long(fs *ff.FlagSet, long string, def int64, usage string) *int64 {
	var value int64
	fs.ValueLong(long, ffval.NewValueDefault(&value, def), usage)
	return &value
}

func newLogger(level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}

	opts := &slog.HandlerOptions{Level: lvl}
	switch format {
	case "text":
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q: want 'text' or 'json'", format)
	}
}
