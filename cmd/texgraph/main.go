package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"texgraph/internal/core/config"
	"texgraph/internal/shared/observability"
)

var (
	configPath = flag.String("config", "./texgraph.toml", "Path to config file")
	once       = flag.Bool("once", false, "Run single resolve and exit")
	ui         = flag.Bool("ui", false, "Enable terminal UI mode (implies watch)")
	watch      = flag.Bool("watch", false, "Re-resolve the project on file changes")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	version    = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "1.0.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("texgraph v%s\n", VERSION)
		os.Exit(0)
	}

	// Setup logging
	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}

	output := os.Stdout
	if *ui {
		// In UI mode, avoid stdout logs corrupting the TUI.
		logPath := resolveLogPath()
		if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to create log dir for %s: %v\n", logPath, err)
		} else if f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600); err == nil {
			output = f
		} else {
			fmt.Fprintf(os.Stderr, "warning: failed to open log file %s: %v\n", logPath, err)
		}
	}

	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Load config; a missing file falls back to built-in defaults.
	cfg, err := config.Load(*configPath)
	if err != nil {
		if os.IsNotExist(err) {
			cfg = config.Default()
		} else {
			slog.Error("failed to load config", "error", err)
			os.Exit(1)
		}
	}

	entry := cfg.Entry
	if flag.NArg() > 0 {
		entry = flag.Arg(0)
	}

	ctx := context.Background()

	if endpoint := cfg.Observability.OTLPEndpoint; endpoint != "" {
		shutdown, err := observability.SetupTracing(ctx, endpoint)
		if err != nil {
			slog.Error("failed to set up tracing", "endpoint", endpoint, "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := shutdown(ctx); err != nil {
				slog.Warn("tracing shutdown failed", "error", err)
			}
		}()
	}

	rt, err := NewRuntime(cfg)
	if err != nil {
		slog.Error("failed to initialize runtime", "error", err)
		os.Exit(1)
	}
	defer rt.Close()

	if addr := cfg.Observability.MetricsAddr; addr != "" {
		startObservabilityServer(addr)
	}

	result, err := rt.ResolveOnce(ctx, entry)
	if err != nil {
		slog.Error("resolve failed", "error", err)
		os.Exit(1)
	}

	if !*ui {
		rt.PrintSummary(result)
	}

	if *once || (!*watch && !*ui) {
		if result.RootPath == "" {
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Watch mode
	if err := rt.StartWatcher(ctx, entry); err != nil {
		slog.Error("failed to start watcher", "error", err)
		os.Exit(1)
	}

	if *ui {
		if err := rt.RunUI(result); err != nil {
			slog.Error("failed to run UI", "error", err)
			os.Exit(1)
		}
	} else {
		// Block forever
		select {}
	}
}

func resolveLogPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "texgraph", "texgraph.log")
	}

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".local", "state", "texgraph", "texgraph.log")
	}

	return "texgraph.log"
}
