package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"texgraph/internal/core/app"
	"texgraph/internal/core/config"
	"texgraph/internal/core/ports"
	"texgraph/internal/core/watcher"
	"texgraph/internal/data/history"
	"texgraph/internal/engine/parser"
	"texgraph/internal/engine/store"
	"texgraph/internal/shared/util"
)

// Runtime wires the resolver service to the watcher, history store and TUI.
type Runtime struct {
	Config     *config.Config
	Service    *app.Service
	history    *history.Store
	watcher    *watcher.Watcher
	teaProgram *tea.Program
	limiter    *util.Limiter
	entry      string
}

func NewRuntime(cfg *config.Config) (*Runtime, error) {
	var hist *history.Store
	if cfg.History.Enabled {
		var err error
		hist, err = history.Open(cfg.History.Path)
		if err != nil {
			return nil, fmt.Errorf("open history store: %w", err)
		}
	}

	resolver := app.New(cfg, parser.New())
	var histPort ports.HistoryStore
	if hist != nil {
		histPort = hist
	}

	return &Runtime{
		Config:  cfg,
		Service: app.NewService(resolver, histPort),
		history: hist,
		limiter: util.NewLimiter(cfg.Watch.Rate, cfg.Watch.Burst),
	}, nil
}

func (rt *Runtime) ResolveOnce(ctx context.Context, entry string) (ports.ProjectResult, error) {
	rt.entry = entry
	return rt.Service.Resolve(ctx, entry)
}

// StartWatcher re-resolves the whole project when sources change. Re-resolving
// from scratch keeps declaration visibility ordering correct; the limiter
// guards against editor save storms beyond what debouncing catches.
func (rt *Runtime) StartWatcher(ctx context.Context, entry string) error {
	w, err := watcher.New(
		rt.Config.Watch.Debounce,
		rt.Config.Extensions,
		rt.Config.Exclude.Dirs,
		rt.Config.Exclude.Files,
		func(paths []string) {
			if !rt.limiter.Allow(1) {
				slog.Debug("re-resolve skipped by rate limiter", "changes", len(paths))
				return
			}
			slog.Info("detected changes", "count", len(paths))
			result, err := rt.Service.Resolve(ctx, entry)
			if err != nil {
				slog.Warn("re-resolve failed", "error", err)
				return
			}
			if rt.teaProgram != nil {
				rt.teaProgram.Send(updateMsg{result: result})
			} else {
				rt.PrintSummary(result)
			}
		},
	)
	if err != nil {
		return err
	}

	watchRoot := entry
	if fi, err := os.Stat(entry); err == nil && !fi.IsDir() {
		watchRoot = filepath.Dir(entry)
	}
	if err := w.Watch([]string{watchRoot}); err != nil {
		_ = w.Close()
		return err
	}

	rt.watcher = w
	return nil
}

func (rt *Runtime) RunUI(initial ports.ProjectResult) error {
	p := tea.NewProgram(initialModel(), tea.WithAltScreen())
	rt.teaProgram = p
	go p.Send(updateMsg{result: initial})
	_, err := p.Run()
	return err
}

func (rt *Runtime) PrintSummary(result ports.ProjectResult) {
	fmt.Printf("Root: %s\n", orDash(result.RootPath))
	fmt.Printf("Files: %d (%d failed)\n", len(result.Files), result.FileErrorCount())
	fmt.Printf("Commands: %d document-defined, %d inferred, %d user-provided, %d default\n",
		len(result.CommandCategories[store.CategoryDocument]),
		len(result.CommandCategories[store.CategoryInferred]),
		len(result.CommandCategories[store.CategoryUser]),
		len(result.CommandCategories[store.CategoryDefault]))
	fmt.Printf("Environments: %d document-defined, %d user-provided, %d built-in\n",
		len(result.EnvironmentCategories[store.EnvDocument]),
		len(result.EnvironmentCategories[store.EnvUser]),
		len(result.EnvironmentCategories[store.EnvBuiltin]))
	for _, e := range result.GlobalErrors {
		fmt.Printf("error: %s\n", e)
	}
	for _, f := range result.Files {
		if f.Err != nil {
			fmt.Printf("file error: %s: %v\n", f.Path, f.Err)
		}
	}
}

func (rt *Runtime) Close() {
	if rt.watcher != nil {
		_ = rt.watcher.Close()
	}
	if rt.history != nil {
		_ = rt.history.Close()
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
