package app

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"texgraph/internal/core/ports"
	"texgraph/internal/data/history"
	"texgraph/internal/engine/store"
	"texgraph/internal/shared/observability"
	"texgraph/internal/ui/report"
)

// Service wraps a resolve run with the side concerns the CLI wants on every
// run: tracing, run history and report output.
type Service struct {
	app     *App
	history ports.HistoryStore
}

func NewService(app *App, hist ports.HistoryStore) *Service {
	return &Service{app: app, history: hist}
}

func (s *Service) Resolve(ctx context.Context, entry string) (ports.ProjectResult, error) {
	ctx, span := observability.Tracer.Start(ctx, "service.Resolve",
		trace.WithAttributes(attribute.String("entry", entry)))
	defer span.End()

	start := time.Now()
	result, err := s.app.Resolve(ctx, entry)
	observability.ResolveDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return result, err
	}

	span.SetAttributes(
		attribute.Int("files", len(result.Files)),
		attribute.Int("global_errors", len(result.GlobalErrors)),
	)

	s.saveSnapshot(result)
	s.writeOutputs(result)
	return result, nil
}

func (s *Service) saveSnapshot(result ports.ProjectResult) {
	if s.history == nil || !s.app.Config.History.Enabled {
		return
	}
	snap := history.Snapshot{
		RootPath:             result.RootPath,
		FileCount:            len(result.Files),
		FileErrorCount:       result.FileErrorCount(),
		GlobalErrorCount:     len(result.GlobalErrors),
		DefaultCommands:      len(result.CommandCategories[store.CategoryDefault]),
		UserCommands:         len(result.CommandCategories[store.CategoryUser]),
		DocumentCommands:     len(result.CommandCategories[store.CategoryDocument]),
		InferredCommands:     len(result.CommandCategories[store.CategoryInferred]),
		BuiltinEnvironments:  len(result.EnvironmentCategories[store.EnvBuiltin]),
		UserEnvironments:     len(result.EnvironmentCategories[store.EnvUser]),
		DocumentEnvironments: len(result.EnvironmentCategories[store.EnvDocument]),
	}
	if err := s.history.SaveSnapshot(s.app.Config.History.ProjectKey, snap); err != nil {
		slog.Warn("failed to save history snapshot", "error", err)
	}
}

func (s *Service) writeOutputs(result ports.ProjectResult) {
	if path := s.app.Config.Output.Markdown; path != "" {
		if err := report.WriteMarkdown(path, result); err != nil {
			slog.Warn("failed to write markdown report", "path", path, "error", err)
		}
	}
	if path := s.app.Config.Output.TSV; path != "" {
		if err := report.WriteTSV(path, result); err != nil {
			slog.Warn("failed to write TSV report", "path", path, "error", err)
		}
	}
}
