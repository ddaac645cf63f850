// Package app owns a project run: root determination, breadth-first traversal
// of the include graph, and result aggregation. The definition store, the
// visited set and the file-node table are owned exclusively by one run, so
// processing order is the only correctness mechanism: an earlier file's
// document-defined declarations are visible to every later file.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"texgraph/internal/core/config"
	"texgraph/internal/core/errors"
	"texgraph/internal/core/ports"
	"texgraph/internal/engine/annotate"
	"texgraph/internal/engine/store"
	"texgraph/internal/shared/observability"
)

type App struct {
	Config *config.Config
	Engine ports.Engine
}

var _ ports.ProjectResolver = (*App)(nil)

func New(cfg *config.Config, engine ports.Engine) *App {
	return &App{Config: cfg, Engine: engine}
}

// Resolve runs one full project resolution from the entry path. Domain
// failures land in the result's per-file and global error lists; the returned
// error is non-nil only for context cancellation. The result is always
// best-effort, never withheld because of a single bad file.
func (a *App) Resolve(ctx context.Context, entry string) (ports.ProjectResult, error) {
	result := ports.ProjectResult{}

	st := store.New()
	if a.Config.ShouldLoadDefaults() {
		st.AddDefaults(store.DefaultCommands())
		st.AddBuiltinEnvironments(store.BuiltinEnvironments())
	}
	if cmds, err := a.Config.UserCommands(); err != nil {
		result.GlobalErrors = append(result.GlobalErrors, err.Error())
	} else {
		st.AddUserCommands(cmds)
	}
	if envs, err := a.Config.UserEnvironments(); err != nil {
		result.GlobalErrors = append(result.GlobalErrors, err.Error())
	} else {
		st.AddUserEnvironments(envs)
	}

	root, err := a.determineRoot(entry)
	if err != nil {
		result.GlobalErrors = append(result.GlobalErrors, err.Error())
		aggregate(&result, st)
		return result, nil
	}
	rootPath := canonicalPath(root)
	result.RootPath = rootPath

	annotator := annotate.New(a.Engine, st)
	queue := []string{rootPath}
	visited := map[string]bool{rootPath: true}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		path := queue[0]
		queue = queue[1:]
		observability.TraversalQueueDepth.Set(float64(len(queue)))

		content, err := os.ReadFile(path)
		if err != nil {
			observability.FileErrorsTotal.Inc()
			result.Files = append(result.Files, ports.FileNode{
				Path: path,
				Err:  errors.Wrap(err, errors.CodeNotFound, "read file"),
			})
			continue
		}

		res, err := annotator.AnnotateFile(ctx, path, content)
		if err != nil {
			observability.FileErrorsTotal.Inc()
			slog.Warn("file aborted", "path", path, "error", err)
			result.Files = append(result.Files, ports.FileNode{Path: path, Err: err})
			continue
		}
		result.Files = append(result.Files, ports.FileNode{Path: path, Tree: res.Tree})
		result.Warnings = append(result.Warnings, res.Warnings...)

		for _, ref := range res.Includes {
			target := canonicalPath(ref.TargetPath)
			if visited[target] {
				continue
			}
			// Marking missing targets visited prevents repeated failed lookups.
			visited[target] = true
			if fi, err := os.Stat(target); err != nil || fi.IsDir() {
				result.GlobalErrors = append(result.GlobalErrors,
					fmt.Sprintf("%s: \\%s{%s}: referenced file %s does not exist", path, ref.DeclaringCommand, ref.RawPath, target))
				continue
			}
			queue = append(queue, target)
		}
	}
	observability.TraversalQueueDepth.Set(0)

	aggregate(&result, st)
	return result, nil
}

func aggregate(result *ports.ProjectResult, st *store.Store) {
	result.Commands = st.MergedCommands()
	result.Environments = st.MergedEnvironments()
	result.CommandCategories = map[store.CommandCategory][]store.Command{}
	result.EnvironmentCategories = map[store.EnvironmentCategory][]store.Environment{}
	for _, cat := range []store.CommandCategory{store.CategoryDefault, store.CategoryUser, store.CategoryDocument, store.CategoryInferred} {
		result.CommandCategories[cat] = st.CommandsByCategory(cat)
		observability.DefinitionsTotal.WithLabelValues("command", cat.String()).Set(float64(st.CommandCount(cat)))
	}
	for _, cat := range []store.EnvironmentCategory{store.EnvBuiltin, store.EnvUser, store.EnvDocument} {
		result.EnvironmentCategories[cat] = st.EnvironmentsByCategory(cat)
		observability.DefinitionsTotal.WithLabelValues("environment", cat.String()).Set(float64(st.EnvironmentCount(cat)))
	}
}

func canonicalPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}
