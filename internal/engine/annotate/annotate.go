// Package annotate orchestrates one file's full resolution. Command argument
// shape and environment declarations are mutually dependent: a declaring
// command's own arguments must be shaped before its declaration can be read,
// and a declaration read from a file applies to the rest of that same file.
// The pipeline is a fixed three-pass sequence rather than a fixed-point loop.
package annotate

import (
	"context"
	"log/slog"
	"time"

	"texgraph/internal/core/errors"
	"texgraph/internal/core/ports"
	"texgraph/internal/engine/ast"
	"texgraph/internal/engine/extract"
	"texgraph/internal/engine/parser"
	"texgraph/internal/engine/signature"
	"texgraph/internal/engine/store"
	"texgraph/internal/shared/observability"
)

// Annotator runs the per-file pipeline against a shared definition store.
type Annotator struct {
	engine ports.Engine
	store  *store.Store
}

// Result is one file's annotated outcome.
type Result struct {
	Tree     *ast.Node
	Includes []extract.IncludeRef
	Warnings []string
}

func New(engine ports.Engine, st *store.Store) *Annotator {
	return &Annotator{engine: engine, store: st}
}

// AnnotateFile resolves one file. Only a raw-parse failure is returned as an
// error; shaping and environment failures are caught, logged and counted,
// because a partially shaped tree is strictly better than none.
func (a *Annotator) AnnotateFile(ctx context.Context, path string, content []byte) (Result, error) {
	_, span := observability.Tracer.Start(ctx, "annotator.AnnotateFile")
	defer span.End()

	var warnings []string

	// Step 1: raw tree, no argument shaping yet.
	start := time.Now()
	tree, err := a.engine.Parse(path, content)
	observability.ParseDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return Result{}, errors.Wrap(err, errors.CodeParseError, "raw parse failed")
	}

	// Step 2: explicit command declarations are positional, so the raw tree
	// suffices; registering them first makes declarers shapeable below.
	cmds, warns := extract.Commands(tree)
	warnings = appendWarnings(path, warnings, warns)
	a.store.AddDocumentDefined(cmds)

	// Step 3: pass 1 makes declaring commands' own arguments addressable.
	a.shape(path, tree, "pass1")

	// Step 4: environment declarations need the shaped declarers.
	envs, warns := extract.Environments(tree)
	warnings = appendWarnings(path, warnings, warns)
	a.store.AddDocumentDefinedEnvironments(envs)

	// Step 5: pass 2 picks up commands newly relevant after step 4.
	a.shape(path, tree, "pass2")

	// Step 6: best-effort block-structure shaping.
	stepStart := time.Now()
	if err := a.engine.ProcessEnvironments(tree, environmentSignatures(a.store.MergedEnvironments())); err != nil {
		observability.ShapingFailuresTotal.Inc()
		slog.Warn("environment shaping failed, continuing with partial tree", "path", path, "error", err)
	}
	observability.AnnotatePassDuration.WithLabelValues("environments").Observe(time.Since(stepStart).Seconds())

	// Step 7: infer arities for whatever is still unknown.
	merged := a.store.MergedCommands()
	names := make([]string, 0, len(merged))
	for name := range merged {
		names = append(names, name)
	}
	known := parser.NewMatcher(names)
	inferred := extract.InferredArities(tree, known.Matches)
	a.store.AddInferred(inferred)
	if len(inferred) > 0 {
		slog.Debug("inferred undeclared commands", "path", path, "count", len(inferred))
	}

	// Step 8: final pass so inferred commands' arguments are shaped too.
	a.shape(path, tree, "pass3")

	// Step 9: include references from the final tree.
	includes, warns := extract.Includes(tree, path)
	warnings = appendWarnings(path, warnings, warns)

	observability.FilesProcessedTotal.Inc()
	return Result{Tree: tree, Includes: includes, Warnings: warnings}, nil
}

func (a *Annotator) shape(path string, tree *ast.Node, step string) {
	start := time.Now()
	table := commandSignatures(a.store.MergedCommands())
	if err := a.engine.AttachArguments(tree, table); err != nil {
		observability.ShapingFailuresTotal.Inc()
		slog.Warn("argument shaping failed, continuing with partial tree", "path", path, "step", step, "error", err)
	}
	observability.AnnotatePassDuration.WithLabelValues(step).Observe(time.Since(start).Seconds())
}

func appendWarnings(path string, warnings, warns []string) []string {
	for _, w := range warns {
		slog.Warn(w, "path", path)
		warnings = append(warnings, path+": "+w)
	}
	return warnings
}

func commandSignatures(cmds map[string]store.Command) map[string]signature.Signature {
	table := make(map[string]signature.Signature, len(cmds))
	for name, c := range cmds {
		table[name] = c.Signature
	}
	return table
}

func environmentSignatures(envs map[string]store.Environment) map[string]signature.Signature {
	table := make(map[string]signature.Signature, len(envs))
	for name, e := range envs {
		table[name] = e.Signature
	}
	return table
}
