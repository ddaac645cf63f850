package ports

import (
	"context"
	"time"

	"texgraph/internal/data/history"
	"texgraph/internal/engine/ast"
	"texgraph/internal/engine/signature"
	"texgraph/internal/engine/store"
)

// Engine abstracts the parsing-engine collaborators the resolver core
// consumes but does not reimplement.
type Engine interface {
	// Parse produces an unshaped syntax tree or fails; a failure aborts the
	// file but never the project run.
	Parse(path string, content []byte) (*ast.Node, error)
	// AttachArguments shapes command nodes in place. It must tolerate unknown
	// command names and be idempotent for a fixed table.
	AttachArguments(tree *ast.Node, commands map[string]signature.Signature) error
	// ProcessEnvironments shapes block structures in place. It may fail on
	// malformed content; callers treat any failure as non-fatal.
	ProcessEnvironments(tree *ast.Node, environments map[string]signature.Signature) error
}

// FileNode is one project file's final state. Tree is nil iff the file could
// not be read or produced no tree.
type FileNode struct {
	Path string
	Tree *ast.Node
	Err  error
}

// ProjectResult is the aggregate outcome of one resolve run: best-effort,
// never withheld because of individual file failures.
type ProjectResult struct {
	RootPath              string
	Files                 []FileNode
	GlobalErrors          []string
	Warnings              []string
	Commands              map[string]store.Command
	Environments          map[string]store.Environment
	CommandCategories     map[store.CommandCategory][]store.Command
	EnvironmentCategories map[store.EnvironmentCategory][]store.Environment
}

// FileErrorCount counts files whose processing failed.
func (r ProjectResult) FileErrorCount() int {
	n := 0
	for _, f := range r.Files {
		if f.Err != nil {
			n++
		}
	}
	return n
}

// ProjectResolver is the core's single entry operation.
type ProjectResolver interface {
	Resolve(ctx context.Context, entry string) (ProjectResult, error)
}

// HistoryStore abstracts snapshot persistence for trend workflows.
type HistoryStore interface {
	SaveSnapshot(projectKey string, snapshot history.Snapshot) error
	LoadSnapshots(projectKey string, since time.Time) ([]history.Snapshot, error)
}
