package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"texgraph/internal/core/config"
	"texgraph/internal/engine/parser"
	"texgraph/internal/engine/store"
)

func newTestApp() *App {
	return New(config.Default(), parser.New())
}

func projectDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	// Symlinked temp roots would break path comparisons against canonical
	// traversal output.
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		dir = resolved
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestResolveTraversal(t *testing.T) {
	dir := projectDir(t, map[string]string{
		"main.tex": "\\documentclass{article}\n\\input{a}\n\\input{b}\n",
		"a.tex":    "\\input{b}\n\\input{missing}\n",
		"b.tex":    "\\input{main}\n",
	})

	result, err := newTestApp().Resolve(context.Background(), dir)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	if result.RootPath != filepath.Join(dir, "main.tex") {
		t.Errorf("wrong root: %q", result.RootPath)
	}

	var order []string
	for _, f := range result.Files {
		if f.Err != nil {
			t.Errorf("unexpected file error for %s: %v", f.Path, f.Err)
		}
		order = append(order, filepath.Base(f.Path))
	}
	want := []string{"main.tex", "a.tex", "b.tex"}
	if len(order) != len(want) {
		t.Fatalf("each file must be visited exactly once, got %v", order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("breadth-first order mismatch: got %v, want %v", order, want)
			break
		}
	}

	if len(result.GlobalErrors) != 1 || !strings.Contains(result.GlobalErrors[0], "missing.tex") {
		t.Errorf("missing include target must be a global error: %v", result.GlobalErrors)
	}
}

func TestResolveEntryFile(t *testing.T) {
	dir := projectDir(t, map[string]string{
		"standalone.tex": "\\documentclass{article}\njust text\n",
	})

	result, err := newTestApp().Resolve(context.Background(), filepath.Join(dir, "standalone.tex"))
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Files) != 1 || result.RootPath != filepath.Join(dir, "standalone.tex") {
		t.Errorf("explicit entry file must be the root: %+v", result)
	}
}

func TestResolveEntryFileUnrecognizedExtension(t *testing.T) {
	dir := projectDir(t, map[string]string{"notes.md": "# notes"})

	result, err := newTestApp().Resolve(context.Background(), filepath.Join(dir, "notes.md"))
	if err != nil {
		t.Fatal(err)
	}
	if result.RootPath != "" || len(result.GlobalErrors) == 0 {
		t.Errorf("unrecognized entry extension must fail root determination: %+v", result)
	}
}

func TestResolveFileErrorIsNonFatal(t *testing.T) {
	dir := projectDir(t, map[string]string{
		"main.tex":   "\\documentclass{article}\n\\input{broken}\n\\input{fine}\n",
		"broken.tex": "{never closed",
		"fine.tex":   "plain text\n",
	})

	result, err := newTestApp().Resolve(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Files) != 3 {
		t.Fatalf("all referenced files must appear in the result: %v", result.Files)
	}
	if result.FileErrorCount() != 1 {
		t.Errorf("expected exactly one failed file, got %d", result.FileErrorCount())
	}
	for _, f := range result.Files {
		failed := f.Err != nil
		if wantFailed := filepath.Base(f.Path) == "broken.tex"; failed != wantFailed {
			t.Errorf("%s: failed=%v", f.Path, failed)
		}
	}
}

func TestResolveAggregatesDefinitions(t *testing.T) {
	dir := projectDir(t, map[string]string{
		"main.tex": "\\documentclass{article}\n\\newcommand{\\pair}[2]{(#1,#2)}\n\\mystery{x}\n",
	})

	result, err := newTestApp().Resolve(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if c, ok := result.Commands["pair"]; !ok || c.Category != store.CategoryDocument {
		t.Errorf("document-defined command missing from merged view: %+v", c)
	}
	if c, ok := result.Commands["mystery"]; !ok || c.Category != store.CategoryInferred {
		t.Errorf("inferred command missing from merged view: %+v", c)
	}
	if len(result.CommandCategories[store.CategoryDocument]) != 1 {
		t.Errorf("wrong document category view: %v", result.CommandCategories[store.CategoryDocument])
	}
	if len(result.CommandCategories[store.CategoryDefault]) == 0 {
		t.Error("default commands should be loaded")
	}
}

func TestResolveCanceledContext(t *testing.T) {
	dir := projectDir(t, map[string]string{
		"main.tex": "\\documentclass{article}\n",
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := newTestApp().Resolve(ctx, dir); err == nil {
		t.Error("canceled context must surface as an error")
	}
}

func TestDetermineRoot(t *testing.T) {
	t.Run("ConventionalNameWins", func(t *testing.T) {
		dir := projectDir(t, map[string]string{
			"main.tex":  "no indicator here\n",
			"other.tex": "\\documentclass{book}\n",
		})
		result, err := newTestApp().Resolve(context.Background(), dir)
		if err != nil {
			t.Fatal(err)
		}
		if filepath.Base(result.RootPath) != "main.tex" {
			t.Errorf("conventional name must beat content scan: %q", result.RootPath)
		}
	})

	t.Run("ContentScan", func(t *testing.T) {
		dir := projectDir(t, map[string]string{
			"doc.tex":   "\\begin{document}x\\end{document}\n",
			"other.tex": "plain\n",
		})
		result, err := newTestApp().Resolve(context.Background(), dir)
		if err != nil {
			t.Fatal(err)
		}
		if filepath.Base(result.RootPath) != "doc.tex" {
			t.Errorf("indicator scan failed: %q", result.RootPath)
		}
	})

	t.Run("AmbiguityIsDeterministic", func(t *testing.T) {
		dir := projectDir(t, map[string]string{
			"aaa.tex": "\\documentclass{article}\n",
			"bbb.tex": "\\documentclass{article}\n",
		})
		first, err := newTestApp().Resolve(context.Background(), dir)
		if err != nil {
			t.Fatal(err)
		}
		second, err := newTestApp().Resolve(context.Background(), dir)
		if err != nil {
			t.Fatal(err)
		}
		if first.RootPath != second.RootPath || filepath.Base(first.RootPath) != "aaa.tex" {
			t.Errorf("ambiguous roots must resolve deterministically: %q vs %q", first.RootPath, second.RootPath)
		}
	})

	t.Run("NoRoot", func(t *testing.T) {
		dir := projectDir(t, map[string]string{"plain.tex": "nothing special\n"})
		result, err := newTestApp().Resolve(context.Background(), dir)
		if err != nil {
			t.Fatal(err)
		}
		if result.RootPath != "" || len(result.GlobalErrors) == 0 || len(result.Files) != 0 {
			t.Errorf("no root must mean empty traversal plus a global error: %+v", result)
		}
	})

	t.Run("ExcludedDirsSkipped", func(t *testing.T) {
		dir := projectDir(t, map[string]string{
			filepath.Join("build", "gen.tex"): "\\documentclass{article}\n",
		})
		result, err := newTestApp().Resolve(context.Background(), dir)
		if err != nil {
			t.Fatal(err)
		}
		if result.RootPath != "" {
			t.Errorf("indicator files under excluded dirs must be ignored: %q", result.RootPath)
		}
	})
}
