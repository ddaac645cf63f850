package report

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"texgraph/internal/core/ports"
	"texgraph/internal/engine/signature"
	"texgraph/internal/engine/store"
)

func sampleResult() ports.ProjectResult {
	return ports.ProjectResult{
		RootPath: "/proj/main.tex",
		Files: []ports.FileNode{
			{Path: "/proj/main.tex"},
			{Path: "/proj/broken.tex", Err: errors.New("raw parse failed")},
		},
		GlobalErrors: []string{"referenced file /proj/missing.tex does not exist"},
		Warnings:     []string{"/proj/main.tex: 3:1: environment \"dup\" redeclared, keeping the later declaration"},
		Commands: map[string]store.Command{
			"pair": {Name: "pair", Signature: signature.Mandatories(2), Category: store.CategoryDocument},
		},
		Environments: map[string]store.Environment{},
		CommandCategories: map[store.CommandCategory][]store.Command{
			store.CategoryDocument: {{Name: "pair", Signature: signature.Mandatories(2), Category: store.CategoryDocument}},
			store.CategoryInferred: {{Name: "mystery", Signature: signature.Mandatories(1), Category: store.CategoryInferred}},
		},
		EnvironmentCategories: map[store.EnvironmentCategory][]store.Environment{
			store.EnvDocument: {{Name: "thm", Signature: signature.New(signature.Param{Kind: signature.Optional}), DeclaringCommand: "newtheorem", Category: store.EnvDocument}},
		},
	}
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sampleResult())

	for _, want := range []string{
		"**Root:** `/proj/main.tex`",
		"| `/proj/broken.tex` | raw parse failed |",
		"| `\\pair` | `m m` |",
		"| `\\mystery` | `m` |",
		"| `thm` | `o` | `\\newtheorem` |",
		"## Project errors",
		"missing.tex",
		"## Warnings",
		"redeclared",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestMarkdownNoRoot(t *testing.T) {
	md := Markdown(ports.ProjectResult{GlobalErrors: []string{"no root file found"}})
	if !strings.Contains(md, "**Root:** not found") {
		t.Errorf("missing root-not-found marker:\n%s", md)
	}
}

func TestTSV(t *testing.T) {
	tsv := TSV(sampleResult())
	lines := strings.Split(strings.TrimSpace(tsv), "\n")
	if lines[0] != "kind\tname\tsignature\tcategory" {
		t.Errorf("wrong header: %q", lines[0])
	}
	if !strings.Contains(tsv, "command\tpair\tm m\tdocument-defined\n") {
		t.Errorf("missing command row:\n%s", tsv)
	}
	if !strings.Contains(tsv, "environment\tthm\to\tdocument-defined\n") {
		t.Errorf("missing environment row:\n%s", tsv)
	}
}

func TestWriteReports(t *testing.T) {
	dir := t.TempDir()
	mdPath := filepath.Join(dir, "out", "report.md")
	if err := WriteMarkdown(mdPath, sampleResult()); err != nil {
		t.Fatalf("write markdown: %v", err)
	}
	data, err := os.ReadFile(mdPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "# Project resolution report") {
		t.Error("written markdown is incomplete")
	}

	tsvPath := filepath.Join(dir, "report.tsv")
	if err := WriteTSV(tsvPath, sampleResult()); err != nil {
		t.Fatalf("write tsv: %v", err)
	}
}
