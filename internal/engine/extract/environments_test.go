package extract

import (
	"strings"
	"testing"

	"texgraph/internal/engine/ast"
	"texgraph/internal/engine/parser"
	"texgraph/internal/engine/store"
)

func parseShaped(t *testing.T, content string) *ast.Node {
	t.Helper()
	tree := parseRaw(t, content)
	if err := parser.New().AttachArguments(tree, declarerTable(t)); err != nil {
		t.Fatal(err)
	}
	return tree
}

func envByName(envs []store.Environment, name string) (store.Environment, bool) {
	for _, e := range envs {
		if e.Name == name {
			return e, true
		}
	}
	return store.Environment{}, false
}

func TestEnvironments(t *testing.T) {
	t.Run("NewEnvironment", func(t *testing.T) {
		envs, warnings := Environments(parseShaped(t, `\newenvironment{boxed}[1][blue]{start here}{stop here}`))
		if len(warnings) != 0 {
			t.Errorf("unexpected warnings: %v", warnings)
		}
		e, ok := envByName(envs, "boxed")
		if !ok {
			t.Fatalf("boxed not extracted: %v", envs)
		}
		if e.Signature.String() != "O{blue}" {
			t.Errorf("wrong signature: %q", e.Signature)
		}
		if e.BeginBody != "start here" || e.EndBody != "stop here" {
			t.Errorf("wrong bodies: %q / %q", e.BeginBody, e.EndBody)
		}
		if e.DeclaringCommand != "newenvironment" || e.Category != store.EnvDocument {
			t.Errorf("wrong provenance: %+v", e)
		}
	})

	t.Run("NewTheorem", func(t *testing.T) {
		envs, _ := Environments(parseShaped(t, `\newtheorem{thm}{Theorem}`))
		e, ok := envByName(envs, "thm")
		if !ok {
			t.Fatalf("thm not extracted: %v", envs)
		}
		if e.Title != "Theorem" {
			t.Errorf("wrong title: %q", e.Title)
		}
		if e.Signature.String() != "o" {
			t.Errorf("theorem body takes one optional note, got %q", e.Signature)
		}
	})

	t.Run("NewTheoremWithCounterAndWithin", func(t *testing.T) {
		envs, _ := Environments(parseShaped(t, `\newtheorem{lem}[thm]{Lemma}[section]`))
		e, ok := envByName(envs, "lem")
		if !ok || e.Title != "Lemma" {
			t.Errorf("counter argument must not shift the title: %v", envs)
		}
	})

	t.Run("NewTcolorbox", func(t *testing.T) {
		envs, _ := Environments(parseShaped(t, `\newtcolorbox{warnbox}[1]{colback=red}`))
		e, ok := envByName(envs, "warnbox")
		if !ok {
			t.Fatalf("warnbox not extracted: %v", envs)
		}
		if e.Signature.String() != "m" || e.Options != "colback=red" {
			t.Errorf("wrong spec: sig=%q options=%q", e.Signature, e.Options)
		}
	})

	t.Run("Redeclaration", func(t *testing.T) {
		src := `\newenvironment{dup}{first}{x} \newenvironment{dup}{second}{y}`
		envs, warnings := Environments(parseShaped(t, src))
		if len(envs) != 1 {
			t.Fatalf("expected single entry after redeclaration, got %v", envs)
		}
		if envs[0].BeginBody != "second" {
			t.Errorf("later declaration must win, got %q", envs[0].BeginBody)
		}
		if len(warnings) != 1 || !strings.Contains(warnings[0], "redeclared") {
			t.Errorf("expected redeclaration warning, got %v", warnings)
		}
	})

	t.Run("UnshapedDeclarerSkipped", func(t *testing.T) {
		envs, _ := Environments(parseRaw(t, `\newenvironment{boxed}{a}{b}`))
		if len(envs) != 0 {
			t.Errorf("raw declarers must be skipped: %v", envs)
		}
	})

	t.Run("MissingName", func(t *testing.T) {
		envs, warnings := Environments(parseShaped(t, `\newenvironment{}{a}{b}`))
		if len(envs) != 0 {
			t.Errorf("nothing should be extracted: %v", envs)
		}
		if len(warnings) != 1 || !strings.Contains(warnings[0], "without an environment name") {
			t.Errorf("expected missing-name warning, got %v", warnings)
		}
	})
}
