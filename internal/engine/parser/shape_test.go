package parser

import (
	"testing"

	"texgraph/internal/engine/ast"
	"texgraph/internal/engine/signature"
)

func sigTable(t *testing.T, entries map[string]string) map[string]signature.Signature {
	t.Helper()
	table := make(map[string]signature.Signature, len(entries))
	for name, spec := range entries {
		sig, err := signature.Parse(spec)
		if err != nil {
			t.Fatalf("bad signature %q: %v", spec, err)
		}
		table[name] = sig
	}
	return table
}

func TestAttachArguments(t *testing.T) {
	e := New()

	t.Run("Mandatories", func(t *testing.T) {
		tree := mustParse(t, `\pair{a}{b} rest`)
		if err := e.AttachArguments(tree, sigTable(t, map[string]string{"pair": "m m"})); err != nil {
			t.Fatal(err)
		}
		cmd := tree.Children[0]
		if !cmd.Shaped() || len(cmd.Args) != 2 {
			t.Fatalf("expected 2 args, got %s", render(cmd))
		}
		if cmd.Args[0].LiteralText() != "a" || cmd.Args[1].LiteralText() != "b" {
			t.Errorf("wrong args: %s", render(cmd))
		}
		if len(tree.Children) != 2 || tree.Children[1].Text != " rest" {
			t.Errorf("consumed siblings not removed: %s", render(tree))
		}
	})

	t.Run("OptionalPresent", func(t *testing.T) {
		tree := mustParse(t, `\note[red]{text}`)
		if err := e.AttachArguments(tree, sigTable(t, map[string]string{"note": "o m"})); err != nil {
			t.Fatal(err)
		}
		cmd := tree.Children[0]
		if cmd.Args[0] == nil || cmd.Args[0].Kind != ast.KindOption {
			t.Errorf("optional not consumed: %s", render(cmd))
		}
		if cmd.Args[1] == nil || cmd.Args[1].Kind != ast.KindGroup {
			t.Errorf("mandatory not consumed: %s", render(cmd))
		}
	})

	t.Run("OptionalAbsent", func(t *testing.T) {
		tree := mustParse(t, `\note{text}`)
		if err := e.AttachArguments(tree, sigTable(t, map[string]string{"note": "o m"})); err != nil {
			t.Fatal(err)
		}
		cmd := tree.Children[0]
		if len(cmd.Args) != 2 || cmd.Args[0] != nil {
			t.Errorf("absent optional must leave a nil slot: %s", render(cmd))
		}
		if cmd.Args[1].LiteralText() != "text" {
			t.Errorf("mandatory went to the wrong slot: %s", render(cmd))
		}
	})

	t.Run("DeclarerLayout", func(t *testing.T) {
		tree := mustParse(t, `\newcommand{\pair}[2]{(#1, #2)}`)
		if err := e.AttachArguments(tree, sigTable(t, map[string]string{"newcommand": "s m o o m"})); err != nil {
			t.Fatal(err)
		}
		cmd := tree.Children[0]
		if len(cmd.Args) != 5 {
			t.Fatalf("expected 5 slots, got %s", render(cmd))
		}
		if cmd.Args[0] != nil || cmd.Args[3] != nil {
			t.Errorf("star slot and absent default slot must be nil: %s", render(cmd))
		}
		if cmd.Args[1].Kind != ast.KindGroup || cmd.Args[2].Kind != ast.KindOption || cmd.Args[4].Kind != ast.KindGroup {
			t.Errorf("wrong slot kinds: %s", render(cmd))
		}
	})

	t.Run("MissingMandatoryStops", func(t *testing.T) {
		tree := mustParse(t, `\pair{a} and text`)
		if err := e.AttachArguments(tree, sigTable(t, map[string]string{"pair": "m m"})); err != nil {
			t.Fatal(err)
		}
		cmd := tree.Children[0]
		if !cmd.Shaped() || cmd.Args[0] == nil || cmd.Args[1] != nil {
			t.Errorf("expected partial shape with nil tail: %s", render(cmd))
		}
	})

	t.Run("BareCommandArgument", func(t *testing.T) {
		tree := mustParse(t, `\newcommand\short{x}`)
		if err := e.AttachArguments(tree, sigTable(t, map[string]string{"newcommand": "s m o o m"})); err != nil {
			t.Fatal(err)
		}
		cmd := tree.Children[0]
		if cmd.Args[1] == nil || cmd.Args[1].Kind != ast.KindCommand || cmd.Args[1].Name != "short" {
			t.Errorf("bare command should satisfy a mandatory slot: %s", render(cmd))
		}
	})

	t.Run("UnknownNameUntouched", func(t *testing.T) {
		tree := mustParse(t, `\mystery{a}`)
		if err := e.AttachArguments(tree, sigTable(t, map[string]string{"pair": "m m"})); err != nil {
			t.Fatal(err)
		}
		if tree.Children[0].Shaped() {
			t.Errorf("unknown command must stay unshaped: %s", render(tree))
		}
	})

	t.Run("Idempotent", func(t *testing.T) {
		table := sigTable(t, map[string]string{"pair": "m m", "note": "o m"})
		tree := mustParse(t, `\pair{a}{b} \note{x} done`)
		if err := e.AttachArguments(tree, table); err != nil {
			t.Fatal(err)
		}
		first := render(tree)
		if err := e.AttachArguments(tree, table); err != nil {
			t.Fatal(err)
		}
		if second := render(tree); second != first {
			t.Errorf("re-shaping changed the tree:\n first=%s\nsecond=%s", first, second)
		}
	})

	t.Run("NestedGroups", func(t *testing.T) {
		tree := mustParse(t, `{outer \pair{a}{b}}`)
		if err := e.AttachArguments(tree, sigTable(t, map[string]string{"pair": "m m"})); err != nil {
			t.Fatal(err)
		}
		grp := tree.Children[0]
		var cmd *ast.Node
		for _, c := range grp.Children {
			if c.Kind == ast.KindCommand {
				cmd = c
			}
		}
		if cmd == nil || !cmd.Shaped() || len(cmd.Args) != 2 {
			t.Errorf("nested command not shaped: %s", render(tree))
		}
	})
}
