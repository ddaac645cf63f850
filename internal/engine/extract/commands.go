// Package extract converts syntax trees into declaration records: explicit
// command and environment declarations, usage-inferred command arities and
// include references.
package extract

import (
	"fmt"
	"strconv"
	"strings"

	"texgraph/internal/engine/ast"
	"texgraph/internal/engine/signature"
	"texgraph/internal/engine/store"
)

// commandDeclarers is the family of commands whose purpose is to declare a
// new command.
var commandDeclarers = map[string]struct{}{
	"newcommand":           {},
	"renewcommand":         {},
	"providecommand":       {},
	"DeclareRobustCommand": {},
}

// Commands extracts explicit command declarations. It works on the raw tree:
// the declaration layout is positional among the declarer's following
// siblings, so no argument shaping is required. Occurrences with a missing or
// unreadable name are skipped with a warning.
func Commands(tree *ast.Node) ([]store.Command, []string) {
	var cmds []store.Command
	var warnings []string

	walkContainers(tree, func(parent *ast.Node) {
		for i, c := range parent.Children {
			if c.Kind != ast.KindCommand {
				continue
			}
			if _, ok := commandDeclarers[c.Name]; !ok {
				continue
			}
			nameNode, nargsNode, defNode := declarationParts(parent.Children, i, c)
			name := declaredName(nameNode)
			if name == "" {
				warnings = append(warnings, fmt.Sprintf("%d:%d: \\%s without a command name, skipped", c.Pos.Line, c.Pos.Column, c.Name))
				continue
			}

			nargs := 0
			if nargsNode != nil {
				parsed, err := strconv.Atoi(strings.TrimSpace(nargsNode.LiteralText()))
				if err != nil || parsed < 0 || parsed > 9 {
					warnings = append(warnings, fmt.Sprintf("%d:%d: \\%s{\\%s}: bad argument count %q, assuming 0", c.Pos.Line, c.Pos.Column, c.Name, name, nargsNode.LiteralText()))
				} else {
					nargs = parsed
				}
			}

			var sig signature.Signature
			if defNode != nil {
				sig = signature.WithDefault(defNode.LiteralText(), nargs)
			} else {
				sig = signature.Mandatories(nargs)
			}
			cmds = append(cmds, store.Command{Name: name, Signature: sig, Category: store.CategoryDocument})
		}
	})

	return cmds, warnings
}

// declarationParts locates the name, argument-count and default-value nodes
// of a declarer occurrence, reading attached arguments when the node is
// already shaped and sibling positions otherwise.
func declarationParts(children []*ast.Node, i int, c *ast.Node) (name, nargs, def *ast.Node) {
	if c.Shaped() {
		// Signature "s m o o m": name, arg count, default, body.
		if len(c.Args) == 5 {
			return c.Args[1], c.Args[2], c.Args[3]
		}
		return nil, nil, nil
	}

	j := i + 1
	advance := func() *ast.Node {
		for ; j < len(children); j++ {
			if !children[j].IsWhitespace() {
				n := children[j]
				j++
				return n
			}
		}
		return nil
	}

	first := advance()
	if first == nil {
		return nil, nil, nil
	}
	switch first.Kind {
	case ast.KindGroup, ast.KindCommand:
		name = first
	default:
		return nil, nil, nil
	}

	for _, slot := range []**ast.Node{&nargs, &def} {
		save := j
		n := advance()
		if n == nil || n.Kind != ast.KindOption {
			j = save
			break
		}
		*slot = n
	}
	return name, nargs, def
}

// declaredName reads the new command's name from its declaration argument,
// which is either a brace group wrapping the command token or a bare command.
func declaredName(n *ast.Node) string {
	if n == nil {
		return ""
	}
	if n.Kind == ast.KindCommand {
		return n.Name
	}
	if n.Kind != ast.KindGroup {
		return ""
	}
	for _, c := range n.Children {
		if c.IsWhitespace() {
			continue
		}
		if c.Kind == ast.KindCommand {
			return c.Name
		}
		if c.Kind == ast.KindText {
			return strings.TrimPrefix(strings.TrimSpace(c.Text), "\\")
		}
	}
	return ""
}

// walkContainers calls fn for every node that owns a child list, in document
// order, descending into attached arguments as well.
func walkContainers(n *ast.Node, fn func(parent *ast.Node)) {
	if n == nil {
		return
	}
	if len(n.Children) > 0 {
		fn(n)
	}
	for _, a := range n.Args {
		if a != nil {
			walkContainers(a, fn)
		}
	}
	for _, c := range n.Children {
		walkContainers(c, fn)
	}
}
