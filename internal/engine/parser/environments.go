package parser

import (
	"fmt"
	"strings"

	"texgraph/internal/engine/ast"
	"texgraph/internal/engine/signature"
)

// ProcessEnvironments pairs begin/end commands into environment nodes and
// attaches environment arguments for names present in the table. Pairing is
// per sibling level; an unbalanced begin or a stray end is an error, which the
// caller treats as non-fatal (the tree keeps whatever was built so far).
func (e *Engine) ProcessEnvironments(root *ast.Node, environments map[string]signature.Signature) error {
	return buildEnvironments(root, environments)
}

func buildEnvironments(n *ast.Node, table map[string]signature.Signature) error {
	if err := pairSiblings(n, table); err != nil {
		return err
	}
	for _, c := range n.Children {
		for _, a := range c.Args {
			if a == nil {
				continue
			}
			if err := buildEnvironments(a, table); err != nil {
				return err
			}
		}
		if len(c.Children) > 0 {
			if err := buildEnvironments(c, table); err != nil {
				return err
			}
		}
	}
	return nil
}

func pairSiblings(n *ast.Node, table map[string]signature.Signature) error {
	for i := 0; i < len(n.Children); i++ {
		c := n.Children[i]
		if c.Kind != ast.KindCommand {
			continue
		}
		switch c.Name {
		case "end":
			name, _ := envNameAt(n.Children, i)
			return fmt.Errorf("%d:%d: \\end{%s} without matching \\begin", c.Pos.Line, c.Pos.Column, name)
		case "begin":
			name, extra := envNameAt(n.Children, i)
			if name == "" {
				return fmt.Errorf("%d:%d: \\begin without environment name", c.Pos.Line, c.Pos.Column)
			}
			bodyStart := i + extra + 1
			endIdx, endExtra, ok := findMatchingEnd(n.Children, bodyStart, name)
			if !ok {
				return fmt.Errorf("%d:%d: unbalanced \\begin{%s}", c.Pos.Line, c.Pos.Column, name)
			}

			body := make([]*ast.Node, endIdx-bodyStart)
			copy(body, n.Children[bodyStart:endIdx])
			env := &ast.Node{Kind: ast.KindEnvironment, Name: name, Children: body, Pos: c.Pos}
			if sig, ok := table[name]; ok {
				attachEnvArgs(env, sig)
			}

			rest := n.Children[endIdx+endExtra+1:]
			n.Children = append(n.Children[:i], append([]*ast.Node{env}, rest...)...)
		}
	}
	return nil
}

// envNameAt reads the environment name of the begin/end command at index i.
// When the command was already shaped, the name is its first argument;
// otherwise it is the next non-whitespace brace group, and extra reports how
// many following siblings the name occupies.
func envNameAt(children []*ast.Node, i int) (string, int) {
	c := children[i]
	if c.Shaped() {
		if len(c.Args) >= 1 && c.Args[0] != nil {
			return strings.TrimSpace(c.Args[0].LiteralText()), 0
		}
		return "", 0
	}
	for j := i + 1; j < len(children); j++ {
		if children[j].IsWhitespace() {
			continue
		}
		if children[j].Kind == ast.KindGroup {
			return strings.TrimSpace(children[j].LiteralText()), j - i
		}
		return "", 0
	}
	return "", 0
}

func findMatchingEnd(children []*ast.Node, from int, name string) (int, int, bool) {
	depth := 1
	for j := from; j < len(children); j++ {
		c := children[j]
		if c.Kind != ast.KindCommand {
			continue
		}
		switch c.Name {
		case "begin":
			nm, extra := envNameAt(children, j)
			if nm == name {
				depth++
			}
			j += extra
		case "end":
			nm, extra := envNameAt(children, j)
			if nm == name {
				depth--
				if depth == 0 {
					return j, extra, true
				}
			}
			j += extra
		}
	}
	return 0, 0, false
}

// attachEnvArgs consumes the environment's arguments from the front of its
// body, aligned to the signature like command shaping.
func attachEnvArgs(env *ast.Node, sig signature.Signature) {
	args := make([]*ast.Node, sig.Len())
	for k := 0; k < sig.Len(); k++ {
		switch sig.At(k).Kind {
		case signature.Star:
			// Environments have no star token; the slot stays nil.
		case signature.Optional, signature.OptionalDefault:
			j, ok := nextSibling(env.Children, 0)
			if ok && env.Children[j].Kind == ast.KindOption {
				args[k] = takeChild(env, j)
			}
		case signature.Mandatory:
			j, ok := nextSibling(env.Children, 0)
			if !ok || env.Children[j].Kind != ast.KindGroup {
				env.Args = args
				return
			}
			args[k] = takeChild(env, j)
		}
	}
	env.Args = args
}
