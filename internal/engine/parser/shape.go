package parser

import (
	"texgraph/internal/engine/ast"
	"texgraph/internal/engine/signature"
)

// AttachArguments shapes every command node whose name appears in the table,
// moving following sibling groups and options into the node's Args slot,
// aligned to the signature. Unknown names are left untouched, already shaped
// nodes are skipped, so re-running with the same table is a no-op.
func (e *Engine) AttachArguments(root *ast.Node, commands map[string]signature.Signature) error {
	shapeContainer(root, commands)
	return nil
}

func shapeContainer(n *ast.Node, table map[string]signature.Signature) {
	for i := 0; i < len(n.Children); i++ {
		c := n.Children[i]
		if c.Kind != ast.KindCommand || c.Shaped() {
			continue
		}
		if sig, ok := table[c.Name]; ok {
			attachArgs(n, i, c, sig)
		}
	}
	for _, c := range n.Children {
		shapeDescend(c, table)
	}
}

func shapeDescend(c *ast.Node, table map[string]signature.Signature) {
	for _, a := range c.Args {
		if a != nil {
			shapeDescend(a, table)
		}
	}
	if len(c.Children) > 0 {
		shapeContainer(c, table)
	}
}

// attachArgs consumes the command's arguments from its following siblings.
// Star parameters consume nothing (the star is lexed onto the command node);
// optional parameters consume a bracket option when one is next, mandatory
// parameters consume the next brace group or bare command token. A missing
// mandatory argument stops consumption, leaving the remaining slots nil.
func attachArgs(parent *ast.Node, idx int, cmd *ast.Node, sig signature.Signature) {
	args := make([]*ast.Node, sig.Len())
	for k := 0; k < sig.Len(); k++ {
		switch sig.At(k).Kind {
		case signature.Star:
			// Recorded on cmd.Star during lexing.
		case signature.Optional, signature.OptionalDefault:
			j, ok := nextSibling(parent.Children, idx+1)
			if ok && parent.Children[j].Kind == ast.KindOption {
				args[k] = takeChild(parent, j)
			}
		case signature.Mandatory:
			j, ok := nextSibling(parent.Children, idx+1)
			if !ok {
				cmd.Args = args
				return
			}
			switch parent.Children[j].Kind {
			case ast.KindGroup, ast.KindCommand:
				args[k] = takeChild(parent, j)
			default:
				cmd.Args = args
				return
			}
		}
	}
	cmd.Args = args
}

// nextSibling finds the first non-whitespace sibling at or after from.
func nextSibling(children []*ast.Node, from int) (int, bool) {
	for j := from; j < len(children); j++ {
		if children[j].IsWhitespace() {
			continue
		}
		return j, true
	}
	return 0, false
}

func takeChild(parent *ast.Node, j int) *ast.Node {
	c := parent.Children[j]
	parent.Children = append(parent.Children[:j], parent.Children[j+1:]...)
	return c
}
