package ast

import "strings"

// NodeKind discriminates the node variants produced by the raw parser and the
// shaping passes.
type NodeKind int

const (
	KindDocument NodeKind = iota
	KindText
	KindCommand
	KindGroup
	KindOption
	KindEnvironment
)

func (k NodeKind) String() string {
	switch k {
	case KindDocument:
		return "document"
	case KindText:
		return "text"
	case KindCommand:
		return "command"
	case KindGroup:
		return "group"
	case KindOption:
		return "option"
	case KindEnvironment:
		return "environment"
	default:
		return "unknown"
	}
}

// Position is a 1-based source location. The resolver core never branches on
// it, but downstream consumers rely on it being preserved.
type Position struct {
	Line   int
	Column int
	Offset int
}

// Node is a single syntax-tree node.
//
// Children holds the contents of documents, groups, options and environment
// bodies. Args is nil until a shaping pass attaches arguments; once shaped it
// is aligned to the command's signature, one slot per parameter, with nil
// entries for absent optional parameters.
type Node struct {
	Kind     NodeKind
	Name     string // command or environment name
	Text     string // literal content for KindText
	Star     bool   // command carried a trailing *
	Children []*Node
	Args     []*Node
	Pos      Position
}

// Shaped reports whether arguments have been attached to this node. A shaped
// zero-parameter command holds an empty, non-nil Args slice.
func (n *Node) Shaped() bool {
	return n != nil && n.Args != nil
}

// IsWhitespace reports whether the node is a text node containing only
// whitespace. Shaping and arity inference skip such nodes when scanning
// sibling sequences.
func (n *Node) IsWhitespace() bool {
	return n != nil && n.Kind == KindText && strings.TrimSpace(n.Text) == ""
}

// LiteralText concatenates the literal text content of the node's children,
// ignoring any non-text child. Used for argument values that are expected to
// be plain text, such as environment names and include paths.
func (n *Node) LiteralText() string {
	if n == nil {
		return ""
	}
	if n.Kind == KindText {
		return n.Text
	}
	var sb strings.Builder
	for _, c := range n.Children {
		if c.Kind == KindText {
			sb.WriteString(c.Text)
		}
	}
	return sb.String()
}

// HasNonLiteralChildren reports whether the node contains children that
// LiteralText would skip.
func (n *Node) HasNonLiteralChildren() bool {
	if n == nil || n.Kind == KindText {
		return false
	}
	for _, c := range n.Children {
		if c.Kind != KindText {
			return true
		}
	}
	return false
}

// Walk visits n and every reachable descendant in document order, including
// attached arguments. The walk stops early if fn returns false.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, a := range n.Args {
		Walk(a, fn)
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}
