package parser

import (
	"fmt"
	"unicode"

	"texgraph/internal/engine/ast"
)

// Engine implements the parsing-engine collaborators the resolver core
// consumes: raw parsing, argument shaping and environment shaping. It carries
// no state between calls.
type Engine struct{}

func New() *Engine {
	return &Engine{}
}

type scanner struct {
	path string
	src  []rune
	pos  int
	line int
	col  int
}

func newScanner(path string, content []byte) *scanner {
	return &scanner{path: path, src: []rune(string(content)), line: 1, col: 1}
}

func (s *scanner) eof() bool {
	return s.pos >= len(s.src)
}

func (s *scanner) peek() rune {
	return s.src[s.pos]
}

func (s *scanner) next() rune {
	r := s.src[s.pos]
	s.pos++
	if r == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return r
}

func (s *scanner) position() ast.Position {
	return ast.Position{Line: s.line, Column: s.col, Offset: s.pos}
}

type scannerState struct {
	pos  int
	line int
	col  int
}

func (s *scanner) save() scannerState {
	return scannerState{pos: s.pos, line: s.line, col: s.col}
}

func (s *scanner) restore(st scannerState) {
	s.pos = st.pos
	s.line = st.line
	s.col = st.col
}

// Parse turns raw content into an unshaped syntax tree. Command nodes carry
// their name and star flag but no arguments; brace groups and bracket options
// become container nodes. A bracket that never closes at its own nesting level
// falls back to literal text. Comments are stripped up to and including the
// line break.
func (e *Engine) Parse(path string, content []byte) (*ast.Node, error) {
	s := newScanner(path, content)
	children, _, err := parseSequence(s, 0)
	if err != nil {
		return nil, err
	}
	return &ast.Node{Kind: ast.KindDocument, Children: children}, nil
}

// parseSequence scans until EOF or the stop rune at this nesting level. It
// reports whether the stop rune was consumed.
func parseSequence(s *scanner, stop rune) ([]*ast.Node, bool, error) {
	var nodes []*ast.Node
	for !s.eof() {
		pos := s.position()
		r := s.peek()

		if stop != 0 && r == stop {
			s.next()
			return nodes, true, nil
		}

		switch r {
		case '}':
			return nil, false, fmt.Errorf("%s:%d:%d: unexpected }", s.path, pos.Line, pos.Column)

		case '%':
			s.next()
			for !s.eof() {
				if s.next() == '\n' {
					break
				}
			}

		case '\\':
			s.next()
			nodes = append(nodes, scanCommand(s, pos))

		case '{':
			s.next()
			children, terminated, err := parseSequence(s, '}')
			if err != nil {
				return nil, false, err
			}
			if !terminated {
				return nil, false, fmt.Errorf("%s:%d:%d: unclosed group", s.path, pos.Line, pos.Column)
			}
			nodes = append(nodes, &ast.Node{Kind: ast.KindGroup, Children: children, Pos: pos})

		case '[':
			st := s.save()
			s.next()
			children, terminated, err := parseSequence(s, ']')
			if err == nil && terminated {
				nodes = append(nodes, &ast.Node{Kind: ast.KindOption, Children: children, Pos: pos})
				break
			}
			// No matching close bracket at this level: the bracket is text.
			s.restore(st)
			s.next()
			nodes = append(nodes, &ast.Node{Kind: ast.KindText, Text: "[", Pos: pos})

		default:
			nodes = append(nodes, scanText(s, stop, pos))
		}
	}
	return nodes, false, nil
}

func scanCommand(s *scanner, pos ast.Position) *ast.Node {
	if s.eof() {
		return &ast.Node{Kind: ast.KindText, Text: "\\", Pos: pos}
	}
	r := s.peek()
	if !unicode.IsLetter(r) {
		// Control symbol such as \%, \\ or \{.
		s.next()
		return &ast.Node{Kind: ast.KindCommand, Name: string(r), Pos: pos}
	}
	var name []rune
	for !s.eof() && unicode.IsLetter(s.peek()) {
		name = append(name, s.next())
	}
	star := false
	if !s.eof() && s.peek() == '*' {
		s.next()
		star = true
	}
	return &ast.Node{Kind: ast.KindCommand, Name: string(name), Star: star, Pos: pos}
}

func scanText(s *scanner, stop rune, pos ast.Position) *ast.Node {
	var text []rune
	for !s.eof() {
		r := s.peek()
		if r == '\\' || r == '{' || r == '}' || r == '[' || r == '%' {
			break
		}
		if stop == ']' && r == ']' {
			break
		}
		text = append(text, s.next())
	}
	return &ast.Node{Kind: ast.KindText, Text: string(text), Pos: pos}
}
