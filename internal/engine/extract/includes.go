package extract

import (
	"fmt"
	"path/filepath"
	"strings"

	"texgraph/internal/engine/ast"
)

// DefaultExtension is appended to include targets that carry no extension.
const DefaultExtension = ".tex"

// includeCommands is the fixed set of file-inclusion command names.
var includeCommands = map[string]struct{}{
	"input":   {},
	"include": {},
	"subfile": {},
}

// IncludeRef is a resolved reference to another project file. It is not
// persisted beyond the traversal step that consumes it.
type IncludeRef struct {
	TargetPath       string
	DeclaringCommand string
	RawPath          string
}

// Includes extracts include references from a processed tree. The path is the
// literal-text concatenation of the first mandatory argument's children;
// non-literal children are skipped with a warning, a known precision loss.
// Relative targets resolve against the including file's directory.
func Includes(tree *ast.Node, filePath string) ([]IncludeRef, []string) {
	var refs []IncludeRef
	var warnings []string
	dir := filepath.Dir(filePath)

	walkContainers(tree, func(parent *ast.Node) {
		for i, c := range parent.Children {
			if c.Kind != ast.KindCommand {
				continue
			}
			if _, ok := includeCommands[c.Name]; !ok {
				continue
			}
			pathNode := includePathNode(parent.Children, i, c)
			if pathNode == nil {
				warnings = append(warnings, fmt.Sprintf("%d:%d: \\%s without a path argument, skipped", c.Pos.Line, c.Pos.Column, c.Name))
				continue
			}
			raw := strings.TrimSpace(pathNode.LiteralText())
			if pathNode.HasNonLiteralChildren() {
				warnings = append(warnings, fmt.Sprintf("%d:%d: \\%s path contains non-literal content, using %q", c.Pos.Line, c.Pos.Column, c.Name, raw))
			}
			if raw == "" {
				warnings = append(warnings, fmt.Sprintf("%d:%d: \\%s with an empty path, skipped", c.Pos.Line, c.Pos.Column, c.Name))
				continue
			}

			target := raw
			if filepath.Ext(target) == "" && !strings.HasSuffix(target, ".") {
				target += DefaultExtension
			}
			if !filepath.IsAbs(target) {
				target = filepath.Join(dir, target)
			}
			refs = append(refs, IncludeRef{
				TargetPath:       filepath.Clean(target),
				DeclaringCommand: c.Name,
				RawPath:          raw,
			})
		}
	})

	return refs, warnings
}

func includePathNode(children []*ast.Node, i int, c *ast.Node) *ast.Node {
	if c.Shaped() {
		if len(c.Args) >= 1 {
			return c.Args[0]
		}
		return nil
	}
	for j := i + 1; j < len(children); j++ {
		if children[j].IsWhitespace() {
			continue
		}
		if children[j].Kind == ast.KindGroup {
			return children[j]
		}
		return nil
	}
	return nil
}
