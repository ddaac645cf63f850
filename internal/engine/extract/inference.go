package extract

import (
	"sort"
	"unicode"

	"texgraph/internal/engine/ast"
	"texgraph/internal/engine/signature"
	"texgraph/internal/engine/store"
)

// InferredArities synthesizes signatures for letter-named commands absent from
// the known set. Each occurrence contributes the number of consecutive brace
// groups among its immediate following siblings, skipping pure-whitespace
// text; the maximum across a file's occurrences wins. Under-counting would
// break later correct uses, over-counting at worst swallows one unrelated
// group. Optional bracket parameters are never inferred.
func InferredArities(tree *ast.Node, known func(string) bool) []store.Command {
	arity := make(map[string]int)

	walkContainers(tree, func(parent *ast.Node) {
		for i, c := range parent.Children {
			if c.Kind != ast.KindCommand || c.Shaped() {
				continue
			}
			if !letterName(c.Name) || known(c.Name) {
				continue
			}
			count := 0
			for j := i + 1; j < len(parent.Children); j++ {
				sib := parent.Children[j]
				if sib.IsWhitespace() {
					continue
				}
				if sib.Kind != ast.KindGroup {
					break
				}
				count++
			}
			if prev, ok := arity[c.Name]; !ok || count > prev {
				arity[c.Name] = count
			}
		}
	})

	names := make([]string, 0, len(arity))
	for name := range arity {
		names = append(names, name)
	}
	sort.Strings(names)

	cmds := make([]store.Command, 0, len(names))
	for _, name := range names {
		cmds = append(cmds, store.Command{
			Name:      name,
			Signature: signature.Mandatories(arity[name]),
			Category:  store.CategoryInferred,
		})
	}
	return cmds
}

func letterName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
