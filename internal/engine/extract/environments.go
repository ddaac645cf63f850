package extract

import (
	"fmt"
	"strconv"
	"strings"

	"texgraph/internal/engine/ast"
	"texgraph/internal/engine/signature"
	"texgraph/internal/engine/store"
)

// envLayout gives the argument slot positions for one environment-declaring
// command. Shaped argument lists are aligned to the declarer's signature, so
// every position is fixed; -1 marks a field the declarer does not have.
type envLayout struct {
	argLen  int
	name    int
	nargs   int
	def     int
	begin   int
	end     int
	counter int
	title   int
	within  int
	options int
	theorem bool
}

// envDeclarers maps each declaring-command name to its layout. These are pure
// lookup tables; nothing here is inferred at runtime.
var envDeclarers = map[string]envLayout{
	// \newenvironment{name}[nargs][default]{begin}{end}, signature "m o o m m"
	"newenvironment":   {argLen: 5, name: 0, nargs: 1, def: 2, begin: 3, end: 4, counter: -1, title: -1, within: -1, options: -1},
	"renewenvironment": {argLen: 5, name: 0, nargs: 1, def: 2, begin: 3, end: 4, counter: -1, title: -1, within: -1, options: -1},
	// \newtheorem{name}[counter]{title}[within], signature "s m o m o"
	"newtheorem": {argLen: 5, name: 1, nargs: -1, def: -1, begin: -1, end: -1, counter: 2, title: 3, within: 4, options: -1, theorem: true},
	// \newtcolorbox[init]{name}[nargs][default]{options}, signature "o m o o m"
	"newtcolorbox":   {argLen: 5, name: 1, nargs: 2, def: 3, begin: -1, end: -1, counter: -1, title: -1, within: -1, options: 4},
	"renewtcolorbox": {argLen: 5, name: 1, nargs: 2, def: 3, begin: -1, end: -1, counter: -1, title: -1, within: -1, options: 4},
}

// Environments extracts explicit environment declarations from a shaped tree.
// A declarer that was never shaped (its own signature unknown at pass time) is
// skipped. Re-declaring a name keeps the later declaration and records a
// warning.
func Environments(tree *ast.Node) ([]store.Environment, []string) {
	var envs []store.Environment
	var warnings []string
	seen := make(map[string]int)

	walkContainers(tree, func(parent *ast.Node) {
		for _, c := range parent.Children {
			if c.Kind != ast.KindCommand {
				continue
			}
			layout, ok := envDeclarers[c.Name]
			if !ok {
				continue
			}
			if !c.Shaped() || len(c.Args) != layout.argLen {
				continue
			}

			name := strings.TrimSpace(argText(c, layout.name))
			if name == "" {
				warnings = append(warnings, fmt.Sprintf("%d:%d: \\%s without an environment name, skipped", c.Pos.Line, c.Pos.Column, c.Name))
				continue
			}

			env := store.Environment{
				Name:             name,
				DeclaringCommand: c.Name,
				Category:         store.EnvDocument,
			}

			if layout.theorem {
				// Theorem bodies take one optional note argument.
				env.Signature = signature.New(signature.Param{Kind: signature.Optional})
				env.Title = strings.TrimSpace(argText(c, layout.title))
			} else {
				nargs := 0
				if node := argNode(c, layout.nargs); node != nil {
					parsed, err := strconv.Atoi(strings.TrimSpace(node.LiteralText()))
					if err != nil || parsed < 0 || parsed > 9 {
						warnings = append(warnings, fmt.Sprintf("%d:%d: \\%s{%s}: bad argument count %q, assuming 0", c.Pos.Line, c.Pos.Column, c.Name, name, node.LiteralText()))
					} else {
						nargs = parsed
					}
				}
				if node := argNode(c, layout.def); node != nil {
					env.Signature = signature.WithDefault(node.LiteralText(), nargs)
				} else {
					env.Signature = signature.Mandatories(nargs)
				}
				env.BeginBody = argText(c, layout.begin)
				env.EndBody = argText(c, layout.end)
				env.Options = strings.TrimSpace(argText(c, layout.options))
			}
			env.Parameters = env.Signature.Params()

			if prev, dup := seen[name]; dup {
				warnings = append(warnings, fmt.Sprintf("%d:%d: environment %q redeclared, keeping the later declaration", c.Pos.Line, c.Pos.Column, name))
				envs[prev] = env
				continue
			}
			seen[name] = len(envs)
			envs = append(envs, env)
		}
	})

	return envs, warnings
}

func argNode(c *ast.Node, idx int) *ast.Node {
	if idx < 0 || idx >= len(c.Args) {
		return nil
	}
	return c.Args[idx]
}

func argText(c *ast.Node, idx int) string {
	if n := argNode(c, idx); n != nil {
		return n.LiteralText()
	}
	return ""
}
