package store

import "texgraph/internal/engine/signature"

// defaultCommandTable maps standard LaTeX command names to their signature in
// serialized token form. This is the minimum set that makes declaring
// commands, sectioning and includes shapeable before any document-defined
// declaration exists.
var defaultCommandTable = map[string]string{
	// declaring family
	"newcommand":           "s m o o m",
	"renewcommand":         "s m o o m",
	"providecommand":       "s m o o m",
	"DeclareRobustCommand": "s m o o m",
	"newenvironment":       "m o o m m",
	"renewenvironment":     "m o o m m",
	"newtheorem":           "s m o m o",
	"newtcolorbox":         "o m o o m",
	"renewtcolorbox":       "o m o o m",

	// structure
	"documentclass": "o m",
	"usepackage":    "o m",
	"begin":         "m",
	"end":           "m",
	"input":         "m",
	"include":       "m",
	"includeonly":   "m",
	"subfile":       "m",
	"bibliography":  "m",
	"title":         "m",
	"author":        "m",
	"date":          "m",
	"part":          "s o m",
	"chapter":       "s o m",
	"section":       "s o m",
	"subsection":    "s o m",
	"subsubsection": "s o m",
	"paragraph":     "s o m",
	"caption":       "o m",
	"label":         "m",
	"ref":           "m",
	"eqref":         "m",
	"cite":          "o m",
	"footnote":      "m",
	"item":          "o",

	// text and math
	"textbf":       "m",
	"textit":       "m",
	"texttt":       "m",
	"textsc":       "m",
	"emph":         "m",
	"underline":    "m",
	"mbox":         "m",
	"frac":         "m m",
	"sqrt":         "o m",
	"mathbb":       "m",
	"mathcal":      "m",
	"mathrm":       "m",
	"hspace":       "m",
	"vspace":       "m",
	"includegraphics": "o m",
}

// DefaultCommands returns the built-in default command declarations.
func DefaultCommands() []Command {
	out := make([]Command, 0, len(defaultCommandTable))
	for name, sig := range defaultCommandTable {
		parsed, err := signature.Parse(sig)
		if err != nil {
			// The table is static; a bad entry is a programming error.
			panic("store: invalid default signature for \\" + name + ": " + err.Error())
		}
		out = append(out, Command{Name: name, Signature: parsed, Category: CategoryDefault})
	}
	return out
}

type builtinEnv struct {
	signature string
	pkg       string
}

var builtinEnvironmentTable = map[string]builtinEnv{
	"document":    {signature: "", pkg: "latex"},
	"abstract":    {signature: "", pkg: "latex"},
	"center":      {signature: "", pkg: "latex"},
	"itemize":     {signature: "o", pkg: "latex"},
	"enumerate":   {signature: "o", pkg: "latex"},
	"description": {signature: "o", pkg: "latex"},
	"figure":      {signature: "o", pkg: "latex"},
	"table":       {signature: "o", pkg: "latex"},
	"tabular":     {signature: "o m", pkg: "latex"},
	"equation":    {signature: "", pkg: "latex"},
	"align":       {signature: "", pkg: "amsmath"},
	"verbatim":    {signature: "", pkg: "latex"},
	"quote":       {signature: "", pkg: "latex"},
	"minipage":    {signature: "o m", pkg: "latex"},
	"thebibliography": {signature: "m", pkg: "latex"},
}

// BuiltinEnvironments returns the built-in standard environment specs.
func BuiltinEnvironments() []Environment {
	out := make([]Environment, 0, len(builtinEnvironmentTable))
	for name, be := range builtinEnvironmentTable {
		parsed, err := signature.Parse(be.signature)
		if err != nil {
			panic("store: invalid builtin environment signature for " + name + ": " + err.Error())
		}
		out = append(out, Environment{
			Name:          name,
			Signature:     parsed,
			Parameters:    parsed.Params(),
			PackageSource: be.pkg,
			Category:      EnvBuiltin,
		})
	}
	return out
}
