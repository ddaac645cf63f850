package signature

import (
	"fmt"
	"strings"
)

// Kind classifies a single parameter of a command or environment signature.
type Kind int

const (
	Mandatory Kind = iota
	Optional
	OptionalDefault
	Star
)

func (k Kind) String() string {
	switch k {
	case Mandatory:
		return "mandatory"
	case Optional:
		return "optional"
	case OptionalDefault:
		return "optional-with-default"
	case Star:
		return "star"
	default:
		return "unknown"
	}
}

// Param is one parameter slot. Default is only meaningful for OptionalDefault.
type Param struct {
	Kind    Kind
	Default string
}

// Token renders the parameter in the compact serialized form.
func (p Param) Token() string {
	switch p.Kind {
	case Mandatory:
		return "m"
	case Optional:
		return "o"
	case OptionalDefault:
		return "O{" + p.Default + "}"
	case Star:
		return "s"
	default:
		return "?"
	}
}

// Signature is an ordered, immutable parameter sequence. The zero value is the
// empty signature.
type Signature struct {
	params []Param
}

// New builds a signature from explicit parameters.
func New(params ...Param) Signature {
	cp := make([]Param, len(params))
	copy(cp, params)
	return Signature{params: cp}
}

// Mandatories builds a signature of n mandatory parameters.
func Mandatories(n int) Signature {
	params := make([]Param, 0, n)
	for i := 0; i < n; i++ {
		params = append(params, Param{Kind: Mandatory})
	}
	return Signature{params: params}
}

// WithDefault builds the signature produced by a declaration that carries a
// default value: one optional-with-default parameter followed by n-1 mandatory
// ones. n is clamped to at least 1 so the default always has a slot.
func WithDefault(def string, n int) Signature {
	if n < 1 {
		n = 1
	}
	params := make([]Param, 0, n)
	params = append(params, Param{Kind: OptionalDefault, Default: def})
	for i := 1; i < n; i++ {
		params = append(params, Param{Kind: Mandatory})
	}
	return Signature{params: params}
}

// Params returns a copy of the parameter sequence.
func (s Signature) Params() []Param {
	cp := make([]Param, len(s.params))
	copy(cp, s.params)
	return cp
}

// Len returns the number of parameter slots, star slots included.
func (s Signature) Len() int {
	return len(s.params)
}

// At returns the parameter at index i.
func (s Signature) At(i int) Param {
	return s.params[i]
}

// String renders the space-joined token form, e.g. "s m O{x} m".
func (s Signature) String() string {
	tokens := make([]string, 0, len(s.params))
	for _, p := range s.params {
		tokens = append(tokens, p.Token())
	}
	return strings.Join(tokens, " ")
}

// Parse reads the space-joined token form. Defaults inside O{...} may contain
// spaces and nested braces; the token ends at the matching close brace.
func Parse(text string) (Signature, error) {
	var params []Param
	i := 0
	runes := []rune(text)
	for i < len(runes) {
		consumed := true
		switch r := runes[i]; {
		case r == ' ' || r == '\t':
			i++
			consumed = false
		case r == 'm':
			params = append(params, Param{Kind: Mandatory})
			i++
		case r == 'o':
			params = append(params, Param{Kind: Optional})
			i++
		case r == 's':
			params = append(params, Param{Kind: Star})
			i++
		case r == 'O':
			if i+1 >= len(runes) || runes[i+1] != '{' {
				return Signature{}, fmt.Errorf("signature %q: O must be followed by {default}", text)
			}
			depth := 0
			j := i + 1
			for ; j < len(runes); j++ {
				if runes[j] == '{' {
					depth++
				} else if runes[j] == '}' {
					depth--
					if depth == 0 {
						break
					}
				}
			}
			if depth != 0 {
				return Signature{}, fmt.Errorf("signature %q: unterminated default value", text)
			}
			params = append(params, Param{Kind: OptionalDefault, Default: string(runes[i+2 : j])})
			i = j + 1
		default:
			return Signature{}, fmt.Errorf("signature %q: unexpected token at %q", text, string(r))
		}
		if consumed && i < len(runes) && runes[i] != ' ' && runes[i] != '\t' {
			return Signature{}, fmt.Errorf("signature %q: tokens must be space separated", text)
		}
	}
	return Signature{params: params}, nil
}
