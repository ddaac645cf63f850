package parser

// Matcher is a predicate over a fixed set of literal names, used by tree
// walks that need to distinguish known from unknown command names.
type Matcher struct {
	names map[string]struct{}
}

func NewMatcher(names []string) *Matcher {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		set[n] = struct{}{}
	}
	return &Matcher{names: set}
}

func (m *Matcher) Matches(name string) bool {
	_, ok := m.names[name]
	return ok
}

func (m *Matcher) Len() int {
	return len(m.names)
}
