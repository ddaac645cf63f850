package store

import (
	"sort"

	"texgraph/internal/engine/signature"
)

// CommandCategory identifies where a command declaration came from. Merge
// priority is CategoryInferred < CategoryDefault < CategoryUser <
// CategoryDocument; document-defined entries unconditionally win.
type CommandCategory int

const (
	CategoryInferred CommandCategory = iota
	CategoryDefault
	CategoryUser
	CategoryDocument
)

func (c CommandCategory) String() string {
	switch c {
	case CategoryInferred:
		return "inferred"
	case CategoryDefault:
		return "default"
	case CategoryUser:
		return "user-provided"
	case CategoryDocument:
		return "document-defined"
	default:
		return "unknown"
	}
}

// EnvironmentCategory identifies where an environment spec came from. Merge
// priority is EnvBuiltin < EnvUser < EnvDocument.
type EnvironmentCategory int

const (
	EnvBuiltin EnvironmentCategory = iota
	EnvUser
	EnvDocument
)

func (c EnvironmentCategory) String() string {
	switch c {
	case EnvBuiltin:
		return "built-in-standard"
	case EnvUser:
		return "user-provided"
	case EnvDocument:
		return "document-defined"
	default:
		return "unknown"
	}
}

// Command is a single command declaration.
type Command struct {
	Name      string
	Signature signature.Signature
	Category  CommandCategory
}

// Environment is a single block-structure declaration. Only the fields
// relevant to the declaring command family are populated.
type Environment struct {
	Name             string
	Signature        signature.Signature
	Parameters       []signature.Param
	DeclaringCommand string
	BeginBody        string
	EndBody          string
	Title            string
	Options          string
	PackageSource    string
	Category         EnvironmentCategory
}

// Store holds the categorized declarations for one project run. It only grows;
// no operation removes an entry. It is deliberately not safe for concurrent
// use: one traversal owns it for the duration of a run.
type Store struct {
	commands     map[CommandCategory]map[string]Command
	environments map[EnvironmentCategory]map[string]Environment
}

func New() *Store {
	return &Store{
		commands: map[CommandCategory]map[string]Command{
			CategoryInferred: {},
			CategoryDefault:  {},
			CategoryUser:     {},
			CategoryDocument: {},
		},
		environments: map[EnvironmentCategory]map[string]Environment{
			EnvBuiltin:  {},
			EnvUser:     {},
			EnvDocument: {},
		},
	}
}

func (s *Store) addCommands(cat CommandCategory, cmds []Command) {
	for _, c := range cmds {
		if c.Name == "" {
			continue
		}
		c.Category = cat
		s.commands[cat][c.Name] = c
	}
}

// AddDefaults registers built-in default commands.
func (s *Store) AddDefaults(cmds []Command) {
	s.addCommands(CategoryDefault, cmds)
}

// AddUserCommands registers externally supplied command declarations.
func (s *Store) AddUserCommands(cmds []Command) {
	s.addCommands(CategoryUser, cmds)
}

// AddDocumentDefined registers declarations extracted from a document. Within
// the bucket a later registration for the same name overwrites the earlier
// one.
func (s *Store) AddDocumentDefined(cmds []Command) {
	s.addCommands(CategoryDocument, cmds)
}

// AddInferred registers usage-inferred commands, skipping any name already
// present in a non-inferred category at call time: a legitimate declaration
// always beats an inference, regardless of call order.
func (s *Store) AddInferred(cmds []Command) {
	for _, c := range cmds {
		if c.Name == "" {
			continue
		}
		if _, ok := s.commands[CategoryDefault][c.Name]; ok {
			continue
		}
		if _, ok := s.commands[CategoryUser][c.Name]; ok {
			continue
		}
		if _, ok := s.commands[CategoryDocument][c.Name]; ok {
			continue
		}
		c.Category = CategoryInferred
		s.commands[CategoryInferred][c.Name] = c
	}
}

func (s *Store) addEnvironments(cat EnvironmentCategory, envs []Environment) {
	for _, e := range envs {
		if e.Name == "" {
			continue
		}
		e.Category = cat
		s.environments[cat][e.Name] = e
	}
}

// AddBuiltinEnvironments registers built-in standard environments.
func (s *Store) AddBuiltinEnvironments(envs []Environment) {
	s.addEnvironments(EnvBuiltin, envs)
}

// AddUserEnvironments registers externally supplied environment specs.
func (s *Store) AddUserEnvironments(envs []Environment) {
	s.addEnvironments(EnvUser, envs)
}

// AddDocumentDefinedEnvironments registers environment specs extracted from a
// document; later registrations for the same name overwrite earlier ones.
func (s *Store) AddDocumentDefinedEnvironments(envs []Environment) {
	s.addEnvironments(EnvDocument, envs)
}

// MergedCommands returns the union of all four categories with overlaps
// resolved by fixed priority. The view is computed fresh on every call; merge
// order, not insertion order, decides.
func (s *Store) MergedCommands() map[string]Command {
	merged := make(map[string]Command)
	for _, cat := range []CommandCategory{CategoryInferred, CategoryDefault, CategoryUser, CategoryDocument} {
		for name, c := range s.commands[cat] {
			merged[name] = c
		}
	}
	return merged
}

// MergedEnvironments returns the union of all three environment categories
// with overlaps resolved by fixed priority.
func (s *Store) MergedEnvironments() map[string]Environment {
	merged := make(map[string]Environment)
	for _, cat := range []EnvironmentCategory{EnvBuiltin, EnvUser, EnvDocument} {
		for name, e := range s.environments[cat] {
			merged[name] = e
		}
	}
	return merged
}

// CommandsByCategory returns the category's declarations sorted by name.
func (s *Store) CommandsByCategory(cat CommandCategory) []Command {
	out := make([]Command, 0, len(s.commands[cat]))
	for _, c := range s.commands[cat] {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// EnvironmentsByCategory returns the category's specs sorted by name.
func (s *Store) EnvironmentsByCategory(cat EnvironmentCategory) []Environment {
	out := make([]Environment, 0, len(s.environments[cat]))
	for _, e := range s.environments[cat] {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// CommandCount returns the number of entries in a category.
func (s *Store) CommandCount(cat CommandCategory) int {
	return len(s.commands[cat])
}

// EnvironmentCount returns the number of entries in a category.
func (s *Store) EnvironmentCount(cat EnvironmentCategory) int {
	return len(s.environments[cat])
}
