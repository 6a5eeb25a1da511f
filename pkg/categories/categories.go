package categories

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/rulebook/pkg/errors"
)

// defaultNames is the built-in category set in presentation order
var defaultNames = [...]string{
	"codequality",
	"bestpractices",
	"security",
	"ddd",
	"a11y",
	"performance",
	"testing",
	"cicd",
	"architecture",
	"i18n",
	"documentation",
	"dependencies",
	"scalability",
}

// DefaultNames returns a fresh copy of the built-in category names
func DefaultNames() []string {
	return append([]string(nil), defaultNames[:]...)
}

// Set is an immutable, ordered set of category names
type Set struct {
	names []string
	index map[string]int
}

// New builds a set from names, preserving their order. Empty names,
// names with surrounding whitespace or path separators, and duplicates are
// rejected.
func New(names ...string) (Set, error) {
	if len(names) == 0 {
		return Set{}, errors.New(errors.ErrConfigValid, "category set must not be empty")
	}

	s := Set{
		names: make([]string, 0, len(names)),
		index: make(map[string]int, len(names)),
	}
	for _, name := range names {
		if name == "" || strings.TrimSpace(name) != name {
			return Set{}, errors.Newf(errors.ErrConfigValid, "invalid category name %q", name)
		}
		if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
			return Set{}, errors.Newf(errors.ErrConfigValid, "category name %q must not contain path elements", name)
		}
		if _, dup := s.index[name]; dup {
			return Set{}, errors.Newf(errors.ErrConfigValid, "duplicate category %q", name)
		}
		s.index[name] = len(s.names)
		s.names = append(s.names, name)
	}
	return s, nil
}

// MustNew is New that panics on invalid input, for static sets
func MustNew(names ...string) Set {
	s, err := New(names...)
	if err != nil {
		panic(fmt.Sprintf("categories: %v", err))
	}
	return s
}

// Default returns the built-in set
func Default() Set {
	return MustNew(defaultNames[:]...)
}

// List returns the names in order. The slice is a copy.
func (s Set) List() []string {
	return append([]string(nil), s.names...)
}

// Len returns the number of categories
func (s Set) Len() int {
	return len(s.names)
}

// Contains reports whether name belongs to the set
func (s Set) Contains(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Validate returns an UNKNOWN_CATEGORY error listing the valid categories
// when name is not in the set
func (s Set) Validate(name string) error {
	if s.Contains(name) {
		return nil
	}
	return errors.Newf(errors.ErrUnknownCategory, "Unknown rule type: %s", name).
		WithDetail(errors.DetailCategory, name).
		WithDetail(errors.DetailAvailableTypes, s.List())
}

// Resolve expands a caller-supplied subset: an empty request selects the
// whole set and duplicates collapse onto their first occurrence. Names are
// not validated here.
func (s Set) Resolve(requested []string) []string {
	if len(requested) == 0 {
		return s.List()
	}
	resolved := make([]string, 0, len(requested))
	seen := make(map[string]bool, len(requested))
	for _, name := range requested {
		if seen[name] {
			continue
		}
		seen[name] = true
		resolved = append(resolved, name)
	}
	return resolved
}
