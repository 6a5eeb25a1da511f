package testutil

import (
	"testing"

	"github.com/arthur-debert/rulebook/pkg/categories"
	"github.com/arthur-debert/rulebook/pkg/matcher"
	"github.com/arthur-debert/rulebook/pkg/query"
	"github.com/arthur-debert/rulebook/pkg/store"
	"github.com/arthur-debert/rulebook/pkg/templates"
	"github.com/arthur-debert/rulebook/pkg/types"
)

// NewService builds a query service over an in-memory tree with the default
// categories and template conventions
func NewService(t testing.TB, files map[string]string) (*query.Service, types.FS) {
	t.Helper()
	fsys := NewFS(t, files)
	service := query.New(
		categories.Default(),
		store.New(fsys, RulesDir),
		matcher.New(nil),
		templates.New(fsys, templates.DefaultConfig(TemplatesDir)),
	)
	return service, fsys
}
