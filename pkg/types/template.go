package types

import (
	"path/filepath"
	"strings"
)

// TemplateListing maps a language tag to the template file names available
// for it. Every configured language is present, possibly with no files.
type TemplateListing map[string][]string

// Languages returns the listing's language tags sorted by name
func (l TemplateListing) Languages() []string {
	return sortedKeys(l)
}

// TemplateContent is a resolved template file
type TemplateContent struct {
	Name    string `json:"name"`
	Path    string `json:"-"`
	Content string `json:"content"`
}

// IsMarkdown reports whether the template should be rendered as markdown
func (t TemplateContent) IsMarkdown() bool {
	return strings.EqualFold(filepath.Ext(t.Name), ".md")
}

// Examples maps an example file key to its content
type Examples map[string]string

// Keys returns the example keys sorted by name
func (e Examples) Keys() []string {
	return sortedKeys(e)
}
