package templates

import (
	"path"
	"sort"
	"strings"

	"github.com/arthur-debert/rulebook/pkg/errors"
	"github.com/arthur-debert/rulebook/pkg/logging"
	"github.com/arthur-debert/rulebook/pkg/suggest"
	"github.com/arthur-debert/rulebook/pkg/types"
	"github.com/rs/zerolog"
)

// Language groups template files under a tag by glob. Patterns are relative
// to the templates directory and may name one subdirectory level.
type Language struct {
	Tag     string
	Pattern string
}

// NestedExamples is a subdirectory of examples attached to one category
type NestedExamples struct {
	Dir    string
	Ext    string
	Prefix string
}

// Config locates templates and describes the naming conventions
type Config struct {
	Dir             string
	Languages       []Language
	ExamplePatterns []string
	Nested          map[string]NestedExamples
	FallbackDirs    []string
}

// SecurityPythonDir holds the Python security examples
const SecurityPythonDir = "securityExamplesPython"

// DefaultConfig returns the conventions of the bundled rule collection
func DefaultConfig(dir string) Config {
	return Config{
		Dir: dir,
		Languages: []Language{
			{Tag: "javascript", Pattern: "*.js"},
			{Tag: "react", Pattern: "*.jsx"},
			{Tag: "java", Pattern: "*.java"},
			{Tag: "markdown", Pattern: "*.md"},
			{Tag: "python", Pattern: SecurityPythonDir + "/*.py"},
		},
		ExamplePatterns: []string{
			"{category}Examples.js",
			"{category}_examples.js",
			"{category}Examples.jsx",
			"{category}Examples.java",
			"{category}Examples.py",
		},
		Nested: map[string]NestedExamples{
			"security": {Dir: SecurityPythonDir, Ext: ".py", Prefix: "python/"},
		},
		FallbackDirs: []string{SecurityPythonDir},
	}
}

// Store reads templates from a filesystem
type Store struct {
	fs     types.FS
	cfg    Config
	logger zerolog.Logger
}

// New creates a template store
func New(fsys types.FS, cfg Config) *Store {
	return &Store{
		fs:     fsys,
		cfg:    cfg,
		logger: logging.GetLogger("templates"),
	}
}

// Dir returns the templates directory
func (s *Store) Dir() string {
	return s.cfg.Dir
}

// List returns the template file names per language tag. Every configured
// tag is present; a missing directory gives an empty list.
func (s *Store) List() types.TemplateListing {
	listing := make(types.TemplateListing, len(s.cfg.Languages))
	for _, lang := range s.cfg.Languages {
		dir, glob := path.Split(lang.Pattern)
		listing[lang.Tag] = s.glob(path.Join(s.cfg.Dir, dir), glob)
	}
	return listing
}

// Get returns a template by name, trying the templates directory and then
// each fallback directory
func (s *Store) Get(name string) (*types.TemplateContent, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}

	candidates := []string{path.Join(s.cfg.Dir, name)}
	for _, dir := range s.cfg.FallbackDirs {
		candidates = append(candidates, path.Join(s.cfg.Dir, dir, name))
	}

	for _, p := range candidates {
		data, ok := s.readFile(p)
		if !ok {
			continue
		}
		return &types.TemplateContent{Name: name, Path: p, Content: string(data)}, nil
	}

	return nil, errors.Newf(errors.ErrTemplateNotFound, "Template not found: %s", name).
		WithDetail(errors.DetailSuggestions, suggest.Closest(name, s.names(), suggest.DefaultLimit))
}

// Examples gathers the example files for a category. The category is not
// validated here.
func (s *Store) Examples(category string) types.Examples {
	examples := make(types.Examples)

	for _, pattern := range s.cfg.ExamplePatterns {
		name := strings.ReplaceAll(pattern, "{category}", category)
		if data, ok := s.readFile(path.Join(s.cfg.Dir, name)); ok {
			examples[name] = string(data)
		}
	}

	if nested, ok := s.cfg.Nested[category]; ok {
		dir := path.Join(s.cfg.Dir, nested.Dir)
		for _, name := range s.glob(dir, "*"+nested.Ext) {
			if data, ok := s.readFile(path.Join(dir, name)); ok {
				examples[nested.Prefix+name] = string(data)
			}
		}
	}

	s.logger.Debug().
		Str("category", category).
		Int("examples", len(examples)).
		Msg("Collected examples")

	return examples
}

// glob lists regular files in dir whose base name matches pattern, sorted
func (s *Store) glob(dir, pattern string) []string {
	names := []string{}
	entries, err := s.fs.ReadDir(dir)
	if err != nil {
		s.logger.Debug().Err(err).Str("dir", dir).Msg("Templates directory not readable")
		return names
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if ok, _ := path.Match(pattern, entry.Name()); ok {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names
}

func (s *Store) readFile(p string) ([]byte, bool) {
	info, err := s.fs.Stat(p)
	if err != nil || info.IsDir() {
		return nil, false
	}
	data, err := s.fs.ReadFile(p)
	if err != nil {
		s.logger.Warn().Err(err).Str("path", p).Msg("Skipping unreadable template")
		return nil, false
	}
	return data, true
}

// names lists every template reachable through Get, for suggestions
func (s *Store) names() []string {
	var names []string
	names = append(names, s.glob(s.cfg.Dir, "*")...)
	for _, dir := range s.cfg.FallbackDirs {
		names = append(names, s.glob(path.Join(s.cfg.Dir, dir), "*")...)
	}
	return names
}

// checkName rejects names that would escape the templates directory
func checkName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New(errors.ErrInvalidInput, "Template name is required")
	}
	if path.IsAbs(name) || strings.Contains(name, `\`) {
		return errors.Newf(errors.ErrInvalidInput, "Invalid template name: %s", name)
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return errors.Newf(errors.ErrInvalidInput, "Invalid template name: %s", name)
		}
	}
	return nil
}
