package config

import (
	"sort"
	"time"

	"github.com/arthur-debert/rulebook/pkg/categories"
	"github.com/arthur-debert/rulebook/pkg/matcher"
	"github.com/arthur-debert/rulebook/pkg/templates"
)

// Config is the effective configuration
type Config struct {
	Rules     RulesConfig     `koanf:"rules"`
	Templates TemplatesConfig `koanf:"templates"`
	Matcher   MatcherConfig   `koanf:"matcher"`
	Output    OutputConfig    `koanf:"output"`
	Server    ServerConfig    `koanf:"server"`
}

// RulesConfig locates rule files and fixes the category set
type RulesConfig struct {
	Dir        string   `koanf:"dir"`
	FileSuffix string   `koanf:"file_suffix"`
	Categories []string `koanf:"categories"`
}

// TemplatesConfig describes the templates directory conventions
type TemplatesConfig struct {
	Dir             string                  `koanf:"dir"`
	Languages       map[string]string       `koanf:"languages"`
	ExamplePatterns []string                `koanf:"example_patterns"`
	FallbackDirs    []string                `koanf:"fallback_dirs"`
	NestedExamples  map[string]NestedConfig `koanf:"nested_examples"`
}

// NestedConfig is a per-category examples subdirectory
type NestedConfig struct {
	Dir    string `koanf:"dir"`
	Ext    string `koanf:"ext"`
	Prefix string `koanf:"prefix"`
}

// MatcherConfig selects the regex engine
type MatcherConfig struct {
	Engine  string        `koanf:"engine"`
	Timeout time.Duration `koanf:"timeout"`
}

// OutputConfig controls rendering
type OutputConfig struct {
	Format string `koanf:"format"`
}

// ServerConfig configures the HTTP transport
type ServerConfig struct {
	Addr string `koanf:"addr"`
}

// CategorySet builds the immutable category set
func (c *Config) CategorySet() (categories.Set, error) {
	return categories.New(c.Rules.Categories...)
}

// Engine builds the configured matcher engine
func (c *Config) Engine() (matcher.Engine, error) {
	return matcher.EngineByName(c.Matcher.Engine, c.Matcher.Timeout)
}

// TemplateConfig converts the templates section for a resolved directory.
// Languages are ordered by tag.
func (c *Config) TemplateConfig(dir string) templates.Config {
	tags := make([]string, 0, len(c.Templates.Languages))
	for tag := range c.Templates.Languages {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	languages := make([]templates.Language, 0, len(tags))
	for _, tag := range tags {
		languages = append(languages, templates.Language{Tag: tag, Pattern: c.Templates.Languages[tag]})
	}

	nested := make(map[string]templates.NestedExamples, len(c.Templates.NestedExamples))
	for category, n := range c.Templates.NestedExamples {
		nested[category] = templates.NestedExamples{Dir: n.Dir, Ext: n.Ext, Prefix: n.Prefix}
	}

	return templates.Config{
		Dir:             dir,
		Languages:       languages,
		ExamplePatterns: append([]string(nil), c.Templates.ExamplePatterns...),
		Nested:          nested,
		FallbackDirs:    append([]string(nil), c.Templates.FallbackDirs...),
	}
}

// Map returns the configuration as nested maps keyed like the config file
func (c *Config) Map() map[string]interface{} {
	languages := make(map[string]interface{}, len(c.Templates.Languages))
	for tag, pattern := range c.Templates.Languages {
		languages[tag] = pattern
	}
	nested := make(map[string]interface{}, len(c.Templates.NestedExamples))
	for category, n := range c.Templates.NestedExamples {
		nested[category] = map[string]interface{}{
			"dir":    n.Dir,
			"ext":    n.Ext,
			"prefix": n.Prefix,
		}
	}

	return map[string]interface{}{
		"rules": map[string]interface{}{
			"dir":         c.Rules.Dir,
			"file_suffix": c.Rules.FileSuffix,
			"categories":  nonNil(c.Rules.Categories),
		},
		"templates": map[string]interface{}{
			"dir":              c.Templates.Dir,
			"languages":        languages,
			"example_patterns": nonNil(c.Templates.ExamplePatterns),
			"fallback_dirs":    nonNil(c.Templates.FallbackDirs),
			"nested_examples":  nested,
		},
		"matcher": map[string]interface{}{
			"engine":  c.Matcher.Engine,
			"timeout": c.Matcher.Timeout.String(),
		},
		"output": map[string]interface{}{
			"format": c.Output.Format,
		},
		"server": map[string]interface{}{
			"addr": c.Server.Addr,
		},
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
