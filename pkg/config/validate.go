package config

import (
	"github.com/arthur-debert/rulebook/pkg/errors"
	"github.com/arthur-debert/rulebook/pkg/ui"
)

// Validate checks the values Load cannot type-check
func Validate(cfg *Config) error {
	if _, err := cfg.CategorySet(); err != nil {
		return err
	}
	if _, err := cfg.Engine(); err != nil {
		return err
	}
	if cfg.Matcher.Timeout < 0 {
		return errors.Newf(errors.ErrConfigValid, "matcher.timeout must not be negative, got %s", cfg.Matcher.Timeout)
	}
	if _, err := ui.ParseFormat(cfg.Output.Format); err != nil {
		return err
	}
	for category, nested := range cfg.Templates.NestedExamples {
		if nested.Dir == "" {
			return errors.Newf(errors.ErrConfigValid, "templates.nested_examples.%s.dir is required", category)
		}
	}
	return nil
}
