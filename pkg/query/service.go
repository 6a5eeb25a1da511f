package query

import (
	"github.com/arthur-debert/rulebook/pkg/categories"
	"github.com/arthur-debert/rulebook/pkg/errors"
	"github.com/arthur-debert/rulebook/pkg/logging"
	"github.com/arthur-debert/rulebook/pkg/matcher"
	"github.com/arthur-debert/rulebook/pkg/suggest"
	"github.com/arthur-debert/rulebook/pkg/templates"
	"github.com/arthur-debert/rulebook/pkg/types"
	"github.com/rs/zerolog"
)

// RuleLoader reads one category's rule set
type RuleLoader interface {
	LoadRules(category string) (*types.RuleSet, error)
}

// Service answers rule and template queries. It holds no mutable state;
// every call reads storage afresh.
type Service struct {
	categories categories.Set
	rules      RuleLoader
	matcher    *matcher.Matcher
	templates  *templates.Store
	logger     zerolog.Logger
}

// New wires a query service
func New(cats categories.Set, rules RuleLoader, m *matcher.Matcher, tmpl *templates.Store) *Service {
	if m == nil {
		m = matcher.New(nil)
	}
	return &Service{
		categories: cats,
		rules:      rules,
		matcher:    m,
		templates:  tmpl,
		logger:     logging.GetLogger("query"),
	}
}

// ListCategories returns the fixed category set in its configured order
func (s *Service) ListCategories() []string {
	return s.categories.List()
}

// GetCategory returns a category's whole rule set
func (s *Service) GetCategory(category string) (*types.RuleSet, error) {
	if err := s.categories.Validate(category); err != nil {
		return nil, err
	}
	return s.rules.LoadRules(category)
}

// GetRuleByName returns the first rule of category named name
func (s *Service) GetRuleByName(category, name string) (types.Rule, error) {
	ruleSet, err := s.GetCategory(category)
	if err != nil {
		return types.Rule{}, err
	}

	if rule, ok := ruleSet.Find(name); ok {
		return rule, nil
	}

	return types.Rule{}, errors.Newf(errors.ErrRuleNotFound, "Rule not found: %s", name).
		WithDetail(errors.DetailCategory, category).
		WithDetail(errors.DetailSuggestions, suggest.Closest(name, ruleSet.Names(), suggest.DefaultLimit))
}

// SearchByKeyword sweeps every category for rules whose name, message or
// pattern text contains keyword, ignoring case. Categories that fail to load
// are skipped.
func (s *Service) SearchByKeyword(keyword string) types.SearchReport {
	defer logging.LogOperationStart(s.logger, "search")()

	report := Sweep(s.categories.List(), func(category string) ([]types.Rule, error) {
		ruleSet, err := s.rules.LoadRules(category)
		if err != nil {
			return nil, err
		}
		return matcher.Search(keyword, ruleSet.Rules), nil
	}, s.skip("search"))

	return types.SearchReport(report)
}

// Analyze runs the patterns of the requested categories against text. An
// empty request means every category. Any unknown category fails the call
// before a rule is loaded. Categories without matches are omitted and
// categories that fail to load are skipped.
func (s *Service) Analyze(text string, requested []string) (types.AnalysisReport, error) {
	defer logging.LogOperationStart(s.logger, "analyze")()

	if err := FailFast(requested, s.categories.Validate); err != nil {
		return nil, err
	}

	report := Sweep(s.categories.Resolve(requested), func(category string) ([]types.MatchResult, error) {
		ruleSet, err := s.rules.LoadRules(category)
		if err != nil {
			return nil, err
		}
		return s.matcher.Analyze(text, ruleSet.Rules), nil
	}, s.skip("analyze"))

	return types.AnalysisReport(report), nil
}

// ListTemplates lists template files per language
func (s *Service) ListTemplates() types.TemplateListing {
	return s.templates.List()
}

// GetTemplate returns one template's content
func (s *Service) GetTemplate(name string) (*types.TemplateContent, error) {
	return s.templates.Get(name)
}

// GetExamples returns the example files of a category. The result may be
// empty; NoExamples builds the message reported in that case.
func (s *Service) GetExamples(category string) (types.Examples, error) {
	if err := s.categories.Validate(category); err != nil {
		return nil, err
	}
	return s.templates.Examples(category), nil
}

// NoExamples is the informational report for a category without examples
func NoExamples(category string) types.MessageReport {
	return types.MessageReport{Message: "No examples found for rule type: " + category}
}

func (s *Service) skip(op string) func(string, error) {
	return func(category string, err error) {
		s.logger.Debug().
			Err(err).
			Str("op", op).
			Str("category", category).
			Msg("Skipping category")
	}
}
