// Package dispatcher maps transport requests onto the query service.
//
// Requests come in two shapes. Resources are read by URI:
//
//	rules://types
//	rules://{category}
//	rules://{category}/{name}
//	templates://list
//	templates://{name}
//
// Tools are called by name with JSON arguments: search_rules,
// analyze_code and get_examples_for_rule_type.
//
// Domain failures such as an unknown category or a missing rule are not
// errors here: they come back as a types.ErrorReport result so every
// transport answers them the same way. Errors returned by the dispatcher
// are protocol problems: an unknown URI or tool, or malformed arguments.
package dispatcher

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/arthur-debert/rulebook/pkg/errors"
	"github.com/arthur-debert/rulebook/pkg/logging"
	"github.com/arthur-debert/rulebook/pkg/query"
	"github.com/arthur-debert/rulebook/pkg/types"
	"github.com/rs/zerolog"
)

// URI schemes
const (
	SchemeRules     = "rules://"
	SchemeTemplates = "templates://"
)

// Tool names
const (
	ToolSearchRules = "search_rules"
	ToolAnalyzeCode = "analyze_code"
	ToolGetExamples = "get_examples_for_rule_type"
)

// Dispatcher routes resource reads and tool calls
type Dispatcher struct {
	service *query.Service
	logger  zerolog.Logger
}

// New creates a dispatcher over service
func New(service *query.Service) *Dispatcher {
	return &Dispatcher{
		service: service,
		logger:  logging.GetLogger("dispatcher"),
	}
}

// ReadResource resolves a resource URI
func (d *Dispatcher) ReadResource(uri string) (interface{}, error) {
	d.logger.Debug().Str("uri", uri).Msg("Reading resource")

	if rest, ok := strings.CutPrefix(uri, SchemeRules); ok {
		return d.readRules(uri, rest)
	}
	if rest, ok := strings.CutPrefix(uri, SchemeTemplates); ok {
		return d.readTemplates(uri, rest)
	}
	return nil, unknownResource(uri)
}

func (d *Dispatcher) readRules(uri, rest string) (interface{}, error) {
	if rest == "types" {
		return d.service.ListCategories(), nil
	}

	category, name, hasName := strings.Cut(rest, "/")
	category, err := unescape(uri, category)
	if err != nil {
		return nil, err
	}
	if category == "" {
		return nil, unknownResource(uri)
	}

	if !hasName {
		ruleSet, err := d.service.GetCategory(category)
		if err != nil {
			return types.NewErrorReport(err), nil
		}
		return ruleSet, nil
	}

	name, err = unescape(uri, name)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, unknownResource(uri)
	}
	rule, err := d.service.GetRuleByName(category, name)
	if err != nil {
		return types.NewErrorReport(err), nil
	}
	return rule, nil
}

func (d *Dispatcher) readTemplates(uri, rest string) (interface{}, error) {
	if rest == "list" {
		return d.service.ListTemplates(), nil
	}

	name, err := unescape(uri, rest)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, unknownResource(uri)
	}
	tmpl, err := d.service.GetTemplate(name)
	if err != nil {
		return types.NewErrorReport(err), nil
	}
	return tmpl.Content, nil
}

type searchArgs struct {
	Keyword *string `json:"keyword"`
}

type analyzeArgs struct {
	Code      *string  `json:"code"`
	RuleTypes []string `json:"rule_types"`
}

type examplesArgs struct {
	RuleType *string `json:"rule_type"`
}

// CallTool runs a tool with JSON-encoded arguments
func (d *Dispatcher) CallTool(name string, args json.RawMessage) (interface{}, error) {
	d.logger.Debug().Str("tool", name).Msg("Calling tool")

	switch name {
	case ToolSearchRules:
		var a searchArgs
		if err := decodeArgs(name, args, &a); err != nil {
			return nil, err
		}
		if a.Keyword == nil {
			return nil, missingArg(name, "keyword")
		}
		return d.service.SearchByKeyword(*a.Keyword), nil

	case ToolAnalyzeCode:
		var a analyzeArgs
		if err := decodeArgs(name, args, &a); err != nil {
			return nil, err
		}
		if a.Code == nil {
			return nil, missingArg(name, "code")
		}
		report, err := d.service.Analyze(*a.Code, a.RuleTypes)
		if err != nil {
			return types.NewErrorReport(err), nil
		}
		return report, nil

	case ToolGetExamples:
		var a examplesArgs
		if err := decodeArgs(name, args, &a); err != nil {
			return nil, err
		}
		if a.RuleType == nil {
			return nil, missingArg(name, "rule_type")
		}
		examples, err := d.service.GetExamples(*a.RuleType)
		if err != nil {
			return types.NewErrorReport(err), nil
		}
		if len(examples) == 0 {
			return query.NoExamples(*a.RuleType), nil
		}
		return examples, nil

	default:
		return nil, errors.Newf(errors.ErrNotFound, "unknown tool: %s", name).
			WithDetail("available", ToolNames())
	}
}

func decodeArgs(tool string, raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errors.Wrapf(err, errors.ErrInvalidInput, "invalid arguments for %s", tool)
	}
	return nil
}

func missingArg(tool, arg string) error {
	return errors.Newf(errors.ErrInvalidInput, "%s requires %q", tool, arg)
}

func unknownResource(uri string) error {
	return errors.Newf(errors.ErrNotFound, "unknown resource: %s", uri)
}

func unescape(uri, s string) (string, error) {
	out, err := url.PathUnescape(s)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "invalid resource: %s", uri)
	}
	return out, nil
}
