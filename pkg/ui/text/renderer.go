// Package text provides plain text output without any styling
package text

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/rulebook/pkg/types"
)

// Renderer provides plain text output without colors or styling
type Renderer struct {
	output io.Writer
}

// New creates a new text renderer
func New(output io.Writer) (*Renderer, error) {
	return &Renderer{output: output}, nil
}

// RenderResult renders any result type as plain text
func (r *Renderer) RenderResult(result interface{}) error {
	var b strings.Builder

	switch v := result.(type) {
	case []string:
		for _, s := range v {
			b.WriteString(s + "\n")
		}
	case *types.RuleSet:
		writeRules(&b, v.Rules)
	case types.Rule:
		writeRule(&b, v)
	case types.SearchReport:
		if len(v) == 0 {
			b.WriteString("No matching rules\n")
		}
		for _, category := range v.Categories() {
			fmt.Fprintf(&b, "%s (%d)\n", category, len(v[category]))
			writeRules(&b, v[category])
		}
	case types.AnalysisReport:
		if len(v) == 0 {
			b.WriteString("No issues found\n")
		}
		for _, category := range v.Categories() {
			fmt.Fprintf(&b, "%s (%d)\n", category, len(v[category]))
			for _, m := range v[category] {
				fmt.Fprintf(&b, "  [%s] %s: %s\n", m.Severity, m.Name, m.Message)
			}
		}
	case types.TemplateListing:
		for _, lang := range v.Languages() {
			fmt.Fprintf(&b, "%s:\n", lang)
			for _, name := range v[lang] {
				fmt.Fprintf(&b, "  %s\n", name)
			}
		}
	case *types.TemplateContent:
		b.WriteString(v.Content)
	case types.Examples:
		for _, key := range v.Keys() {
			fmt.Fprintf(&b, "==> %s <==\n%s\n", key, strings.TrimRight(v[key], "\n"))
		}
	case types.MessageReport:
		b.WriteString(v.Message + "\n")
	case types.ErrorReport:
		writeErrorReport(&b, v)
	default:
		fmt.Fprintf(&b, "%+v\n", result)
	}

	_, err := io.WriteString(r.output, b.String())
	return err
}

// RenderError renders an error as plain text
func (r *Renderer) RenderError(err error) error {
	var b strings.Builder
	writeErrorReport(&b, types.NewErrorReport(err))
	_, werr := io.WriteString(r.output, b.String())
	return werr
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}

func writeRules(b *strings.Builder, rules []types.Rule) {
	for _, rule := range rules {
		fmt.Fprintf(b, "  %-8s %s: %s\n", rule.Severity, rule.Name, rule.Message)
	}
}

func writeRule(b *strings.Builder, rule types.Rule) {
	fmt.Fprintf(b, "name:     %s\n", rule.Name)
	fmt.Fprintf(b, "severity: %s\n", rule.Severity)
	fmt.Fprintf(b, "message:  %s\n", rule.Message)
	if rule.Pattern != "" {
		fmt.Fprintf(b, "pattern:  %s\n", rule.Pattern)
	}
}

func writeErrorReport(b *strings.Builder, report types.ErrorReport) {
	fmt.Fprintf(b, "Error: %s\n", report.Error)
	if len(report.Suggestions) > 0 {
		fmt.Fprintf(b, "Did you mean: %s\n", strings.Join(report.Suggestions, ", "))
	}
	if len(report.AvailableTypes) > 0 {
		fmt.Fprintf(b, "Available types: %s\n", strings.Join(report.AvailableTypes, ", "))
	}
}
