// Package terminal provides rich terminal output with colors and styling
package terminal

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/rulebook/pkg/cobrax/topics"
	"github.com/arthur-debert/rulebook/pkg/types"
	"github.com/arthur-debert/rulebook/pkg/ui/styles"
	"github.com/pterm/pterm"
)

// Renderer renders results with lipgloss styles, pterm tables and glamour
// for markdown templates
type Renderer struct {
	output   io.Writer
	styles   *styles.Registry
	markdown *topics.GlamourRenderer
}

// New creates a new terminal renderer
func New(w io.Writer) (*Renderer, error) {
	return &Renderer{
		output:   w,
		styles:   styles.Default(),
		markdown: topics.NewGlamourRenderer(),
	}, nil
}

// RenderResult renders any result type with rich terminal formatting
func (r *Renderer) RenderResult(result interface{}) error {
	var b strings.Builder

	switch v := result.(type) {
	case []string:
		b.WriteString(r.styles.Render("Header", "Rule types") + "\n")
		for _, s := range v {
			fmt.Fprintf(&b, "  • %s\n", s)
		}
	case *types.RuleSet:
		b.WriteString(r.styles.Render("Header", v.Category) + "\n")
		table, err := r.ruleTable(v.Rules)
		if err != nil {
			return err
		}
		b.WriteString(table)
	case types.Rule:
		b.WriteString(r.rule(v))
	case types.SearchReport:
		if len(v) == 0 {
			b.WriteString(r.styles.Render("Muted", "No matching rules") + "\n")
		}
		for _, category := range v.Categories() {
			b.WriteString(r.styles.Render("Header", fmt.Sprintf("%s (%d)", category, len(v[category]))) + "\n")
			table, err := r.ruleTable(v[category])
			if err != nil {
				return err
			}
			b.WriteString(table)
		}
	case types.AnalysisReport:
		r.analysis(&b, v)
	case types.TemplateListing:
		for _, lang := range v.Languages() {
			b.WriteString(r.styles.Render("Category", lang) + "\n")
			if len(v[lang]) == 0 {
				b.WriteString("  " + r.styles.Render("Muted", "(none)") + "\n")
			}
			for _, name := range v[lang] {
				fmt.Fprintf(&b, "  %s\n", name)
			}
		}
	case *types.TemplateContent:
		if v.IsMarkdown() {
			b.WriteString(r.markdown.Render(v.Content, ".md"))
		} else {
			b.WriteString(v.Content)
		}
	case types.Examples:
		for _, key := range v.Keys() {
			b.WriteString(r.styles.Render("Header", key) + "\n")
			b.WriteString(strings.TrimRight(v[key], "\n") + "\n")
		}
	case types.MessageReport:
		b.WriteString(pterm.Info.Sprint(v.Message) + "\n")
	case types.ErrorReport:
		r.errorReport(&b, v)
	default:
		fmt.Fprintf(&b, "%+v\n", result)
	}

	_, err := io.WriteString(r.output, b.String())
	return err
}

// RenderError renders an error with appropriate formatting
func (r *Renderer) RenderError(err error) error {
	var b strings.Builder
	r.errorReport(&b, types.NewErrorReport(err))
	_, werr := io.WriteString(r.output, b.String())
	return werr
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, pterm.Info.Sprint(msg))
	return err
}

func (r *Renderer) ruleTable(rules []types.Rule) (string, error) {
	if len(rules) == 0 {
		return "  " + r.styles.Render("Muted", "(no rules)") + "\n", nil
	}
	data := pterm.TableData{{"Severity", "Name", "Message"}}
	for _, rule := range rules {
		data = append(data, []string{r.styles.Severity(rule.Severity), rule.Name, rule.Message})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return "", err
	}
	return table + "\n", nil
}

func (r *Renderer) rule(rule types.Rule) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", r.styles.Render("RuleName", rule.Name), r.styles.Severity(rule.Severity))
	b.WriteString("  " + rule.Message + "\n")
	if rule.Pattern != "" {
		b.WriteString("  " + r.styles.Render("Pattern", rule.Pattern) + "\n")
	}
	return b.String()
}

func (r *Renderer) analysis(b *strings.Builder, report types.AnalysisReport) {
	if len(report) == 0 {
		b.WriteString(pterm.Success.Sprint("No issues found") + "\n")
		return
	}
	for _, category := range report.Categories() {
		b.WriteString(r.styles.Render("Header", fmt.Sprintf("%s (%d)", category, len(report[category]))) + "\n")
		for _, m := range report[category] {
			fmt.Fprintf(b, "  %s %s  %s\n", r.styles.Severity(m.Severity), r.styles.Render("RuleName", m.Name), m.Message)
		}
	}
	b.WriteString(r.styles.Render("Muted", fmt.Sprintf("%d issues in %d categories", report.Total(), len(report))) + "\n")
}

func (r *Renderer) errorReport(b *strings.Builder, report types.ErrorReport) {
	b.WriteString(r.styles.Render("Error", "Error: "+report.Error) + "\n")
	if len(report.Suggestions) > 0 {
		b.WriteString("Did you mean: " + strings.Join(report.Suggestions, ", ") + "\n")
	}
	if len(report.AvailableTypes) > 0 {
		b.WriteString(r.styles.Render("Muted", "Available types: "+strings.Join(report.AvailableTypes, ", ")) + "\n")
	}
}
