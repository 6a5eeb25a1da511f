// Package xml renders results as XML documents. Analysis reports use the
// checkstyle layout understood by CI annotation tools; other results become
// plain element trees.
package xml

import (
	"io"

	"github.com/arthur-debert/rulebook/pkg/errors"
	"github.com/arthur-debert/rulebook/pkg/types"
	"github.com/beevik/etree"
)

// CheckstyleVersion is written on the root element of analysis reports
const CheckstyleVersion = "4.3"

// Renderer provides XML output
type Renderer struct {
	output io.Writer
	// File names the analyzed input in checkstyle reports
	File string
}

// New creates a new XML renderer
func New(output io.Writer) (*Renderer, error) {
	return &Renderer{output: output, File: "input"}, nil
}

// RenderResult renders any result type as an XML document
func (r *Renderer) RenderResult(result interface{}) error {
	doc := newDocument()

	switch v := result.(type) {
	case []string:
		root := doc.CreateElement("types")
		for _, s := range v {
			root.CreateElement("type").SetText(s)
		}
	case *types.RuleSet:
		root := doc.CreateElement("rules")
		root.CreateAttr("category", v.Category)
		for _, rule := range v.Rules {
			addRule(root, rule)
		}
	case types.Rule:
		addRule(&doc.Element, v)
	case types.SearchReport:
		root := doc.CreateElement("search")
		for _, category := range v.Categories() {
			el := root.CreateElement("category")
			el.CreateAttr("name", category)
			for _, rule := range v[category] {
				addRule(el, rule)
			}
		}
	case types.AnalysisReport:
		r.checkstyle(doc, v)
	case types.TemplateListing:
		root := doc.CreateElement("templates")
		for _, lang := range v.Languages() {
			el := root.CreateElement("language")
			el.CreateAttr("name", lang)
			for _, name := range v[lang] {
				el.CreateElement("template").SetText(name)
			}
		}
	case *types.TemplateContent:
		el := doc.CreateElement("template")
		el.CreateAttr("name", v.Name)
		el.CreateCData(v.Content)
	case types.Examples:
		root := doc.CreateElement("examples")
		for _, key := range v.Keys() {
			el := root.CreateElement("example")
			el.CreateAttr("name", key)
			el.CreateCData(v[key])
		}
	case types.MessageReport:
		doc.CreateElement("message").SetText(v.Message)
	case types.ErrorReport:
		addErrorReport(doc, v)
	default:
		return errors.Newf(errors.ErrInternal, "cannot render %T as XML", result)
	}

	return r.write(doc)
}

// RenderError renders an error as its error report
func (r *Renderer) RenderError(err error) error {
	doc := newDocument()
	addErrorReport(doc, types.NewErrorReport(err))
	return r.write(doc)
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	doc := newDocument()
	doc.CreateElement("message").SetText(msg)
	return r.write(doc)
}

// checkstyle writes one <error> per match, with source category/rule
func (r *Renderer) checkstyle(doc *etree.Document, report types.AnalysisReport) {
	root := doc.CreateElement("checkstyle")
	root.CreateAttr("version", CheckstyleVersion)
	file := root.CreateElement("file")
	file.CreateAttr("name", r.File)
	for _, category := range report.Categories() {
		for _, m := range report[category] {
			el := file.CreateElement("error")
			el.CreateAttr("severity", checkstyleSeverity(m.Severity))
			el.CreateAttr("message", m.Message)
			el.CreateAttr("source", category+"/"+m.Name)
		}
	}
}

// checkstyleSeverity maps rule severities onto error, warning and info
func checkstyleSeverity(severity string) string {
	switch severity {
	case "critical", "high", "error":
		return "error"
	case "medium", "warning":
		return "warning"
	default:
		return "info"
	}
}

func addRule(parent *etree.Element, rule types.Rule) {
	el := parent.CreateElement("rule")
	el.CreateAttr("name", rule.Name)
	el.CreateAttr("severity", rule.Severity)
	el.CreateElement("message").SetText(rule.Message)
	if rule.Pattern != "" {
		el.CreateElement("pattern").SetText(rule.Pattern)
	}
}

func addErrorReport(doc *etree.Document, report types.ErrorReport) {
	root := doc.CreateElement("error")
	if report.Code != "" {
		root.CreateAttr("code", report.Code)
	}
	root.CreateElement("message").SetText(report.Error)
	for _, s := range report.Suggestions {
		root.CreateElement("suggestion").SetText(s)
	}
	for _, t := range report.AvailableTypes {
		root.CreateElement("available-type").SetText(t)
	}
}

func newDocument() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	return doc
}

func (r *Renderer) write(doc *etree.Document) error {
	doc.Indent(2)
	_, err := doc.WriteTo(r.output)
	return err
}
