// Package ui renders query results in the format the user asked for:
// styled terminal output, plain text, JSON wire reports or XML.
package ui

import (
	"io"
	"os"

	"github.com/arthur-debert/rulebook/pkg/errors"
	"github.com/arthur-debert/rulebook/pkg/ui/json"
	"github.com/arthur-debert/rulebook/pkg/ui/terminal"
	"github.com/arthur-debert/rulebook/pkg/ui/text"
	"github.com/arthur-debert/rulebook/pkg/ui/xml"
)

// Renderer is the common interface for all output renderers
type Renderer interface {
	// RenderResult renders a query result: category lists, rule sets,
	// rules, search and analysis reports, template listings and contents,
	// examples and message or error reports
	RenderResult(result interface{}) error

	// RenderError renders an error as its error report
	RenderError(err error) error

	// RenderMessage renders a simple message
	RenderMessage(msg string) error
}

// NewRenderer creates a new renderer based on the specified format.
// It automatically detects terminal capabilities when format is Auto.
func NewRenderer(format Format, output io.Writer) (Renderer, error) {
	switch format {
	case FormatAuto:
		if file, ok := output.(*os.File); ok {
			return NewRenderer(DetectFormat(file), output)
		}
		return NewRenderer(FormatText, output)
	case FormatTerminal:
		return terminal.New(output)
	case FormatText:
		return text.New(output)
	case FormatJSON:
		return json.New(output)
	case FormatXML:
		return xml.New(output)
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown format: %v", format)
	}
}
