// Package json renders results as the JSON reports transports return
package json

import (
	"encoding/json"
	"io"

	"github.com/arthur-debert/rulebook/pkg/types"
)

// Renderer provides JSON output for machine consumption
type Renderer struct {
	output  io.Writer
	encoder *json.Encoder
}

// New creates a new JSON renderer
func New(output io.Writer) (*Renderer, error) {
	encoder := json.NewEncoder(output)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return &Renderer{
		output:  output,
		encoder: encoder,
	}, nil
}

// RenderResult renders any result type as JSON. Template contents are
// written as their raw text.
func (r *Renderer) RenderResult(result interface{}) error {
	if tmpl, ok := result.(*types.TemplateContent); ok {
		return r.encoder.Encode(tmpl.Content)
	}
	return r.encoder.Encode(result)
}

// RenderError renders an error as its error report
func (r *Renderer) RenderError(err error) error {
	return r.encoder.Encode(types.NewErrorReport(err))
}

// RenderMessage renders a simple message as JSON
func (r *Renderer) RenderMessage(msg string) error {
	return r.encoder.Encode(types.MessageReport{Message: msg})
}
