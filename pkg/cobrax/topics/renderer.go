package topics

// Renderer formats content given its file extension
type Renderer interface {
	Render(content string, format string) string
}

// PlainRenderer returns content as-is
type PlainRenderer struct{}

// Render returns content unchanged
func (r *PlainRenderer) Render(content string, format string) string {
	return content
}
