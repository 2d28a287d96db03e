package output

import (
	"github.com/charmbracelet/glamour"
)

// renderMarkdown converts markdown to styled terminal output. On any glamour
// error the content is returned unchanged.
func renderMarkdown(content string, options ...glamour.TermRendererOption) string {
	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return content
	}

	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}

	return rendered
}

// Markdown prints a markdown document, styled for terminal output and
// raw otherwise
func (p *Printer) Markdown(content string) {
	if p.format != FormatTerminal {
		_, _ = p.out.Write([]byte(content))
		return
	}
	_, _ = p.out.Write([]byte(renderMarkdown(content, glamour.WithAutoStyle())))
}
