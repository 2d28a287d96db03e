// Package output prints command results as plain text, styled terminal
// output or JSON. Rendered template content is always written verbatim.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/envrender/pkg/commands/placeholders"
	"github.com/arthur-debert/envrender/pkg/commands/render"
	"github.com/arthur-debert/envrender/pkg/errors"
	"github.com/arthur-debert/envrender/pkg/logging"
	"github.com/arthur-debert/envrender/pkg/output/styles"
)

// Printer writes results to out and diagnostics to errOut
type Printer struct {
	out    io.Writer
	errOut io.Writer
	format Format
}

// NewPrinter creates a printer. FormatAuto is resolved against out.
func NewPrinter(out, errOut io.Writer, format Format) *Printer {
	resolved := Resolve(format, out)
	logger := logging.GetLogger("output")
	logger.Debug().
		Str("requested", format.String()).
		Str("format", resolved.String()).
		Msg("Output format resolved")

	return &Printer{out: out, errOut: errOut, format: resolved}
}

// Format returns the resolved output format
func (p *Printer) Format() Format {
	return p.format
}

func (p *Printer) style(name, text string) string {
	if p.format != FormatTerminal {
		return text
	}
	return styles.GetStyle(name).Render(text)
}

// RenderResult prints the outcome of a render run. A warning for
// unsubstituted placeholders is written to errOut.
func (p *Printer) RenderResult(result *render.RenderResult) error {
	if result == nil {
		return nil
	}

	if p.format == FormatJSON {
		if err := p.writeJSON(result); err != nil {
			return err
		}
	} else {
		p.renderText(result)
	}

	if result.HasWarning() {
		p.Warning(result.Missing)
	}
	return nil
}

func (p *Printer) renderText(result *render.RenderResult) {
	if result.EnvFileLoaded() {
		fmt.Fprintf(p.out, "%s %s\n", p.style("Label", "Loaded environment from:"), p.style("FilePath", result.EnvFile))
	}

	for _, b := range result.Bindings {
		if result.DryRun {
			header := fmt.Sprintf("=== %s ===", b.Output)
			fmt.Fprintf(p.out, "%s\n%s\n\n", p.style("Header", header), b.Content)
			continue
		}
		if b.Written {
			fmt.Fprintf(p.out, "%s %s\n", p.style("Success", "Rendered:"), p.style("FilePath", b.Output))
		}
	}
}

// Placeholders prints the placeholders found in each binding's template
func (p *Printer) Placeholders(result *placeholders.ListResult) error {
	if result == nil {
		return nil
	}
	if p.format == FormatJSON {
		return p.writeJSON(result)
	}

	if result.EnvFile != "" {
		fmt.Fprintf(p.out, "%s %s\n", p.style("Label", "Loaded environment from:"), p.style("FilePath", result.EnvFile))
	}

	for _, b := range result.Bindings {
		fmt.Fprintln(p.out, p.style("Header", b.Template))
		if !b.Exists {
			fmt.Fprintf(p.out, "  %s\n", p.style("Muted", "(template not found)"))
			continue
		}
		if len(b.Placeholders) == 0 {
			fmt.Fprintf(p.out, "  %s\n", p.style("Muted", "(no placeholders)"))
			continue
		}
		for _, ph := range b.Placeholders {
			if ph.Resolved {
				fmt.Fprintf(p.out, "  %s %s\n", ph.Name, p.style("Resolved", "set"))
			} else {
				fmt.Fprintf(p.out, "  %s %s\n", ph.Name, p.style("Unresolved", "missing"))
			}
		}
	}
	return nil
}

// Error prints err to errOut. Missing variables are separated from the
// preceding output by a blank line.
func (p *Printer) Error(err error) {
	if err == nil {
		return
	}
	prefix := ""
	if errors.IsErrorCode(err, errors.ErrMissingVariables) {
		prefix = "\n"
	}
	fmt.Fprintf(p.errOut, "%s%s %s\n", prefix, p.style("Error", "Error:"), errors.GetErrorMessage(err))
}

// Warning reports placeholders that were kept unsubstituted
func (p *Printer) Warning(names []string) {
	if len(names) == 0 {
		return
	}
	fmt.Fprintf(p.errOut, "\n%s Some placeholders were not substituted: %s\n",
		p.style("Warning", "Warning:"), strings.Join(names, ", "))
}

func (p *Printer) writeJSON(v interface{}) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to encode JSON output")
	}
	return nil
}
