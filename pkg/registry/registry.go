package registry

import (
	"path/filepath"

	"github.com/arthur-debert/envrender/pkg/config"
)

// Binding pairs a template with the file it renders to. Both paths are
// absolute once returned from this package.
type Binding struct {
	Template string `json:"template"`
	Output   string `json:"output"`
}

// defaultBindings are relative to the working root and processed in order
var defaultBindings = []Binding{
	{
		Template: "plugins/savi/.mcp.template.json",
		Output:   "plugins/savi/.mcp.json",
	},
	{
		Template: "plugins/savi/archive/.mcp.template.json",
		Output:   "plugins/savi/archive/.mcp.json",
	},
}

// DefaultBindings returns the built-in bindings resolved against root
func DefaultBindings(root string) []Binding {
	bindings := make([]Binding, 0, len(defaultBindings))
	for _, b := range defaultBindings {
		bindings = append(bindings, resolve(root, b.Template, b.Output))
	}
	return bindings
}

// ListBindings returns the declared bindings resolved against root, or the
// built-in bindings when none are declared. Order is preserved.
func ListBindings(root string, declared []config.BindingConfig) []Binding {
	if len(declared) == 0 {
		return DefaultBindings(root)
	}

	bindings := make([]Binding, 0, len(declared))
	for _, d := range declared {
		bindings = append(bindings, resolve(root, d.Template, d.Output))
	}
	return bindings
}

func resolve(root, template, output string) Binding {
	return Binding{
		Template: absolute(root, template),
		Output:   absolute(root, output),
	}
}

func absolute(root, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(root, path)
}
