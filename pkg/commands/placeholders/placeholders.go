// Package placeholders implements the placeholders command, which reports
// the variables each template references and whether they resolve.
package placeholders

import (
	"os"

	"github.com/arthur-debert/envrender/pkg/env"
	"github.com/arthur-debert/envrender/pkg/errors"
	"github.com/arthur-debert/envrender/pkg/filesystem"
	"github.com/arthur-debert/envrender/pkg/logging"
	"github.com/arthur-debert/envrender/pkg/registry"
	"github.com/arthur-debert/envrender/pkg/render"
)

// ListOptions defines the options for the ListPlaceholders command.
type ListOptions struct {
	// EnvFile is the environment file to load. A missing file is ignored.
	EnvFile string
	// Bindings are inspected in order.
	Bindings []registry.Binding
	// Environ is the inherited environment (defaults to os.Environ()).
	Environ []string
	// FileSystem is the filesystem to use (optional, defaults to OS filesystem)
	FileSystem filesystem.FS
}

// Placeholder is one referenced variable
type Placeholder struct {
	Name     string `json:"name"`
	Resolved bool   `json:"resolved"`
}

// BindingPlaceholders lists the placeholders of one template
type BindingPlaceholders struct {
	registry.Binding
	Exists       bool          `json:"exists"`
	Placeholders []Placeholder `json:"placeholders"`
}

// ListResult is the outcome of ListPlaceholders
type ListResult struct {
	Command  string                `json:"command"`
	EnvFile  string                `json:"env_file,omitempty"`
	Bindings []BindingPlaceholders `json:"bindings"`
}

// Unresolved returns the number of placeholders without a value across all
// bindings, counting a name once per binding
func (r *ListResult) Unresolved() int {
	count := 0
	for _, b := range r.Bindings {
		for _, p := range b.Placeholders {
			if !p.Resolved {
				count++
			}
		}
	}
	return count
}

// ListPlaceholders inspects every binding without writing anything. A missing
// template is reported on its binding rather than treated as fatal.
func ListPlaceholders(opts ListOptions) (*ListResult, error) {
	log := logging.GetLogger("commands.placeholders")

	fs := opts.FileSystem
	if fs == nil {
		fs = filesystem.NewOS()
	}

	snapshot, loaded, err := env.Load(fs, opts.Environ, opts.EnvFile)
	if err != nil {
		return nil, err
	}

	result := &ListResult{
		Command:  "placeholders",
		Bindings: make([]BindingPlaceholders, 0, len(opts.Bindings)),
	}
	if loaded {
		result.EnvFile = opts.EnvFile
	}

	for _, binding := range opts.Bindings {
		bp := BindingPlaceholders{Binding: binding, Placeholders: []Placeholder{}}

		data, err := fs.ReadFile(binding.Template)
		switch {
		case os.IsNotExist(err):
			log.Debug().Str("template", binding.Template).Msg("Template not found")
		case err != nil:
			return nil, errors.Wrapf(err, errors.ErrFileRead, "failed to read template %s", binding.Template)
		default:
			bp.Exists = true
			for _, name := range render.FindPlaceholders(string(data)) {
				_, ok := snapshot.Lookup(name)
				bp.Placeholders = append(bp.Placeholders, Placeholder{Name: name, Resolved: ok})
			}
		}

		result.Bindings = append(result.Bindings, bp)
	}

	return result, nil
}
