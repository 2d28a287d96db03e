package render

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/arthur-debert/envrender/pkg/env"
	"github.com/arthur-debert/envrender/pkg/errors"
	"github.com/arthur-debert/envrender/pkg/filesystem"
	"github.com/arthur-debert/envrender/pkg/logging"
	"github.com/arthur-debert/envrender/pkg/registry"
	tmpl "github.com/arthur-debert/envrender/pkg/render"
)

const (
	dirPerm  = 0755
	filePerm = 0644
)

// RenderOptions defines the options for the Render command.
type RenderOptions struct {
	// Root is the absolute working root.
	Root string
	// EnvFile is the environment file to load. A missing file is ignored.
	EnvFile string
	// Bindings are processed in order.
	Bindings []registry.Binding
	// AllowMissing keeps unresolved placeholders and downgrades the failure
	// to a warning.
	AllowMissing bool
	// DryRun keeps rendered content in the result instead of writing it.
	DryRun bool
	// Environ is the inherited environment (defaults to os.Environ()).
	Environ []string
	// FileSystem is the filesystem to use (optional, defaults to OS filesystem)
	FileSystem filesystem.FS
}

// BindingResult describes what happened to one binding.
type BindingResult struct {
	registry.Binding
	// Content is the rendered text. It is only kept for dry runs.
	Content string   `json:"content,omitempty"`
	Missing []string `json:"missing"`
	Written bool     `json:"written"`
}

// RenderResult is the outcome of a render run.
type RenderResult struct {
	Command      string          `json:"command"`
	Timestamp    time.Time       `json:"timestamp"`
	Root         string          `json:"root"`
	EnvFile      string          `json:"env_file,omitempty"`
	DryRun       bool            `json:"dry_run"`
	AllowMissing bool            `json:"allow_missing"`
	Bindings     []BindingResult `json:"bindings"`
	Missing      []string        `json:"missing"`
}

// EnvFileLoaded reports whether an environment file contributed values.
func (r *RenderResult) EnvFileLoaded() bool {
	return r.EnvFile != ""
}

// HasWarning reports whether placeholders were left unsubstituted under
// allow-missing.
func (r *RenderResult) HasWarning() bool {
	return r.AllowMissing && len(r.Missing) > 0
}

// Render processes every binding and returns the result. The result is
// non-nil even when an error is returned, and holds the bindings processed
// before the failure.
func Render(opts RenderOptions) (*RenderResult, error) {
	log := logging.GetLogger("commands.render")
	done := logging.LogOperationStart(log, "render")
	defer done()

	fs := opts.FileSystem
	if fs == nil {
		fs = filesystem.NewOS()
	}

	result := &RenderResult{
		Command:      "render",
		Timestamp:    time.Now(),
		Root:         opts.Root,
		DryRun:       opts.DryRun,
		AllowMissing: opts.AllowMissing,
		Bindings:     []BindingResult{},
		Missing:      []string{},
	}

	snapshot, loaded, err := env.Load(fs, opts.Environ, opts.EnvFile)
	if err != nil {
		return result, err
	}
	if loaded {
		result.EnvFile = opts.EnvFile
	}

	log.Debug().
		Str("root", opts.Root).
		Bool("env_file_loaded", loaded).
		Int("variables", snapshot.Len()).
		Int("bindings", len(opts.Bindings)).
		Bool("dry_run", opts.DryRun).
		Bool("allow_missing", opts.AllowMissing).
		Msg("Starting render")

	renderer := tmpl.New(snapshot, tmpl.WithAllowMissing(opts.AllowMissing))
	allMissing := make(map[string]struct{})

	for i, binding := range opts.Bindings {
		if _, err := fs.Stat(binding.Template); err != nil {
			if os.IsNotExist(err) {
				return result, errors.Newf(errors.ErrTemplateNotFound, "Template not found: %s", binding.Template).
					WithDetail("template", binding.Template).
					WithDetail("index", i)
			}
			return result, errors.Wrapf(err, errors.ErrFileAccess, "failed to access template %s", binding.Template)
		}

		data, err := fs.ReadFile(binding.Template)
		if err != nil {
			return result, errors.Wrapf(err, errors.ErrFileRead, "failed to read template %s", binding.Template)
		}

		rendered := renderer.Render(string(data))
		missing := renderer.Missing()
		renderer.ClearMissing()
		for _, name := range missing {
			allMissing[name] = struct{}{}
		}

		br := BindingResult{Binding: binding, Missing: missing}

		if opts.DryRun {
			br.Content = rendered
		} else {
			if err := writeOutput(fs, binding.Output, rendered); err != nil {
				return result, err
			}
			br.Written = true
		}

		log.Debug().
			Str("template", binding.Template).
			Str("output", binding.Output).
			Strs("missing", missing).
			Bool("written", br.Written).
			Msg("Binding rendered")

		result.Bindings = append(result.Bindings, br)
	}

	result.Missing = sortedNames(allMissing)

	if len(result.Missing) > 0 && !opts.AllowMissing {
		return result, errors.Newf(errors.ErrMissingVariables,
			"Missing environment variables: %s", strings.Join(result.Missing, ", ")).
			WithDetail("missing", result.Missing)
	}

	return result, nil
}

func writeOutput(fs filesystem.FS, path, content string) error {
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, dirPerm); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create directory %s", dir)
	}
	if err := fs.WriteFile(path, []byte(content), filePerm); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", path)
	}
	return nil
}

func sortedNames(set map[string]struct{}) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
