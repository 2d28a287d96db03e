package paths

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/envrender/pkg/errors"
	"github.com/arthur-debert/envrender/pkg/logging"
)

const (
	// EnvRoot is the environment variable naming the working root
	EnvRoot = "ENVRENDER_ROOT"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Source records how the working root was determined
type Source string

const (
	SourceExplicit Source = "explicit"
	SourceEnv      Source = "env"
	SourceGit      Source = "git"
	SourceCwd      Source = "cwd"
)

// Paths holds the resolved working root
type Paths struct {
	root   string
	source Source
}

// New resolves the working root. A non-empty root is used as given;
// otherwise ENVRENDER_ROOT, the git toplevel and the current directory are
// tried in that order. The result is always absolute.
func New(root string) (*Paths, error) {
	logger := logging.GetLogger("paths")
	p := &Paths{}

	if root != "" {
		p.root = expandHome(root)
		p.source = SourceExplicit
	} else {
		found, source, err := findRoot()
		if err != nil {
			return nil, err
		}
		p.root = found
		p.source = source
	}

	absRoot, err := filepath.Abs(p.root)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for root %s", p.root)
	}
	p.root = absRoot

	logger.Debug().Str("root", p.root).Str("source", string(p.source)).Msg("Resolved working root")

	return p, nil
}

// Root returns the absolute working root
func (p *Paths) Root() string {
	return p.root
}

// Source returns how the root was determined
func (p *Paths) Source() Source {
	return p.source
}

// UsedFallback reports whether the current directory was used because
// nothing else identified a root
func (p *Paths) UsedFallback() bool {
	return p.source == SourceCwd
}

// Resolve joins a relative path onto the root. Absolute paths are returned
// cleaned but otherwise unchanged.
func (p *Paths) Resolve(path string) string {
	path = expandHome(path)
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(p.root, path)
}

func findRoot() (string, Source, error) {
	if root := os.Getenv(EnvRoot); root != "" {
		return expandHome(root), SourceEnv, nil
	}

	if gitRoot, err := findGitRoot(); err == nil && gitRoot != "" {
		return gitRoot, SourceGit, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", "", errors.Wrap(err, errors.ErrFileAccess, "failed to get current directory")
	}
	return cwd, SourceCwd, nil
}

// findGitRoot attempts to find the root of the current git repository
func findGitRoot() (string, error) {
	logger := logging.GetLogger("paths")

	output, err := exec.Command("git", "rev-parse", "--show-toplevel").Output()
	if err != nil {
		// Not in a git repo or git not installed
		logger.Trace().Err(err).Msg("git root lookup failed")
		return "", err
	}

	gitRoot := strings.TrimSpace(string(output))
	if gitRoot == "" {
		return "", errors.New(errors.ErrNotFound, "git root is empty")
	}
	return gitRoot, nil
}

// expandHome expands a leading ~ to the home directory
func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return path
		}
	}

	if len(path) == 1 {
		return homeDir
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}

	// ~user forms are left alone
	return path
}
