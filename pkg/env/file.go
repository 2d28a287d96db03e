package env

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/arthur-debert/envrender/pkg/errors"
	"github.com/arthur-debert/envrender/pkg/filesystem"
	"github.com/arthur-debert/envrender/pkg/logging"
)

// Parse reads KEY=VALUE lines from r.
//
// Blank lines, '#' comments and lines without '=' are skipped silently.
// Keys and values are trimmed, and one layer of matching single or double
// quotes is removed from the value. When a key repeats, the first
// occurrence wins. Only read errors are returned.
func Parse(r io.Reader) (map[string]string, error) {
	values := make(map[string]string)

	// bufio.Reader has no line length limit, unlike bufio.Scanner
	reader := bufio.NewReader(r)
	for {
		raw, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		parseLine(values, raw)
		if err == io.EOF {
			break
		}
	}
	return values, nil
}

func parseLine(values map[string]string, raw string) {
	line := strings.TrimSpace(raw)
	if line == "" || strings.HasPrefix(line, "#") {
		return
	}

	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return
	}
	if _, seen := values[key]; seen {
		return
	}

	values[key] = unquote(strings.TrimSpace(value))
}

// unquote strips exactly one layer of matching quotes. A lone quote
// character is treated as an empty quoted value.
func unquote(value string) string {
	if value == "" {
		return value
	}
	first, last := value[0], value[len(value)-1]
	if (first != '"' && first != '\'') || first != last {
		return value
	}
	if len(value) < 2 {
		return ""
	}
	return value[1 : len(value)-1]
}

// LoadFile merges the environment file at path into base, reading through
// fsys (the OS filesystem when nil). A missing file is not an error: base is
// returned unchanged and loaded is false. Values already defined in base are
// never replaced.
func LoadFile(fsys filesystem.FS, path string, base Snapshot) (merged Snapshot, loaded bool, err error) {
	logger := logging.GetLogger("env")

	if fsys == nil {
		fsys = filesystem.NewOS()
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug().Str("path", path).Msg("No environment file")
			return base, false, nil
		}
		return base, false, errors.Wrapf(err, errors.ErrEnvFileRead, "failed to read environment file %s", path).
			WithDetail("path", path)
	}

	values, err := Parse(bytes.NewReader(data))
	if err != nil {
		return base, false, errors.Wrapf(err, errors.ErrEnvFileRead, "failed to parse environment file %s", path).
			WithDetail("path", path)
	}

	merged = base.Merge(values)

	logger.Debug().
		Str("path", path).
		Int("file_values", len(values)).
		Int("added", merged.Len()-base.Len()).
		Msg("Environment file loaded")

	return merged, true, nil
}

// Load builds the snapshot used for rendering: the inherited environ first,
// then any names the environment file at path adds. A nil environ means the
// current process environment.
func Load(fsys filesystem.FS, environ []string, path string) (Snapshot, bool, error) {
	if environ == nil {
		environ = os.Environ()
	}
	return LoadFile(fsys, path, FromEnviron(environ))
}
