// Package pathutil normalizes user-supplied paths and file names.
package pathutil

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

// ExpandHome replaces a leading "~" with the current user's home directory.
// Other "~user" forms are returned unchanged.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, "~"+string(filepath.Separator)) {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "PATH_HOME")
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}

// Normalize resolves path against base and returns an absolute path.
//
// An empty path yields base, or the working directory when base is empty too.
// Absolute paths (after home expansion) ignore base. Nothing is created.
func Normalize(path, base string) (string, error) {
	resolvedBase, err := absBase(base)
	if err != nil {
		return "", err
	}
	if path == "" {
		return resolvedBase, nil
	}
	expanded, err := ExpandHome(path)
	if err != nil {
		return "", err
	}
	if filepath.IsAbs(expanded) {
		return filepath.Clean(expanded), nil
	}
	return filepath.Join(resolvedBase, expanded), nil
}

func absBase(base string) (string, error) {
	if base == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", errors.Wrap(err, "PATH_CWD")
		}
		return cwd, nil
	}
	expanded, err := ExpandHome(base)
	if err != nil {
		return "", err
	}
	if filepath.IsAbs(expanded) {
		return filepath.Clean(expanded), nil
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", errors.Wrap(err, "PATH_CWD")
	}
	return abs, nil
}

// EnsureExtension makes name end with exactly one ext, replacing any existing
// final extension. An empty ext leaves name alone; "ckpt" and ".ckpt" are
// equivalent.
func EnsureExtension(name, ext string) string {
	if ext == "" {
		return name
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if strings.HasSuffix(name, ext) {
		return name
	}
	return StripExtension(name) + ext
}

// StripExtension drops the text after the last dot of the final path
// element. Leading-dot names such as ".env" have no extension.
func StripExtension(name string) string {
	dir, file := splitLast(name)
	i := strings.LastIndex(file, ".")
	if i <= 0 {
		return name
	}
	return dir + file[:i]
}

func splitLast(name string) (string, string) {
	i := strings.LastIndexAny(name, `/`+string(filepath.Separator))
	if i < 0 {
		return "", name
	}
	return name[:i+1], name[i+1:]
}

// HasSeparator reports whether s contains a path separator.
func HasSeparator(s string) bool {
	return strings.ContainsRune(s, '/') || strings.ContainsRune(s, filepath.Separator)
}
