// Package gitignore keeps a set of entries present in a .gitignore file
// without disturbing anything the user wrote.
package gitignore

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"projio/internal/fsutil"
	"projio/internal/logger"
)

// Render returns text with every entry of entries present as its own line.
// Existing lines are kept verbatim and only missing entries are appended,
// below a single managed-marker comment. When nothing is missing the input
// is returned unchanged.
func Render(text string, entries []string) string {
	present := make(map[string]bool)
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			present[line] = true
		}
	}

	var missing []string
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" || present[e] {
			continue
		}
		present[e] = true
		missing = append(missing, e)
	}
	if len(missing) == 0 {
		return text
	}

	var b strings.Builder
	b.WriteString(text)
	if text != "" && !strings.HasSuffix(text, "\n") {
		b.WriteByte('\n')
	}
	if !fsutil.IsManagedText(text) {
		if text != "" {
			b.WriteByte('\n')
		}
		b.WriteString(fsutil.ManagedMarker)
		b.WriteByte('\n')
	}
	for _, e := range missing {
		b.WriteString(e)
		b.WriteByte('\n')
	}
	return b.String()
}

// Append renders entries into the file at path. The file is created when
// absent and rewritten only when its content changes. It reports whether a
// write happened (or would have, under dryRun).
func Append(path string, entries []string, dryRun bool) (bool, error) {
	raw, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return false, errors.Wrap(err, "GITIGNORE_READ")
	}
	current := string(raw)
	next := Render(current, entries)
	if next == current {
		return false, nil
	}
	if dryRun {
		logger.Logger.Infow("dry run: skipping gitignore update", "path", path)
		return true, nil
	}
	if err := fsutil.EnsureDir(filepath.Dir(path)); err != nil {
		return false, errors.Wrap(err, "GITIGNORE_WRITE")
	}
	if err := fsutil.AtomicWrite(path, []byte(next), fsutil.FilePerm); err != nil {
		return false, errors.Wrap(err, "GITIGNORE_WRITE")
	}
	logger.Logger.Infow("updated gitignore", "path", path)
	return true, nil
}
