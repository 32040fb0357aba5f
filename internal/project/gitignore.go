package project

import (
	"path/filepath"
	"strings"

	"projio/internal/gitignore"
	"projio/internal/logger"
	"projio/internal/tree"
)

// AppendGitignore makes sure entries are listed in the managed ignore file.
// It reports whether the file changed. Nothing is written when management is
// off or in dry-run mode.
func (p *ProjectIO) AppendGitignore(entries ...string) (bool, error) {
	path := p.GitignorePath()
	if path == "" {
		return false, nil
	}
	return gitignore.Append(path, entries, p.DryRun())
}

// EnsureGitignored ignores the directories of the given kinds, written
// relative to the ignore file's directory. Kinds outside that directory are
// skipped.
func (p *ProjectIO) EnsureGitignored(kinds ...string) (bool, error) {
	path := p.GitignorePath()
	if path == "" {
		return false, nil
	}
	anchor := filepath.Dir(path)
	var entries []string
	for _, kind := range kinds {
		dir, err := p.Dir(kind)
		if err != nil {
			return false, err
		}
		rel, err := filepath.Rel(anchor, dir)
		if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			logger.Logger.Warnw("not ignoring directory outside the gitignore root", "kind", kind, "dir", dir)
			continue
		}
		entries = append(entries, filepath.ToSlash(rel)+"/")
	}
	return p.AppendGitignore(entries...)
}

// Tree renders dir (the project root when empty) as a text tree.
func (p *ProjectIO) Tree(dir string, maxDepth int, files bool) string {
	if dir == "" {
		dir = p.Root()
	}
	return tree.Render(dir, maxDepth, files)
}
