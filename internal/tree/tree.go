// Package tree renders a directory as an indented text tree.
package tree

import (
	"os"
	"path/filepath"
	"strings"

	"projio/internal/logger"
)

// DefaultDepth is used when Render is given a non-positive depth.
const DefaultDepth = 3

const (
	branch = "├── "
	last   = "└── "
	pipe   = "│   "
	blank  = "    "
)

// Render draws dir and its children down to maxDepth levels. Directories are
// suffixed with "/"; plain files are listed only when files is true. A
// directory that does not exist renders as its bare name.
//
//	outputs/
//	├── cache/
//	└── lightning/
//	    └── checkpoints/
func Render(dir string, maxDepth int, files bool) string {
	if maxDepth <= 0 {
		maxDepth = DefaultDepth
	}
	name := filepath.Base(filepath.Clean(dir))
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return name
	}

	var b strings.Builder
	b.WriteString(name)
	b.WriteString("/")
	walk(&b, dir, "", 1, maxDepth, files)
	return b.String()
}

func walk(b *strings.Builder, dir, prefix string, depth, maxDepth int, files bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Logger.Debugw("tree: unreadable directory", "dir", dir, "error", err)
		return
	}
	shown := entries[:0]
	for _, e := range entries {
		if e.IsDir() || files {
			shown = append(shown, e)
		}
	}
	for i, e := range shown {
		connector, indent := branch, pipe
		if i == len(shown)-1 {
			connector, indent = last, blank
		}
		b.WriteString("\n")
		b.WriteString(prefix)
		b.WriteString(connector)
		b.WriteString(e.Name())
		if e.IsDir() {
			b.WriteString("/")
			if depth < maxDepth {
				walk(b, filepath.Join(dir, e.Name()), prefix+indent, depth+1, maxDepth, files)
			}
		}
	}
}
