// Package callbacks gives training loops stable checkpoint and log
// locations derived from a ProjectIO.
package callbacks

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"projio/internal/project"
)

// DefaultCheckpointFilename names checkpoints by epoch and global step.
const DefaultCheckpointFilename = "{epoch:02d}-{step:06d}"

// CheckpointCallback derives checkpoint paths for one run. A nil IO uses the
// shared default project.
type CheckpointCallback struct {
	IO  *project.ProjectIO
	Run string
	// Datestamp overrides the project setting when non-nil.
	Datestamp *bool
	// Filename is the checkpoint name pattern; see FormatFilename.
	Filename string
	// TrackProducer records every checkpoint path in the project ledger.
	TrackProducer bool
}

func (c *CheckpointCallback) io() (*project.ProjectIO, error) {
	if c.IO != nil {
		return c.IO, nil
	}
	p, err := project.Default()
	if err != nil {
		return nil, err
	}
	c.IO = p
	return p, nil
}

// Dir returns the directory checkpoints of this run are written to.
func (c *CheckpointCallback) Dir() (string, error) {
	p, err := c.io()
	if err != nil {
		return "", err
	}
	return p.CheckpointDir(c.Run, project.PathOptions{Datestamp: c.Datestamp})
}

// Path returns the checkpoint file for the given epoch and step.
func (c *CheckpointCallback) Path(epoch, step int) (string, error) {
	p, err := c.io()
	if err != nil {
		return "", err
	}
	pattern := c.Filename
	if pattern == "" {
		pattern = DefaultCheckpointFilename
	}
	name, err := FormatFilename(pattern, map[string]int{"epoch": epoch, "step": step})
	if err != nil {
		return "", err
	}
	path, err := p.CheckpointPath(name, c.Run, project.PathOptions{Datestamp: c.Datestamp})
	if err != nil {
		return "", err
	}
	if c.TrackProducer {
		if _, err := p.TrackProducer(path, "", "checkpoint", c.Run); err != nil {
			return "", err
		}
	}
	return path, nil
}

// LogCallback derives the tensorboard directory for one run.
type LogCallback struct {
	IO        *project.ProjectIO
	Run       string
	Datestamp *bool
}

// Dir returns the tensorboard log directory, created when the project
// auto-creates.
func (c *LogCallback) Dir() (string, error) {
	p := c.IO
	if p == nil {
		var err error
		if p, err = project.Default(); err != nil {
			return "", err
		}
		c.IO = p
	}
	return p.TensorboardRun(c.Run, project.PathOptions{Datestamp: c.Datestamp})
}

var fieldPattern = regexp.MustCompile(`\{(\w+)(?::(0?)(\d*)d)?\}`)

// FormatFilename fills {name} and {name:0Nd} fields from values. {name:Nd}
// pads with spaces. Unknown fields are an error.
func FormatFilename(pattern string, values map[string]int) (string, error) {
	var missing string
	out := fieldPattern.ReplaceAllStringFunc(pattern, func(field string) string {
		m := fieldPattern.FindStringSubmatch(field)
		v, ok := values[m[1]]
		if !ok {
			if missing == "" {
				missing = m[1]
			}
			return field
		}
		text := strconv.Itoa(v)
		width, _ := strconv.Atoi(m[3])
		if pad := width - len(text); pad > 0 {
			fill := " "
			if m[2] == "0" {
				fill = "0"
			}
			if fill == "0" && v < 0 {
				return "-" + strings.Repeat("0", pad) + text[1:]
			}
			return strings.Repeat(fill, pad) + text
		}
		return text
	})
	if missing != "" {
		return "", errors.Newf("CB_FILENAME: unknown field {%s} in %q", missing, pattern)
	}
	return out, nil
}
