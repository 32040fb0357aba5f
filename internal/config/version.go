package config

import (
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/mod/semver"
)

// Set at build time via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func canonical(v string) string {
	v = strings.TrimSpace(v)
	if v != "" && !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}

// CheckRequires fails when the running binary is older than requires.
// Development builds satisfy every requirement.
func CheckRequires(requires string) error {
	if requires == "" {
		return nil
	}
	want := canonical(requires)
	if !semver.IsValid(want) {
		return errors.Newf("CFG_REQUIRES: invalid version %q", requires)
	}
	have := canonical(Version)
	if !semver.IsValid(have) {
		return nil
	}
	if semver.Compare(have, want) < 0 {
		return errors.WithHint(
			errors.Newf("CFG_REQUIRES: project requires projio %s, running %s", want, have),
			"upgrade projio or lower `requires` in .projio/config.toml")
	}
	return nil
}
