package fsutil

import "strings"

// ManagedMarker opens every block projio appends to a user-owned text file.
const ManagedMarker = "# managed by projio"

// IsManagedText reports whether text already carries the projio marker line.
func IsManagedText(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == ManagedMarker {
			return true
		}
	}
	return false
}
