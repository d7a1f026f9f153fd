// Package hostsfile owns the managed block inside a hosts file: locating it,
// replacing it with fresh records and reading/writing the file itself.
package hostsfile

import (
	"dockhosts"
)

const (
	DefaultBeginMarker = "# BEGIN DOCKER HOSTS"
	DefaultEndMarker   = "# END DOCKER HOSTS"
)

// Markers are the literal lines that delimit the managed block.
type Markers struct {
	Begin string
	End   string
}

// DefaultMarkers returns the markers used when none are configured.
func DefaultMarkers() Markers {
	return Markers{Begin: DefaultBeginMarker, End: DefaultEndMarker}
}

// Reconcile returns lines with the managed block removed and a fresh block,
// holding one line per record in the given order, appended at the end.
//
// The managed block runs from a begin marker through the first end marker
// after it, inclusive. When there is no such pair, because a marker is
// missing or the end marker comes first, nothing is removed and every
// original line is kept, marker lines included.
func Reconcile(lines []string, records []dockhosts.HostRecord, m Markers) []string {
	out := make([]string, 0, len(lines)+len(records)+2)
	if first, last, ok := blockRange(lines, m); ok {
		out = append(out, lines[:first]...)
		out = append(out, lines[last+1:]...)
	} else {
		out = append(out, lines...)
	}

	out = append(out, m.Begin)
	for _, r := range records {
		out = append(out, r.Line())
	}
	return append(out, m.End)
}

// Block returns only the managed block Reconcile would append.
func Block(records []dockhosts.HostRecord, m Markers) []string {
	return Reconcile(nil, records, m)
}

// blockRange locates the first end marker that has a begin marker before it
// and pairs it with the nearest such begin marker.
func blockRange(lines []string, m Markers) (first, last int, ok bool) {
	first = -1
	for i, line := range lines {
		switch line {
		case m.Begin:
			first = i
		case m.End:
			if first >= 0 {
				return first, i, true
			}
		}
	}
	return 0, 0, false
}
