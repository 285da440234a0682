package citation

import (
	"regexp"
)

// RawMatch is one well-formed citation marker found in raw assistant text.
// Start/End are byte offsets of the whole marker, [Start, End).
type RawMatch struct {
	Start    int
	End      int
	SourceID string
	Excerpt  string
}

// Marker grammar:
//
//	source(<id>)                 - bare source reference
//	source(<id> "verbatim text") - reference with a quoted excerpt
//
// <id> is [A-Za-z0-9_.:-]+. Anything that does not match the grammar exactly
// (unterminated paren, empty id, stray quote) is left in place as ordinary
// text; a bad marker must never take the rest of the message down with it.
var markerPattern = regexp.MustCompile(`source\(([A-Za-z0-9_.:\-]+)(?:[ \t]+"([^"]*)")?\)`)

// Scan extracts all citation markers from raw text in a single left-to-right
// pass. Matches are ordered by ascending start offset and never overlap.
// Scan never fails; unmarked or malformed text simply yields no matches.
func Scan(raw string) []RawMatch {
	if raw == "" {
		return []RawMatch{}
	}

	idx := markerPattern.FindAllStringSubmatchIndex(raw, -1)
	matches := make([]RawMatch, 0, len(idx))

	for _, m := range idx {
		match := RawMatch{
			Start:    m[0],
			End:      m[1],
			SourceID: raw[m[2]:m[3]],
		}
		if m[4] >= 0 {
			match.Excerpt = raw[m[4]:m[5]]
		}
		matches = append(matches, match)
	}

	return matches
}
