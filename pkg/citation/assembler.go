package citation

import "strings"

// Assemble turns raw assistant text plus resolver output into structured,
// renderable content. It walks the text once, emitting a text segment for
// every non-empty run between markers and a citation segment per match, in
// original order. perMatch must be the per-match output of Resolver.Resolve
// for the same matches.
//
// The result is deterministic: the same inputs always produce byte-identical
// content, so structured content can be re-derived from storage at any time.
func Assemble(raw string, matches []RawMatch, perMatch, deduped []Parsed) StructuredContent {
	segments := make([]Segment, 0, 2*len(matches)+1)
	var clean strings.Builder

	cursor := 0
	for i, m := range matches {
		if m.Start > cursor {
			text := raw[cursor:m.Start]
			segments = append(segments, Segment{Kind: SegmentText, Text: text})
			clean.WriteString(text)
		}

		c := perMatch[i]
		segments = append(segments, Segment{Kind: SegmentCitation, Citation: &c})
		cursor = m.End
	}

	if cursor < len(raw) {
		text := raw[cursor:]
		segments = append(segments, Segment{Kind: SegmentText, Text: text})
		clean.WriteString(text)
	}

	citations := deduped
	if citations == nil {
		citations = []Parsed{}
	}

	return StructuredContent{
		Segments:  segments,
		Citations: citations,
		CleanText: clean.String(),
	}
}
