package citation

import (
	"testing"
)

func TestScan(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantIDs     []string
		wantExcerpt []string
	}{
		{
			name:    "no markers",
			raw:     "Plain answer with no sources.",
			wantIDs: []string{},
		},
		{
			name:    "empty input",
			raw:     "",
			wantIDs: []string{},
		},
		{
			name:        "single bare marker",
			raw:         "Loss provisions apply per source(doc42).",
			wantIDs:     []string{"doc42"},
			wantExcerpt: []string{""},
		},
		{
			name:        "marker with excerpt",
			raw:         `See source(reg-7.1 "liability is capped") for details.`,
			wantIDs:     []string{"reg-7.1"},
			wantExcerpt: []string{"liability is capped"},
		},
		{
			name:    "multiple markers in order",
			raw:     "source(a) then source(b) then source(a) again",
			wantIDs: []string{"a", "b", "a"},
		},
		{
			name:    "unterminated marker degrades to text",
			raw:     "Trailing fragment source(doc42",
			wantIDs: []string{},
		},
		{
			name:    "empty identifier degrades to text",
			raw:     "Bad marker source() here",
			wantIDs: []string{},
		},
		{
			name:    "identifier with illegal characters degrades to text",
			raw:     "Odd source(a b) marker",
			wantIDs: []string{},
		},
		{
			name:        "bad marker does not poison later markers",
			raw:         "source( broken then source(ok) fine",
			wantIDs:     []string{"ok"},
			wantExcerpt: []string{""},
		},
		{
			name:    "id charset covers dots colons dashes underscores",
			raw:     "source(case:2024-11_annex.B)",
			wantIDs: []string{"case:2024-11_annex.B"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := Scan(tt.raw)

			if len(matches) != len(tt.wantIDs) {
				t.Fatalf("Scan returned %d matches, want %d", len(matches), len(tt.wantIDs))
			}
			for i, m := range matches {
				if m.SourceID != tt.wantIDs[i] {
					t.Errorf("match %d SourceID = %q, want %q", i, m.SourceID, tt.wantIDs[i])
				}
				if tt.wantExcerpt != nil && m.Excerpt != tt.wantExcerpt[i] {
					t.Errorf("match %d Excerpt = %q, want %q", i, m.Excerpt, tt.wantExcerpt[i])
				}
			}
		})
	}
}

func TestScanSpansAreOrderedAndDisjoint(t *testing.T) {
	raw := "x source(a) y source(b \"quote\") z source(c)"
	matches := Scan(raw)
	if len(matches) != 3 {
		t.Fatalf("got %d matches, want 3", len(matches))
	}

	prevEnd := 0
	for i, m := range matches {
		if m.Start < prevEnd {
			t.Errorf("match %d overlaps previous (start %d < prev end %d)", i, m.Start, prevEnd)
		}
		if m.End <= m.Start {
			t.Errorf("match %d has empty span [%d,%d)", i, m.Start, m.End)
		}
		prevEnd = m.End
	}
}

func TestScanSpanCoversWholeMarker(t *testing.T) {
	raw := "before source(doc42) after"
	matches := Scan(raw)
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	if got := raw[matches[0].Start:matches[0].End]; got != "source(doc42)" {
		t.Errorf("span text = %q, want %q", got, "source(doc42)")
	}
}
