package citation

import (
	"context"
	"reflect"
	"testing"

	"ai-research-chat-be/pkg/chatdomain"
)

func TestAssembleNoMarkers(t *testing.T) {
	raw := "Just a plain answer."
	content := Normalize(context.Background(), newFakeCatalog(), chatdomain.DomainNotebook, raw)

	if len(content.Segments) != 1 {
		t.Fatalf("got %d segments, want 1", len(content.Segments))
	}
	if content.Segments[0].Kind != SegmentText || content.Segments[0].Text != raw {
		t.Errorf("segment = %+v, want text segment equal to input", content.Segments[0])
	}
	if len(content.Citations) != 0 {
		t.Errorf("citations = %d, want 0", len(content.Citations))
	}
	if content.CleanText != raw {
		t.Errorf("CleanText = %q, want %q", content.CleanText, raw)
	}
}

func TestAssembleResolvedEndToEnd(t *testing.T) {
	catalog := newFakeCatalog(&SourceEntry{
		ID:     "doc42",
		Domain: chatdomain.DomainNotebook,
		Kind:   KindChunk,
		Title:  "Loss provisions",
	})
	raw := "Loss provisions apply per source(doc42)."

	content := Normalize(context.Background(), catalog, chatdomain.DomainNotebook, raw)

	if len(content.Segments) != 3 {
		t.Fatalf("got %d segments, want 3", len(content.Segments))
	}
	if content.Segments[0].Kind != SegmentText || content.Segments[0].Text != "Loss provisions apply per " {
		t.Errorf("segment 0 = %+v", content.Segments[0])
	}
	ref := content.Segments[1]
	if ref.Kind != SegmentCitation || ref.Citation == nil {
		t.Fatalf("segment 1 = %+v, want citation segment", ref)
	}
	if ref.Citation.Ordinal != 1 || ref.Citation.SourceID != "doc42" || !ref.Citation.Resolved {
		t.Errorf("citation = %+v, want ordinal 1, doc42, resolved", ref.Citation)
	}
	if content.Segments[2].Kind != SegmentText || content.Segments[2].Text != "." {
		t.Errorf("segment 2 = %+v", content.Segments[2])
	}

	if content.CleanText != "Loss provisions apply per ." {
		t.Errorf("CleanText = %q, want marker excised", content.CleanText)
	}
	if len(content.Citations) != 1 || !content.Citations[0].Resolved {
		t.Errorf("citations = %+v, want one resolved entry", content.Citations)
	}
}

func TestAssembleUnresolvedEndToEnd(t *testing.T) {
	raw := "Loss provisions apply per source(doc42)."

	content := Normalize(context.Background(), newFakeCatalog(), chatdomain.DomainNotebook, raw)

	if len(content.Segments) != 3 {
		t.Fatalf("got %d segments, want 3", len(content.Segments))
	}
	if content.CleanText != "Loss provisions apply per ." {
		t.Errorf("CleanText = %q", content.CleanText)
	}
	c := content.Segments[1].Citation
	if c == nil || c.Resolved || c.Source != nil {
		t.Errorf("citation = %+v, want unresolved with no source entry", c)
	}
	if len(content.Citations) != 1 || content.Citations[0].Ordinal != 1 {
		t.Errorf("citations = %+v, want one unresolved entry with ordinal 1", content.Citations)
	}
}

func TestAssembleDeduplicatesRepeatedSource(t *testing.T) {
	catalog := newFakeCatalog(&SourceEntry{ID: "s1", Domain: chatdomain.DomainLegal, Kind: KindRegulation, Title: "Reg"})
	raw := "source(s1) one source(s1) two source(s1)"

	content := Normalize(context.Background(), catalog, chatdomain.DomainLegal, raw)

	var refs []*Parsed
	for _, seg := range content.Segments {
		if seg.Kind == SegmentCitation {
			refs = append(refs, seg.Citation)
		}
	}
	if len(refs) != 3 {
		t.Fatalf("got %d citation segments, want 3", len(refs))
	}
	for i, r := range refs {
		if r.Ordinal != 1 || r.SourceID != "s1" {
			t.Errorf("citation segment %d = %+v, want ordinal 1 of s1", i, r)
		}
	}
	if len(content.Citations) != 1 {
		t.Errorf("citations list has %d entries, want 1", len(content.Citations))
	}
}

func TestAssembleCleanTextRoundTrip(t *testing.T) {
	raws := []string{
		"",
		"no markers at all",
		"lead source(a) mid source(b \"q\") tail",
		"source(a)source(b)",
		"source(a) trailing",
		"leading source(z)",
	}
	catalog := newFakeCatalog(&SourceEntry{ID: "a", Domain: chatdomain.DomainNotebook, Kind: KindChunk})

	for _, raw := range raws {
		content := Normalize(context.Background(), catalog, chatdomain.DomainNotebook, raw)

		var joined string
		for _, seg := range content.Segments {
			if seg.Kind == SegmentText {
				joined += seg.Text
			}
		}
		if content.CleanText != joined {
			t.Errorf("raw %q: CleanText %q != concatenated text segments %q", raw, content.CleanText, joined)
		}
	}
}

func TestAssembleIsDeterministic(t *testing.T) {
	catalog := newFakeCatalog(&SourceEntry{ID: "a", Domain: chatdomain.DomainNotebook, Kind: KindChunk, Title: "A"})
	raw := "x source(a) y source(b) z source(a)"

	first := Normalize(context.Background(), catalog, chatdomain.DomainNotebook, raw)
	second := Normalize(context.Background(), catalog, chatdomain.DomainNotebook, raw)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated normalization differs:\n%+v\n%+v", first, second)
	}
}

func TestAssembleUnterminatedMarkerStaysText(t *testing.T) {
	raw := "The clause ends with source(doc42"

	content := Normalize(context.Background(), newFakeCatalog(), chatdomain.DomainNotebook, raw)

	if len(content.Segments) != 1 || content.Segments[0].Kind != SegmentText {
		t.Fatalf("segments = %+v, want single text segment", content.Segments)
	}
	if content.CleanText != raw {
		t.Errorf("CleanText = %q, want untouched input", content.CleanText)
	}
}
