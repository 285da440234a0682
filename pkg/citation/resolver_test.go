package citation

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"ai-research-chat-be/pkg/chatdomain"
)

// fakeCatalog serves entries from a map and counts lookups per id.
type fakeCatalog struct {
	entries map[string]*SourceEntry
	lookups map[string]int
	err     error
}

func newFakeCatalog(entries ...*SourceEntry) *fakeCatalog {
	byID := make(map[string]*SourceEntry, len(entries))
	for _, e := range entries {
		byID[e.ID] = e
	}
	return &fakeCatalog{entries: byID, lookups: make(map[string]int)}
}

func (f *fakeCatalog) FindSource(_ context.Context, _ chatdomain.Domain, id string) (*SourceEntry, error) {
	f.lookups[id]++
	if f.err != nil {
		return nil, f.err
	}
	return f.entries[id], nil
}

func TestResolveAssignsOrdinalsInFirstOccurrenceOrder(t *testing.T) {
	catalog := newFakeCatalog(
		&SourceEntry{ID: "b", Domain: chatdomain.DomainNotebook, Kind: KindChunk, Title: "B"},
		&SourceEntry{ID: "a", Domain: chatdomain.DomainNotebook, Kind: KindChunk, Title: "A"},
	)
	matches := Scan("source(b) source(a) source(b)")

	perMatch, deduped := NewResolver(catalog).Resolve(context.Background(), chatdomain.DomainNotebook, matches)

	if len(perMatch) != 3 {
		t.Fatalf("perMatch length = %d, want 3", len(perMatch))
	}
	if len(deduped) != 2 {
		t.Fatalf("deduped length = %d, want 2", len(deduped))
	}

	wantOrdinals := []int{1, 2, 1}
	for i, c := range perMatch {
		if c.Ordinal != wantOrdinals[i] {
			t.Errorf("perMatch[%d].Ordinal = %d, want %d", i, c.Ordinal, wantOrdinals[i])
		}
	}
	if deduped[0].SourceID != "b" || deduped[1].SourceID != "a" {
		t.Errorf("deduped order = [%s, %s], want [b, a]", deduped[0].SourceID, deduped[1].SourceID)
	}
}

func TestResolveLooksUpEachSourceOnce(t *testing.T) {
	catalog := newFakeCatalog(&SourceEntry{ID: "doc42", Domain: chatdomain.DomainNotebook, Kind: KindChunk, Title: "Doc"})
	matches := Scan("source(doc42) source(doc42) source(doc42)")

	_, deduped := NewResolver(catalog).Resolve(context.Background(), chatdomain.DomainNotebook, matches)

	if len(deduped) != 1 {
		t.Fatalf("deduped length = %d, want 1", len(deduped))
	}
	if catalog.lookups["doc42"] != 1 {
		t.Errorf("catalog lookups for doc42 = %d, want 1", catalog.lookups["doc42"])
	}
}

func TestResolveKeepsUnresolvedCitations(t *testing.T) {
	catalog := newFakeCatalog() // empty catalog
	matches := Scan("source(missing) and source(also-missing)")

	perMatch, deduped := NewResolver(catalog).Resolve(context.Background(), chatdomain.DomainLegal, matches)

	if len(perMatch) != 2 || len(deduped) != 2 {
		t.Fatalf("got %d/%d citations, want 2/2", len(perMatch), len(deduped))
	}
	for i, c := range deduped {
		if c.Resolved {
			t.Errorf("citation %d should be unresolved", i)
		}
		if c.Source != nil {
			t.Errorf("citation %d should have no source entry", i)
		}
		if c.Ordinal != i+1 {
			t.Errorf("unresolved citation %d ordinal = %d, want %d", i, c.Ordinal, i+1)
		}
	}
}

func TestResolveOrdinalsUnaffectedByResolutionOutcome(t *testing.T) {
	catalog := newFakeCatalog(&SourceEntry{ID: "found", Domain: chatdomain.DomainLegal, Kind: KindRuling, Title: "Ruling"})
	matches := Scan("source(ghost) source(found) source(ghost)")

	_, deduped := NewResolver(catalog).Resolve(context.Background(), chatdomain.DomainLegal, matches)

	if deduped[0].SourceID != "ghost" || deduped[0].Ordinal != 1 || deduped[0].Resolved {
		t.Errorf("deduped[0] = %+v, want unresolved ghost with ordinal 1", deduped[0])
	}
	if deduped[1].SourceID != "found" || deduped[1].Ordinal != 2 || !deduped[1].Resolved {
		t.Errorf("deduped[1] = %+v, want resolved 'found' with ordinal 2", deduped[1])
	}
}

func TestResolveTreatsCatalogErrorAsMiss(t *testing.T) {
	catalog := newFakeCatalog(&SourceEntry{ID: "doc", Domain: chatdomain.DomainNotebook, Kind: KindChunk})
	catalog.err = errors.New("catalog offline")
	matches := Scan("source(doc)")

	perMatch, _ := NewResolver(catalog).Resolve(context.Background(), chatdomain.DomainNotebook, matches)

	if len(perMatch) != 1 {
		t.Fatalf("got %d citations, want 1", len(perMatch))
	}
	if perMatch[0].Resolved {
		t.Error("citation should be unresolved when the catalog errors")
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	catalog := newFakeCatalog(
		&SourceEntry{ID: "x", Domain: chatdomain.DomainNotebook, Kind: KindChunk, Title: "X"},
	)
	matches := Scan("source(x) source(y) source(x)")
	resolver := NewResolver(catalog)

	first, firstDedup := resolver.Resolve(context.Background(), chatdomain.DomainNotebook, matches)
	second, secondDedup := resolver.Resolve(context.Background(), chatdomain.DomainNotebook, matches)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("per-match results differ between runs:\n%+v\n%+v", first, second)
	}
	if !reflect.DeepEqual(firstDedup, secondDedup) {
		t.Errorf("deduped results differ between runs:\n%+v\n%+v", firstDedup, secondDedup)
	}
}
