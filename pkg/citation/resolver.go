package citation

import (
	"context"

	"ai-research-chat-be/pkg/chatdomain"
)

// Resolver binds scanned markers to source catalog entries and assigns
// display ordinals. It holds no state; every call is independent.
type Resolver struct {
	catalog SourceCatalog
}

// NewResolver creates a resolver over the given catalog.
func NewResolver(catalog SourceCatalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// Resolve walks matches in order and produces one Parsed citation per match
// plus the deduplicated citation list ordered by ordinal.
//
// Each distinct source id gets exactly one ordinal (first-occurrence order)
// and at most one catalog lookup, regardless of how often it is cited. A
// lookup miss keeps the citation with Resolved=false so the rendering layer
// can flag it; unresolved markers are never dropped. Catalog I/O errors are
// treated the same as a miss: the message must still render.
func (r *Resolver) Resolve(ctx context.Context, domain chatdomain.Domain, matches []RawMatch) (perMatch []Parsed, deduped []Parsed) {
	perMatch = make([]Parsed, 0, len(matches))
	deduped = make([]Parsed, 0, len(matches))
	byID := make(map[string]int) // source id -> index into deduped

	for _, m := range matches {
		if i, seen := byID[m.SourceID]; seen {
			c := deduped[i]
			c.Excerpt = m.Excerpt
			perMatch = append(perMatch, c)
			continue
		}

		c := Parsed{
			Ordinal:  len(deduped) + 1,
			SourceID: m.SourceID,
			Domain:   domain,
			Excerpt:  m.Excerpt,
		}

		entry, err := r.catalog.FindSource(ctx, domain, m.SourceID)
		if err == nil && entry != nil {
			c.Resolved = true
			c.Source = entry
		}

		byID[m.SourceID] = len(deduped)
		deduped = append(deduped, c)
		perMatch = append(perMatch, c)
	}

	return perMatch, deduped
}
