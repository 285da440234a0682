package citation

import (
	"context"

	"ai-research-chat-be/pkg/chatdomain"
)

// Normalize runs the full scan -> resolve -> assemble pipeline on one raw
// assistant message. This is the only entry point the rest of the application
// needs; the individual stages stay exported for testing and reuse.
func Normalize(ctx context.Context, catalog SourceCatalog, domain chatdomain.Domain, raw string) StructuredContent {
	matches := Scan(raw)
	perMatch, deduped := NewResolver(catalog).Resolve(ctx, domain, matches)
	return Assemble(raw, matches, perMatch, deduped)
}
