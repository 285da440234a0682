package chatdomain

import "fmt"

// Domain identifies which chat assistant a session belongs to.
type Domain string

const (
	DomainNotebook Domain = "notebook"
	DomainLegal    Domain = "legal"
)

// Config holds the per-domain parameters that drive the shared chat pipeline.
// Instances are immutable and defined once at process start.
type Config struct {
	Domain Domain

	// StorageRelation is the table holding this domain's chat messages.
	StorageRelation string

	// EndpointRoute is the path on the assistant workflow service for this domain.
	EndpointRoute string

	// CacheKeyPrefix namespaces open-session cache entries.
	CacheKeyPrefix string

	// LiveChannelPrefix namespaces live-update subjects/channels per session.
	LiveChannelPrefix string

	// OwnershipRelation and OwnershipFilterColumn describe the row that must be
	// owned by the acting user before send/delete is allowed. Empty when the
	// domain has no ownership check.
	OwnershipRelation     string
	OwnershipFilterColumn string
}

var registry = map[Domain]Config{
	DomainNotebook: {
		Domain:            DomainNotebook,
		StorageRelation:   "notebook_chat_messages",
		EndpointRoute:     "/workflow/v1/notebook/chat",
		CacheKeyPrefix:    "chat:notebook:",
		LiveChannelPrefix: "chat.notebook.",
	},
	DomainLegal: {
		Domain:                DomainLegal,
		StorageRelation:       "legal_chat_messages",
		EndpointRoute:         "/workflow/v1/legal/chat",
		CacheKeyPrefix:        "chat:legal:",
		LiveChannelPrefix:     "chat.legal.",
		OwnershipRelation:     "legal_cases",
		OwnershipFilterColumn: "id",
	},
}

// ConfigFor returns the configuration for the given domain.
// An unknown domain is a wiring bug, not a runtime condition, so it panics.
func ConfigFor(d Domain) Config {
	cfg, ok := registry[d]
	if !ok {
		panic(fmt.Sprintf("chatdomain: no configuration registered for domain %q", d))
	}
	return cfg
}

// Parse converts a route parameter into a Domain, rejecting unknown tags.
func Parse(tag string) (Domain, error) {
	d := Domain(tag)
	if _, ok := registry[d]; !ok {
		return "", fmt.Errorf("unknown chat domain %q", tag)
	}
	return d, nil
}

// All returns every registered domain, in stable order.
func All() []Domain {
	return []Domain{DomainNotebook, DomainLegal}
}
