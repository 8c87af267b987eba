package endpoint

import (
	"time"

	"github.com/pavvel11/gateflow-sub005/id"
)

// Endpoint represents a webhook delivery target registered by an operator.
type Endpoint struct {
	// ID is the unique TypeID for this endpoint.
	ID id.ID `json:"id"`

	// URL is the webhook delivery URL. Validated against the SSRF rules in
	// safeurl on create and update.
	URL string `json:"url"`

	// Description is a human-readable description of this endpoint.
	Description string `json:"description"`

	// Secret is the HMAC signing secret for this endpoint. Never serialized.
	Secret string `json:"-"`

	// Events are the subscribed event type names. Every member is a name
	// from the built-in taxonomy; there is no pattern matching.
	Events []string `json:"events"`

	// Headers are custom HTTP headers sent with each delivery.
	Headers map[string]string `json:"headers,omitempty"`

	// Active indicates whether the endpoint receives deliveries.
	Active bool `json:"active"`

	// RateLimit is the maximum deliveries per second. 0 means unlimited.
	RateLimit int `json:"rate_limit"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Subscribes reports whether the endpoint is subscribed to eventType.
func (ep *Endpoint) Subscribes(eventType string) bool {
	for _, name := range ep.Events {
		if name == eventType {
			return true
		}
	}
	return false
}
