package catalog

import "encoding/json"

// Definition describes one event type in the closed GateFlow taxonomy.
type Definition struct {
	// Name is the dot-separated event type name.
	// Convention: "<resource>.<action>" — e.g. "purchase.completed".
	Name string `json:"name"`

	// Description is a human-readable explanation of when this event fires.
	Description string `json:"description"`

	// Group is a category for organizing event types in docs/UI.
	Group string `json:"group,omitempty"`

	// Schema is an optional JSON Schema (draft-07) describing the payload
	// shape. When set, Publish validates the event data against it.
	Schema json.RawMessage `json:"schema,omitempty"`

	// Example is a fully synthetic sample payload. It documents the event
	// and doubles as the test-send template, so test deliveries never touch
	// real business records.
	Example json.RawMessage `json:"example,omitempty"`

	// Legacy marks event names kept only for destinations registered before
	// the payment.* → purchase/refund rename.
	Legacy bool `json:"legacy,omitempty"`
}
