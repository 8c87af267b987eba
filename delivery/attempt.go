package delivery

import (
	"encoding/json"
	"time"

	"github.com/pavvel11/gateflow-sub005/id"
)

// Status is the terminal outcome of a delivery attempt. Attempt rows are
// append-only: the only permitted transition after creation is
// failed → archived.
type Status string

const (
	// StatusSuccess means the destination answered with a 2xx.
	StatusSuccess Status = "success"

	// StatusFailed means a non-2xx response or a transport-level error.
	StatusFailed Status = "failed"

	// StatusArchived is a failed attempt an operator dismissed from the
	// default failure view. History is kept; nothing is deleted.
	StatusArchived Status = "archived"
)

// Filter selects attempts by status when listing.
type Filter string

const (
	FilterAll      Filter = "all"
	FilterSuccess  Filter = "success"
	FilterFailed   Filter = "failed"
	FilterArchived Filter = "archived"
)

// ParseFilter maps a query-string value to a Filter. Empty input falls back
// to the failed view, which is where operators land by default.
func ParseFilter(s string) (Filter, bool) {
	switch s {
	case "":
		return FilterFailed, true
	case string(FilterAll), string(FilterSuccess), string(FilterFailed), string(FilterArchived):
		return Filter(s), true
	}
	return "", false
}

// Attempt is the immutable record of one webhook send.
type Attempt struct {
	// ID is the unique TypeID for this attempt.
	ID id.ID `json:"id"`

	// EndpointID references the destination. Becomes the nil ID when the
	// endpoint is later deleted; the attempt row survives.
	EndpointID id.ID `json:"endpoint_id"`

	// EventType is the taxonomy name this delivery carried.
	EventType string `json:"event_type"`

	// Status is the classified outcome.
	Status Status `json:"status"`

	// HTTPStatus is the destination's response code. Nil when the request
	// never completed (timeout, connection refused, DNS failure).
	HTTPStatus *int `json:"http_status,omitempty"`

	// DurationMs is the wall time of the HTTP call in milliseconds.
	DurationMs int `json:"duration_ms"`

	// Payload is the exact envelope that went over the wire.
	Payload json.RawMessage `json:"payload"`

	// ResponseBody is the destination's response, truncated.
	ResponseBody string `json:"response_body,omitempty"`

	// ErrorMessage describes the failure. Empty on success.
	ErrorMessage string `json:"error_message,omitempty"`

	// Manual marks operator-triggered test sends.
	Manual bool `json:"manual"`

	CreatedAt time.Time `json:"created_at"`
}

// ListOpts configures status filtering and pagination for attempt listing.
// Results are always newest-first.
type ListOpts struct {
	Filter Filter
	Offset int
	Limit  int
}
