package endpoint

import (
	"context"

	"github.com/pavvel11/gateflow-sub005/id"
)

// Store defines the persistence contract for webhook endpoints.
type Store interface {
	// CreateEndpoint persists a new endpoint.
	CreateEndpoint(ctx context.Context, ep *Endpoint) error

	// GetEndpoint returns an endpoint by ID.
	GetEndpoint(ctx context.Context, epID id.ID) (*Endpoint, error)

	// UpdateEndpoint modifies an existing endpoint.
	UpdateEndpoint(ctx context.Context, ep *Endpoint) error

	// DeleteEndpoint removes an endpoint. Delivery attempts that reference
	// it keep their rows with the endpoint reference cleared.
	DeleteEndpoint(ctx context.Context, epID id.ID) error

	// ListEndpoints returns endpoints, optionally filtered.
	ListEndpoints(ctx context.Context, opts ListOpts) ([]*Endpoint, error)

	// Subscribers returns all active endpoints subscribed to an event type.
	// This is the hot path — called on every Publish.
	Subscribers(ctx context.Context, eventType string) ([]*Endpoint, error)

	// SetActive activates or deactivates an endpoint without deleting it.
	SetActive(ctx context.Context, epID id.ID, active bool) error
}
