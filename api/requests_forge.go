package api

import "encoding/json"

// ---------------------------------------------------------------------------
// Endpoint requests
// ---------------------------------------------------------------------------

// CreateEndpointForgeRequest binds the body for POST /endpoints.
type CreateEndpointForgeRequest struct {
	URL         string            `description:"Webhook delivery URL"        json:"url"`
	Description string            `description:"Endpoint description"        json:"description,omitempty"`
	Events      []string          `description:"Subscribed event type names" json:"events"`
	Headers     map[string]string `description:"Custom HTTP headers"         json:"headers,omitempty"`
	RateLimit   int               `description:"Requests per second limit"   json:"rate_limit,omitempty"`
}

// ListEndpointsForgeRequest binds query parameters for GET /endpoints.
type ListEndpointsForgeRequest struct {
	Active string `description:"Filter by active flag (true/false)" query:"active"`
	Offset int    `description:"Pagination offset"                  query:"offset"`
	Limit  int    `description:"Page size (default 50)"             query:"limit"`
}

// GetEndpointForgeRequest binds the path for GET /endpoints/:endpointId.
type GetEndpointForgeRequest struct {
	EndpointID string `description:"Endpoint identifier" path:"endpointId"`
}

// UpdateEndpointForgeRequest binds path + body for PUT /endpoints/:endpointId.
type UpdateEndpointForgeRequest struct {
	EndpointID  string            `description:"Endpoint identifier"         path:"endpointId"`
	Confirm     string            `description:"Acknowledge waitlist warning" query:"confirm"`
	URL         string            `description:"Webhook delivery URL"        json:"url,omitempty"`
	Description string            `description:"Endpoint description"        json:"description,omitempty"`
	Events      []string          `description:"Subscribed event type names" json:"events,omitempty"`
	Headers     map[string]string `description:"Custom HTTP headers"         json:"headers,omitempty"`
	RateLimit   int               `description:"Requests per second limit"   json:"rate_limit,omitempty"`
	Active      *bool             `description:"Delivery toggle"             json:"active,omitempty"`
}

// DeleteEndpointForgeRequest binds path + query for DELETE /endpoints/:endpointId.
type DeleteEndpointForgeRequest struct {
	EndpointID string `description:"Endpoint identifier"          path:"endpointId"`
	Confirm    string `description:"Acknowledge waitlist warning" query:"confirm"`
}

// EndpointActionForgeRequest binds the path for activate/deactivate/secret/rotate-secret.
type EndpointActionForgeRequest struct {
	EndpointID string `description:"Endpoint identifier" path:"endpointId"`
}

// TestSendForgeRequest binds path + body for POST /endpoints/:endpointId/test.
type TestSendForgeRequest struct {
	EndpointID string `description:"Endpoint identifier"                       path:"endpointId"`
	EventType  string `description:"Event type to simulate (default test.event)" json:"event_type,omitempty"`
}

// ---------------------------------------------------------------------------
// Delivery log requests
// ---------------------------------------------------------------------------

// ListAttemptsForgeRequest binds path + query for GET /endpoints/:endpointId/attempts.
type ListAttemptsForgeRequest struct {
	EndpointID string `description:"Endpoint identifier"                               path:"endpointId"`
	Status     string `description:"Status filter: all, success, failed (default), archived" query:"status"`
	Offset     int    `description:"Pagination offset"                                 query:"offset"`
	Limit      int    `description:"Page size (default 50)"                            query:"limit"`
}

// AttemptActionForgeRequest binds the path for GET/retry/archive on attempts.
type AttemptActionForgeRequest struct {
	AttemptID string `description:"Attempt identifier" path:"attemptId"`
}

// ---------------------------------------------------------------------------
// Ingress and aggregation requests
// ---------------------------------------------------------------------------

// PublishForgeRequest binds the body for POST /publish.
type PublishForgeRequest struct {
	EventType string          `description:"Taxonomy event type name" json:"event_type"`
	Data      json.RawMessage `description:"Event payload"            json:"data"`
}

// ListFailuresForgeRequest binds query parameters for GET /failures.
type ListFailuresForgeRequest struct {
	Window string `description:"Look-back window, e.g. 24h" query:"window"`
}

// ListEventTypesForgeRequest is empty; GET /event-types has no parameters.
type ListEventTypesForgeRequest struct{}

// StatsForgeRequest is empty; GET /stats has no parameters.
type StatsForgeRequest struct{}
