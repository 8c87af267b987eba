package sqlite

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/xraph/grove"

	"github.com/pavvel11/gateflow-sub005/delivery"
	"github.com/pavvel11/gateflow-sub005/endpoint"
	"github.com/pavvel11/gateflow-sub005/id"
)

// --- Endpoint models ---

type endpointModel struct {
	grove.BaseModel `grove:"table:gf_endpoints"`

	ID          string    `grove:"id,pk"`
	URL         string    `grove:"url"`
	Description string    `grove:"description"`
	Secret      string    `grove:"secret"`
	Events      string    `grove:"events"`  // JSON array
	Headers     string    `grove:"headers"` // JSON object
	Active      bool      `grove:"active"`
	RateLimit   int       `grove:"rate_limit"`
	CreatedAt   time.Time `grove:"created_at"`
	UpdatedAt   time.Time `grove:"updated_at"`
}

// events unmarshals the JSON events string into a string slice.
func (m *endpointModel) events() []string {
	var names []string
	if m.Events != "" {
		_ = json.Unmarshal([]byte(m.Events), &names) //nolint:errcheck // best-effort
	}
	return names
}

func toEndpointModel(ep *endpoint.Endpoint) *endpointModel {
	events, _ := json.Marshal(ep.Events)   //nolint:errcheck // best-effort
	headers, _ := json.Marshal(ep.Headers) //nolint:errcheck // best-effort

	return &endpointModel{
		ID:          ep.ID.String(),
		URL:         ep.URL,
		Description: ep.Description,
		Secret:      ep.Secret,
		Events:      string(events),
		Headers:     string(headers),
		Active:      ep.Active,
		RateLimit:   ep.RateLimit,
		CreatedAt:   ep.CreatedAt,
		UpdatedAt:   ep.UpdatedAt,
	}
}

func fromEndpointModel(m *endpointModel) (*endpoint.Endpoint, error) {
	epID, err := id.ParseEndpointID(m.ID)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint ID %q: %w", m.ID, err)
	}

	var headers map[string]string
	if m.Headers != "" {
		_ = json.Unmarshal([]byte(m.Headers), &headers) //nolint:errcheck // best-effort
	}

	return &endpoint.Endpoint{
		ID:          epID,
		URL:         m.URL,
		Description: m.Description,
		Secret:      m.Secret,
		Events:      m.events(),
		Headers:     headers,
		Active:      m.Active,
		RateLimit:   m.RateLimit,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}, nil
}

// --- Attempt models ---

type attemptModel struct {
	grove.BaseModel `grove:"table:gf_delivery_attempts"`

	ID           string    `grove:"id,pk"`
	EndpointID   *string   `grove:"endpoint_id"`
	EventType    string    `grove:"event_type"`
	Status       string    `grove:"status"`
	HTTPStatus   *int      `grove:"http_status"`
	DurationMs   int       `grove:"duration_ms"`
	Payload      string    `grove:"payload"` // JSON object
	ResponseBody string    `grove:"response_body"`
	ErrorMessage string    `grove:"error_message"`
	Manual       bool      `grove:"manual"`
	CreatedAt    time.Time `grove:"created_at"`
}

func toAttemptModel(att *delivery.Attempt) *attemptModel {
	m := &attemptModel{
		ID:           att.ID.String(),
		EventType:    att.EventType,
		Status:       string(att.Status),
		HTTPStatus:   att.HTTPStatus,
		DurationMs:   att.DurationMs,
		Payload:      string(att.Payload),
		ResponseBody: att.ResponseBody,
		ErrorMessage: att.ErrorMessage,
		Manual:       att.Manual,
		CreatedAt:    att.CreatedAt,
	}
	if !att.EndpointID.IsNil() {
		s := att.EndpointID.String()
		m.EndpointID = &s
	}
	return m
}

func fromAttemptModel(m *attemptModel) (*delivery.Attempt, error) {
	attID, err := id.ParseAttemptID(m.ID)
	if err != nil {
		return nil, fmt.Errorf("parse attempt ID %q: %w", m.ID, err)
	}
	epID := id.Nil
	if m.EndpointID != nil && *m.EndpointID != "" {
		epID, err = id.ParseEndpointID(*m.EndpointID)
		if err != nil {
			return nil, fmt.Errorf("parse endpoint ID %q: %w", *m.EndpointID, err)
		}
	}

	var payload json.RawMessage
	if m.Payload != "" {
		payload = json.RawMessage(m.Payload)
	}

	return &delivery.Attempt{
		ID:           attID,
		EndpointID:   epID,
		EventType:    m.EventType,
		Status:       delivery.Status(m.Status),
		HTTPStatus:   m.HTTPStatus,
		DurationMs:   m.DurationMs,
		Payload:      payload,
		ResponseBody: m.ResponseBody,
		ErrorMessage: m.ErrorMessage,
		Manual:       m.Manual,
		CreatedAt:    m.CreatedAt,
	}, nil
}
