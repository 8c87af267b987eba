package mongo

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

	ID          string            `grove:"id,pk"       bson:"_id"`
	URL         string            `grove:"url"         bson:"url"`
	Description string            `grove:"description" bson:"description"`
	Secret      string            `grove:"secret"      bson:"secret"`
	Events      []string          `grove:"events"      bson:"events"`
	Headers     map[string]string `grove:"headers"     bson:"headers,omitempty"`
	Active      bool              `grove:"active"      bson:"active"`
	RateLimit   int               `grove:"rate_limit"  bson:"rate_limit"`
	CreatedAt   time.Time         `grove:"created_at"  bson:"created_at"`
	UpdatedAt   time.Time         `grove:"updated_at"  bson:"updated_at"`
}

func toEndpointModel(ep *endpoint.Endpoint) *endpointModel {
	return &endpointModel{
		ID:          ep.ID.String(),
		URL:         ep.URL,
		Description: ep.Description,
		Secret:      ep.Secret,
		Events:      ep.Events,
		Headers:     ep.Headers,
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

	return &endpoint.Endpoint{
		ID:          epID,
		URL:         m.URL,
		Description: m.Description,
		Secret:      m.Secret,
		Events:      m.Events,
		Headers:     m.Headers,
		Active:      m.Active,
		RateLimit:   m.RateLimit,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}, nil
}

// --- Attempt models ---

type attemptModel struct {
	grove.BaseModel `grove:"table:gf_delivery_attempts"`

	ID           string    `grove:"id,pk"         bson:"_id"`
	EndpointID   string    `grove:"endpoint_id"   bson:"endpoint_id"`
	EventType    string    `grove:"event_type"    bson:"event_type"`
	Status       string    `grove:"status"        bson:"status"`
	HTTPStatus   *int      `grove:"http_status"   bson:"http_status,omitempty"`
	DurationMs   int       `grove:"duration_ms"   bson:"duration_ms"`
	Payload      []byte    `grove:"payload"       bson:"payload,omitempty"`
	ResponseBody string    `grove:"response_body" bson:"response_body"`
	ErrorMessage string    `grove:"error_message" bson:"error_message"`
	Manual       bool      `grove:"manual"        bson:"manual"`
	CreatedAt    time.Time `grove:"created_at"    bson:"created_at"`
}

func toAttemptModel(att *delivery.Attempt) *attemptModel {
	m := &attemptModel{
		ID:           att.ID.String(),
		EventType:    att.EventType,
		Status:       string(att.Status),
		HTTPStatus:   att.HTTPStatus,
		DurationMs:   att.DurationMs,
		Payload:      att.Payload,
		ResponseBody: att.ResponseBody,
		ErrorMessage: att.ErrorMessage,
		Manual:       att.Manual,
		CreatedAt:    att.CreatedAt,
	}
	if !att.EndpointID.IsNil() {
		m.EndpointID = att.EndpointID.String()
	}
	return m
}

func fromAttemptModel(m *attemptModel) (*delivery.Attempt, error) {
	attID, err := id.ParseAttemptID(m.ID)
	if err != nil {
		return nil, fmt.Errorf("parse attempt ID %q: %w", m.ID, err)
	}
	epID := id.Nil
	if m.EndpointID != "" {
		epID, err = id.ParseEndpointID(m.EndpointID)
		if err != nil {
			return nil, fmt.Errorf("parse endpoint ID %q: %w", m.EndpointID, err)
		}
	}

	var payload json.RawMessage
	if len(m.Payload) > 0 {
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
