package delivery

import (
	"encoding/json"
	"time"
)

// Envelope is the wire format POSTed to destinations.
type Envelope struct {
	Event     string          `json:"event"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// BuildEnvelope marshals the envelope for one delivery. The timestamp is
// normalized to UTC so the wire format is stable across hosts.
func BuildEnvelope(eventType string, data json.RawMessage, at time.Time) ([]byte, error) {
	if len(data) == 0 {
		data = json.RawMessage("{}")
	}
	return json.Marshal(Envelope{
		Event:     eventType,
		Timestamp: at.UTC().Truncate(time.Second),
		Data:      data,
	})
}

// ParseEnvelope decodes a stored payload back into its envelope, primarily
// so retry can recover the original event data.
func ParseEnvelope(payload []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, err
	}
	return &env, nil
}
