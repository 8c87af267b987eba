package delivery

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/pavvel11/gateflow-sub005/endpoint"
	"github.com/pavvel11/gateflow-sub005/id"
	"github.com/pavvel11/gateflow-sub005/signature"
)

const maxResponseBody = 1024 // cap on stored response body

// Sender performs the HTTP POST for one delivery.
type Sender struct {
	client *http.Client
}

// NewSender creates a sender with the given HTTP timeout. The timeout is the
// only bound on a delivery; there is no mid-flight cancel beyond the context.
func NewSender(timeout time.Duration) *Sender {
	return &Sender{
		client: &http.Client{Timeout: timeout},
	}
}

// Result is the raw outcome of one HTTP send, before classification.
type Result struct {
	StatusCode int
	Response   string
	Error      string
	LatencyMs  int
}

// Send posts the envelope to the endpoint and returns the raw result.
// Transport failures come back in Result.Error, never as a Go error.
func (s *Sender) Send(ctx context.Context, ep *endpoint.Endpoint, attemptID id.ID, eventType string, payload []byte) Result {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ep.URL, bytes.NewReader(payload))
	if err != nil {
		return Result{Error: fmt.Sprintf("create request: %v", err)}
	}

	// Standard headers.
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "GateFlow-Webhooks/1.0")
	req.Header.Set("X-GateFlow-Event", eventType)
	req.Header.Set("X-GateFlow-Attempt-ID", attemptID.String())

	// HMAC signature over "{timestamp}.{payload}".
	ts := time.Now().Unix()
	req.Header.Set("X-GateFlow-Signature", signature.Sign(payload, ep.Secret, ts))
	req.Header.Set("X-GateFlow-Timestamp", strconv.FormatInt(ts, 10))

	// Custom endpoint headers.
	for k, v := range ep.Headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := s.client.Do(req) //nolint:gosec // G704: URL is an operator-configured destination, vetted by safeurl at registration.
	latency := int(time.Since(start).Milliseconds())

	if err != nil {
		return Result{
			Error:     err.Error(),
			LatencyMs: latency,
		}
	}
	defer resp.Body.Close()

	respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if readErr != nil {
		return Result{
			StatusCode: resp.StatusCode,
			Error:      fmt.Sprintf("read response: %v", readErr),
			LatencyMs:  latency,
		}
	}

	return Result{
		StatusCode: resp.StatusCode,
		Response:   string(respBody),
		LatencyMs:  latency,
	}
}
