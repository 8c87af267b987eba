// Package monitor aggregates recent delivery failures across endpoints so an
// operator can spot systemic breakage — a destination rejecting all traffic,
// an expired certificate — without paging through each endpoint's log.
package monitor

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/pavvel11/gateflow-sub005/delivery"
	"github.com/pavvel11/gateflow-sub005/id"
)

// Monitor is the read-only failure aggregation surface.
type Monitor struct {
	attempts delivery.Store
	logger   *slog.Logger
}

// New creates a failure monitor over the attempt log.
func New(attempts delivery.Store, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		attempts: attempts,
		logger:   logger,
	}
}

// EndpointFailures summarizes one endpoint's recent failures.
type EndpointFailures struct {
	// EndpointID references the failing endpoint. Nil when the endpoint
	// was deleted after the failures were logged.
	EndpointID id.ID `json:"endpoint_id"`

	// Count is the number of failed attempts in the window.
	Count int `json:"count"`

	// LastFailureAt is the most recent failure time for this endpoint.
	LastFailureAt time.Time `json:"last_failure_at"`

	// LastError is the most recent failure's error message.
	LastError string `json:"last_error"`
}

// Summary is a cross-endpoint view of recent failures.
type Summary struct {
	// Window is the look-back period the summary covers.
	Window time.Duration `json:"window"`

	// TotalFailures counts failed attempts across all endpoints.
	TotalFailures int `json:"total_failures"`

	// LastFailureAt is the most recent failure time overall. Zero when the
	// window holds no failures.
	LastFailureAt time.Time `json:"last_failure_at,omitzero"`

	// Endpoints lists per-endpoint breakdowns, most recent failure first.
	Endpoints []EndpointFailures `json:"endpoints"`
}

// Summarize aggregates failed attempts within the look-back window. Zero
// endpoints or zero failures yield an empty summary, never an error.
func (m *Monitor) Summarize(ctx context.Context, window time.Duration) (*Summary, error) {
	cutoff := time.Now().UTC().Add(-window)
	failed, err := m.attempts.ListFailedSince(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	sum := &Summary{
		Window:        window,
		TotalFailures: len(failed),
		Endpoints:     []EndpointFailures{},
	}

	byEndpoint := make(map[string]*EndpointFailures)
	for _, att := range failed {
		if att.CreatedAt.After(sum.LastFailureAt) {
			sum.LastFailureAt = att.CreatedAt
		}

		key := att.EndpointID.String()
		ef, ok := byEndpoint[key]
		if !ok {
			ef = &EndpointFailures{EndpointID: att.EndpointID}
			byEndpoint[key] = ef
		}
		ef.Count++
		// ListFailedSince is newest-first, so the first row seen per
		// endpoint carries its latest failure.
		if ef.Count == 1 {
			ef.LastFailureAt = att.CreatedAt
			ef.LastError = att.ErrorMessage
		}
	}

	for _, ef := range byEndpoint {
		sum.Endpoints = append(sum.Endpoints, *ef)
	}
	sort.Slice(sum.Endpoints, func(i, j int) bool {
		return sum.Endpoints[i].LastFailureAt.After(sum.Endpoints[j].LastFailureAt)
	})

	return sum, nil
}
