package delivery

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pavvel11/gateflow-sub005/endpoint"
	"github.com/pavvel11/gateflow-sub005/id"
)

// Logs provides operator access to the attempt log: filtered listing,
// inspection, retry, and archiving.
type Logs struct {
	attempts  Store
	endpoints endpoint.Store
	engine    *Engine
	logger    *slog.Logger
}

// NewLogs creates the delivery log service.
func NewLogs(attempts Store, endpoints endpoint.Store, engine *Engine, logger *slog.Logger) *Logs {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logs{
		attempts:  attempts,
		endpoints: endpoints,
		engine:    engine,
		logger:    logger,
	}
}

// List returns an endpoint's attempts, newest-first. An empty filter
// defaults to the failed view.
func (l *Logs) List(ctx context.Context, epID id.ID, opts ListOpts) ([]*Attempt, error) {
	if opts.Filter == "" {
		opts.Filter = FilterFailed
	}
	return l.attempts.ListAttempts(ctx, epID, opts)
}

// Get returns one attempt by ID.
func (l *Logs) Get(ctx context.Context, attID id.ID) (*Attempt, error) {
	return l.attempts.GetAttempt(ctx, attID)
}

// Retry re-delivers the event recovered from a prior attempt's stored
// payload, appending a brand-new attempt row; the original row is never
// touched. If the referenced endpoint no longer exists — including the
// endpoint reference having been cleared by a delete — the retry fails with
// the endpoint-not-found condition rather than silently no-opping.
func (l *Logs) Retry(ctx context.Context, attID id.ID) (*Attempt, error) {
	att, err := l.attempts.GetAttempt(ctx, attID)
	if err != nil {
		return nil, err
	}

	// A nil endpoint reference resolves to not-found at the store.
	ep, err := l.endpoints.GetEndpoint(ctx, att.EndpointID)
	if err != nil {
		return nil, err
	}

	env, err := ParseEnvelope(att.Payload)
	if err != nil {
		return nil, fmt.Errorf("parse stored payload: %w", err)
	}

	l.logger.Info("retrying webhook delivery",
		slog.String("attempt_id", attID.String()),
		slog.String("endpoint_id", ep.ID.String()),
		slog.String("event_type", att.EventType))

	return l.engine.Deliver(ctx, ep, att.EventType, env.Data, att.Manual), nil
}

// Archive dismisses a failed attempt from the default failure view. Only
// failed attempts can be archived; the transition is terminal.
func (l *Logs) Archive(ctx context.Context, attID id.ID) error {
	return l.attempts.ArchiveAttempt(ctx, attID)
}

// FailedSince returns all non-archived failed attempts created at or after
// the cutoff, across endpoints.
func (l *Logs) FailedSince(ctx context.Context, cutoff time.Time) ([]*Attempt, error) {
	return l.attempts.ListFailedSince(ctx, cutoff)
}

// Counts returns attempt row counts per status.
func (l *Logs) Counts(ctx context.Context) (map[Status]int, error) {
	return l.attempts.CountAttemptsByStatus(ctx)
}
