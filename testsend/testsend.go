// Package testsend lets operators fire a synthetic delivery at an endpoint
// to verify wiring end to end. Payloads come from the catalog's example
// templates, so a test send never reads or mutates real business records.
package testsend

import (
	"context"
	"log/slog"

	"github.com/pavvel11/gateflow-sub005/catalog"
	"github.com/pavvel11/gateflow-sub005/delivery"
	"github.com/pavvel11/gateflow-sub005/endpoint"
	"github.com/pavvel11/gateflow-sub005/id"
)

// Sender performs operator-triggered test deliveries.
type Sender struct {
	endpoints endpoint.Store
	engine    *delivery.Engine
	catalog   *catalog.Catalog
	logger    *slog.Logger
}

// New creates a test sender.
func New(endpoints endpoint.Store, engine *delivery.Engine, cat *catalog.Catalog, logger *slog.Logger) *Sender {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sender{
		endpoints: endpoints,
		engine:    engine,
		catalog:   cat,
		logger:    logger,
	}
}

// Send delivers a synthetic event to the endpoint and returns the logged
// attempt, tagged as manual. An empty eventType falls back to the generic
// test.event; any other choice must be in the taxonomy, but need not be one
// of the endpoint's subscriptions — operators may probe with any shape.
func (s *Sender) Send(ctx context.Context, epID id.ID, eventType string) (*delivery.Attempt, error) {
	if eventType == "" {
		eventType = catalog.TestEvent
	}

	def, err := s.catalog.Get(eventType)
	if err != nil {
		return nil, err
	}

	ep, err := s.endpoints.GetEndpoint(ctx, epID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("sending test webhook",
		slog.String("endpoint_id", epID.String()),
		slog.String("event_type", eventType))

	return s.engine.Deliver(ctx, ep, eventType, def.Example, true), nil
}
