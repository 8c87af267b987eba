package gateflow

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pavvel11/gateflow-sub005/catalog"
	"github.com/pavvel11/gateflow-sub005/delivery"
	"github.com/pavvel11/gateflow-sub005/endpoint"
	"github.com/pavvel11/gateflow-sub005/monitor"
	"github.com/pavvel11/gateflow-sub005/safeurl"
	"github.com/pavvel11/gateflow-sub005/store"
	"github.com/pavvel11/gateflow-sub005/testsend"
)

// wireServices initializes the internal services after options have been applied.
func (h *Hub) wireServices() {
	h.catalog = catalog.New()

	h.endpointSvc = endpoint.NewService(h.store, h.catalog, h.waitlist,
		safeurl.Options{AllowHTTP: h.config.AllowInsecureURLs}, h.logger)

	h.engine = delivery.NewEngine(h.store, delivery.EngineConfig{
		Concurrency:    h.config.Concurrency,
		RequestTimeout: h.config.RequestTimeout,
		Metrics:        h.metrics,
		Tracer:         h.tracer,
	}, h.logger)

	h.logs = delivery.NewLogs(h.store, h.store, h.engine, h.logger)
	h.monitor = monitor.New(h.store, h.logger)
	h.testSender = testsend.New(h.store, h.engine, h.catalog, h.logger)
}

// Publish delivers a business event to every active subscribed endpoint.
//
// The critical path:
//  1. Reject event types outside the taxonomy.
//  2. Validate the payload against the type's JSON Schema, if one exists.
//  3. Resolve active subscribed endpoints.
//  4. Fan out one delivery per endpoint, concurrently; each produces
//     exactly one attempt row and sibling failures never interact.
//
// An event with zero active subscribers still succeeds and produces zero
// attempts.
func (h *Hub) Publish(ctx context.Context, eventType string, data json.RawMessage) ([]*delivery.Attempt, error) {
	if !h.catalog.IsValid(eventType) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEventType, eventType)
	}

	if err := h.catalog.ValidatePayload(eventType, data); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPayloadValidationFailed, err.Error())
	}

	subscribers, err := h.store.Subscribers(ctx, eventType)
	if err != nil {
		return nil, fmt.Errorf("gateflow: resolve subscribers: %w", err)
	}

	if h.metrics != nil {
		h.metrics.PublishesTotal.Inc()
	}

	if len(subscribers) == 0 {
		h.logger.DebugContext(ctx, "event has no active subscribers",
			"event_type", eventType)
		return nil, nil
	}

	attempts := h.engine.Fanout(ctx, subscribers, eventType, data)

	h.logger.DebugContext(ctx, "event published",
		"event_type", eventType,
		"endpoints", len(subscribers),
	)

	return attempts, nil
}

// Endpoints returns the endpoint management service.
func (h *Hub) Endpoints() *endpoint.Service {
	return h.endpointSvc
}

// Logs returns the delivery log service.
func (h *Hub) Logs() *delivery.Logs {
	return h.logs
}

// Monitor returns the failure monitor.
func (h *Hub) Monitor() *monitor.Monitor {
	return h.monitor
}

// TestSender returns the test-send facility.
func (h *Hub) TestSender() *testsend.Sender {
	return h.testSender
}

// Catalog returns the event type taxonomy.
func (h *Hub) Catalog() *catalog.Catalog {
	return h.catalog
}

// Config returns the effective configuration.
func (h *Hub) Config() Config {
	return h.config
}

// Store returns the underlying store.
func (h *Hub) Store() store.Store {
	return h.store
}
