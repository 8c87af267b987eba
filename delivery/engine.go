package delivery

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/pavvel11/gateflow-sub005/endpoint"
	"github.com/pavvel11/gateflow-sub005/id"
	"github.com/pavvel11/gateflow-sub005/observability"
	"github.com/pavvel11/gateflow-sub005/ratelimit"
)

// EngineConfig holds engine configuration.
type EngineConfig struct {
	// Concurrency bounds parallel sends during fan-out.
	Concurrency int

	// RequestTimeout bounds each outbound HTTP call.
	RequestTimeout time.Duration

	// Metrics and Tracer are optional instrumentation hooks.
	Metrics *observability.Metrics
	Tracer  *observability.Tracer
}

// Engine performs webhook deliveries. Each delivery is one bounded HTTP POST
// whose outcome — success, HTTP failure, or transport failure — lands in
// exactly one appended attempt row. There is no queue and no automatic
// retry; failed attempts sit in the log until an operator acts.
type Engine struct {
	store   Store
	sender  *Sender
	limiter *ratelimit.Limiter
	config  EngineConfig
	logger  *slog.Logger
}

// NewEngine creates a delivery engine.
func NewEngine(store Store, cfg EngineConfig, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &Engine{
		store:   store,
		sender:  NewSender(cfg.RequestTimeout),
		limiter: ratelimit.New(),
		config:  cfg,
		logger:  logger,
	}
}

// Deliver sends one event to one endpoint and appends the attempt row.
// Destination failures are captured as data on the attempt, never returned
// as an error; a failed persistence write is logged and the attempt is still
// returned, so one bad row cannot abort a fan-out.
func (e *Engine) Deliver(ctx context.Context, ep *endpoint.Endpoint, eventType string, data json.RawMessage, manual bool) *Attempt {
	att := &Attempt{
		ID:         id.NewAttemptID(),
		EndpointID: ep.ID,
		EventType:  eventType,
		Manual:     manual,
		CreatedAt:  time.Now().UTC(),
	}

	payload, err := BuildEnvelope(eventType, data, att.CreatedAt)
	if err != nil {
		att.Status = StatusFailed
		att.ErrorMessage = fmt.Sprintf("marshal envelope: %v", err)
		e.finish(ctx, att, 0)
		return att
	}
	att.Payload = payload

	var span trace.Span
	if e.config.Tracer != nil {
		ctx, span = e.config.Tracer.StartAttemptSpan(ctx, att.ID.String(), eventType, ep.ID.String())
	}

	res := e.sender.Send(ctx, ep, att.ID, eventType, payload)

	att.DurationMs = res.LatencyMs
	att.ResponseBody = res.Response
	switch {
	case res.Error != "":
		att.Status = StatusFailed
		att.ErrorMessage = res.Error
	case res.StatusCode >= 200 && res.StatusCode < 300:
		att.Status = StatusSuccess
		att.HTTPStatus = &res.StatusCode
	default:
		att.Status = StatusFailed
		att.HTTPStatus = &res.StatusCode
		att.ErrorMessage = fmt.Sprintf("endpoint returned HTTP %d", res.StatusCode)
	}

	if span != nil {
		e.config.Tracer.EndAttemptSpan(span, res.StatusCode, res.LatencyMs, res.Error)
	}

	e.finish(ctx, att, float64(res.LatencyMs)/1000.0)
	return att
}

// Fanout delivers one event to every given endpoint concurrently, bounded by
// the configured concurrency and each endpoint's rate limit. The returned
// attempts are in no particular order; sibling failures never interact.
func (e *Engine) Fanout(ctx context.Context, eps []*endpoint.Endpoint, eventType string, data json.RawMessage) []*Attempt {
	if len(eps) == 0 {
		return nil
	}

	sem := make(chan struct{}, e.config.Concurrency)
	out := make([]*Attempt, len(eps))

	var wg sync.WaitGroup
	for i, ep := range eps {
		sem <- struct{}{}
		wg.Add(1)
		go func(i int, ep *endpoint.Endpoint) {
			defer wg.Done()
			defer func() { <-sem }()

			if err := e.limiter.Wait(ctx, ep.ID.String(), ep.RateLimit); err != nil {
				out[i] = e.failBeforeSend(ctx, ep, eventType, data, "rate limit wait: "+err.Error())
				return
			}
			out[i] = e.Deliver(ctx, ep, eventType, data, false)
		}(i, ep)
	}
	wg.Wait()

	return out
}

// failBeforeSend appends a failed attempt for a delivery that never reached
// the wire, e.g. when the context died while waiting on the rate limiter.
func (e *Engine) failBeforeSend(ctx context.Context, ep *endpoint.Endpoint, eventType string, data json.RawMessage, msg string) *Attempt {
	att := &Attempt{
		ID:           id.NewAttemptID(),
		EndpointID:   ep.ID,
		EventType:    eventType,
		Status:       StatusFailed,
		ErrorMessage: msg,
		CreatedAt:    time.Now().UTC(),
	}
	if payload, err := BuildEnvelope(eventType, data, att.CreatedAt); err == nil {
		att.Payload = payload
	}
	e.finish(ctx, att, 0)
	return att
}

func (e *Engine) finish(ctx context.Context, att *Attempt, latencySeconds float64) {
	if e.config.Metrics != nil {
		e.config.Metrics.RecordAttempt(string(att.Status), latencySeconds)
	}

	if err := e.store.CreateAttempt(ctx, att); err != nil {
		e.logger.ErrorContext(ctx, "failed to persist delivery attempt",
			"attempt_id", att.ID.String(),
			"endpoint_id", att.EndpointID.String(),
			"error", err)
	}

	if att.Status == StatusFailed {
		e.logger.WarnContext(ctx, "webhook delivery failed",
			"attempt_id", att.ID.String(),
			"endpoint_id", att.EndpointID.String(),
			"event_type", att.EventType,
			"error", att.ErrorMessage)
	}
}
