package gateflow

import (
	"log/slog"
	"time"

	"github.com/pavvel11/gateflow-sub005/catalog"
	"github.com/pavvel11/gateflow-sub005/delivery"
	"github.com/pavvel11/gateflow-sub005/endpoint"
	"github.com/pavvel11/gateflow-sub005/monitor"
	"github.com/pavvel11/gateflow-sub005/observability"
	"github.com/pavvel11/gateflow-sub005/store"
	"github.com/pavvel11/gateflow-sub005/testsend"
)

// Hub is the root of the outbound webhook subsystem.
type Hub struct {
	config   Config
	store    store.Store
	catalog  *catalog.Catalog
	waitlist endpoint.WaitlistChecker
	metrics  *observability.Metrics
	tracer   *observability.Tracer

	endpointSvc *endpoint.Service
	engine      *delivery.Engine
	logs        *delivery.Logs
	monitor     *monitor.Monitor
	testSender  *testsend.Sender
	logger      *slog.Logger
}

// Option configures a Hub instance.
type Option func(*Hub) error

// New creates a new Hub with the given options. A store is required.
func New(opts ...Option) (*Hub, error) {
	h := &Hub{
		config: DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(h); err != nil {
			return nil, err
		}
	}
	if h.store == nil {
		return nil, ErrNoStore
	}
	h.wireServices()
	return h, nil
}

// WithStore sets the persistence backend for the Hub instance.
func WithStore(s store.Store) Option {
	return func(h *Hub) error {
		h.store = s
		return nil
	}
}

// WithLogger sets the structured logger for the Hub instance.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Hub) error {
		h.logger = logger
		return nil
	}
}

// WithConcurrency bounds parallel deliveries during fan-out.
func WithConcurrency(n int) Option {
	return func(h *Hub) error {
		h.config.Concurrency = n
		return nil
	}
}

// WithRequestTimeout sets the HTTP timeout per delivery attempt.
func WithRequestTimeout(d time.Duration) Option {
	return func(h *Hub) error {
		h.config.RequestTimeout = d
		return nil
	}
}

// WithAllowInsecureURLs permits plain-HTTP destination URLs, e.g. for local
// development against a tunnel. Private and loopback addresses stay blocked.
func WithAllowInsecureURLs(allow bool) Option {
	return func(h *Hub) error {
		h.config.AllowInsecureURLs = allow
		return nil
	}
}

// WithFailureWindow sets the default look-back period for failure summaries.
func WithFailureWindow(d time.Duration) Option {
	return func(h *Hub) error {
		h.config.FailureWindow = d
		return nil
	}
}

// WithWaitlistChecker wires the platform collaborator consulted before the
// last active waitlist.signup subscriber can be removed. Without one, the
// confirmation guard is disabled.
func WithWaitlistChecker(c endpoint.WaitlistChecker) Option {
	return func(h *Hub) error {
		h.waitlist = c
		return nil
	}
}

// WithMetrics attaches metric instruments to the delivery engine.
func WithMetrics(m *observability.Metrics) Option {
	return func(h *Hub) error {
		h.metrics = m
		return nil
	}
}

// WithTracer attaches an OpenTelemetry tracer to the delivery engine.
func WithTracer(t *observability.Tracer) Option {
	return func(h *Hub) error {
		h.tracer = t
		return nil
	}
}
