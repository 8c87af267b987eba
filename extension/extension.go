// Package extension provides the Forge extension for mounting GateFlow's
// webhook admin console.
//
// The extension integrates the webhook hub into the Forge application
// framework by mounting the admin API routes under a configurable prefix.
//
// Usage with Forge (once available):
//
//	app := forge.New(
//	    gateflow.NewExtension(
//	        gateflow.WithPrefix("/webhooks"),
//	    ),
//	)
package extension

import (
	"log/slog"
	"net/http"

	gateflow "github.com/pavvel11/gateflow-sub005"
	"github.com/pavvel11/gateflow-sub005/api"
)

// Extension is the Forge extension for the webhook subsystem.
type Extension struct {
	opts   Options
	logger *slog.Logger
}

// Options configures the extension.
type Options struct {
	// Prefix is the URL prefix for the admin API routes (default: "/webhooks").
	Prefix string
}

// Option configures the extension.
type Option func(*Options)

// WithPrefix sets the URL prefix for admin API routes.
func WithPrefix(prefix string) Option {
	return func(o *Options) { o.Prefix = prefix }
}

// NewExtension creates a new GateFlow webhook Forge extension.
func NewExtension(opts ...Option) *Extension {
	o := Options{Prefix: "/webhooks"}
	for _, opt := range opts {
		opt(&o)
	}
	return &Extension{opts: o, logger: slog.Default()}
}

// Handler creates the admin API handler over the given hub.
// This can be used standalone without Forge integration.
func (ext *Extension) Handler(hub *gateflow.Hub) http.Handler {
	return api.NewHandler(hub, ext.logger)
}

// Prefix returns the configured URL prefix.
func (ext *Extension) Prefix() string { return ext.opts.Prefix }
