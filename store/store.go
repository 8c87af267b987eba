// Package store defines the composite Store interface for all webhook
// persistence.
//
// Each subsystem defines its own store interface; the aggregate Store
// composes them, and every backend implements the whole thing against one
// database.
package store

import (
	"context"

	"github.com/pavvel11/gateflow-sub005/delivery"
	"github.com/pavvel11/gateflow-sub005/endpoint"
)

// Store is the aggregate persistence interface.
type Store interface {
	endpoint.Store
	delivery.Store

	// Migrate runs all schema migrations.
	Migrate(ctx context.Context) error

	// Ping checks database connectivity.
	Ping(ctx context.Context) error

	// Close closes the store connection.
	Close() error
}
