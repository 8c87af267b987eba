package gateflow

import "errors"

// Sentinel errors returned by GateFlow webhook operations.
var (
	// ErrNoStore is returned when a Hub is created without a store.
	ErrNoStore = errors.New("gateflow: store is required")

	// ErrEndpointNotFound is returned when an endpoint cannot be found,
	// including retries of attempts whose endpoint was deleted.
	ErrEndpointNotFound = errors.New("gateflow: endpoint not found")

	// ErrAttemptNotFound is returned when a delivery attempt cannot be found.
	ErrAttemptNotFound = errors.New("gateflow: delivery attempt not found")

	// ErrUnknownEventType is returned when an event name is not part of the taxonomy.
	ErrUnknownEventType = errors.New("gateflow: unknown event type")

	// ErrPayloadValidationFailed is returned when event data fails schema validation.
	ErrPayloadValidationFailed = errors.New("gateflow: payload validation failed")

	// ErrAttemptNotArchivable is returned when archiving an attempt that is not failed.
	// Archived is a terminal status reserved for failed attempts.
	ErrAttemptNotArchivable = errors.New("gateflow: only failed attempts can be archived")

	// ErrStoreClosed is returned when a store operation is attempted after the store is closed.
	ErrStoreClosed = errors.New("gateflow: store is closed")

	// ErrMigrationFailed is returned when a database migration fails.
	ErrMigrationFailed = errors.New("gateflow: migration failed")
)
