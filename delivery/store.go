package delivery

import (
	"context"
	"time"

	"github.com/pavvel11/gateflow-sub005/id"
)

// Store defines the persistence contract for the append-only attempt log.
type Store interface {
	// CreateAttempt persists a new attempt row. Rows are never updated
	// afterwards, except by ArchiveAttempt.
	CreateAttempt(ctx context.Context, att *Attempt) error

	// GetAttempt returns an attempt by ID.
	GetAttempt(ctx context.Context, attID id.ID) (*Attempt, error)

	// ListAttempts returns attempts for an endpoint, newest-first.
	ListAttempts(ctx context.Context, epID id.ID, opts ListOpts) ([]*Attempt, error)

	// ListFailedSince returns all failed attempts created at or after the
	// cutoff, across endpoints, newest-first. Archived rows are excluded.
	ListFailedSince(ctx context.Context, cutoff time.Time) ([]*Attempt, error)

	// ArchiveAttempt moves a failed attempt to the archived status.
	ArchiveAttempt(ctx context.Context, attID id.ID) error

	// CountAttemptsByStatus returns row counts per status.
	CountAttemptsByStatus(ctx context.Context) (map[Status]int, error)
}
