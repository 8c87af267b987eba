// Package memory provides an in-memory Store implementation for unit testing.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	gateflow "github.com/pavvel11/gateflow-sub005"
	"github.com/pavvel11/gateflow-sub005/delivery"
	"github.com/pavvel11/gateflow-sub005/endpoint"
	"github.com/pavvel11/gateflow-sub005/id"
	gfstore "github.com/pavvel11/gateflow-sub005/store"
)

// compile-time interface check.
var _ gfstore.Store = (*Store)(nil)

// Store is an in-memory implementation of store.Store for testing.
type Store struct {
	mu sync.RWMutex

	endpoints map[string]*endpoint.Endpoint // keyed by ID string
	attempts  map[string]*delivery.Attempt  // keyed by ID string
	seq       map[string]int64              // insertion order for stable newest-first sorting
	nextSeq   int64

	closed bool
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		endpoints: make(map[string]*endpoint.Endpoint),
		attempts:  make(map[string]*delivery.Attempt),
		seq:       make(map[string]int64),
	}
}

// ──────────────────────────────────────────────────
// Lifecycle
// ──────────────────────────────────────────────────

// Migrate is a no-op for the in-memory store.
func (s *Store) Migrate(_ context.Context) error { return nil }

// Ping reports whether the store is still open.
func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return gateflow.ErrStoreClosed
	}
	return nil
}

// Close marks the store as closed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// ──────────────────────────────────────────────────
// endpoint.Store
// ──────────────────────────────────────────────────

func copyEndpoint(ep *endpoint.Endpoint) *endpoint.Endpoint {
	c := *ep
	c.Events = append([]string(nil), ep.Events...)
	if ep.Headers != nil {
		c.Headers = make(map[string]string, len(ep.Headers))
		for k, v := range ep.Headers {
			c.Headers[k] = v
		}
	}
	return &c
}

// CreateEndpoint persists a new endpoint.
func (s *Store) CreateEndpoint(_ context.Context, ep *endpoint.Endpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.endpoints[ep.ID.String()] = copyEndpoint(ep)
	return nil
}

// GetEndpoint returns an endpoint by ID.
func (s *Store) GetEndpoint(_ context.Context, epID id.ID) (*endpoint.Endpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ep, ok := s.endpoints[epID.String()]
	if !ok {
		return nil, gateflow.ErrEndpointNotFound
	}
	return copyEndpoint(ep), nil
}

// UpdateEndpoint modifies an existing endpoint.
func (s *Store) UpdateEndpoint(_ context.Context, ep *endpoint.Endpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.endpoints[ep.ID.String()]; !ok {
		return gateflow.ErrEndpointNotFound
	}
	s.endpoints[ep.ID.String()] = copyEndpoint(ep)
	return nil
}

// DeleteEndpoint removes an endpoint and clears the endpoint reference on
// its attempts, preserving the log rows.
func (s *Store) DeleteEndpoint(_ context.Context, epID id.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := epID.String()
	if _, ok := s.endpoints[key]; !ok {
		return gateflow.ErrEndpointNotFound
	}
	delete(s.endpoints, key)

	for _, att := range s.attempts {
		if att.EndpointID.String() == key {
			att.EndpointID = id.Nil
		}
	}
	return nil
}

// ListEndpoints returns endpoints, optionally filtered by active flag,
// ordered oldest-first by creation time.
func (s *Store) ListEndpoints(_ context.Context, opts endpoint.ListOpts) ([]*endpoint.Endpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*endpoint.Endpoint
	for _, ep := range s.endpoints {
		if opts.Active != nil && ep.Active != *opts.Active {
			continue
		}
		out = append(out, copyEndpoint(ep))
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return applyPagination(out, opts.Offset, opts.Limit), nil
}

// Subscribers returns all active endpoints subscribed to the event type.
func (s *Store) Subscribers(_ context.Context, eventType string) ([]*endpoint.Endpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*endpoint.Endpoint
	for _, ep := range s.endpoints {
		if ep.Active && ep.Subscribes(eventType) {
			out = append(out, copyEndpoint(ep))
		}
	}
	return out, nil
}

// SetActive flips the active flag without touching anything else.
func (s *Store) SetActive(_ context.Context, epID id.ID, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ep, ok := s.endpoints[epID.String()]
	if !ok {
		return gateflow.ErrEndpointNotFound
	}
	ep.Active = active
	ep.UpdatedAt = time.Now().UTC()
	return nil
}

// ──────────────────────────────────────────────────
// delivery.Store
// ──────────────────────────────────────────────────

func copyAttempt(att *delivery.Attempt) *delivery.Attempt {
	c := *att
	if att.HTTPStatus != nil {
		v := *att.HTTPStatus
		c.HTTPStatus = &v
	}
	c.Payload = append([]byte(nil), att.Payload...)
	return &c
}

// CreateAttempt appends a new attempt row.
func (s *Store) CreateAttempt(_ context.Context, att *delivery.Attempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := att.ID.String()
	s.attempts[key] = copyAttempt(att)
	s.nextSeq++
	s.seq[key] = s.nextSeq
	return nil
}

// GetAttempt returns an attempt by ID.
func (s *Store) GetAttempt(_ context.Context, attID id.ID) (*delivery.Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	att, ok := s.attempts[attID.String()]
	if !ok {
		return nil, gateflow.ErrAttemptNotFound
	}
	return copyAttempt(att), nil
}

func matchFilter(att *delivery.Attempt, f delivery.Filter) bool {
	switch f {
	case delivery.FilterAll, "":
		return true
	case delivery.FilterSuccess:
		return att.Status == delivery.StatusSuccess
	case delivery.FilterFailed:
		return att.Status == delivery.StatusFailed
	case delivery.FilterArchived:
		return att.Status == delivery.StatusArchived
	}
	return false
}

// ListAttempts returns an endpoint's attempts, newest-first.
func (s *Store) ListAttempts(_ context.Context, epID id.ID, opts delivery.ListOpts) ([]*delivery.Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := epID.String()
	var out []*delivery.Attempt
	for _, att := range s.attempts {
		if att.EndpointID.String() != key {
			continue
		}
		if !matchFilter(att, opts.Filter) {
			continue
		}
		out = append(out, copyAttempt(att))
	}

	s.sortNewestFirst(out)
	return applyPagination(out, opts.Offset, opts.Limit), nil
}

// ListFailedSince returns failed attempts at or after the cutoff, across all
// endpoints, newest-first.
func (s *Store) ListFailedSince(_ context.Context, cutoff time.Time) ([]*delivery.Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*delivery.Attempt
	for _, att := range s.attempts {
		if att.Status != delivery.StatusFailed {
			continue
		}
		if att.CreatedAt.Before(cutoff) {
			continue
		}
		out = append(out, copyAttempt(att))
	}

	s.sortNewestFirst(out)
	return out, nil
}

// ArchiveAttempt moves a failed attempt to archived.
func (s *Store) ArchiveAttempt(_ context.Context, attID id.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	att, ok := s.attempts[attID.String()]
	if !ok {
		return gateflow.ErrAttemptNotFound
	}
	if att.Status != delivery.StatusFailed {
		return gateflow.ErrAttemptNotArchivable
	}
	att.Status = delivery.StatusArchived
	return nil
}

// CountAttemptsByStatus returns row counts per status.
func (s *Store) CountAttemptsByStatus(_ context.Context) (map[delivery.Status]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[delivery.Status]int)
	for _, att := range s.attempts {
		out[att.Status]++
	}
	return out, nil
}

// sortNewestFirst orders attempts by creation time descending, breaking ties
// by insertion order so same-instant rows stay stable.
func (s *Store) sortNewestFirst(atts []*delivery.Attempt) {
	sort.Slice(atts, func(i, j int) bool {
		if atts[i].CreatedAt.Equal(atts[j].CreatedAt) {
			return s.seq[atts[i].ID.String()] > s.seq[atts[j].ID.String()]
		}
		return atts[i].CreatedAt.After(atts[j].CreatedAt)
	})
}

func applyPagination[T any](items []*T, offset, limit int) []*T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
