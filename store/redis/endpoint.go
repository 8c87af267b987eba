package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	gateflow "github.com/pavvel11/gateflow-sub005"
	"github.com/pavvel11/gateflow-sub005/endpoint"
	"github.com/pavvel11/gateflow-sub005/id"
)

// endpointModel is the JSON representation stored in Redis.
type endpointModel struct {
	ID          string            `json:"id"`
	URL         string            `json:"url"`
	Description string            `json:"description"`
	Secret      string            `json:"secret"`
	Events      []string          `json:"events"`
	Headers     map[string]string `json:"headers,omitempty"`
	Active      bool              `json:"active"`
	RateLimit   int               `json:"rate_limit"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func toEndpointModel(ep *endpoint.Endpoint) *endpointModel {
	return &endpointModel{
		ID:          ep.ID.String(),
		URL:         ep.URL,
		Description: ep.Description,
		Secret:      ep.Secret,
		Events:      ep.Events,
		Headers:     ep.Headers,
		Active:      ep.Active,
		RateLimit:   ep.RateLimit,
		CreatedAt:   ep.CreatedAt,
		UpdatedAt:   ep.UpdatedAt,
	}
}

func fromEndpointModel(m *endpointModel) (*endpoint.Endpoint, error) {
	epID, err := id.ParseEndpointID(m.ID)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint ID %q: %w", m.ID, err)
	}
	return &endpoint.Endpoint{
		ID:          epID,
		URL:         m.URL,
		Description: m.Description,
		Secret:      m.Secret,
		Events:      m.Events,
		Headers:     m.Headers,
		Active:      m.Active,
		RateLimit:   m.RateLimit,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}, nil
}

func (s *Store) CreateEndpoint(ctx context.Context, ep *endpoint.Endpoint) error {
	m := toEndpointModel(ep)
	key := entityKey(prefixEndpoint, m.ID)

	if err := s.setEntity(ctx, key, m); err != nil {
		return fmt.Errorf("gateflow/redis: create endpoint: %w", err)
	}

	pipe := s.rdb.Pipeline()
	pipe.ZAdd(ctx, zEndpointAll, goredis.Z{Score: scoreFromTime(m.CreatedAt), Member: m.ID})
	if m.Active {
		pipe.SAdd(ctx, sEndpointActive, m.ID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("gateflow/redis: create endpoint indexes: %w", err)
	}
	return nil
}

func (s *Store) GetEndpoint(ctx context.Context, epID id.ID) (*endpoint.Endpoint, error) {
	if epID.IsNil() {
		return nil, gateflow.ErrEndpointNotFound
	}
	var m endpointModel
	if err := s.getEntity(ctx, entityKey(prefixEndpoint, epID.String()), &m); err != nil {
		if isNotFound(err) {
			return nil, gateflow.ErrEndpointNotFound
		}
		return nil, fmt.Errorf("gateflow/redis: get endpoint: %w", err)
	}
	return fromEndpointModel(&m)
}

func (s *Store) UpdateEndpoint(ctx context.Context, ep *endpoint.Endpoint) error {
	key := entityKey(prefixEndpoint, ep.ID.String())

	// Verify existence.
	var existing endpointModel
	if err := s.getEntity(ctx, key, &existing); err != nil {
		if isNotFound(err) {
			return gateflow.ErrEndpointNotFound
		}
		return fmt.Errorf("gateflow/redis: update endpoint get: %w", err)
	}

	m := toEndpointModel(ep)
	m.UpdatedAt = now()

	if err := s.setEntity(ctx, key, m); err != nil {
		return fmt.Errorf("gateflow/redis: update endpoint: %w", err)
	}

	if m.Active {
		s.rdb.SAdd(ctx, sEndpointActive, m.ID)
	} else {
		s.rdb.SRem(ctx, sEndpointActive, m.ID)
	}
	return nil
}

func (s *Store) DeleteEndpoint(ctx context.Context, epID id.ID) error {
	key := entityKey(prefixEndpoint, epID.String())

	var m endpointModel
	if err := s.getEntity(ctx, key, &m); err != nil {
		if isNotFound(err) {
			return gateflow.ErrEndpointNotFound
		}
		return fmt.Errorf("gateflow/redis: delete endpoint get: %w", err)
	}

	// Clear the endpoint reference on every logged attempt before removing
	// the endpoint itself. The rows survive with a nil reference.
	if err := s.clearAttemptRefs(ctx, epID.String()); err != nil {
		return err
	}

	if err := s.kv.Delete(ctx, key); err != nil {
		return fmt.Errorf("gateflow/redis: delete endpoint: %w", err)
	}

	pipe := s.rdb.Pipeline()
	pipe.ZRem(ctx, zEndpointAll, m.ID)
	pipe.SRem(ctx, sEndpointActive, m.ID)
	pipe.Del(ctx, zAttemptEP+m.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("gateflow/redis: delete endpoint indexes: %w", err)
	}
	return nil
}

func (s *Store) ListEndpoints(ctx context.Context, opts endpoint.ListOpts) ([]*endpoint.Endpoint, error) {
	ids, err := s.rdb.ZRange(ctx, zEndpointAll, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("gateflow/redis: list endpoints: %w", err)
	}

	result := make([]*endpoint.Endpoint, 0, len(ids))
	for _, entryID := range ids {
		var m endpointModel
		if err := s.getEntity(ctx, entityKey(prefixEndpoint, entryID), &m); err != nil {
			if isNotFound(err) {
				continue
			}
			return nil, err
		}
		if opts.Active != nil && m.Active != *opts.Active {
			continue
		}
		ep, err := fromEndpointModel(&m)
		if err != nil {
			return nil, err
		}
		result = append(result, ep)
	}

	return applyPagination(result, opts.Offset, opts.Limit), nil
}

func (s *Store) Subscribers(ctx context.Context, eventType string) ([]*endpoint.Endpoint, error) {
	ids, err := s.rdb.SMembers(ctx, sEndpointActive).Result()
	if err != nil {
		return nil, fmt.Errorf("gateflow/redis: subscribers: %w", err)
	}

	var result []*endpoint.Endpoint
	for _, entryID := range ids {
		var m endpointModel
		if err := s.getEntity(ctx, entityKey(prefixEndpoint, entryID), &m); err != nil {
			if isNotFound(err) {
				continue
			}
			return nil, err
		}
		for _, name := range m.Events {
			if name == eventType {
				ep, err := fromEndpointModel(&m)
				if err != nil {
					return nil, err
				}
				result = append(result, ep)
				break
			}
		}
	}
	return result, nil
}

func (s *Store) SetActive(ctx context.Context, epID id.ID, active bool) error {
	key := entityKey(prefixEndpoint, epID.String())

	var m endpointModel
	if err := s.getEntity(ctx, key, &m); err != nil {
		if isNotFound(err) {
			return gateflow.ErrEndpointNotFound
		}
		return fmt.Errorf("gateflow/redis: set active get: %w", err)
	}

	m.Active = active
	m.UpdatedAt = now()

	if err := s.setEntity(ctx, key, &m); err != nil {
		return fmt.Errorf("gateflow/redis: set active: %w", err)
	}

	if active {
		s.rdb.SAdd(ctx, sEndpointActive, m.ID)
	} else {
		s.rdb.SRem(ctx, sEndpointActive, m.ID)
	}
	return nil
}
