package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"

	gateflow "github.com/pavvel11/gateflow-sub005"
	"github.com/pavvel11/gateflow-sub005/endpoint"
	"github.com/pavvel11/gateflow-sub005/id"
)

// CreateEndpoint persists a new endpoint.
func (s *Store) CreateEndpoint(ctx context.Context, ep *endpoint.Endpoint) error {
	m := toEndpointModel(ep)

	_, err := s.mdb.NewInsert(m).Exec(ctx)
	if err != nil {
		return fmt.Errorf("gateflow/mongo: create endpoint: %w", err)
	}

	return nil
}

// GetEndpoint returns an endpoint by ID.
func (s *Store) GetEndpoint(ctx context.Context, epID id.ID) (*endpoint.Endpoint, error) {
	if epID.IsNil() {
		return nil, gateflow.ErrEndpointNotFound
	}

	var m endpointModel

	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": epID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, gateflow.ErrEndpointNotFound
		}

		return nil, fmt.Errorf("gateflow/mongo: get endpoint: %w", err)
	}

	return fromEndpointModel(&m)
}

// UpdateEndpoint modifies an existing endpoint.
func (s *Store) UpdateEndpoint(ctx context.Context, ep *endpoint.Endpoint) error {
	m := toEndpointModel(ep)
	m.UpdatedAt = now()

	res, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.ID}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("gateflow/mongo: update endpoint: %w", err)
	}

	if res.MatchedCount() == 0 {
		return gateflow.ErrEndpointNotFound
	}

	return nil
}

// DeleteEndpoint removes an endpoint. Logged attempts survive with their
// endpoint reference cleared.
func (s *Store) DeleteEndpoint(ctx context.Context, epID id.ID) error {
	if _, err := s.mdb.Collection(colAttempts).UpdateMany(ctx,
		bson.M{"endpoint_id": epID.String()},
		bson.M{"$set": bson.M{"endpoint_id": ""}},
	); err != nil {
		return fmt.Errorf("gateflow/mongo: clear attempt refs: %w", err)
	}

	res, err := s.mdb.NewDelete((*endpointModel)(nil)).
		Filter(bson.M{"_id": epID.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("gateflow/mongo: delete endpoint: %w", err)
	}

	if res.DeletedCount() == 0 {
		return gateflow.ErrEndpointNotFound
	}

	return nil
}

// ListEndpoints returns endpoints, optionally filtered by the active flag.
func (s *Store) ListEndpoints(ctx context.Context, opts endpoint.ListOpts) ([]*endpoint.Endpoint, error) {
	var models []endpointModel

	filter := bson.M{}
	if opts.Active != nil {
		filter["active"] = *opts.Active
	}

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "created_at", Value: 1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}

	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("gateflow/mongo: list endpoints: %w", err)
	}

	result := make([]*endpoint.Endpoint, 0, len(models))

	for i := range models {
		ep, err := fromEndpointModel(&models[i])
		if err != nil {
			return nil, err
		}

		result = append(result, ep)
	}

	return result, nil
}

// Subscribers returns active endpoints subscribed to an event type. Mongo
// matches scalar values against array fields natively, so the subscription
// check runs in the query.
func (s *Store) Subscribers(ctx context.Context, eventType string) ([]*endpoint.Endpoint, error) {
	var models []endpointModel

	if err := s.mdb.NewFind(&models).
		Filter(bson.M{
			"active": true,
			"events": eventType,
		}).
		Sort(bson.D{{Key: "created_at", Value: 1}}).
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("gateflow/mongo: subscribers: %w", err)
	}

	result := make([]*endpoint.Endpoint, 0, len(models))

	for i := range models {
		ep, err := fromEndpointModel(&models[i])
		if err != nil {
			return nil, err
		}

		result = append(result, ep)
	}

	return result, nil
}

// SetActive activates or deactivates an endpoint.
func (s *Store) SetActive(ctx context.Context, epID id.ID, active bool) error {
	res, err := s.mdb.NewUpdate((*endpointModel)(nil)).
		Filter(bson.M{"_id": epID.String()}).
		Set("active", active).
		Set("updated_at", now()).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("gateflow/mongo: set active: %w", err)
	}

	if res.MatchedCount() == 0 {
		return gateflow.ErrEndpointNotFound
	}

	return nil
}
