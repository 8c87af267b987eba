package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	gateflow "github.com/pavvel11/gateflow-sub005"
	"github.com/pavvel11/gateflow-sub005/delivery"
	"github.com/pavvel11/gateflow-sub005/id"
)

// CreateAttempt persists a new attempt row.
func (s *Store) CreateAttempt(ctx context.Context, att *delivery.Attempt) error {
	m := toAttemptModel(att)

	_, err := s.mdb.NewInsert(m).Exec(ctx)
	if err != nil {
		return fmt.Errorf("gateflow/mongo: create attempt: %w", err)
	}

	return nil
}

// GetAttempt returns an attempt by ID.
func (s *Store) GetAttempt(ctx context.Context, attID id.ID) (*delivery.Attempt, error) {
	var m attemptModel

	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": attID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, gateflow.ErrAttemptNotFound
		}

		return nil, fmt.Errorf("gateflow/mongo: get attempt: %w", err)
	}

	return fromAttemptModel(&m)
}

// ListAttempts returns attempts for an endpoint, newest-first.
func (s *Store) ListAttempts(ctx context.Context, epID id.ID, opts delivery.ListOpts) ([]*delivery.Attempt, error) {
	var models []attemptModel

	filter := bson.M{"endpoint_id": epID.String()}
	if opts.Filter != "" && opts.Filter != delivery.FilterAll {
		filter["status"] = string(opts.Filter)
	}

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}

	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("gateflow/mongo: list attempts: %w", err)
	}

	result := make([]*delivery.Attempt, 0, len(models))

	for i := range models {
		att, err := fromAttemptModel(&models[i])
		if err != nil {
			return nil, err
		}

		result = append(result, att)
	}

	return result, nil
}

// ListFailedSince returns all failed attempts within the window, newest-first.
func (s *Store) ListFailedSince(ctx context.Context, cutoff time.Time) ([]*delivery.Attempt, error) {
	var models []attemptModel

	if err := s.mdb.NewFind(&models).
		Filter(bson.M{
			"status":     string(delivery.StatusFailed),
			"created_at": bson.M{"$gte": cutoff},
		}).
		Sort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("gateflow/mongo: list failed since: %w", err)
	}

	result := make([]*delivery.Attempt, 0, len(models))

	for i := range models {
		att, err := fromAttemptModel(&models[i])
		if err != nil {
			return nil, err
		}

		result = append(result, att)
	}

	return result, nil
}

// ArchiveAttempt moves a failed attempt to the archived status.
func (s *Store) ArchiveAttempt(ctx context.Context, attID id.ID) error {
	res, err := s.mdb.NewUpdate((*attemptModel)(nil)).
		Filter(bson.M{
			"_id":    attID.String(),
			"status": string(delivery.StatusFailed),
		}).
		Set("status", string(delivery.StatusArchived)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("gateflow/mongo: archive attempt: %w", err)
	}

	if res.MatchedCount() == 0 {
		// Distinguish a missing row from a row in the wrong status.
		if _, getErr := s.GetAttempt(ctx, attID); getErr != nil {
			return getErr
		}

		return gateflow.ErrAttemptNotArchivable
	}

	return nil
}

// CountAttemptsByStatus returns row counts per status.
func (s *Store) CountAttemptsByStatus(ctx context.Context) (map[delivery.Status]int, error) {
	statuses := []delivery.Status{delivery.StatusSuccess, delivery.StatusFailed, delivery.StatusArchived}

	counts := make(map[delivery.Status]int, len(statuses))

	for _, status := range statuses {
		n, err := s.mdb.NewFind((*attemptModel)(nil)).
			Filter(bson.M{"status": string(status)}).
			Count(ctx)
		if err != nil {
			return nil, fmt.Errorf("gateflow/mongo: count attempts: %w", err)
		}

		if n > 0 {
			counts[status] = int(n)
		}
	}

	return counts, nil
}
