package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	gateflow "github.com/pavvel11/gateflow-sub005"
	"github.com/pavvel11/gateflow-sub005/delivery"
	"github.com/pavvel11/gateflow-sub005/id"
)

// attemptModel is the JSON representation stored in Redis.
type attemptModel struct {
	ID           string          `json:"id"`
	EndpointID   string          `json:"endpoint_id,omitempty"`
	EventType    string          `json:"event_type"`
	Status       string          `json:"status"`
	HTTPStatus   *int            `json:"http_status,omitempty"`
	DurationMs   int             `json:"duration_ms"`
	Payload      json.RawMessage `json:"payload,omitempty"`
	ResponseBody string          `json:"response_body,omitempty"`
	ErrorMessage string          `json:"error_message,omitempty"`
	Manual       bool            `json:"manual"`
	CreatedAt    time.Time       `json:"created_at"`
}

func toAttemptModel(att *delivery.Attempt) *attemptModel {
	m := &attemptModel{
		ID:           att.ID.String(),
		EventType:    att.EventType,
		Status:       string(att.Status),
		HTTPStatus:   att.HTTPStatus,
		DurationMs:   att.DurationMs,
		Payload:      att.Payload,
		ResponseBody: att.ResponseBody,
		ErrorMessage: att.ErrorMessage,
		Manual:       att.Manual,
		CreatedAt:    att.CreatedAt,
	}
	if !att.EndpointID.IsNil() {
		m.EndpointID = att.EndpointID.String()
	}
	return m
}

func fromAttemptModel(m *attemptModel) (*delivery.Attempt, error) {
	attID, err := id.ParseAttemptID(m.ID)
	if err != nil {
		return nil, fmt.Errorf("parse attempt ID %q: %w", m.ID, err)
	}
	epID := id.Nil
	if m.EndpointID != "" {
		epID, err = id.ParseEndpointID(m.EndpointID)
		if err != nil {
			return nil, fmt.Errorf("parse endpoint ID %q: %w", m.EndpointID, err)
		}
	}
	return &delivery.Attempt{
		ID:           attID,
		EndpointID:   epID,
		EventType:    m.EventType,
		Status:       delivery.Status(m.Status),
		HTTPStatus:   m.HTTPStatus,
		DurationMs:   m.DurationMs,
		Payload:      m.Payload,
		ResponseBody: m.ResponseBody,
		ErrorMessage: m.ErrorMessage,
		Manual:       m.Manual,
		CreatedAt:    m.CreatedAt,
	}, nil
}

func (s *Store) CreateAttempt(ctx context.Context, att *delivery.Attempt) error {
	m := toAttemptModel(att)
	key := entityKey(prefixAttempt, m.ID)

	if err := s.setEntity(ctx, key, m); err != nil {
		return fmt.Errorf("gateflow/redis: create attempt: %w", err)
	}

	score := scoreFromTime(m.CreatedAt)
	pipe := s.rdb.Pipeline()
	if m.EndpointID != "" {
		pipe.ZAdd(ctx, zAttemptEP+m.EndpointID, goredis.Z{Score: score, Member: m.ID})
	}
	pipe.ZAdd(ctx, statusSetKey(m.Status), goredis.Z{Score: score, Member: m.ID})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("gateflow/redis: create attempt indexes: %w", err)
	}
	return nil
}

func (s *Store) GetAttempt(ctx context.Context, attID id.ID) (*delivery.Attempt, error) {
	var m attemptModel
	if err := s.getEntity(ctx, entityKey(prefixAttempt, attID.String()), &m); err != nil {
		if isNotFound(err) {
			return nil, gateflow.ErrAttemptNotFound
		}
		return nil, fmt.Errorf("gateflow/redis: get attempt: %w", err)
	}
	return fromAttemptModel(&m)
}

func (s *Store) ListAttempts(ctx context.Context, epID id.ID, opts delivery.ListOpts) ([]*delivery.Attempt, error) {
	// ZRevRange gives newest-first on the created_at score.
	ids, err := s.rdb.ZRevRange(ctx, zAttemptEP+epID.String(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("gateflow/redis: list attempts: %w", err)
	}

	result := make([]*delivery.Attempt, 0, len(ids))
	for _, entryID := range ids {
		var m attemptModel
		if err := s.getEntity(ctx, entityKey(prefixAttempt, entryID), &m); err != nil {
			if isNotFound(err) {
				continue
			}
			return nil, err
		}
		if opts.Filter != "" && opts.Filter != delivery.FilterAll && m.Status != string(opts.Filter) {
			continue
		}
		att, err := fromAttemptModel(&m)
		if err != nil {
			return nil, err
		}
		result = append(result, att)
	}

	return applyPagination(result, opts.Offset, opts.Limit), nil
}

func (s *Store) ListFailedSince(ctx context.Context, cutoff time.Time) ([]*delivery.Attempt, error) {
	ids, err := s.rdb.ZRevRangeByScore(ctx, statusSetKey(string(delivery.StatusFailed)), &goredis.ZRangeBy{
		Min: strconv.FormatFloat(scoreFromTime(cutoff), 'f', -1, 64),
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("gateflow/redis: list failed since: %w", err)
	}

	result := make([]*delivery.Attempt, 0, len(ids))
	for _, entryID := range ids {
		var m attemptModel
		if err := s.getEntity(ctx, entityKey(prefixAttempt, entryID), &m); err != nil {
			if isNotFound(err) {
				continue
			}
			return nil, err
		}
		att, err := fromAttemptModel(&m)
		if err != nil {
			return nil, err
		}
		result = append(result, att)
	}
	return result, nil
}

func (s *Store) ArchiveAttempt(ctx context.Context, attID id.ID) error {
	key := entityKey(prefixAttempt, attID.String())

	var m attemptModel
	if err := s.getEntity(ctx, key, &m); err != nil {
		if isNotFound(err) {
			return gateflow.ErrAttemptNotFound
		}
		return fmt.Errorf("gateflow/redis: archive attempt get: %w", err)
	}

	if m.Status != string(delivery.StatusFailed) {
		return gateflow.ErrAttemptNotArchivable
	}

	m.Status = string(delivery.StatusArchived)
	if err := s.setEntity(ctx, key, &m); err != nil {
		return fmt.Errorf("gateflow/redis: archive attempt: %w", err)
	}

	score := scoreFromTime(m.CreatedAt)
	pipe := s.rdb.Pipeline()
	pipe.ZRem(ctx, statusSetKey(string(delivery.StatusFailed)), m.ID)
	pipe.ZAdd(ctx, statusSetKey(string(delivery.StatusArchived)), goredis.Z{Score: score, Member: m.ID})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("gateflow/redis: archive attempt indexes: %w", err)
	}
	return nil
}

func (s *Store) CountAttemptsByStatus(ctx context.Context) (map[delivery.Status]int, error) {
	statuses := []delivery.Status{delivery.StatusSuccess, delivery.StatusFailed, delivery.StatusArchived}

	counts := make(map[delivery.Status]int, len(statuses))
	for _, status := range statuses {
		n, err := s.rdb.ZCard(ctx, statusSetKey(string(status))).Result()
		if err != nil {
			return nil, fmt.Errorf("gateflow/redis: count attempts: %w", err)
		}
		if n > 0 {
			counts[status] = int(n)
		}
	}
	return counts, nil
}

// clearAttemptRefs rewrites every attempt of an endpoint with an empty
// endpoint reference. Called from DeleteEndpoint.
func (s *Store) clearAttemptRefs(ctx context.Context, epID string) error {
	ids, err := s.rdb.ZRange(ctx, zAttemptEP+epID, 0, -1).Result()
	if err != nil {
		return fmt.Errorf("gateflow/redis: clear attempt refs: %w", err)
	}

	for _, entryID := range ids {
		key := entityKey(prefixAttempt, entryID)
		var m attemptModel
		if err := s.getEntity(ctx, key, &m); err != nil {
			if isNotFound(err) {
				continue
			}
			return err
		}
		m.EndpointID = ""
		if err := s.setEntity(ctx, key, &m); err != nil {
			return fmt.Errorf("gateflow/redis: clear attempt ref: %w", err)
		}
	}
	return nil
}
