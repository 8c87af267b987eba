// Package sqlite implements the webhook store on SQLite via Grove ORM.
// Arrays and objects are stored as JSON text.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/sqlitedriver"
	"github.com/xraph/grove/migrate"

	gateflow "github.com/pavvel11/gateflow-sub005"
	"github.com/pavvel11/gateflow-sub005/delivery"
	"github.com/pavvel11/gateflow-sub005/endpoint"
	"github.com/pavvel11/gateflow-sub005/id"
	gfstore "github.com/pavvel11/gateflow-sub005/store"
)

// compile-time interface check
var _ gfstore.Store = (*Store)(nil)

// Store implements store.Store using SQLite via Grove ORM.
type Store struct {
	db  *grove.DB
	sdb *sqlitedriver.SqliteDB
}

// New creates a new SQLite store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		sdb: sqlitedriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates the required tables and indexes using the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.sdb)
	if err != nil {
		return fmt.Errorf("gateflow/sqlite: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("%w: %v", gateflow.ErrMigrationFailed, err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ==================== Endpoint Store ====================

func (s *Store) CreateEndpoint(ctx context.Context, ep *endpoint.Endpoint) error {
	m := toEndpointModel(ep)
	_, err := s.sdb.NewInsert(m).Exec(ctx)
	return err
}

func (s *Store) GetEndpoint(ctx context.Context, epID id.ID) (*endpoint.Endpoint, error) {
	if epID.IsNil() {
		return nil, gateflow.ErrEndpointNotFound
	}
	m := new(endpointModel)
	err := s.sdb.NewSelect(m).
		Where("id = ?", epID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, gateflow.ErrEndpointNotFound
		}
		return nil, err
	}
	return fromEndpointModel(m)
}

func (s *Store) UpdateEndpoint(ctx context.Context, ep *endpoint.Endpoint) error {
	m := toEndpointModel(ep)
	m.UpdatedAt = time.Now().UTC()
	res, err := s.sdb.NewUpdate(m).
		WherePK().
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return gateflow.ErrEndpointNotFound
	}
	return nil
}

func (s *Store) DeleteEndpoint(ctx context.Context, epID id.ID) error {
	if _, err := s.sdb.NewUpdate((*attemptModel)(nil)).
		Set("endpoint_id = NULL").
		Where("endpoint_id = ?", epID.String()).
		Exec(ctx); err != nil {
		return err
	}

	res, err := s.sdb.NewDelete((*endpointModel)(nil)).
		Where("id = ?", epID.String()).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return gateflow.ErrEndpointNotFound
	}
	return nil
}

func (s *Store) ListEndpoints(ctx context.Context, opts endpoint.ListOpts) ([]*endpoint.Endpoint, error) {
	var models []endpointModel
	q := s.sdb.NewSelect(&models)

	if opts.Active != nil {
		q = q.Where("active = ?", *opts.Active)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("created_at ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	result := make([]*endpoint.Endpoint, len(models))
	for i := range models {
		ep, err := fromEndpointModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = ep
	}
	return result, nil
}

// Subscribers loads active endpoints and filters subscriptions in Go, since
// the events column is a JSON text blob.
func (s *Store) Subscribers(ctx context.Context, eventType string) ([]*endpoint.Endpoint, error) {
	var models []endpointModel
	if err := s.sdb.NewSelect(&models).
		Where("active = ?", true).
		OrderExpr("created_at ASC").
		Scan(ctx); err != nil {
		return nil, err
	}

	var result []*endpoint.Endpoint
	for i := range models {
		for _, name := range models[i].events() {
			if name == eventType {
				ep, err := fromEndpointModel(&models[i])
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
	now := time.Now().UTC()
	res, err := s.sdb.NewUpdate((*endpointModel)(nil)).
		Set("active = ?", active).
		Set("updated_at = ?", now).
		Where("id = ?", epID.String()).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return gateflow.ErrEndpointNotFound
	}
	return nil
}

// ==================== Delivery Store ====================

func (s *Store) CreateAttempt(ctx context.Context, att *delivery.Attempt) error {
	m := toAttemptModel(att)
	_, err := s.sdb.NewInsert(m).Exec(ctx)
	return err
}

func (s *Store) GetAttempt(ctx context.Context, attID id.ID) (*delivery.Attempt, error) {
	m := new(attemptModel)
	err := s.sdb.NewSelect(m).
		Where("id = ?", attID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, gateflow.ErrAttemptNotFound
		}
		return nil, err
	}
	return fromAttemptModel(m)
}

func (s *Store) ListAttempts(ctx context.Context, epID id.ID, opts delivery.ListOpts) ([]*delivery.Attempt, error) {
	var models []attemptModel
	q := s.sdb.NewSelect(&models).Where("endpoint_id = ?", epID.String())

	if opts.Filter != "" && opts.Filter != delivery.FilterAll {
		q = q.Where("status = ?", string(opts.Filter))
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("created_at DESC, id DESC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	result := make([]*delivery.Attempt, len(models))
	for i := range models {
		att, err := fromAttemptModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = att
	}
	return result, nil
}

func (s *Store) ListFailedSince(ctx context.Context, cutoff time.Time) ([]*delivery.Attempt, error) {
	var models []attemptModel
	if err := s.sdb.NewSelect(&models).
		Where("status = ?", string(delivery.StatusFailed)).
		Where("created_at >= ?", cutoff).
		OrderExpr("created_at DESC, id DESC").
		Scan(ctx); err != nil {
		return nil, err
	}

	result := make([]*delivery.Attempt, len(models))
	for i := range models {
		att, err := fromAttemptModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = att
	}
	return result, nil
}

func (s *Store) ArchiveAttempt(ctx context.Context, attID id.ID) error {
	res, err := s.sdb.NewUpdate((*attemptModel)(nil)).
		Set("status = ?", string(delivery.StatusArchived)).
		Where("id = ?", attID.String()).
		Where("status = ?", string(delivery.StatusFailed)).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		if _, getErr := s.GetAttempt(ctx, attID); getErr != nil {
			return getErr
		}
		return gateflow.ErrAttemptNotArchivable
	}
	return nil
}

func (s *Store) CountAttemptsByStatus(ctx context.Context) (map[delivery.Status]int, error) {
	var rows []statusCount
	if err := s.sdb.NewRaw(`
		SELECT status, COUNT(*) AS count
		FROM gf_delivery_attempts
		GROUP BY status
	`).Scan(ctx, &rows); err != nil {
		return nil, err
	}

	counts := make(map[delivery.Status]int, len(rows))
	for _, r := range rows {
		counts[delivery.Status(r.Status)] = r.Count
	}
	return counts, nil
}

type statusCount struct {
	Status string `grove:"status"`
	Count  int    `grove:"count"`
}

// isNoRows checks for the standard sql.ErrNoRows sentinel.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
