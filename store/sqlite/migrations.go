package sqlite

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the SQLite webhook store.
var Migrations = migrate.NewGroup("gateflow_webhooks_sqlite")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_gf_endpoints",
			Version: "20250101000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS gf_endpoints (
    id          TEXT PRIMARY KEY,
    url         TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    secret      TEXT NOT NULL DEFAULT '',
    events      TEXT NOT NULL DEFAULT '[]',
    headers     TEXT NOT NULL DEFAULT '{}',
    active      INTEGER NOT NULL DEFAULT 1,
    rate_limit  INTEGER NOT NULL DEFAULT 0,
    created_at  TIMESTAMP NOT NULL,
    updated_at  TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_gf_endpoints_active ON gf_endpoints (active);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS gf_endpoints`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_gf_delivery_attempts",
			Version: "20250101000002",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS gf_delivery_attempts (
    id            TEXT PRIMARY KEY,
    endpoint_id   TEXT,
    event_type    TEXT NOT NULL DEFAULT '',
    status        TEXT NOT NULL DEFAULT 'failed',
    http_status   INTEGER,
    duration_ms   INTEGER NOT NULL DEFAULT 0,
    payload       TEXT NOT NULL DEFAULT '',
    response_body TEXT NOT NULL DEFAULT '',
    error_message TEXT NOT NULL DEFAULT '',
    manual        INTEGER NOT NULL DEFAULT 0,
    created_at    TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_gf_attempts_endpoint ON gf_delivery_attempts (endpoint_id, created_at);
CREATE INDEX IF NOT EXISTS idx_gf_attempts_status ON gf_delivery_attempts (status, created_at);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS gf_delivery_attempts`)
				return err
			},
		},
	)
}
