package postgres

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the webhook store.
// It can be registered with the grove extension for orchestrated migration
// management (locking, version tracking, rollback support).
var Migrations = migrate.NewGroup("gateflow_webhooks")

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
    events      TEXT[] NOT NULL DEFAULT '{}',
    headers     JSONB NOT NULL DEFAULT '{}',
    active      BOOLEAN NOT NULL DEFAULT TRUE,
    rate_limit  INT NOT NULL DEFAULT 0,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
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
    endpoint_id   TEXT REFERENCES gf_endpoints (id) ON DELETE SET NULL,
    event_type    TEXT NOT NULL DEFAULT '',
    status        TEXT NOT NULL DEFAULT 'failed',
    http_status   INT,
    duration_ms   INT NOT NULL DEFAULT 0,
    payload       JSONB,
    response_body TEXT NOT NULL DEFAULT '',
    error_message TEXT NOT NULL DEFAULT '',
    manual        BOOLEAN NOT NULL DEFAULT FALSE,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_gf_attempts_endpoint ON gf_delivery_attempts (endpoint_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_gf_attempts_failed ON gf_delivery_attempts (created_at DESC) WHERE status = 'failed';
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
