package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is applied idempotently at startup. feature_votes holds the
// upvotedBy membership set; the upvotes counter on features is only ever
// mutated in the same transaction as a membership change.
const schema = `
CREATE TABLE IF NOT EXISTS features (
	id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	title       TEXT NOT NULL,
	description TEXT NOT NULL,
	created_at  BIGINT NOT NULL,
	upvotes     INTEGER NOT NULL DEFAULT 0 CHECK (upvotes >= 0),
	status      VARCHAR(20) NOT NULL DEFAULT 'open',
	created_by  VARCHAR(64) NOT NULL DEFAULT '',
	author_name VARCHAR(120) NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS feature_votes (
	feature_id UUID NOT NULL REFERENCES features(id) ON DELETE CASCADE,
	user_id    VARCHAR(64) NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (feature_id, user_id)
);

CREATE INDEX IF NOT EXISTS idx_features_upvotes ON features (upvotes DESC);
CREATE INDEX IF NOT EXISTS idx_features_created_at ON features (created_at DESC);
CREATE INDEX IF NOT EXISTS idx_feature_votes_user ON feature_votes (user_id);
`

// Migrate applies the schema. Safe to run on every startup.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
