package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ronan-soo/Redoxide-Feature-Request-System/internal/model"
)

// NotifyChannel is the Postgres NOTIFY channel fired after every feature
// mutation. The feed worker LISTENs on it to drive snapshot pushes.
const NotifyChannel = "feature_changes"

type FeatureRepo struct {
	pool *pgxpool.Pool
}

func NewFeatureRepo(pool *pgxpool.Pool) *FeatureRepo {
	return &FeatureRepo{pool: pool}
}

// Create inserts a new feature request with zero votes and status "open".
func (r *FeatureRepo) Create(ctx context.Context, title, description, createdBy, authorName string) (*model.FeatureRequest, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	f := &model.FeatureRequest{
		Title:       title,
		Description: description,
		CreatedAt:   time.Now().UnixMilli(),
		Upvotes:     0,
		UpvotedBy:   []string{},
		Status:      model.StatusOpen,
		CreatedBy:   createdBy,
		AuthorName:  authorName,
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO features (title, description, created_at, created_by, author_name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id::text`,
		title, description, f.CreatedAt, createdBy, authorName).Scan(&f.ID)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `SELECT pg_notify($1, $2)`, NotifyChannel, f.ID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return f, nil
}

// List returns the complete current record set, newest first (the store
// order; callers re-sort for presentation).
func (r *FeatureRepo) List(ctx context.Context) ([]model.FeatureRequest, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT f.id::text, f.title, f.description, f.created_at, f.upvotes, f.status,
		       f.created_by, f.author_name,
		       COALESCE(array_agg(v.user_id) FILTER (WHERE v.user_id IS NOT NULL), '{}')
		FROM features f
		LEFT JOIN feature_votes v ON v.feature_id = f.id
		GROUP BY f.id
		ORDER BY f.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	features := []model.FeatureRequest{}
	for rows.Next() {
		var f model.FeatureRequest
		err := rows.Scan(&f.ID, &f.Title, &f.Description, &f.CreatedAt, &f.Upvotes,
			&f.Status, &f.CreatedBy, &f.AuthorName, &f.UpvotedBy)
		if err != nil {
			return nil, err
		}
		features = append(features, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return features, nil
}

// ToggleUpvote flips the user's membership in the feature's vote set and
// adjusts the counter in the same transaction. Membership is read inside
// the transaction under a row lock on the feature, so the counter can
// never drift from the set even under concurrent same-user toggles.
// Returns the membership state and counter after the toggle.
func (r *FeatureRepo) ToggleUpvote(ctx context.Context, featureID, userID string) (upvoted bool, upvotes int, err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, 0, err
	}
	defer tx.Rollback(ctx)

	// Lock the feature row; also verifies existence (pgx.ErrNoRows if not).
	var current int
	err = tx.QueryRow(ctx, `SELECT upvotes FROM features WHERE id = $1 FOR UPDATE`, featureID).Scan(&current)
	if err != nil {
		return false, 0, err
	}

	var isMember bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM feature_votes WHERE feature_id = $1 AND user_id = $2)`,
		featureID, userID).Scan(&isMember)
	if err != nil {
		return false, 0, err
	}

	if isMember {
		_, err = tx.Exec(ctx, `DELETE FROM feature_votes WHERE feature_id = $1 AND user_id = $2`,
			featureID, userID)
		if err != nil {
			return false, 0, err
		}
		err = tx.QueryRow(ctx, `
			UPDATE features SET upvotes = GREATEST(upvotes - 1, 0)
			WHERE id = $1 RETURNING upvotes`, featureID).Scan(&upvotes)
	} else {
		_, err = tx.Exec(ctx, `INSERT INTO feature_votes (feature_id, user_id) VALUES ($1, $2)`,
			featureID, userID)
		if err != nil {
			return false, 0, err
		}
		err = tx.QueryRow(ctx, `
			UPDATE features SET upvotes = upvotes + 1
			WHERE id = $1 RETURNING upvotes`, featureID).Scan(&upvotes)
	}
	if err != nil {
		return false, 0, err
	}

	_, err = tx.Exec(ctx, `SELECT pg_notify($1, $2)`, NotifyChannel, featureID)
	if err != nil {
		return false, 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, 0, err
	}
	return !isMember, upvotes, nil
}

// UpdateStatus sets a feature's status. Administrative path only; there
// is no user-facing write to status. Returns pgx.ErrNoRows if the
// feature does not exist.
func (r *FeatureRepo) UpdateStatus(ctx context.Context, featureID, status string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var id string
	err = tx.QueryRow(ctx, `
		UPDATE features SET status = $2 WHERE id = $1 RETURNING id::text`,
		featureID, status).Scan(&id)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `SELECT pg_notify($1, $2)`, NotifyChannel, featureID)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Stats returns board-wide totals.
func (r *FeatureRepo) Stats(ctx context.Context) (*model.StatsResponse, error) {
	stats := &model.StatsResponse{ByStatus: make(map[string]int)}

	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(upvotes), 0) FROM features`).
		Scan(&stats.TotalFeatures, &stats.TotalVotes)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM features GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.ByStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}
