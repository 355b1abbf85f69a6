// Package pgoverride is the optional Postgres-backed implementation of
// normalize.OverrideStore, for callers that want merchant overrides to
// survive restarts. The core pipeline only depends on the narrow
// normalize.OverrideStore interface and defaults to an in-memory store;
// wiring this adapter in is opt-in at the call site, keeping persistent
// storage out of the CORE's critical path.
package pgoverride

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hisaabflow/ledger/internal/normalize"
)

// Store persists user merchant overrides in Postgres.
type Store struct {
	db *pgxpool.Pool
}

// New creates a Store backed by an existing connection pool.
func New(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Ensure Store satisfies normalize.OverrideStore, adapting pgx's
// context-taking methods to the core's synchronous interface with a
// background context — callers needing cancellation should use the
// context-aware methods directly instead of this adapter.
var _ normalize.OverrideStore = (*Store)(nil)

func (s *Store) SaveOverride(userID string, o normalize.MerchantOverride) error {
	return s.SaveOverrideContext(context.Background(), userID, o)
}

func (s *Store) SaveOverrideContext(ctx context.Context, userID string, o normalize.MerchantOverride) error {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO merchant_overrides (user_id, pattern, merchant_name, category, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, pattern) DO UPDATE SET
			merchant_name = EXCLUDED.merchant_name,
			category = EXCLUDED.category
	`
	_, err = s.db.Exec(ctx, query, uid, o.Pattern, o.Merchant, o.Category, time.Now())
	return err
}

func (s *Store) GetOverridesForUser(userID string) ([]normalize.MerchantOverride, error) {
	return s.GetOverridesForUserContext(context.Background(), userID)
}

func (s *Store) GetOverridesForUserContext(ctx context.Context, userID string) ([]normalize.MerchantOverride, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, err
	}
	query := `
		SELECT id, pattern, merchant_name, category, match_count, created_at
		FROM merchant_overrides
		WHERE user_id = $1
		ORDER BY match_count DESC, created_at DESC
	`
	rows, err := s.db.Query(ctx, query, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []normalize.MerchantOverride
	for rows.Next() {
		var id uuid.UUID
		var o normalize.MerchantOverride
		if err := rows.Scan(&id, &o.Pattern, &o.Merchant, &o.Category, &o.MatchCount, &o.CreatedAt); err != nil {
			return nil, err
		}
		o.ID = id.String()
		o.UserID = userID
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *Store) FindMatchingOverride(userID, description string) (*normalize.MerchantOverride, error) {
	overrides, err := s.GetOverridesForUser(userID)
	if err != nil {
		return nil, err
	}
	lower := strings.ToLower(description)
	for i := range overrides {
		if strings.Contains(lower, strings.ToLower(overrides[i].Pattern)) {
			go s.incrementMatchCount(context.Background(), overrides[i].ID)
			return &overrides[i], nil
		}
	}
	return nil, nil
}

func (s *Store) incrementMatchCount(ctx context.Context, id string) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return
	}
	_, _ = s.db.Exec(ctx, `UPDATE merchant_overrides SET match_count = match_count + 1 WHERE id = $1`, uid)
}

func (s *Store) DeleteOverride(userID, id string) error {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return err
	}
	oid, err := uuid.Parse(id)
	if err != nil {
		return err
	}
	result, err := s.db.Exec(context.Background(), `DELETE FROM merchant_overrides WHERE id = $1 AND user_id = $2`, oid, uid)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
