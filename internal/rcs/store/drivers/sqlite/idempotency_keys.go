package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/rcs/internal/rcs/domain"
	"github.com/aussiebroadwan/rcs/internal/rcs/store"
)

type idempotencyKeysRepo struct {
	db dbtx
}

func (r *idempotencyKeysRepo) ClaimIdempotencyKey(ctx context.Context, claim domain.IdempotencyClaim, now time.Time) error {
	res, err := r.db.ExecContext(ctx, `INSERT INTO idempotency_keys (
			intent_type, api_client_id, idempotency_key, consent_id, expires_at, created_at
		) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (intent_type, api_client_id, idempotency_key) DO UPDATE SET
			consent_id = excluded.consent_id,
			expires_at = excluded.expires_at,
			created_at = excluded.created_at
		WHERE idempotency_keys.expires_at <= ?`,
		string(claim.IntentType),
		claim.APIClientID,
		claim.IdempotencyKey,
		claim.ConsentID,
		toMicros(claim.ExpiresAt),
		toMicros(claim.CreatedAt),
		toMicros(now),
	)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrAlreadyExists
	}
	return nil
}

func (r *idempotencyKeysRepo) DeleteExpiredIdempotencyKeys(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM idempotency_keys WHERE expires_at <= ?`, toMicros(now))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
