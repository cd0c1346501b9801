package postgres

import (
	"context"
	"time"

	"github.com/aussiebroadwan/rcs/internal/rcs/domain"
	"github.com/aussiebroadwan/rcs/internal/rcs/store"
	"gorm.io/gorm"
)

type idempotencyKeysRepo struct {
	db *gorm.DB
}

const claimIdempotencyKeySQL = `INSERT INTO idempotency_keys (intent_type, api_client_id, idempotency_key, consent_id, expires_at, created_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (intent_type, api_client_id, idempotency_key) DO UPDATE SET
	consent_id = EXCLUDED.consent_id,
	expires_at = EXCLUDED.expires_at,
	created_at = EXCLUDED.created_at
WHERE idempotency_keys.expires_at <= ?`

func (r *idempotencyKeysRepo) ClaimIdempotencyKey(ctx context.Context, claim domain.IdempotencyClaim, now time.Time) error {
	res := r.db.WithContext(ctx).Exec(claimIdempotencyKeySQL,
		string(claim.IntentType),
		claim.APIClientID,
		claim.IdempotencyKey,
		claim.ConsentID,
		claim.ExpiresAt,
		claim.CreatedAt,
		now,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrAlreadyExists
	}
	return nil
}

func (r *idempotencyKeysRepo) DeleteExpiredIdempotencyKeys(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&idempotencyKeyModel{})
	return res.RowsAffected, res.Error
}
