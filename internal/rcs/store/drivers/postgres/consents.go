package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aussiebroadwan/rcs/internal/rcs/domain"
	"github.com/aussiebroadwan/rcs/internal/rcs/store"
	"gorm.io/gorm"
)

type consentsRepo struct {
	db *gorm.DB
}

func (r *consentsRepo) GetConsentByID(ctx context.Context, id string) (domain.Consent, error) {
	var m consentModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&m).Error; err != nil {
		return domain.Consent{}, mapNotFound(err)
	}
	return m.toDomain()
}

func (r *consentsRepo) GetConsentByIdempotencyKey(
	ctx context.Context,
	intentType domain.IntentType,
	apiClientID, key string,
	now time.Time,
) (domain.Consent, error) {
	var m consentModel
	err := r.db.WithContext(ctx).
		Select("consents.*").
		Joins("JOIN idempotency_keys k ON k.consent_id = consents.id").
		Where("k.intent_type = ? AND k.api_client_id = ? AND k.idempotency_key = ? AND k.expires_at > ?",
			string(intentType), apiClientID, key, now).
		Take(&m).Error
	if err != nil {
		return domain.Consent{}, mapNotFound(err)
	}
	return m.toDomain()
}

func (r *consentsRepo) CreateConsent(ctx context.Context, c domain.Consent) error {
	m := toConsentModel(c)
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *consentsRepo) UpdateConsentStatus(ctx context.Context, c domain.Consent, expected domain.Status) error {
	// Map updates skip the json serializer, so the id list is encoded here.
	var accountIDs any
	if len(c.AuthorisedAccountIDs) > 0 {
		b, err := json.Marshal(c.AuthorisedAccountIDs)
		if err != nil {
			return err
		}
		accountIDs = string(b)
	}

	res := r.db.WithContext(ctx).
		Model(&consentModel{}).
		Where("id = ? AND status = ?", c.ID, string(expected)).
		Updates(map[string]any{
			"status":                       string(c.Status),
			"resource_owner_id":            c.ResourceOwnerID,
			"authorised_debtor_account_id": c.AuthorisedDebtorAccountID,
			"authorised_account_ids":       accountIDs,
			"status_update_date_time":      c.StatusUpdateDateTime,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrConflict
	}
	return nil
}

func (r *consentsRepo) DeleteConsent(ctx context.Context, id string) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("consent_id = ?", id).Delete(&idempotencyKeyModel{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&consentModel{}).Error
}
