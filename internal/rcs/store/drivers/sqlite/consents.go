package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aussiebroadwan/rcs/internal/rcs/domain"
	"github.com/aussiebroadwan/rcs/internal/rcs/store"
)

const consentColumns = `c.id, c.intent_type, c.api_client_id, c.request_version, c.status, c.request,
	c.charges, c.exchange_rate_information, c.idempotency_key, c.idempotency_key_expiration,
	c.resource_owner_id, c.authorised_debtor_account_id, c.authorised_account_ids,
	c.creation_date_time, c.status_update_date_time`

type consentsRepo struct {
	db dbtx
}

func (r *consentsRepo) GetConsentByID(ctx context.Context, id string) (domain.Consent, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+consentColumns+` FROM consents c WHERE c.id = ?`, id)
	return scanConsent(row)
}

func (r *consentsRepo) GetConsentByIdempotencyKey(
	ctx context.Context,
	intentType domain.IntentType,
	apiClientID, key string,
	now time.Time,
) (domain.Consent, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+consentColumns+`
		FROM idempotency_keys k
		JOIN consents c ON c.id = k.consent_id
		WHERE k.intent_type = ? AND k.api_client_id = ? AND k.idempotency_key = ? AND k.expires_at > ?`,
		string(intentType), apiClientID, key, toMicros(now))
	return scanConsent(row)
}

func (r *consentsRepo) CreateConsent(ctx context.Context, c domain.Consent) error {
	charges, err := mapJSONNull(c.Charges, len(c.Charges) == 0)
	if err != nil {
		return fmt.Errorf("encode charges: %w", err)
	}
	fx, err := mapJSONNull(c.ExchangeRateInformation, c.ExchangeRateInformation == nil)
	if err != nil {
		return fmt.Errorf("encode exchange rate information: %w", err)
	}
	accountIDs, err := mapJSONNull(c.AuthorisedAccountIDs, len(c.AuthorisedAccountIDs) == 0)
	if err != nil {
		return fmt.Errorf("encode account ids: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO consents (
			id, intent_type, api_client_id, request_version, status, request,
			charges, exchange_rate_information, idempotency_key, idempotency_key_expiration,
			resource_owner_id, authorised_debtor_account_id, authorised_account_ids,
			creation_date_time, status_update_date_time
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID,
		string(c.IntentType),
		c.APIClientID,
		c.RequestVersion.String(),
		string(c.Status),
		string(c.Request),
		charges,
		fx,
		c.IdempotencyKey,
		toMicros(c.IdempotencyKeyExpiration),
		mapStringNull(c.ResourceOwnerID),
		mapStringNull(c.AuthorisedDebtorAccountID),
		accountIDs,
		toMicros(c.CreationDateTime),
		toMicros(c.StatusUpdateDateTime),
	)
	return err
}

func (r *consentsRepo) UpdateConsentStatus(ctx context.Context, c domain.Consent, expected domain.Status) error {
	accountIDs, err := mapJSONNull(c.AuthorisedAccountIDs, len(c.AuthorisedAccountIDs) == 0)
	if err != nil {
		return fmt.Errorf("encode account ids: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `UPDATE consents SET
			status = ?,
			resource_owner_id = ?,
			authorised_debtor_account_id = ?,
			authorised_account_ids = ?,
			status_update_date_time = ?
		WHERE id = ? AND status = ?`,
		string(c.Status),
		mapStringNull(c.ResourceOwnerID),
		mapStringNull(c.AuthorisedDebtorAccountID),
		accountIDs,
		toMicros(c.StatusUpdateDateTime),
		c.ID,
		string(expected),
	)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrConflict
	}
	return nil
}

func (r *consentsRepo) DeleteConsent(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM consents WHERE id = ?`, id)
	return err
}

func scanConsent(row *sql.Row) (domain.Consent, error) {
	var (
		c                    domain.Consent
		intentType, status   string
		version, request     string
		charges, fx          sql.NullString
		accountIDs           sql.NullString
		owner, debtorAccount sql.NullString
		keyExpiration        int64
		created, updated     int64
	)

	err := row.Scan(
		&c.ID, &intentType, &c.APIClientID, &version, &status, &request,
		&charges, &fx, &c.IdempotencyKey, &keyExpiration,
		&owner, &debtorAccount, &accountIDs,
		&created, &updated,
	)
	if err != nil {
		return domain.Consent{}, mapNotFound(err)
	}

	c.RequestVersion, err = domain.ParseVersion(version)
	if err != nil {
		return domain.Consent{}, err
	}
	if err := mapNullJSON(charges, &c.Charges); err != nil {
		return domain.Consent{}, fmt.Errorf("decode charges: %w", err)
	}
	if err := mapNullJSON(fx, &c.ExchangeRateInformation); err != nil {
		return domain.Consent{}, fmt.Errorf("decode exchange rate information: %w", err)
	}
	if err := mapNullJSON(accountIDs, &c.AuthorisedAccountIDs); err != nil {
		return domain.Consent{}, fmt.Errorf("decode account ids: %w", err)
	}

	c.IntentType = domain.IntentType(intentType)
	c.Status = domain.Status(status)
	c.Request = json.RawMessage(request)
	c.IdempotencyKeyExpiration = fromMicros(keyExpiration)
	c.ResourceOwnerID = mapNullString(owner)
	c.AuthorisedDebtorAccountID = mapNullString(debtorAccount)
	c.CreationDateTime = fromMicros(created)
	c.StatusUpdateDateTime = fromMicros(updated)
	return c, nil
}
