package postgres

import (
	"time"

	"github.com/aussiebroadwan/rcs/internal/rcs/domain"
)

type consentModel struct {
	ID             string `gorm:"column:id;type:varchar(64);primaryKey"`
	IntentType     string `gorm:"column:intent_type;type:varchar(64);not null"`
	APIClientID    string `gorm:"column:api_client_id;type:varchar(255);not null;index:idx_consents_api_client_id"`
	RequestVersion string `gorm:"column:request_version;type:varchar(16);not null"`
	Status         string `gorm:"column:status;type:varchar(32);not null"`

	// Request keeps the canonical bytes; jsonb would reorder keys.
	Request                 string                          `gorm:"column:request;type:text;not null"`
	Charges                 []domain.Charge                 `gorm:"column:charges;type:jsonb;serializer:json"`
	ExchangeRateInformation *domain.ExchangeRateInformation `gorm:"column:exchange_rate_information;type:jsonb;serializer:json"`

	IdempotencyKey           string    `gorm:"column:idempotency_key;type:varchar(255);not null"`
	IdempotencyKeyExpiration time.Time `gorm:"column:idempotency_key_expiration;type:timestamp with time zone;not null"`

	ResourceOwnerID           string   `gorm:"column:resource_owner_id;type:varchar(255);not null;default:''"`
	AuthorisedDebtorAccountID string   `gorm:"column:authorised_debtor_account_id;type:varchar(255);not null;default:''"`
	AuthorisedAccountIDs      []string `gorm:"column:authorised_account_ids;type:jsonb;serializer:json"`

	CreationDateTime     time.Time `gorm:"column:creation_date_time;type:timestamp with time zone;not null"`
	StatusUpdateDateTime time.Time `gorm:"column:status_update_date_time;type:timestamp with time zone;not null"`
}

func (*consentModel) TableName() string { return "consents" }

func toConsentModel(c domain.Consent) consentModel {
	return consentModel{
		ID:                        c.ID,
		IntentType:                string(c.IntentType),
		APIClientID:               c.APIClientID,
		RequestVersion:            c.RequestVersion.String(),
		Status:                    string(c.Status),
		Request:                   string(c.Request),
		Charges:                   nilIfEmpty(c.Charges),
		ExchangeRateInformation:   c.ExchangeRateInformation,
		IdempotencyKey:            c.IdempotencyKey,
		IdempotencyKeyExpiration:  c.IdempotencyKeyExpiration,
		ResourceOwnerID:           c.ResourceOwnerID,
		AuthorisedDebtorAccountID: c.AuthorisedDebtorAccountID,
		AuthorisedAccountIDs:      nilIfEmpty(c.AuthorisedAccountIDs),
		CreationDateTime:          c.CreationDateTime,
		StatusUpdateDateTime:      c.StatusUpdateDateTime,
	}
}

func (m consentModel) toDomain() (domain.Consent, error) {
	version, err := domain.ParseVersion(m.RequestVersion)
	if err != nil {
		return domain.Consent{}, err
	}
	return domain.Consent{
		ID:                        m.ID,
		IntentType:                domain.IntentType(m.IntentType),
		APIClientID:               m.APIClientID,
		RequestVersion:            version,
		Status:                    domain.Status(m.Status),
		Request:                   []byte(m.Request),
		Charges:                   nilIfEmpty(m.Charges),
		ExchangeRateInformation:   m.ExchangeRateInformation,
		IdempotencyKey:            m.IdempotencyKey,
		IdempotencyKeyExpiration:  m.IdempotencyKeyExpiration.UTC(),
		ResourceOwnerID:           m.ResourceOwnerID,
		AuthorisedDebtorAccountID: m.AuthorisedDebtorAccountID,
		AuthorisedAccountIDs:      nilIfEmpty(m.AuthorisedAccountIDs),
		CreationDateTime:          m.CreationDateTime.UTC(),
		StatusUpdateDateTime:      m.StatusUpdateDateTime.UTC(),
	}, nil
}

type idempotencyKeyModel struct {
	IntentType     string    `gorm:"column:intent_type;type:varchar(64);primaryKey"`
	APIClientID    string    `gorm:"column:api_client_id;type:varchar(255);primaryKey"`
	IdempotencyKey string    `gorm:"column:idempotency_key;type:varchar(255);primaryKey"`
	ConsentID      string    `gorm:"column:consent_id;type:varchar(64);not null;index:idx_idempotency_keys_consent_id"`
	ExpiresAt      time.Time `gorm:"column:expires_at;type:timestamp with time zone;not null;index:idx_idempotency_keys_expires_at"`
	ClaimedAt      time.Time `gorm:"column:created_at;type:timestamp with time zone;not null"`
}

func (*idempotencyKeyModel) TableName() string { return "idempotency_keys" }

type userModel struct {
	ID       string `gorm:"column:id;type:varchar(255);primaryKey"`
	UserName string `gorm:"column:user_name;type:varchar(255);not null"`
}

func (*userModel) TableName() string { return "users" }

type apiClientModel struct {
	ID      string `gorm:"column:id;type:varchar(255);primaryKey"`
	Name    string `gorm:"column:name;type:varchar(255);not null"`
	LogoURI string `gorm:"column:logo_uri;type:text;not null;default:''"`
}

func (*apiClientModel) TableName() string { return "api_clients" }

type accountModel struct {
	AccountID       string `gorm:"column:account_id;type:varchar(255);primaryKey"`
	UserID          string `gorm:"column:user_id;type:varchar(255);not null;uniqueIndex:idx_accounts_identifiers,composite:identifiers"`
	SchemeName      string `gorm:"column:scheme_name;type:varchar(64);not null;uniqueIndex:idx_accounts_identifiers,composite:identifiers"`
	Identification  string `gorm:"column:identification;type:varchar(255);not null;uniqueIndex:idx_accounts_identifiers,composite:identifiers"`
	Name            string `gorm:"column:name;type:varchar(255);not null;default:''"`
	BalanceAmount   string `gorm:"column:balance_amount;type:varchar(32);not null"`
	BalanceCurrency string `gorm:"column:balance_currency;type:varchar(3);not null"`
}

func (*accountModel) TableName() string { return "accounts" }

func toAccountModel(a domain.AccountWithBalance) accountModel {
	return accountModel{
		AccountID:       a.AccountID,
		UserID:          a.UserID,
		SchemeName:      a.SchemeName,
		Identification:  a.Identification,
		Name:            a.Name,
		BalanceAmount:   a.Balance.Amount,
		BalanceCurrency: a.Balance.Currency,
	}
}

func (m accountModel) toDomain() domain.AccountWithBalance {
	return domain.AccountWithBalance{
		AccountID:      m.AccountID,
		UserID:         m.UserID,
		SchemeName:     m.SchemeName,
		Identification: m.Identification,
		Name:           m.Name,
		Balance:        domain.Amount{Amount: m.BalanceAmount, Currency: m.BalanceCurrency},
	}
}

func nilIfEmpty[T any](s []T) []T {
	if len(s) == 0 {
		return nil
	}
	return s
}
