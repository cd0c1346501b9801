package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/rcs/internal/rcs/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrConflict is returned by conditional updates whose precondition no
	// longer holds, e.g. the consent status changed underneath the caller.
	ErrConflict = errors.New("store: conflicting update")

	// ErrNestedTx is returned when a transaction-scoped store is asked to
	// start another transaction.
	ErrNestedTx = errors.New("store: nested transactions are not supported")
)

// Store is the root data access interface. Concrete drivers (sqlite, postgres)
// implement this and expose sub-repositories per table so transactions can be
// scoped explicitly through Tx/WithTx.
type Store interface {
	Consents() Consents
	IdempotencyKeys() IdempotencyKeys
	Users() Users
	APIClients() APIClients
	Accounts() Accounts

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. The transaction is rolled back
	// when fn returns an error and committed otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Consents interface {
	GetConsentByID(ctx context.Context, id string) (domain.Consent, error)

	// GetConsentByIdempotencyKey returns the consent a live idempotency claim
	// points at within one intent type. Claims that expired at or before now
	// are ignored.
	GetConsentByIdempotencyKey(ctx context.Context, intentType domain.IntentType, apiClientID, key string, now time.Time) (domain.Consent, error)

	CreateConsent(ctx context.Context, c domain.Consent) error

	// UpdateConsentStatus writes the status, decision fields and
	// status_update_date_time of c, but only if the stored status still equals
	// expected. Returns ErrConflict otherwise.
	UpdateConsentStatus(ctx context.Context, c domain.Consent, expected domain.Status) error

	DeleteConsent(ctx context.Context, id string) error
}

type IdempotencyKeys interface {
	// ClaimIdempotencyKey atomically inserts the claim, replacing an existing
	// claim for the same (intent type, api client, key) only when that claim expired at or
	// before now. Returns ErrAlreadyExists when a live claim is present.
	ClaimIdempotencyKey(ctx context.Context, claim domain.IdempotencyClaim, now time.Time) error

	// DeleteExpiredIdempotencyKeys is housekeeping; lookups never depend on it.
	DeleteExpiredIdempotencyKeys(ctx context.Context, now time.Time) (int64, error)
}

type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)
	UpsertUser(ctx context.Context, u domain.User) error
}

type APIClients interface {
	GetAPIClientByID(ctx context.Context, id string) (domain.APIClient, error)
	UpsertAPIClient(ctx context.Context, c domain.APIClient) error
}

type Accounts interface {
	// ListAccountsByUser returns the user's accounts ordered by account id.
	ListAccountsByUser(ctx context.Context, userID string) ([]domain.AccountWithBalance, error)

	GetAccountByIdentifiers(ctx context.Context, userID, identification, schemeName string) (domain.AccountWithBalance, error)

	UpsertAccount(ctx context.Context, a domain.AccountWithBalance) error
}
