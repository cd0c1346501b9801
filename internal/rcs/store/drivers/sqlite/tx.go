package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/rcs/internal/rcs/store"
)

// repos hands out the table repositories bound to either the pool or an open
// transaction.
type repos struct {
	db dbtx
}

func (r repos) Consents() store.Consents               { return &consentsRepo{db: r.db} }
func (r repos) IdempotencyKeys() store.IdempotencyKeys { return &idempotencyKeysRepo{db: r.db} }
func (r repos) Users() store.Users                     { return &usersRepo{db: r.db} }
func (r repos) APIClients() store.APIClients           { return &apiClientsRepo{db: r.db} }
func (r repos) Accounts() store.Accounts               { return &accountsRepo{db: r.db} }

// Tx starts a read/write transaction and returns a Tx-scoped Store.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &txStore{repos: repos{db: tx}, tx: tx}, nil
}

// WithTx runs fn in a transaction, rolling back when fn fails.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback() // no-op after commit
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

type txStore struct {
	repos
	tx *sql.Tx
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Tx(context.Context) (store.Tx, error)               { return nil, store.ErrNestedTx }
func (t *txStore) WithTx(context.Context, func(store.Tx) error) error { return store.ErrNestedTx }

// Migrations run before the first transaction; the pool owner closes the DB.
func (t *txStore) ApplyMigrations() error         { return nil }
func (t *txStore) Close() error                   { return nil }
func (t *txStore) Ping(ctx context.Context) error { return nil }
