package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/rcs/internal/rcs/store"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config holds the postgres connection and pool settings.
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	MaxRetries      int
}

// DefaultConfig returns pool settings suitable for a single service instance.
func DefaultConfig(dsn string) Config {
	return Config{
		DSN:             dsn,
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: 30 * time.Minute,
		MaxRetries:      5,
	}
}

type Store struct {
	db *gorm.DB
}

// Open connects to postgres, retrying with exponential backoff while the
// database comes up.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	gormLogger := logger.New(
		slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  false,
		},
	)

	maxRetries := max(cfg.MaxRetries, 1)

	var (
		db  *gorm.DB
		err error
	)
	for i := range maxRetries {
		db, err = gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{Logger: gormLogger})
		if err == nil {
			break
		}
		if i == maxRetries-1 {
			break
		}

		wait := time.Second * time.Duration(1<<i)
		slog.WarnContext(ctx, "postgres connect failed, retrying",
			"attempt", i+1,
			"max_retries", maxRetries,
			"wait", wait,
			"error", err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
	if err != nil {
		return nil, fmt.Errorf("connect postgres after %d attempts: %w", maxRetries, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &Store{db: db}, nil
}

// NewFromDB wraps an already opened gorm handle.
func NewFromDB(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) ApplyMigrations() error {
	return s.db.AutoMigrate(
		&consentModel{},
		&idempotencyKeyModel{},
		&userModel{},
		&apiClientModel{},
		&accountModel{},
	)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &txStore{db: tx}, nil
}

func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func (s *Store) Consents() store.Consents               { return &consentsRepo{db: s.db} }
func (s *Store) IdempotencyKeys() store.IdempotencyKeys { return &idempotencyKeysRepo{db: s.db} }
func (s *Store) Users() store.Users                     { return &usersRepo{db: s.db} }
func (s *Store) APIClients() store.APIClients           { return &apiClientsRepo{db: s.db} }
func (s *Store) Accounts() store.Accounts               { return &accountsRepo{db: s.db} }

// txStore shares the repositories but runs every statement on the open
// transaction.
type txStore struct {
	db *gorm.DB
}

func (t *txStore) Consents() store.Consents               { return &consentsRepo{db: t.db} }
func (t *txStore) IdempotencyKeys() store.IdempotencyKeys { return &idempotencyKeysRepo{db: t.db} }
func (t *txStore) Users() store.Users                     { return &usersRepo{db: t.db} }
func (t *txStore) APIClients() store.APIClients           { return &apiClientsRepo{db: t.db} }
func (t *txStore) Accounts() store.Accounts               { return &accountsRepo{db: t.db} }

func (t *txStore) ApplyMigrations() error { return nil }

func (t *txStore) Tx(context.Context) (store.Tx, error) { return nil, store.ErrNestedTx }

func (t *txStore) WithTx(context.Context, func(store.Tx) error) error { return store.ErrNestedTx }

func (t *txStore) Close() error { return nil }

func (t *txStore) Ping(ctx context.Context) error {
	sqlDB, err := t.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (t *txStore) Commit() error   { return t.db.Commit().Error }
func (t *txStore) Rollback() error { return t.db.Rollback().Error }

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}
	return err
}
