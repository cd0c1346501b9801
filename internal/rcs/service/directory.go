package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/rcs/internal/rcs/domain"
	"github.com/aussiebroadwan/rcs/internal/rcs/store"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrAPIClientNotFound = errors.New("api client not found")
	ErrAccountNotFound   = errors.New("account not found")
)

// AccountLookup resolves the PSU accounts a consent can be authorised against.
type AccountLookup interface {
	GetAccountsWithBalance(ctx context.Context, userID string) ([]domain.AccountWithBalance, error)

	// GetAccountWithBalanceByIdentifiers returns ErrAccountNotFound when the user
	// holds no account with the given identification and scheme.
	GetAccountWithBalanceByIdentifiers(ctx context.Context, userID, identification, schemeName string) (domain.AccountWithBalance, error)
}

type APIClientLookup interface {
	GetAPIClient(ctx context.Context, apiClientID string) (domain.APIClient, error)
}

type UserLookup interface {
	GetUser(ctx context.Context, userID string) (domain.User, error)
}

// DirectoryService serves the account, API client and user collaborators from
// the local store.
type DirectoryService struct {
	Store store.Store
}

func (s *DirectoryService) GetAccountsWithBalance(ctx context.Context, userID string) ([]domain.AccountWithBalance, error) {
	accounts, err := s.Store.Accounts().ListAccountsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

func (s *DirectoryService) GetAccountWithBalanceByIdentifiers(
	ctx context.Context,
	userID, identification, schemeName string,
) (domain.AccountWithBalance, error) {
	a, err := s.Store.Accounts().GetAccountByIdentifiers(ctx, userID, identification, schemeName)
	if errors.Is(err, store.ErrNotFound) {
		return domain.AccountWithBalance{}, ErrAccountNotFound
	}
	if err != nil {
		return domain.AccountWithBalance{}, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

func (s *DirectoryService) GetAPIClient(ctx context.Context, apiClientID string) (domain.APIClient, error) {
	c, err := s.Store.APIClients().GetAPIClientByID(ctx, apiClientID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.APIClient{}, ErrAPIClientNotFound
	}
	if err != nil {
		return domain.APIClient{}, fmt.Errorf("get api client: %w", err)
	}
	return c, nil
}

func (s *DirectoryService) GetUser(ctx context.Context, userID string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// Seed upserts a directory snapshot. Existing rows with the same ids are
// overwritten.
func (s *DirectoryService) Seed(
	ctx context.Context,
	users []domain.User,
	clients []domain.APIClient,
	accounts []domain.AccountWithBalance,
) error {
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		for _, u := range users {
			if err := tx.Users().UpsertUser(ctx, u); err != nil {
				return fmt.Errorf("seed user %s: %w", u.ID, err)
			}
		}
		for _, c := range clients {
			if err := tx.APIClients().UpsertAPIClient(ctx, c); err != nil {
				return fmt.Errorf("seed api client %s: %w", c.ID, err)
			}
		}
		for _, a := range accounts {
			if err := tx.Accounts().UpsertAccount(ctx, a); err != nil {
				return fmt.Errorf("seed account %s: %w", a.AccountID, err)
			}
		}
		return nil
	})
}
