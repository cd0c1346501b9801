package sqlite

import (
	"context"

	"github.com/aussiebroadwan/rcs/internal/rcs/domain"
)

type usersRepo struct {
	db dbtx
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	var u domain.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_name FROM users WHERE id = ?`, id).Scan(&u.ID, &u.UserName)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) UpsertUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO users (id, user_name) VALUES (?, ?)
		ON CONFLICT (id) DO UPDATE SET user_name = excluded.user_name`,
		u.ID, u.UserName)
	return err
}

type apiClientsRepo struct {
	db dbtx
}

func (r *apiClientsRepo) GetAPIClientByID(ctx context.Context, id string) (domain.APIClient, error) {
	var c domain.APIClient
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, logo_uri FROM api_clients WHERE id = ?`, id).Scan(&c.ID, &c.Name, &c.LogoURI)
	if err != nil {
		return domain.APIClient{}, mapNotFound(err)
	}
	return c, nil
}

func (r *apiClientsRepo) UpsertAPIClient(ctx context.Context, c domain.APIClient) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO api_clients (id, name, logo_uri) VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET name = excluded.name, logo_uri = excluded.logo_uri`,
		c.ID, c.Name, c.LogoURI)
	return err
}

const accountColumns = `account_id, user_id, scheme_name, identification, name, balance_amount, balance_currency`

type accountsRepo struct {
	db dbtx
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (domain.AccountWithBalance, error) {
	var a domain.AccountWithBalance
	err := row.Scan(&a.AccountID, &a.UserID, &a.SchemeName, &a.Identification, &a.Name,
		&a.Balance.Amount, &a.Balance.Currency)
	return a, err
}

func (r *accountsRepo) ListAccountsByUser(ctx context.Context, userID string) ([]domain.AccountWithBalance, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE user_id = ? ORDER BY account_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []domain.AccountWithBalance
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *accountsRepo) GetAccountByIdentifiers(
	ctx context.Context,
	userID, identification, schemeName string,
) (domain.AccountWithBalance, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts
		WHERE user_id = ? AND identification = ? AND scheme_name = ?`,
		userID, identification, schemeName)
	a, err := scanAccount(row)
	if err != nil {
		return domain.AccountWithBalance{}, mapNotFound(err)
	}
	return a, nil
}

func (r *accountsRepo) UpsertAccount(ctx context.Context, a domain.AccountWithBalance) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO accounts (`+accountColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (account_id) DO UPDATE SET
			user_id = excluded.user_id,
			scheme_name = excluded.scheme_name,
			identification = excluded.identification,
			name = excluded.name,
			balance_amount = excluded.balance_amount,
			balance_currency = excluded.balance_currency`,
		a.AccountID, a.UserID, a.SchemeName, a.Identification, a.Name,
		a.Balance.Amount, a.Balance.Currency)
	return err
}
