package postgres

import (
	"context"

	"github.com/aussiebroadwan/rcs/internal/rcs/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type usersRepo struct {
	db *gorm.DB
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	var m userModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&m).Error; err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return domain.User{ID: m.ID, UserName: m.UserName}, nil
}

func (r *usersRepo) UpsertUser(ctx context.Context, u domain.User) error {
	m := userModel{ID: u.ID, UserName: u.UserName}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&m).Error
}

type apiClientsRepo struct {
	db *gorm.DB
}

func (r *apiClientsRepo) GetAPIClientByID(ctx context.Context, id string) (domain.APIClient, error) {
	var m apiClientModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&m).Error; err != nil {
		return domain.APIClient{}, mapNotFound(err)
	}
	return domain.APIClient{ID: m.ID, Name: m.Name, LogoURI: m.LogoURI}, nil
}

func (r *apiClientsRepo) UpsertAPIClient(ctx context.Context, c domain.APIClient) error {
	m := apiClientModel{ID: c.ID, Name: c.Name, LogoURI: c.LogoURI}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&m).Error
}

type accountsRepo struct {
	db *gorm.DB
}

func (r *accountsRepo) ListAccountsByUser(ctx context.Context, userID string) ([]domain.AccountWithBalance, error) {
	var ms []accountModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("account_id").Find(&ms).Error; err != nil {
		return nil, err
	}

	out := make([]domain.AccountWithBalance, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.toDomain())
	}
	return out, nil
}

func (r *accountsRepo) GetAccountByIdentifiers(
	ctx context.Context,
	userID, identification, schemeName string,
) (domain.AccountWithBalance, error) {
	var m accountModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND identification = ? AND scheme_name = ?", userID, identification, schemeName).
		Take(&m).Error
	if err != nil {
		return domain.AccountWithBalance{}, mapNotFound(err)
	}
	return m.toDomain(), nil
}

func (r *accountsRepo) UpsertAccount(ctx context.Context, a domain.AccountWithBalance) error {
	m := toAccountModel(a)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&m).Error
}
