package account

import (
	"context"
	"errors"
	"time"

	accountdomain "giapha-go/internal/domain/account"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]accountdomain.Account, error) {
	var accounts []accountdomain.Account
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*accountdomain.Account, error) {
	var account accountdomain.Account
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, accountdomain.ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*accountdomain.Account, error) {
	var account accountdomain.Account
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, accountdomain.ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *PostgresRepository) CountActiveAdmins(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&accountdomain.Account{}).
		Where("role = ? AND active = ?", accountdomain.RoleAdmin, true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepository) Create(ctx context.Context, account *accountdomain.Account) error {
	err := r.db.WithContext(ctx).Create(account).Error
	if isUniqueViolation(err) {
		return accountdomain.ErrUsernameTaken
	}
	return err
}

func (r *PostgresRepository) Update(ctx context.Context, account *accountdomain.Account) error {
	return r.db.WithContext(ctx).
		Model(&accountdomain.Account{}).
		Where("id = ?", account.ID).
		Updates(map[string]interface{}{
			"display_name": account.DisplayName,
			"role":         account.Role,
			"member_id":    account.MemberID,
			"active":       account.Active,
		}).Error
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	return r.db.WithContext(ctx).
		Model(&accountdomain.Account{}).
		Where("id = ?", id).
		Update("password_hash", hash).Error
}

func (r *PostgresRepository) TouchLogin(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&accountdomain.Account{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
