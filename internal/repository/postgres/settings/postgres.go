package settings

import (
	"context"
	"errors"

	settingsdomain "giapha-go/internal/domain/settings"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) All(ctx context.Context) ([]settingsdomain.Setting, error) {
	var items []settingsdomain.Setting
	if err := r.db.WithContext(ctx).Order("key asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) Get(ctx context.Context, key string) (*settingsdomain.Setting, error) {
	var item settingsdomain.Setting
	if err := r.db.WithContext(ctx).Where("key = ?", key).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, settingsdomain.ErrSettingNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, items []settingsdomain.Setting) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&items).Error
}
