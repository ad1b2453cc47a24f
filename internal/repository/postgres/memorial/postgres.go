package memorial

import (
	"context"
	"errors"

	memorialdomain "giapha-go/internal/domain/memorial"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(memorialdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) IncrementIncense(ctx context.Context, memberID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(`
INSERT INTO memorial_counters (member_id, incense_count, updated_at)
VALUES (?, 1, now())
ON CONFLICT (member_id)
DO UPDATE SET incense_count = memorial_counters.incense_count + 1, updated_at = now()
RETURNING incense_count`, memberID).Scan(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepository) IncenseCount(ctx context.Context, memberID string) (int64, error) {
	var counter memorialdomain.Counter
	err := r.db.WithContext(ctx).Where("member_id = ?", memberID).First(&counter).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return counter.IncenseCount, nil
}

func (r *PostgresRepository) AddIncenseLog(ctx context.Context, log *memorialdomain.IncenseLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *PostgresRepository) ListIncenseLogs(ctx context.Context, memberID string, limit int) ([]memorialdomain.IncenseLog, error) {
	var logs []memorialdomain.IncenseLog
	if err := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("created_at desc").
		Limit(limit).
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *PostgresRepository) AddCondolence(ctx context.Context, condolence *memorialdomain.Condolence) error {
	return r.db.WithContext(ctx).Create(condolence).Error
}

func (r *PostgresRepository) ListCondolences(ctx context.Context, memberID string, limit int) ([]memorialdomain.Condolence, error) {
	var condolences []memorialdomain.Condolence
	if err := r.db.WithContext(ctx).
		Where("member_id = ? AND hidden = ?", memberID, false).
		Order("created_at desc").
		Limit(limit).
		Find(&condolences).Error; err != nil {
		return nil, err
	}
	return condolences, nil
}

func (r *PostgresRepository) HideCondolence(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&memorialdomain.Condolence{}).
		Where("id = ?", id).
		Update("hidden", true)
	return result.RowsAffected > 0, result.Error
}
