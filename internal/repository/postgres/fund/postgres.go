package fund

import (
	"context"
	"errors"
	"time"

	funddomain "giapha-go/internal/domain/fund"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, filter funddomain.ListFilter) ([]funddomain.Entry, int64, error) {
	query := applyRange(r.db.WithContext(ctx).Model(&funddomain.Entry{}), filter.From, filter.To)
	if filter.Kind != "" {
		query = query.Where("kind = ?", filter.Kind)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("occurred_on desc, created_at desc")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var entries []funddomain.Entry
	if err := query.Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (r *PostgresRepository) ListAll(ctx context.Context, from, to *time.Time) ([]funddomain.Entry, error) {
	var entries []funddomain.Entry
	if err := applyRange(r.db.WithContext(ctx), from, to).
		Order("occurred_on asc, created_at asc").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*funddomain.Entry, error) {
	var entry funddomain.Entry
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, funddomain.ErrEntryNotFound
		}
		return nil, err
	}
	return &entry, nil
}

func (r *PostgresRepository) Create(ctx context.Context, entry *funddomain.Entry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *PostgresRepository) Update(ctx context.Context, entry *funddomain.Entry) error {
	return r.db.WithContext(ctx).
		Model(&funddomain.Entry{}).
		Where("id = ?", entry.ID).
		Updates(map[string]interface{}{
			"kind":           entry.Kind,
			"amount":         entry.Amount,
			"occurred_on":    entry.OccurredOn,
			"description":    entry.Description,
			"contributor_id": entry.ContributorID,
			"updated_at":     entry.UpdatedAt,
		}).Error
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&funddomain.Entry{}, "id = ?", id)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) Totals(ctx context.Context, from, to *time.Time) (funddomain.Summary, error) {
	var totals struct {
		Income  int64
		Expense int64
	}
	if err := applyRange(r.db.WithContext(ctx).Model(&funddomain.Entry{}), from, to).
		Select(
			"COALESCE(SUM(CASE WHEN kind = ? THEN amount END), 0) AS income, COALESCE(SUM(CASE WHEN kind = ? THEN amount END), 0) AS expense",
			funddomain.KindIncome, funddomain.KindExpense,
		).
		Scan(&totals).Error; err != nil {
		return funddomain.Summary{}, err
	}
	return funddomain.Summary{Income: totals.Income, Expense: totals.Expense}, nil
}

func applyRange(query *gorm.DB, from, to *time.Time) *gorm.DB {
	if from != nil {
		query = query.Where("occurred_on >= ?", *from)
	}
	if to != nil {
		query = query.Where("occurred_on <= ?", *to)
	}
	return query
}
