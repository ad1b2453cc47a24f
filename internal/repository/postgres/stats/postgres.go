package stats

import (
	"context"

	statsdomain "giapha-go/internal/domain/stats"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) MemberTotals(ctx context.Context) (statsdomain.MemberTotals, error) {
	const query = `SELECT
	COUNT(*) AS total,
	COUNT(*) FILTER (WHERE NOT is_deceased) AS living,
	COUNT(*) FILTER (WHERE is_deceased) AS deceased,
	COUNT(*) FILTER (WHERE gender = 'male') AS male,
	COUNT(*) FILTER (WHERE gender = 'female') AS female
FROM members`

	var row struct {
		Total    int64 `gorm:"column:total"`
		Living   int64 `gorm:"column:living"`
		Deceased int64 `gorm:"column:deceased"`
		Male     int64 `gorm:"column:male"`
		Female   int64 `gorm:"column:female"`
	}
	if err := r.db.WithContext(ctx).Raw(query).Scan(&row).Error; err != nil {
		return statsdomain.MemberTotals{}, err
	}
	return statsdomain.MemberTotals(row), nil
}

func (r *PostgresRepository) GenerationCounts(ctx context.Context) ([]statsdomain.GenerationCount, error) {
	const query = "SELECT generation, COUNT(*) AS count FROM members GROUP BY generation ORDER BY generation"

	var rows []statsdomain.GenerationCount
	if err := r.db.WithContext(ctx).Raw(query).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *PostgresRepository) ContentCounts(ctx context.Context) (statsdomain.ContentCounts, error) {
	const query = `SELECT
	(SELECT COUNT(*) FROM news_posts WHERE deleted_at IS NULL) AS posts,
	(SELECT COUNT(*) FROM albums) AS albums,
	(SELECT COUNT(*) FROM photos) AS photos,
	(SELECT COUNT(*) FROM condolences WHERE NOT hidden) AS condolences`

	var row statsdomain.ContentCounts
	if err := r.db.WithContext(ctx).Raw(query).Scan(&row).Error; err != nil {
		return statsdomain.ContentCounts{}, err
	}
	return row, nil
}
