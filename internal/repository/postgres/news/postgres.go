package news

import (
	"context"
	"errors"

	newsdomain "giapha-go/internal/domain/news"
	"giapha-go/internal/repository/postgres/pgsearch"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, filter newsdomain.ListFilter) ([]newsdomain.Post, int64, error) {
	query := r.db.WithContext(ctx).Model(&newsdomain.Post{})
	if !filter.IncludeDrafts {
		query = query.Where("published = ?", true)
	}
	if filter.Query != "" {
		query = query.Where("title ILIKE ?", pgsearch.Contains(filter.Query))
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("COALESCE(published_at, created_at) desc, created_at desc")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var posts []newsdomain.Post
	if err := query.Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*newsdomain.Post, error) {
	var post newsdomain.Post
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newsdomain.ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (r *PostgresRepository) Create(ctx context.Context, post *newsdomain.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *PostgresRepository) Update(ctx context.Context, post *newsdomain.Post) error {
	return r.db.WithContext(ctx).
		Model(&newsdomain.Post{}).
		Where("id = ?", post.ID).
		Updates(map[string]interface{}{
			"title":        post.Title,
			"summary":      post.Summary,
			"content":      post.Content,
			"cover_url":    post.CoverURL,
			"published":    post.Published,
			"published_at": post.PublishedAt,
		}).Error
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&newsdomain.Post{}, "id = ?", id)
	return result.RowsAffected > 0, result.Error
}
