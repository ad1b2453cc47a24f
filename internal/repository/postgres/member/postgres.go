package member

import (
	"context"
	"errors"
	"strings"

	memberdomain "giapha-go/internal/domain/member"
	"giapha-go/internal/repository/postgres/pgsearch"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(memberdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) List(ctx context.Context, filter memberdomain.ListFilter) ([]memberdomain.Member, int64, error) {
	query := r.db.WithContext(ctx).Model(&memberdomain.Member{})
	if filter.Generation != nil {
		query = query.Where("generation = ?", *filter.Generation)
	}
	if filter.ParentID != nil {
		query = query.Where("parent_id = ?", *filter.ParentID)
	}
	if filter.Gender != "" {
		query = query.Where("gender = ?", filter.Gender)
	}
	if filter.IsDeceased != nil {
		query = query.Where("is_deceased = ?", *filter.IsDeceased)
	}
	if search := strings.TrimSpace(filter.Query); search != "" {
		query = query.Where("full_name ILIKE ?", pgsearch.Contains(search))
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("generation asc, birth_order asc, full_name asc")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var members []memberdomain.Member
	if err := query.Find(&members).Error; err != nil {
		return nil, 0, err
	}
	return members, total, nil
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]memberdomain.Member, error) {
	var members []memberdomain.Member
	if err := r.db.WithContext(ctx).
		Order("generation asc, birth_order asc").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*memberdomain.Member, error) {
	var member memberdomain.Member
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, memberdomain.ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *PostgresRepository) ListChildren(ctx context.Context, parentID string) ([]memberdomain.Member, error) {
	var members []memberdomain.Member
	if err := r.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("birth_order asc, full_name asc").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (r *PostgresRepository) CountChildren(ctx context.Context, parentID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&memberdomain.Member{}).
		Where("parent_id = ?", parentID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepository) CountByIDs(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&memberdomain.Member{}).
		Where("id IN ?", ids).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepository) Create(ctx context.Context, member *memberdomain.Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *PostgresRepository) Update(ctx context.Context, member *memberdomain.Member) error {
	return r.db.WithContext(ctx).
		Model(&memberdomain.Member{ID: member.ID}).
		Select("*").
		Omit("id", "created_at").
		Updates(member).Error
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&memberdomain.Member{}, "id = ?", id)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) RemoveSpouseReferences(ctx context.Context, id string) error {
	db := r.db.WithContext(ctx)
	if err := db.Model(&memberdomain.Member{}).
		Where("spouse_id = ?", id).
		Update("spouse_id", nil).Error; err != nil {
		return err
	}
	return db.Exec(
		"UPDATE members SET spouse_ids = spouse_ids - ?::text, updated_at = now() WHERE spouse_ids @> jsonb_build_array(?::text)",
		id, id,
	).Error
}
