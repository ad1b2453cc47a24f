package album

import (
	"context"
	"errors"

	albumdomain "giapha-go/internal/domain/album"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(albumdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) ListAlbums(ctx context.Context) ([]albumdomain.Summary, error) {
	var summaries []albumdomain.Summary
	if err := r.db.WithContext(ctx).
		Table("albums").
		Select("albums.*, COUNT(photos.id) AS photo_count").
		Joins("LEFT JOIN photos ON photos.album_id = albums.id").
		Group("albums.id").
		Order("albums.created_at desc").
		Scan(&summaries).Error; err != nil {
		return nil, err
	}
	return summaries, nil
}

func (r *PostgresRepository) GetAlbum(ctx context.Context, id string) (*albumdomain.Album, error) {
	var album albumdomain.Album
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&album).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, albumdomain.ErrAlbumNotFound
		}
		return nil, err
	}
	return &album, nil
}

func (r *PostgresRepository) CreateAlbum(ctx context.Context, album *albumdomain.Album) error {
	return r.db.WithContext(ctx).Create(album).Error
}

func (r *PostgresRepository) UpdateAlbum(ctx context.Context, album *albumdomain.Album) error {
	return r.db.WithContext(ctx).
		Model(&albumdomain.Album{}).
		Where("id = ?", album.ID).
		Updates(map[string]interface{}{
			"title":       album.Title,
			"description": album.Description,
			"cover_url":   album.CoverURL,
		}).Error
}

func (r *PostgresRepository) DeleteAlbum(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&albumdomain.Album{}, "id = ?", id)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) ListPhotos(ctx context.Context, albumID string) ([]albumdomain.Photo, error) {
	var photos []albumdomain.Photo
	if err := r.db.WithContext(ctx).
		Where("album_id = ?", albumID).
		Order("sort_order asc, created_at asc").
		Find(&photos).Error; err != nil {
		return nil, err
	}
	return photos, nil
}

func (r *PostgresRepository) GetPhoto(ctx context.Context, id string) (*albumdomain.Photo, error) {
	var photo albumdomain.Photo
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&photo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, albumdomain.ErrPhotoNotFound
		}
		return nil, err
	}
	return &photo, nil
}

func (r *PostgresRepository) CreatePhoto(ctx context.Context, photo *albumdomain.Photo) error {
	return r.db.WithContext(ctx).Create(photo).Error
}

func (r *PostgresRepository) DeletePhoto(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&albumdomain.Photo{}, "id = ?", id)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) DeletePhotosByAlbum(ctx context.Context, albumID string) ([]albumdomain.Photo, error) {
	photos, err := r.ListPhotos(ctx, albumID)
	if err != nil {
		return nil, err
	}
	if len(photos) == 0 {
		return photos, nil
	}
	if err := r.db.WithContext(ctx).Delete(&albumdomain.Photo{}, "album_id = ?", albumID).Error; err != nil {
		return nil, err
	}
	return photos, nil
}

func (r *PostgresRepository) NextSortOrder(ctx context.Context, albumID string) (int, error) {
	var next int
	if err := r.db.WithContext(ctx).
		Model(&albumdomain.Photo{}).
		Select("COALESCE(MAX(sort_order) + 1, 0)").
		Where("album_id = ?", albumID).
		Scan(&next).Error; err != nil {
		return 0, err
	}
	return next, nil
}
