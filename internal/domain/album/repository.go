package album

import (
	"context"
	"io"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	ListAlbums(ctx context.Context) ([]Summary, error)
	GetAlbum(ctx context.Context, id string) (*Album, error)
	CreateAlbum(ctx context.Context, album *Album) error
	UpdateAlbum(ctx context.Context, album *Album) error
	DeleteAlbum(ctx context.Context, id string) (bool, error)
	ListPhotos(ctx context.Context, albumID string) ([]Photo, error)
	GetPhoto(ctx context.Context, id string) (*Photo, error)
	CreatePhoto(ctx context.Context, photo *Photo) error
	DeletePhoto(ctx context.Context, id string) (bool, error)
	DeletePhotosByAlbum(ctx context.Context, albumID string) ([]Photo, error)
	NextSortOrder(ctx context.Context, albumID string) (int, error)
}

// Storage keeps uploaded photo bytes and hands back a public URL.
type Storage interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	Remove(ctx context.Context, key string) error
}
