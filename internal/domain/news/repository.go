package news

import "context"

type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]Post, int64, error)
	GetByID(ctx context.Context, id string) (*Post, error)
	Create(ctx context.Context, post *Post) error
	Update(ctx context.Context, post *Post) error
	Delete(ctx context.Context, id string) (bool, error)
}
