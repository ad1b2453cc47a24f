package settings

import "context"

type Repository interface {
	All(ctx context.Context) ([]Setting, error)
	Get(ctx context.Context, key string) (*Setting, error)
	Upsert(ctx context.Context, settings []Setting) error
}
