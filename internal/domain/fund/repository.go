package fund

import (
	"context"
	"time"
)

type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]Entry, int64, error)
	ListAll(ctx context.Context, from, to *time.Time) ([]Entry, error)
	GetByID(ctx context.Context, id string) (*Entry, error)
	Create(ctx context.Context, entry *Entry) error
	Update(ctx context.Context, entry *Entry) error
	Delete(ctx context.Context, id string) (bool, error)
	Totals(ctx context.Context, from, to *time.Time) (Summary, error)
}
