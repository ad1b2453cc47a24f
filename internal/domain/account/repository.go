package account

import (
	"context"
	"time"
)

type Repository interface {
	List(ctx context.Context) ([]Account, error)
	GetByID(ctx context.Context, id string) (*Account, error)
	GetByUsername(ctx context.Context, username string) (*Account, error)
	CountActiveAdmins(ctx context.Context) (int64, error)
	Create(ctx context.Context, account *Account) error
	Update(ctx context.Context, account *Account) error
	UpdatePassword(ctx context.Context, id, hash string) error
	TouchLogin(ctx context.Context, id string, at time.Time) error
}

// AttemptStore counts failed logins per key within a sliding window.
type AttemptStore interface {
	Failures(ctx context.Context, key string) (int, time.Duration, error)
	RecordFailure(ctx context.Context, key string, window time.Duration) (int, error)
	Reset(ctx context.Context, key string) error
}
