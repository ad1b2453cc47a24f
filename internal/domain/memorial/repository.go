package memorial

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	IncrementIncense(ctx context.Context, memberID string) (int64, error)
	IncenseCount(ctx context.Context, memberID string) (int64, error)
	AddIncenseLog(ctx context.Context, log *IncenseLog) error
	ListIncenseLogs(ctx context.Context, memberID string, limit int) ([]IncenseLog, error)
	AddCondolence(ctx context.Context, condolence *Condolence) error
	ListCondolences(ctx context.Context, memberID string, limit int) ([]Condolence, error)
	HideCondolence(ctx context.Context, id string) (bool, error)
}
