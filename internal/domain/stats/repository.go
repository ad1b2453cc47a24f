package stats

import "context"

type Repository interface {
	MemberTotals(ctx context.Context) (MemberTotals, error)
	GenerationCounts(ctx context.Context) ([]GenerationCount, error)
	ContentCounts(ctx context.Context) (ContentCounts, error)
}
