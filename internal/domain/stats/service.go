package stats

import (
	"context"
	"time"

	"giapha-go/internal/domain/fund"
)

type FundSummarizer interface {
	Summary(ctx context.Context, from, to *time.Time) (fund.Summary, error)
}

type Service struct {
	repo Repository
	fund FundSummarizer
}

func NewService(repo Repository, fund FundSummarizer) *Service {
	return &Service{repo: repo, fund: fund}
}

func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	members, err := s.repo.MemberTotals(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	generations, err := s.repo.GenerationCounts(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	content, err := s.repo.ContentCounts(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	summary, err := s.fund.Summary(ctx, nil, nil)
	if err != nil {
		return Dashboard{}, err
	}

	deepest := 0
	for _, row := range generations {
		if row.Count > 0 && row.Generation > deepest {
			deepest = row.Generation
		}
	}
	if generations == nil {
		generations = []GenerationCount{}
	}

	return Dashboard{
		Members:           members,
		Generations:       generations,
		DeepestGeneration: deepest,
		Content:           content,
		Fund: FundTotals{
			Income:  summary.Income,
			Expense: summary.Expense,
			Balance: summary.Balance,
		},
	}, nil
}
