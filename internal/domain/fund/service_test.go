package fund

import (
	"context"
	"errors"
	"testing"
	"time"

	"giapha-go/internal/domain/member"
)

type fakeFundRepo struct {
	entries map[string]*Entry
}

func newFakeFundRepo() *fakeFundRepo {
	return &fakeFundRepo{entries: map[string]*Entry{}}
}

func inRange(entry *Entry, from, to *time.Time) bool {
	if from != nil && entry.OccurredOn.Before(*from) {
		return false
	}
	if to != nil && entry.OccurredOn.After(*to) {
		return false
	}
	return true
}

func (r *fakeFundRepo) List(_ context.Context, filter ListFilter) ([]Entry, int64, error) {
	var items []Entry
	for _, entry := range r.entries {
		if !inRange(entry, filter.From, filter.To) {
			continue
		}
		if filter.Kind != "" && entry.Kind != filter.Kind {
			continue
		}
		items = append(items, *entry)
	}
	return items, int64(len(items)), nil
}

func (r *fakeFundRepo) ListAll(_ context.Context, from, to *time.Time) ([]Entry, error) {
	items, _, err := r.List(context.Background(), ListFilter{From: from, To: to})
	return items, err
}

func (r *fakeFundRepo) GetByID(_ context.Context, id string) (*Entry, error) {
	entry, ok := r.entries[id]
	if !ok {
		return nil, ErrEntryNotFound
	}
	copied := *entry
	return &copied, nil
}

func (r *fakeFundRepo) Create(_ context.Context, entry *Entry) error {
	copied := *entry
	r.entries[entry.ID] = &copied
	return nil
}

func (r *fakeFundRepo) Update(_ context.Context, entry *Entry) error {
	copied := *entry
	r.entries[entry.ID] = &copied
	return nil
}

func (r *fakeFundRepo) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := r.entries[id]; !ok {
		return false, nil
	}
	delete(r.entries, id)
	return true, nil
}

func (r *fakeFundRepo) Totals(_ context.Context, from, to *time.Time) (Summary, error) {
	var summary Summary
	for _, entry := range r.entries {
		if !inRange(entry, from, to) {
			continue
		}
		if entry.Kind == KindIncome {
			summary.Income += entry.Amount
		} else {
			summary.Expense += entry.Amount
		}
	}
	return summary, nil
}

type fakeMembers map[string]member.Member

func (f fakeMembers) Get(_ context.Context, id string) (*member.Member, error) {
	m, ok := f[id]
	if !ok {
		return nil, member.ErrMemberNotFound
	}
	return &m, nil
}

func day(value string) time.Time {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return parsed
}

func newTestService() *Service {
	return NewService(newFakeFundRepo(), fakeMembers{"m-1": {ID: "m-1", FullName: "Nguyễn Văn Nhất"}})
}

func TestSummaryBalance(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	inputs := []Input{
		{Kind: KindIncome, Amount: 5_000_000, OccurredOn: day("2026-01-10"), Description: "Đóng góp giỗ Tổ"},
		{Kind: "INCOME", Amount: 2_000_000, OccurredOn: day("2026-02-01"), Description: "Công đức"},
		{Kind: KindExpense, Amount: 1_500_000, OccurredOn: day("2026-02-15"), Description: "Mua lễ"},
	}
	for _, input := range inputs {
		if _, err := svc.Create(ctx, input); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	summary, err := svc.Summary(ctx, nil, nil)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	want := Summary{Income: 7_000_000, Expense: 1_500_000, Balance: 5_500_000}
	if summary != want {
		t.Fatalf("expected %+v, got %+v", want, summary)
	}

	from := day("2026-02-01")
	summary, err = svc.Summary(ctx, &from, nil)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.Balance != 500_000 {
		t.Fatalf("expected ranged balance 500000, got %d", summary.Balance)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService()
	missing := "ghost"

	tests := []struct {
		name  string
		input Input
		want  error
	}{
		{name: "bad kind", input: Input{Kind: "gift", Amount: 1, OccurredOn: day("2026-01-01"), Description: "x"}, want: ErrInvalidInput},
		{name: "zero amount", input: Input{Kind: KindIncome, OccurredOn: day("2026-01-01"), Description: "x"}, want: ErrInvalidInput},
		{name: "negative amount", input: Input{Kind: KindIncome, Amount: -5, OccurredOn: day("2026-01-01"), Description: "x"}, want: ErrInvalidInput},
		{name: "missing date", input: Input{Kind: KindIncome, Amount: 1, Description: "x"}, want: ErrInvalidInput},
		{name: "missing description", input: Input{Kind: KindIncome, Amount: 1, OccurredOn: day("2026-01-01"), Description: " "}, want: ErrInvalidInput},
		{name: "unknown contributor", input: Input{Kind: KindIncome, Amount: 1, OccurredOn: day("2026-01-01"), Description: "x", ContributorID: &missing}, want: ErrContributorNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.input)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestCreateRecordsContributorAndRecorder(t *testing.T) {
	svc := newTestService()
	contributor := "m-1"

	entry, err := svc.Create(context.Background(), Input{
		Kind:          KindIncome,
		Amount:        300_000,
		OccurredOn:    day("2026-03-01"),
		Description:   "Đóng góp",
		ContributorID: &contributor,
		RecordedBy:    "acc-1",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if entry.ContributorID == nil || *entry.ContributorID != "m-1" {
		t.Fatalf("expected contributor")
	}
	if entry.RecordedBy == nil || *entry.RecordedBy != "acc-1" {
		t.Fatalf("expected recorder")
	}
}

func TestUpdateAndDelete(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	entry, err := svc.Create(ctx, Input{Kind: KindExpense, Amount: 100, OccurredOn: day("2026-01-01"), Description: "Hương"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(ctx, entry.ID, Input{Kind: KindExpense, Amount: 250, OccurredOn: day("2026-01-02"), Description: "Hương hoa"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Amount != 250 || updated.Description != "Hương hoa" {
		t.Fatalf("unexpected update result %+v", updated)
	}

	if _, err := svc.Update(ctx, "missing", Input{Kind: KindExpense, Amount: 1, OccurredOn: day("2026-01-02"), Description: "x"}); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}

	if err := svc.Delete(ctx, entry.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, entry.ID); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
}

func TestRangeValidation(t *testing.T) {
	svc := newTestService()
	from := day("2026-05-01")
	to := day("2026-04-01")

	if _, err := svc.Summary(context.Background(), &from, &to); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, _, err := svc.List(context.Background(), ListFilter{From: &from, To: &to}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
