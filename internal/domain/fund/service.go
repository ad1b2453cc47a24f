package fund

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"giapha-go/internal/domain/member"
	"github.com/google/uuid"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

type MemberReader interface {
	Get(ctx context.Context, id string) (*member.Member, error)
}

type Service struct {
	repo    Repository
	members MemberReader
}

func NewService(repo Repository, members MemberReader) *Service {
	return &Service{repo: repo, members: members}
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Entry, int64, error) {
	if err := validateRange(filter.From, filter.To); err != nil {
		return nil, 0, err
	}
	if filter.Kind != "" && !filter.Kind.Valid() {
		return nil, 0, fmt.Errorf("%w: kind must be income or expense", ErrInvalidInput)
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.List(ctx, filter)
}

// Entries returns every entry in the range, oldest first, for export.
func (s *Service) Entries(ctx context.Context, from, to *time.Time) ([]Entry, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}
	return s.repo.ListAll(ctx, from, to)
}

func (s *Service) Get(ctx context.Context, id string) (*Entry, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Summary(ctx context.Context, from, to *time.Time) (Summary, error) {
	if err := validateRange(from, to); err != nil {
		return Summary{}, err
	}
	totals, err := s.repo.Totals(ctx, from, to)
	if err != nil {
		return Summary{}, err
	}
	totals.Balance = totals.Income - totals.Expense
	return totals, nil
}

func (s *Service) Create(ctx context.Context, input Input) (*Entry, error) {
	if err := s.validateInput(ctx, &input); err != nil {
		return nil, err
	}

	entry := Entry{ID: uuid.NewString()}
	applyInput(&entry, input)
	if input.RecordedBy != "" {
		recordedBy := input.RecordedBy
		entry.RecordedBy = &recordedBy
	}
	if err := s.repo.Create(ctx, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *Service) Update(ctx context.Context, id string, input Input) (*Entry, error) {
	if err := s.validateInput(ctx, &input); err != nil {
		return nil, err
	}

	entry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applyInput(entry, input)
	entry.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrEntryNotFound
	}
	return nil
}

func (s *Service) validateInput(ctx context.Context, input *Input) error {
	input.Kind = Kind(strings.ToLower(strings.TrimSpace(string(input.Kind))))
	if !input.Kind.Valid() {
		return fmt.Errorf("%w: kind must be income or expense", ErrInvalidInput)
	}
	if input.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if input.OccurredOn.IsZero() {
		return fmt.Errorf("%w: occurred_on is required", ErrInvalidInput)
	}
	input.Description = strings.TrimSpace(input.Description)
	if input.Description == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidInput)
	}

	if input.ContributorID != nil {
		id := strings.TrimSpace(*input.ContributorID)
		if id == "" {
			input.ContributorID = nil
			return nil
		}
		input.ContributorID = &id
		if _, err := s.members.Get(ctx, id); err != nil {
			if errors.Is(err, member.ErrMemberNotFound) {
				return ErrContributorNotFound
			}
			return err
		}
	}
	return nil
}

func applyInput(entry *Entry, input Input) {
	entry.Kind = input.Kind
	entry.Amount = input.Amount
	entry.OccurredOn = input.OccurredOn
	entry.Description = input.Description
	entry.ContributorID = input.ContributorID
}

func validateRange(from, to *time.Time) error {
	if from != nil && to != nil && to.Before(*from) {
		return fmt.Errorf("%w: to is before from", ErrInvalidInput)
	}
	return nil
}
