package member

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

type Service struct {
	repo     Repository
	listener ChangeListener
}

func NewService(repo Repository) *Service {
	return NewServiceWithListener(repo, nil)
}

func NewServiceWithListener(repo Repository, listener ChangeListener) *Service {
	if listener == nil {
		listener = noopListener{}
	}
	return &Service{repo: repo, listener: listener}
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Member, int64, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	filter.Query = strings.TrimSpace(filter.Query)
	return s.repo.List(ctx, filter)
}

// ListAll returns the full, unfiltered member set ordered by generation and
// birth order. Tree building needs every record to resolve links.
func (s *Service) ListAll(ctx context.Context) ([]Member, error) {
	return s.repo.ListAll(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*Member, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Children(ctx context.Context, id string) ([]Member, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.ListChildren(ctx, id)
}

func (s *Service) Create(ctx context.Context, input Input) (*Member, error) {
	if err := normalizeInput(&input); err != nil {
		return nil, err
	}

	var result Member
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if err := resolveGeneration(ctx, tx, &input); err != nil {
			return err
		}
		if err := checkSpouses(ctx, tx, "", input); err != nil {
			return err
		}

		member := Member{ID: uuid.NewString()}
		applyInput(&member, input)
		if err := tx.Create(ctx, &member); err != nil {
			return err
		}

		result = member
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.listener.MembersChanged(ctx)
	return &result, nil
}

func (s *Service) Update(ctx context.Context, id string, input Input) (*Member, error) {
	if err := normalizeInput(&input); err != nil {
		return nil, err
	}

	var result Member
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		member, err := tx.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if input.ParentID != nil {
			if *input.ParentID == id {
				return ErrParentCycle
			}
			if err := checkAncestry(ctx, tx, id, *input.ParentID); err != nil {
				return err
			}
		}
		if err := resolveGeneration(ctx, tx, &input); err != nil {
			return err
		}
		if err := checkSpouses(ctx, tx, id, input); err != nil {
			return err
		}

		applyInput(member, input)
		if err := tx.Update(ctx, member); err != nil {
			return err
		}

		result = *member
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.listener.MembersChanged(ctx)
	return &result, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		children, err := tx.CountChildren(ctx, id)
		if err != nil {
			return err
		}
		if children > 0 {
			return ErrHasChildren
		}

		if err := tx.RemoveSpouseReferences(ctx, id); err != nil {
			return err
		}

		deleted, err := tx.Delete(ctx, id)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrMemberNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.listener.MembersChanged(ctx)
	return nil
}

func normalizeInput(input *Input) error {
	input.FullName = strings.Join(strings.Fields(input.FullName), " ")
	if input.FullName == "" {
		return fmt.Errorf("%w: full_name is required", ErrInvalidInput)
	}

	input.Gender = Gender(strings.ToLower(strings.TrimSpace(string(input.Gender))))
	if input.Gender == "" {
		input.Gender = GenderOther
	}
	if !input.Gender.Valid() {
		return fmt.Errorf("%w: gender must be male, female or other", ErrInvalidInput)
	}

	if input.Generation < 0 {
		return fmt.Errorf("%w: generation must be positive", ErrInvalidInput)
	}
	if input.BirthOrder == 0 {
		input.BirthOrder = 1
	}
	if input.BirthOrder < 0 {
		return fmt.Errorf("%w: birth_order must be positive", ErrInvalidInput)
	}

	if input.BirthDate != nil && input.DeathDate != nil && input.DeathDate.Before(*input.BirthDate) {
		return fmt.Errorf("%w: death_date is before birth_date", ErrInvalidInput)
	}
	if input.DeathDate != nil {
		input.IsDeceased = true
	}

	input.ParentID = normalizeID(input.ParentID)
	input.SpouseID = normalizeID(input.SpouseID)
	input.SpouseIDs = normalizeIDs(input.SpouseIDs)

	input.Avatar = strings.TrimSpace(input.Avatar)
	input.AnniversaryDate = strings.TrimSpace(input.AnniversaryDate)
	input.Phone = strings.TrimSpace(input.Phone)
	input.Email = strings.TrimSpace(input.Email)
	input.Address = strings.TrimSpace(input.Address)
	input.BurialPlace = strings.TrimSpace(input.BurialPlace)
	return nil
}

func normalizeID(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func normalizeIDs(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		result = append(result, value)
	}
	return result
}

// resolveGeneration checks the parent exists and, when no generation was
// given, derives it from the parent.
func resolveGeneration(ctx context.Context, repo Repository, input *Input) error {
	if input.ParentID == nil {
		if input.Generation == 0 {
			input.Generation = 1
		}
		return nil
	}

	parent, err := repo.GetByID(ctx, *input.ParentID)
	if err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			return ErrParentNotFound
		}
		return err
	}
	if input.Generation == 0 {
		input.Generation = parent.Generation + 1
	}
	return nil
}

// checkAncestry walks up from parentID and fails if it reaches id.
func checkAncestry(ctx context.Context, repo Repository, id, parentID string) error {
	visited := map[string]struct{}{}
	current := parentID
	for current != "" {
		if current == id {
			return ErrParentCycle
		}
		if _, ok := visited[current]; ok {
			return nil
		}
		visited[current] = struct{}{}

		ancestor, err := repo.GetByID(ctx, current)
		if err != nil {
			if errors.Is(err, ErrMemberNotFound) {
				if current == parentID {
					return ErrParentNotFound
				}
				return nil
			}
			return err
		}
		if ancestor.ParentID == nil {
			return nil
		}
		current = *ancestor.ParentID
	}
	return nil
}

func checkSpouses(ctx context.Context, repo Repository, selfID string, input Input) error {
	ids := make([]string, 0, len(input.SpouseIDs)+1)
	if input.SpouseID != nil {
		ids = append(ids, *input.SpouseID)
	}
	for _, id := range input.SpouseIDs {
		if input.SpouseID != nil && id == *input.SpouseID {
			continue
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil
	}

	for _, id := range ids {
		if id == selfID {
			return fmt.Errorf("%w: member cannot be its own spouse", ErrInvalidInput)
		}
	}

	count, err := repo.CountByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if count != int64(len(ids)) {
		return ErrSpouseNotFound
	}
	return nil
}

func applyInput(member *Member, input Input) {
	member.FullName = input.FullName
	member.Gender = input.Gender
	member.Generation = input.Generation
	member.BirthOrder = input.BirthOrder
	member.ParentID = input.ParentID
	member.SpouseID = input.SpouseID
	member.SpouseIDs = input.SpouseIDs
	member.IsDeceased = input.IsDeceased
	member.BirthDate = input.BirthDate
	member.DeathDate = input.DeathDate
	member.Avatar = input.Avatar
	member.AnniversaryDate = input.AnniversaryDate
	member.Biography = input.Biography
	member.Phone = input.Phone
	member.Email = input.Email
	member.Address = input.Address
	member.BurialPlace = input.BurialPlace
	member.Details = input.Details
}
