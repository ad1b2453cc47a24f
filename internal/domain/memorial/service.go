package memorial

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"giapha-go/internal/domain/member"
	"github.com/google/uuid"
)

const (
	maxMessageLength = 2000
	maxNameLength    = 120
	pageLogLimit     = 20
	pageCondolences  = 50
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

func (s *Service) Page(ctx context.Context, memberID string) (*Page, error) {
	deceased, err := s.deceased(ctx, memberID)
	if err != nil {
		return nil, err
	}

	count, err := s.repo.IncenseCount(ctx, memberID)
	if err != nil {
		return nil, err
	}
	logs, err := s.repo.ListIncenseLogs(ctx, memberID, pageLogLimit)
	if err != nil {
		return nil, err
	}
	condolences, err := s.repo.ListCondolences(ctx, memberID, pageCondolences)
	if err != nil {
		return nil, err
	}

	return &Page{
		Member:        *deceased,
		IncenseCount:  count,
		RecentIncense: logs,
		Condolences:   condolences,
	}, nil
}

// LightIncense bumps the counter and appends a log entry in one transaction.
// It returns the new total.
func (s *Service) LightIncense(ctx context.Context, memberID, visitorName, message string) (int64, error) {
	if _, err := s.deceased(ctx, memberID); err != nil {
		return 0, err
	}
	visitorName, err := cleanName(visitorName, false)
	if err != nil {
		return 0, err
	}
	message = strings.TrimSpace(message)
	if utf8.RuneCountInString(message) > maxMessageLength {
		return 0, fmt.Errorf("%w: message is longer than %d characters", ErrInvalidInput, maxMessageLength)
	}

	var total int64
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		count, err := tx.IncrementIncense(ctx, memberID)
		if err != nil {
			return err
		}
		if err := tx.AddIncenseLog(ctx, &IncenseLog{
			ID:          uuid.NewString(),
			MemberID:    memberID,
			VisitorName: visitorName,
			Message:     message,
		}); err != nil {
			return err
		}
		total = count
		return nil
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Service) AddCondolence(ctx context.Context, memberID, authorName, message string) (*Condolence, error) {
	if _, err := s.deceased(ctx, memberID); err != nil {
		return nil, err
	}
	authorName, err := cleanName(authorName, true)
	if err != nil {
		return nil, err
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, fmt.Errorf("%w: message is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(message) > maxMessageLength {
		return nil, fmt.Errorf("%w: message is longer than %d characters", ErrInvalidInput, maxMessageLength)
	}

	condolence := Condolence{
		ID:         uuid.NewString(),
		MemberID:   memberID,
		AuthorName: authorName,
		Message:    message,
	}
	if err := s.repo.AddCondolence(ctx, &condolence); err != nil {
		return nil, err
	}
	return &condolence, nil
}

func (s *Service) HideCondolence(ctx context.Context, id string) error {
	hidden, err := s.repo.HideCondolence(ctx, id)
	if err != nil {
		return err
	}
	if !hidden {
		return ErrCondolenceNotFound
	}
	return nil
}

func (s *Service) deceased(ctx context.Context, memberID string) (*member.Member, error) {
	m, err := s.members.Get(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if !m.IsDeceased {
		return nil, ErrNotDeceased
	}
	return m, nil
}

func cleanName(name string, required bool) (string, error) {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" && required {
		return "", fmt.Errorf("%w: author_name is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return "", fmt.Errorf("%w: name is longer than %d characters", ErrInvalidInput, maxNameLength)
	}
	return name, nil
}
