package account

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

var usernamePattern = regexp.MustCompile(`^[a-z0-9._-]{3,32}$`)

type Options struct {
	MaxAttempts   int
	LockoutWindow time.Duration
	BcryptCost    int
}

type Service struct {
	repo     Repository
	attempts AttemptStore
	tokens   *TokenIssuer
	opts     Options
	now      func() time.Time
}

func NewService(repo Repository, attempts AttemptStore, tokens *TokenIssuer, opts Options) *Service {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 5
	}
	if opts.LockoutWindow <= 0 {
		opts.LockoutWindow = 15 * time.Minute
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:     repo,
		attempts: attempts,
		tokens:   tokens,
		opts:     opts,
		now:      time.Now,
	}
}

func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = normalizeUsername(username)
	key := attemptKey(username)

	failures, retryAfter, err := s.attempts.Failures(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read login attempts: %w", err)
	}
	if failures >= s.opts.MaxAttempts {
		return nil, &LockedError{RetryAfter: retryAfter}
	}

	account, err := s.repo.GetByUsername(ctx, username)
	if err != nil && !errors.Is(err, ErrAccountNotFound) {
		return nil, err
	}
	if account == nil || bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		if _, err := s.attempts.RecordFailure(ctx, key, s.opts.LockoutWindow); err != nil {
			return nil, fmt.Errorf("record login attempt: %w", err)
		}
		return nil, ErrInvalidCredentials
	}
	if !account.Active {
		return nil, ErrAccountInactive
	}

	if err := s.attempts.Reset(ctx, key); err != nil {
		return nil, fmt.Errorf("reset login attempts: %w", err)
	}
	now := s.now()
	if err := s.repo.TouchLogin(ctx, account.ID, now); err != nil {
		return nil, err
	}
	account.LastLoginAt = &now

	token, expiresAt, err := s.tokens.Issue(principalOf(account))
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt, Account: *account}, nil
}

// Authenticate verifies the token and reloads the account, so role changes
// and deactivation apply to tokens already issued.
func (s *Service) Authenticate(ctx context.Context, token string) (Principal, error) {
	claimed, err := s.tokens.Parse(token)
	if err != nil {
		return Principal{}, err
	}

	account, err := s.repo.GetByID(ctx, claimed.AccountID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return Principal{}, ErrInvalidToken
		}
		return Principal{}, err
	}
	if !account.Active {
		return Principal{}, ErrInvalidToken
	}
	return principalOf(account), nil
}

func (s *Service) Get(ctx context.Context, id string) (*Account, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Account, error) {
	return s.repo.List(ctx)
}

func (s *Service) Create(ctx context.Context, input CreateInput) (*Account, error) {
	username := normalizeUsername(input.Username)
	if !usernamePattern.MatchString(username) {
		return nil, fmt.Errorf("%w: username must be 3-32 characters of a-z, 0-9, '.', '_' or '-'", ErrInvalidInput)
	}
	if input.Role == "" {
		input.Role = RoleViewer
	}
	if !input.Role.Valid() {
		return nil, fmt.Errorf("%w: role must be admin, editor or viewer", ErrInvalidInput)
	}
	displayName := strings.TrimSpace(input.DisplayName)
	if displayName == "" {
		displayName = username
	}

	hash, err := s.hash(input.Password)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, ErrAccountNotFound) {
		return nil, err
	}

	account := Account{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		DisplayName:  displayName,
		Role:         input.Role,
		MemberID:     input.MemberID,
		Active:       true,
	}
	if err := s.repo.Create(ctx, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*Account, error) {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Role != nil && !input.Role.Valid() {
		return nil, fmt.Errorf("%w: role must be admin, editor or viewer", ErrInvalidInput)
	}
	losesAdmin := account.Role == RoleAdmin && account.Active &&
		((input.Role != nil && *input.Role != RoleAdmin) || (input.Active != nil && !*input.Active))
	if losesAdmin {
		admins, err := s.repo.CountActiveAdmins(ctx)
		if err != nil {
			return nil, err
		}
		if admins <= 1 {
			return nil, ErrLastAdmin
		}
	}

	if input.DisplayName != nil {
		name := strings.TrimSpace(*input.DisplayName)
		if name == "" {
			return nil, fmt.Errorf("%w: display_name cannot be empty", ErrInvalidInput)
		}
		account.DisplayName = name
	}
	if input.Role != nil {
		account.Role = *input.Role
	}
	if input.MemberID != nil {
		memberID := strings.TrimSpace(*input.MemberID)
		if memberID == "" {
			account.MemberID = nil
		} else {
			account.MemberID = &memberID
		}
	}
	if input.Active != nil {
		account.Active = *input.Active
	}

	if err := s.repo.Update(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// ResetPassword sets a new password and clears any lockout for the account.
func (s *Service) ResetPassword(ctx context.Context, id, password string) error {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	hash, err := s.hash(password)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, account.ID, hash); err != nil {
		return err
	}
	return s.attempts.Reset(ctx, attemptKey(account.Username))
}

func (s *Service) ChangePassword(ctx context.Context, id, current, next string) error {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(current)) != nil {
		return ErrPasswordMismatch
	}
	hash, err := s.hash(next)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, account.ID, hash)
}

func (s *Service) hash(password string) (string, error) {
	if len([]rune(password)) < minPasswordLength {
		return "", ErrWeakPassword
	}
	if len(password) > 72 {
		return "", fmt.Errorf("%w: password must be at most 72 bytes", ErrInvalidInput)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.opts.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func principalOf(account *Account) Principal {
	return Principal{
		AccountID: account.ID,
		Username:  account.Username,
		Role:      account.Role,
	}
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func attemptKey(username string) string {
	return "login:" + username
}
