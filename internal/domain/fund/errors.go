package fund

import "errors"

var (
	ErrEntryNotFound       = errors.New("fund entry not found")
	ErrContributorNotFound = errors.New("contributor not found")
	ErrInvalidInput        = errors.New("invalid input")
)
