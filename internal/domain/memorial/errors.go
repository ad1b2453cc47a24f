package memorial

import "errors"

var (
	ErrNotDeceased        = errors.New("memorial pages exist only for deceased members")
	ErrCondolenceNotFound = errors.New("condolence not found")
	ErrInvalidInput       = errors.New("invalid input")
)
