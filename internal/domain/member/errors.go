package member

import "errors"

var (
	ErrMemberNotFound = errors.New("member not found")
	ErrParentNotFound = errors.New("parent not found")
	ErrSpouseNotFound = errors.New("spouse not found")
	ErrHasChildren    = errors.New("member has children")
	ErrParentCycle    = errors.New("parent would create a cycle")
	ErrInvalidInput   = errors.New("invalid member input")
)
