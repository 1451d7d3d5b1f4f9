package user

import "errors"

var (
	ErrForbidden         = errors.New("insufficient permissions")
	ErrMissingSubject    = errors.New("missing authenticated subject")
	ErrInvalidRoleClaims = errors.New("invalid role claim")
)
