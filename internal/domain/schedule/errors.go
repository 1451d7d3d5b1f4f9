package schedule

import "errors"

var (
	ErrShiftNotFound      = errors.New("shift not found")
	ErrShiftNameExists    = errors.New("shift name already exists")
	ErrAssignmentNotFound = errors.New("shift assignment not found")
)
