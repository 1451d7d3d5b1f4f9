package salary

import "errors"

var (
	ErrSalaryNotFound    = errors.New("salary record not found")
	ErrOverlappingRecord = errors.New("a salary record already starts on or after the effective date")
)
