package postgresql

import "github.com/cmlabs-hris/payroll-engine/internal/pkg/validator"

// malformedID reports an id that can never match a uuid column. Lookups
// short-circuit on it so bad input reads as "not found" instead of a
// Postgres cast failure.
func malformedID(id string) bool {
	return !validator.IsValidUUID(id)
}
