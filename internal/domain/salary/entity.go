package salary

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalaryRecord is one effective-dated compensation entry. A nil EndDate means
// the record is open-ended.
type SalaryRecord struct {
	ID            string
	EmployeeID    string
	BaseSalary    decimal.Decimal
	Allowances    decimal.Decimal
	Deductions    decimal.Decimal
	Currency      string
	EffectiveDate time.Time
	EndDate       *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Covers reports whether the record's range contains date.
func (r SalaryRecord) Covers(date time.Time) bool {
	if date.Before(r.EffectiveDate) {
		return false
	}
	return r.EndDate == nil || !r.EndDate.Before(date)
}
