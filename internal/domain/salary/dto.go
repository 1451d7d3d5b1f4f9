package salary

import (
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type SetSalaryRequest struct {
	EmployeeID    string          `json:"employee_id"`
	BaseSalary    decimal.Decimal `json:"base_salary"`
	Allowances    decimal.Decimal `json:"allowances"`
	Deductions    decimal.Decimal `json:"deductions"`
	Currency      string          `json:"currency"`
	EffectiveDate string          `json:"effective_date"`
	EndDate       *string         `json:"end_date,omitempty"`

	// Parsed by Validate
	effectiveDate time.Time
	endDate       *time.Time
}

func (r *SetSalaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	if !validator.IsPositive(r.BaseSalary) {
		errs.Add("base_salary", "base_salary must be greater than 0")
	}
	if !validator.IsNonNegative(r.Allowances) {
		errs.Add("allowances", "allowances must not be negative")
	}
	if !validator.IsNonNegative(r.Deductions) {
		errs.Add("deductions", "deductions must not be negative")
	}
	if r.Currency != "" && !validator.IsValidCurrency(r.Currency) {
		errs.Add("currency", "currency must be a 3-letter uppercase code")
	}

	if validator.IsEmpty(r.EffectiveDate) {
		errs.Add("effective_date", "effective_date is required")
	} else if d, ok := validator.IsValidDate(r.EffectiveDate); !ok {
		errs.Add("effective_date", "effective_date must be in YYYY-MM-DD format")
	} else {
		r.effectiveDate = d
	}

	if r.EndDate != nil && !validator.IsEmpty(*r.EndDate) {
		d, ok := validator.IsValidDate(*r.EndDate)
		switch {
		case !ok:
			errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
		case !r.effectiveDate.IsZero() && d.Before(r.effectiveDate):
			errs.Add("end_date", "end_date must not be before effective_date")
		default:
			r.endDate = &d
		}
	}

	return errs.Err()
}

// ParsedEffectiveDate is valid after a successful Validate.
func (r *SetSalaryRequest) ParsedEffectiveDate() time.Time { return r.effectiveDate }

// ParsedEndDate is valid after a successful Validate.
func (r *SetSalaryRequest) ParsedEndDate() *time.Time { return r.endDate }

type SalaryRecordResponse struct {
	ID            string          `json:"id"`
	EmployeeID    string          `json:"employee_id"`
	BaseSalary    decimal.Decimal `json:"base_salary"`
	Allowances    decimal.Decimal `json:"allowances"`
	Deductions    decimal.Decimal `json:"deductions"`
	Currency      string          `json:"currency"`
	EffectiveDate string          `json:"effective_date"`
	EndDate       *string         `json:"end_date"`
}

func NewSalaryRecordResponse(r SalaryRecord) SalaryRecordResponse {
	resp := SalaryRecordResponse{
		ID:            r.ID,
		EmployeeID:    r.EmployeeID,
		BaseSalary:    r.BaseSalary,
		Allowances:    r.Allowances,
		Deductions:    r.Deductions,
		Currency:      r.Currency,
		EffectiveDate: r.EffectiveDate.Format("2006-01-02"),
	}
	if r.EndDate != nil {
		end := r.EndDate.Format("2006-01-02")
		resp.EndDate = &end
	}
	return resp
}
