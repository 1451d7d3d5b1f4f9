package payroll

import (
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateRunRequest struct {
	RunDate     string `json:"run_date"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
	CreatedBy   string `json:"-"`

	runDate     time.Time
	periodStart time.Time
	periodEnd   time.Time
}

func (r *CreateRunRequest) Validate() error {
	var errs validator.ValidationErrors

	runDate, ok := validator.IsValidDate(r.RunDate)
	if !ok {
		errs.Add("run_date", "run_date must be in YYYY-MM-DD format")
	}
	start, startOK := validator.IsValidDate(r.PeriodStart)
	if !startOK {
		errs.Add("period_start", "period_start must be in YYYY-MM-DD format")
	}
	end, endOK := validator.IsValidDate(r.PeriodEnd)
	if !endOK {
		errs.Add("period_end", "period_end must be in YYYY-MM-DD format")
	}
	if startOK && endOK && end.Before(start) {
		errs.Add("period_end", "period_end must not be before period_start")
	}
	if validator.IsEmpty(r.CreatedBy) {
		errs.Add("created_by", "created_by is required")
	}

	if err := errs.Err(); err != nil {
		return err
	}
	r.runDate, r.periodStart, r.periodEnd = runDate, start, end
	return nil
}

func (r *CreateRunRequest) ParsedRunDate() time.Time     { return r.runDate }
func (r *CreateRunRequest) ParsedPeriodStart() time.Time { return r.periodStart }
func (r *CreateRunRequest) ParsedPeriodEnd() time.Time   { return r.periodEnd }

type RunFilter struct {
	Status *RunStatus
	Limit  int
}

// RunDetail is a run with all of its entries.
type RunDetail struct {
	Run     PayrollRun
	Entries []PayrollEntry
}

type RunResponse struct {
	ID             string          `json:"id"`
	RunDate        string          `json:"run_date"`
	PeriodStart    string          `json:"period_start"`
	PeriodEnd      string          `json:"period_end"`
	PeriodLabel    string          `json:"period_label"`
	TotalEmployees int             `json:"total_employees"`
	TotalGrossPay  decimal.Decimal `json:"total_gross_pay"`
	TotalTax       decimal.Decimal `json:"total_tax"`
	TotalNetPay    decimal.Decimal `json:"total_net_pay"`
	Status         string          `json:"status"`
	CreatedBy      string          `json:"created_by"`
	ProcessedAt    *time.Time      `json:"processed_at"`
}

func NewRunResponse(r PayrollRun) RunResponse {
	return RunResponse{
		ID:             r.ID,
		RunDate:        r.RunDate.Format("2006-01-02"),
		PeriodStart:    r.PeriodStart.Format("2006-01-02"),
		PeriodEnd:      r.PeriodEnd.Format("2006-01-02"),
		PeriodLabel:    PeriodLabel(r.PeriodStart, r.PeriodEnd),
		TotalEmployees: r.TotalEmployees,
		TotalGrossPay:  r.TotalGrossPay,
		TotalTax:       r.TotalTax,
		TotalNetPay:    r.TotalNetPay,
		Status:         string(r.Status),
		CreatedBy:      r.CreatedBy,
		ProcessedAt:    r.ProcessedAt,
	}
}

type EntryResponse struct {
	ID             string          `json:"id"`
	RunID          string          `json:"run_id"`
	EmployeeID     string          `json:"employee_id"`
	EmployeeName   *string         `json:"employee_name,omitempty"`
	EmployeeCode   *string         `json:"employee_code,omitempty"`
	Currency       string          `json:"currency"`
	BaseSalary     decimal.Decimal `json:"base_salary"`
	Allowances     decimal.Decimal `json:"allowances"`
	Deductions     decimal.Decimal `json:"deductions"`
	OvertimePay    decimal.Decimal `json:"overtime_pay"`
	Bonus          decimal.Decimal `json:"bonus"`
	GrossPay       decimal.Decimal `json:"gross_pay"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	NetPay         decimal.Decimal `json:"net_pay"`
	WorkingDays    int             `json:"working_days"`
	AttendanceDays int             `json:"attendance_days"`
	LeaveDays      int             `json:"leave_days"`
	OvertimeDays   int             `json:"overtime_days"`
}

func NewEntryResponse(e PayrollEntry) EntryResponse {
	return EntryResponse{
		ID:             e.ID,
		RunID:          e.RunID,
		EmployeeID:     e.EmployeeID,
		EmployeeName:   e.EmployeeName,
		EmployeeCode:   e.EmployeeCode,
		Currency:       e.Currency,
		BaseSalary:     e.BaseSalary,
		Allowances:     e.Allowances,
		Deductions:     e.Deductions,
		OvertimePay:    e.OvertimePay,
		Bonus:          e.Bonus,
		GrossPay:       e.GrossPay,
		TaxAmount:      e.TaxAmount,
		NetPay:         e.NetPay,
		WorkingDays:    e.WorkingDays,
		AttendanceDays: e.AttendanceDays,
		LeaveDays:      e.LeaveDays,
		OvertimeDays:   e.OvertimeDays,
	}
}

type RunDetailResponse struct {
	Run     RunResponse     `json:"run"`
	Entries []EntryResponse `json:"entries"`
}

func NewRunDetailResponse(d RunDetail) RunDetailResponse {
	entries := make([]EntryResponse, 0, len(d.Entries))
	for _, e := range d.Entries {
		entries = append(entries, NewEntryResponse(e))
	}
	return RunDetailResponse{Run: NewRunResponse(d.Run), Entries: entries}
}

type PayslipResponse struct {
	EntryResponse
	RunDate     string `json:"run_date"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
	PeriodLabel string `json:"period_label"`
	RunStatus   string `json:"run_status"`
}

func NewPayslipResponse(p Payslip) PayslipResponse {
	return PayslipResponse{
		EntryResponse: NewEntryResponse(p.Entry),
		RunDate:       p.RunDate.Format("2006-01-02"),
		PeriodStart:   p.PeriodStart.Format("2006-01-02"),
		PeriodEnd:     p.PeriodEnd.Format("2006-01-02"),
		PeriodLabel:   p.PeriodLabel(),
		RunStatus:     string(p.RunStatus),
	}
}
