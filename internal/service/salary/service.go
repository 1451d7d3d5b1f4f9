package salary

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/salary"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
)

type SalaryService struct {
	tx              database.Transactor
	salaryRepo      salary.SalaryRepository
	employeeRepo    employee.EmployeeRepository
	defaultCurrency string
}

func NewSalaryService(
	tx database.Transactor,
	salaryRepo salary.SalaryRepository,
	employeeRepo employee.EmployeeRepository,
	defaultCurrency string,
) *SalaryService {
	return &SalaryService{
		tx:              tx,
		salaryRepo:      salaryRepo,
		employeeRepo:    employeeRepo,
		defaultCurrency: defaultCurrency,
	}
}

func (s *SalaryService) SetSalary(ctx context.Context, req salary.SetSalaryRequest) (salary.SalaryRecord, error) {
	if err := req.Validate(); err != nil {
		return salary.SalaryRecord{}, err
	}

	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return salary.SalaryRecord{}, err
	}

	currency := req.Currency
	if currency == "" {
		currency = s.defaultCurrency
	}
	effectiveDate := req.ParsedEffectiveDate()

	record := salary.SalaryRecord{
		EmployeeID:    req.EmployeeID,
		BaseSalary:    req.BaseSalary,
		Allowances:    req.Allowances,
		Deductions:    req.Deductions,
		Currency:      currency,
		EffectiveDate: effectiveDate,
		EndDate:       req.ParsedEndDate(),
	}

	var created salary.SalaryRecord
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.salaryRepo.LockTimeline(txCtx, req.EmployeeID); err != nil {
			return err
		}

		later, err := s.salaryRepo.ExistsStartingOnOrAfter(txCtx, req.EmployeeID, effectiveDate)
		if err != nil {
			return err
		}
		if later {
			return salary.ErrOverlappingRecord
		}

		closed, err := s.salaryRepo.CloseOverlapping(txCtx, req.EmployeeID, effectiveDate)
		if err != nil {
			return err
		}

		created, err = s.salaryRepo.Create(txCtx, record)
		if err != nil {
			return err
		}

		slog.Info("Salary record set",
			"employee_id", req.EmployeeID,
			"effective_date", effectiveDate.Format("2006-01-02"),
			"closed_records", closed,
		)
		return nil
	})
	if err != nil {
		return salary.SalaryRecord{}, fmt.Errorf("failed to set salary: %w", err)
	}

	return created, nil
}

func (s *SalaryService) CurrentSalary(ctx context.Context, employeeID string, asOf time.Time) (salary.SalaryRecord, error) {
	return s.salaryRepo.GetCurrent(ctx, employeeID, asOf)
}

func (s *SalaryService) SalaryHistory(ctx context.Context, employeeID string) ([]salary.SalaryRecord, error) {
	if _, err := s.employeeRepo.GetByID(ctx, employeeID); err != nil {
		return nil, err
	}
	return s.salaryRepo.ListByEmployee(ctx, employeeID)
}
