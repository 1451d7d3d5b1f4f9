package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/leave"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/salary"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/schedule"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/user"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Access
	case errors.Is(err, user.ErrForbidden):
		Forbidden(w, "You are not allowed to access this resource")
	case errors.Is(err, user.ErrMissingSubject), errors.Is(err, user.ErrInvalidRoleClaims):
		Unauthorized(w, err.Error())

	// Employee
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Salary
	case errors.Is(err, salary.ErrSalaryNotFound):
		NotFound(w, "Salary record not found")
	case errors.Is(err, salary.ErrOverlappingRecord):
		Conflict(w, err.Error())

	// Leave
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrInsufficientBalance):
		BadRequest(w, "Insufficient leave balance", nil)
	case errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed):
		Conflict(w, "Leave request already processed")

	// Schedule
	case errors.Is(err, schedule.ErrShiftNotFound):
		NotFound(w, "Shift not found")
	case errors.Is(err, schedule.ErrShiftNameExists):
		Conflict(w, "Shift name already exists")

	// Payroll
	case errors.Is(err, payroll.ErrRunNotFound):
		NotFound(w, "Payroll run not found")
	case errors.Is(err, payroll.ErrEntryNotFound):
		NotFound(w, "Payslip not found")
	case errors.Is(err, payroll.ErrRunNotProcessable):
		Conflict(w, "Payroll run is not in draft or processing state")
	case errors.Is(err, payroll.ErrRunInProgress):
		Conflict(w, "A payroll run for this period is already being created")
	case errors.Is(err, payroll.ErrNoEligibleEmployees):
		UnprocessableEntity(w, "EMPTY_INPUT", "No eligible employees for payroll run")
	case errors.Is(err, payroll.ErrNoWorkingDays):
		UnprocessableEntity(w, "NO_WORKING_DAYS", "Payroll period has no working days")
	case errors.Is(err, payroll.ErrMixedCurrencies):
		UnprocessableEntity(w, "MIXED_CURRENCIES", err.Error())

	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
