package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/leave"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/calendar"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/validator"
)

type LeaveService struct {
	tx               database.Transactor
	balanceRepo      leave.LeaveBalanceRepository
	requestRepo      leave.LeaveRequestRepository
	employeeRepo     employee.EmployeeRepository
	defaultTotalDays int
}

func NewLeaveService(
	tx database.Transactor,
	balanceRepo leave.LeaveBalanceRepository,
	requestRepo leave.LeaveRequestRepository,
	employeeRepo employee.EmployeeRepository,
	defaultTotalDays int,
) *LeaveService {
	if defaultTotalDays <= 0 {
		defaultTotalDays = leave.DefaultTotalDays
	}
	return &LeaveService{
		tx:               tx,
		balanceRepo:      balanceRepo,
		requestRepo:      requestRepo,
		employeeRepo:     employeeRepo,
		defaultTotalDays: defaultTotalDays,
	}
}

// ApplyLeave reserves business days from the yearly balance and records a Pending request.
func (s *LeaveService) ApplyLeave(ctx context.Context, req leave.ApplyLeaveRequest) (leave.ApplyLeaveResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.ApplyLeaveResponse{}, err
	}
	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return leave.ApplyLeaveResponse{}, err
	}

	start, end := req.ParsedStartDate(), req.ParsedEndDate()
	totalDays := calendar.BusinessDaysBetween(start, end)
	if totalDays == 0 {
		var errs validator.ValidationErrors
		errs.Add("start_date", "leave range contains no business days")
		return leave.ApplyLeaveResponse{}, errs
	}

	request := leave.LeaveRequest{
		EmployeeID: req.EmployeeID,
		Type:       req.Type,
		StartDate:  start,
		EndDate:    end,
		TotalDays:  totalDays,
		Reason:     req.Reason,
		Status:     leave.LeaveRequestStatusPending,
	}
	year := request.BalanceYear()

	var created leave.LeaveRequest
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if _, err := s.balanceRepo.EnsureBalance(txCtx, req.EmployeeID, year, s.defaultTotalDays); err != nil {
			return err
		}
		if err := s.balanceRepo.ReservePending(txCtx, req.EmployeeID, year, totalDays); err != nil {
			return err
		}

		var err error
		created, err = s.requestRepo.Create(txCtx, request)
		return err
	})
	if err != nil {
		if errors.Is(err, leave.ErrInsufficientBalance) {
			return leave.ApplyLeaveResponse{}, err
		}
		return leave.ApplyLeaveResponse{}, fmt.Errorf("failed to apply leave: %w", err)
	}

	slog.Info("Leave request submitted", "request_id", created.ID, "employee_id", created.EmployeeID, "days", totalDays)

	return leave.ApplyLeaveResponse{
		RequestID: created.ID,
		TotalDays: created.TotalDays,
		Status:    string(created.Status),
	}, nil
}

// DecideLeave approves or rejects a Pending request and settles its reserved days.
func (s *LeaveService) DecideLeave(ctx context.Context, req leave.DecideLeaveRequest) (leave.LeaveRequest, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequest{}, err
	}

	status := leave.LeaveRequestStatusApproved
	var rejectionReason *string
	if req.Decision == leave.DecisionReject {
		status = leave.LeaveRequestStatusRejected
		rejectionReason = req.Reason
	}

	var decided leave.LeaveRequest
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		decided, err = s.requestRepo.TransitionFromPending(txCtx, req.RequestID, status, req.DecidedBy, rejectionReason)
		if err != nil {
			return err
		}

		year := decided.BalanceYear()
		if status == leave.LeaveRequestStatusApproved {
			return s.balanceRepo.CommitPending(txCtx, decided.EmployeeID, year, decided.TotalDays)
		}
		return s.balanceRepo.ReleasePending(txCtx, decided.EmployeeID, year, decided.TotalDays)
	})
	if err != nil {
		if errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed) || errors.Is(err, leave.ErrLeaveRequestNotFound) {
			return leave.LeaveRequest{}, err
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to decide leave request: %w", err)
	}

	slog.Info("Leave request decided", "request_id", decided.ID, "status", decided.Status, "decided_by", req.DecidedBy)
	return decided, nil
}

// LeaveBalance reports the ledger for a year. A year with no row yet reads as the default allowance.
func (s *LeaveService) LeaveBalance(ctx context.Context, employeeID string, year int) (leave.LeaveBalance, error) {
	if _, err := s.employeeRepo.GetByID(ctx, employeeID); err != nil {
		return leave.LeaveBalance{}, err
	}

	balance, err := s.balanceRepo.Get(ctx, employeeID, year)
	if errors.Is(err, leave.ErrBalanceNotFound) {
		return leave.LeaveBalance{EmployeeID: employeeID, Year: year, TotalDays: s.defaultTotalDays}, nil
	}
	return balance, err
}

func (s *LeaveService) GetLeaveRequest(ctx context.Context, id string) (leave.LeaveRequest, error) {
	return s.requestRepo.GetByID(ctx, id)
}

func (s *LeaveService) ListLeaveRequests(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, error) {
	return s.requestRepo.List(ctx, filter)
}

func (s *LeaveService) SeedBalances(ctx context.Context, year int) (int64, error) {
	ids, err := s.employeeRepo.ListActiveIDs(ctx)
	if err != nil {
		return 0, err
	}
	return s.balanceRepo.SeedYear(ctx, ids, year, s.defaultTotalDays)
}
