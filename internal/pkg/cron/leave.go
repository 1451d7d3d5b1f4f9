package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/leave"
)

type LeaveJobs struct {
	leaveService leave.LeaveService
	now          func() time.Time
}

func NewLeaveJobs(leaveService leave.LeaveService) *LeaveJobs {
	return &LeaveJobs{leaveService: leaveService, now: time.Now}
}

func (j *LeaveJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("seed_leave_balances", interval, 0, j.SeedLeaveBalances)
}

// SeedLeaveBalances makes sure every active employee has a balance row for the current year.
func (j *LeaveJobs) SeedLeaveBalances(ctx context.Context) error {
	year := j.now().UTC().Year()

	seeded, err := j.leaveService.SeedBalances(ctx, year)
	if err != nil {
		return fmt.Errorf("failed to seed leave balances for %d: %w", year, err)
	}
	if seeded > 0 {
		slog.Info("Cron: seeded leave balances", "year", year, "count", seeded)
	}
	return nil
}
