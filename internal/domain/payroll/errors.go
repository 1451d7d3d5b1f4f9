package payroll

import "errors"

var (
	ErrRunNotFound         = errors.New("payroll run not found")
	ErrEntryNotFound       = errors.New("payroll entry not found")
	ErrNoEligibleEmployees = errors.New("no eligible employees for payroll run")
	ErrNoWorkingDays       = errors.New("payroll period has no working days")
	ErrRunNotProcessable   = errors.New("payroll run is not in draft or processing state")
	ErrRunInProgress       = errors.New("a payroll run for this period is already being created")
	ErrMixedCurrencies     = errors.New("payroll run mixes salary currencies")
)
