package user

type Permission string

const (
	// Salary
	PermissionSalaryManage  Permission = "salary.manage"
	PermissionSalaryViewAll Permission = "salary.view_all"
	PermissionSalaryViewOwn Permission = "salary.view_own"

	// Leave Management
	PermissionLeaveApplyAny Permission = "leave.apply_any"
	PermissionLeaveApplyOwn Permission = "leave.apply_own"
	PermissionLeaveViewAll  Permission = "leave.view_all"
	PermissionLeaveViewOwn  Permission = "leave.view_own"
	PermissionLeaveApprove  Permission = "leave.approve"

	// Attendance & shifts
	PermissionAttendanceRecordAny Permission = "attendance.record_any"
	PermissionAttendanceRecordOwn Permission = "attendance.record_own"
	PermissionScheduleManage      Permission = "schedule.manage"

	// Payroll
	PermissionPayrollRun     Permission = "payroll.run"
	PermissionPayrollView    Permission = "payroll.view"
	PermissionPayslipViewAll Permission = "payslip.view_all"
	PermissionPayslipViewOwn Permission = "payslip.view_own"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionSalaryManage,
		PermissionSalaryViewAll,
		PermissionLeaveApplyAny,
		PermissionLeaveViewAll,
		PermissionLeaveApprove,
		PermissionAttendanceRecordAny,
		PermissionScheduleManage,
		PermissionPayrollRun,
		PermissionPayrollView,
		PermissionPayslipViewAll,
	},
	RoleHR: {
		PermissionSalaryManage,
		PermissionSalaryViewAll,
		PermissionLeaveApplyAny,
		PermissionLeaveViewAll,
		PermissionLeaveApprove,
		PermissionAttendanceRecordAny,
		PermissionScheduleManage,
		PermissionPayrollView,
		PermissionPayslipViewAll,
	},
	RoleFinance: {
		PermissionSalaryViewAll,
		PermissionPayrollRun,
		PermissionPayrollView,
		PermissionPayslipViewAll,
		PermissionLeaveApplyOwn,
		PermissionLeaveViewOwn,
		PermissionAttendanceRecordOwn,
		PermissionPayslipViewOwn,
	},
	RoleManager: {
		PermissionLeaveViewAll,
		PermissionLeaveApprove,
		PermissionLeaveApplyOwn,
		PermissionAttendanceRecordOwn,
		PermissionSalaryViewOwn,
		PermissionPayslipViewOwn,
	},
	RoleEmployee: {
		PermissionLeaveApplyOwn,
		PermissionLeaveViewOwn,
		PermissionAttendanceRecordOwn,
		PermissionSalaryViewOwn,
		PermissionPayslipViewOwn,
	},
}

// ownScoped pairs a company-wide permission with its self-service variant.
var ownScoped = map[Permission]Permission{
	PermissionSalaryViewAll:       PermissionSalaryViewOwn,
	PermissionLeaveApplyAny:       PermissionLeaveApplyOwn,
	PermissionLeaveViewAll:        PermissionLeaveViewOwn,
	PermissionAttendanceRecordAny: PermissionAttendanceRecordOwn,
	PermissionPayslipViewAll:      PermissionPayslipViewOwn,
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}

// Can decides whether subject may perform action on a resource owned by
// ownerEmployeeID. An empty owner means the resource is not employee-scoped.
func Can(subject Subject, action Permission, ownerEmployeeID string) bool {
	if HasPermission(subject.Role, action) {
		return true
	}

	own, ok := ownScoped[action]
	if !ok || ownerEmployeeID == "" || subject.EmployeeID == "" {
		return false
	}
	return subject.EmployeeID == ownerEmployeeID && HasPermission(subject.Role, own)
}
