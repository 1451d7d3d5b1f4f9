package user

type Role string

const (
	RoleAdmin    Role = "admin"    // System administrator, never on payroll
	RoleHR       Role = "hr"       // Manages salaries, shifts and leave
	RoleFinance  Role = "finance"  // Runs payroll
	RoleManager  Role = "manager"  // Can approve leave
	RoleEmployee Role = "employee" // Regular employee
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	_, ok := RolePermissions[r]
	return ok
}

// Subject is the caller a capability check is evaluated for.
type Subject struct {
	UserID     string
	EmployeeID string
	Role       Role
}
