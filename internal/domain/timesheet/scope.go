package timesheet

import "github.com/babralau/timesheet-web-go/internal/domain/user"

// Scope is the set of employee ids a user may see and act on. A nil
// scope is unrestricted; a non-nil empty scope allows nothing. The
// scope is a hard visibility boundary: it is applied before any
// user-selectable facet and cannot be widened by filter choices.
type Scope []int

// Allows reports whether the employee is visible under the scope.
func (s Scope) Allows(employeeID int) bool {
	if s == nil {
		return true
	}
	for _, id := range s {
		if id == employeeID {
			return true
		}
	}
	return false
}

// ResolveScope derives the visibility scope from the identity context.
// Every view consumes this one resolution instead of re-checking roles
// ad hoc.
//
// A manager with an explicit managed-employee list sees only that
// list; a manager without one sees everyone. The asymmetry is
// preserved from observed behavior pending product clarification.
func ResolveScope(u user.User) Scope {
	switch {
	case u.IsManager && len(u.ManagedEmployees) > 0:
		return append(Scope(nil), u.ManagedEmployees...)
	case u.IsManager:
		return nil
	case u.EmployeeID != 0:
		return Scope{u.EmployeeID}
	default:
		return Scope{}
	}
}
