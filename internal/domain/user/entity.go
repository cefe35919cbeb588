package user

import "strings"

// Role names as the upstream identity API reports them.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
)

// User is the identity context supplied at login. The application
// never stores credentials; the upstream API owns authentication and
// the managed-employee relation.
type User struct {
	EmployeeID       int      `json:"EmployeeID"`
	Username         string   `json:"username"`
	Name             string   `json:"name"`
	Email            string   `json:"email"`
	Roles            []string `json:"roles"`
	IsManager        bool     `json:"IsManager"`
	ManagedEmployees []int    `json:"managedEmployees"`
}

// RoleName returns the user's primary role, lower-cased. The client
// tier uses it only to decide which actions to render; the upstream
// API enforces the real authorization.
func (u User) RoleName() string {
	if len(u.Roles) == 0 {
		return ""
	}
	return strings.ToLower(u.Roles[0])
}

func (u User) HasRole(r Role) bool {
	return u.RoleName() == string(r)
}
