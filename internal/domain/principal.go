package domain

type Role string

const (
	RoleCustomer   Role = "customer"
	RoleAdmin      Role = "admin"
	RoleSupervisor Role = "supervisor"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleAdmin, RoleSupervisor:
		return true
	}
	return false
}

// Staff reports whether the role belongs to the grievance office rather than
// to a citizen.
func (r Role) Staff() bool {
	return r == RoleAdmin || r == RoleSupervisor
}

// Principal is the authenticated caller of an operation.
type Principal struct {
	SubjectID   string `json:"subjectId"`
	Role        Role   `json:"role"`
	DisplayName string `json:"displayName,omitempty"`
}
