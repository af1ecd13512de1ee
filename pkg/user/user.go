package user

import "time"

// Role is the closed set of account roles. Queue visibility and field
// requiredness are derived from this type in one place (see RequiredFields)
// instead of ad hoc string comparisons.
type Role string

const (
	RoleAdmin            Role = "Admin"
	RoleViceChancellor   Role = "Vice Chancellor"
	RoleDean             Role = "Dean"
	RoleHeadOfDepartment Role = "Head of Department"
	RoleAcademicStaff    Role = "Academic Staff"
	RoleStudent          Role = "Student"
)

var allRoles = map[Role]bool{
	RoleAdmin:            true,
	RoleViceChancellor:   true,
	RoleDean:             true,
	RoleHeadOfDepartment: true,
	RoleAcademicStaff:    true,
	RoleStudent:          true,
}

// IsValid reports whether the role belongs to the closed set.
func (r Role) IsValid() bool {
	return allRoles[r]
}

// Requirements describes which organizational fields a role must carry.
type Requirements struct {
	Faculty    bool
	Department bool
}

// RequiredFields is the single source of truth for per-role field
// requiredness: faculty is required for everyone except Admin and the Vice
// Chancellor; department additionally excludes the Dean.
func RequiredFields(r Role) Requirements {
	switch r {
	case RoleAdmin, RoleViceChancellor:
		return Requirements{}
	case RoleDean:
		return Requirements{Faculty: true}
	default:
		return Requirements{Faculty: true, Department: true}
	}
}

type User struct {
	ID              string
	Username        string
	Email           string
	PasswordHash    string
	Role            Role
	Faculty         string
	Department      string
	LastActive      time.Time
	PasswordChanged bool
	CreatedAt       time.Time
}
