package user

import "strings"

// Role is a closed set with an explicit privilege ordering. Comparing roles
// goes through AtLeast, never through raw string comparison, so a typo in an
// upstream role claim cannot silently grant or revoke the admin bypass.
type Role string

const (
	RoleViewer    Role = "viewer"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

var rolePrivilege = map[Role]int{
	RoleViewer:    1,
	RoleModerator: 2,
	RoleAdmin:     3,
}

// ParseRole maps an upstream role claim onto the closed set. Unknown values
// degrade to viewer rather than erroring: an unrecognized role must never
// end up more privileged than a known one.
func ParseRole(value string) Role {
	role := Role(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := rolePrivilege[role]; ok {
		return role
	}
	return RoleViewer
}

func (r Role) AtLeast(other Role) bool {
	return rolePrivilege[r] >= rolePrivilege[other]
}

// Principal is the resolved caller identity handed to the core by the
// account service.
type Principal struct {
	UserID string
	Email  string
	Role   Role
}
