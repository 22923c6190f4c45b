package models

// Role is the role carried by an authenticated user
type Role string

// Roles known to the case system
const (
	RolePolice     Role = "POLICE"
	RoleSHO        Role = "SHO"
	RoleCourtClerk Role = "COURT_CLERK"
	RoleJudge      Role = "JUDGE"
)

var allRoles = []Role{RolePolice, RoleSHO, RoleCourtClerk, RoleJudge}

// Roles returns every known role
func Roles() []Role {
	out := make([]Role, len(allRoles))
	copy(out, allRoles)
	return out
}

// ParseRole returns the Role matching s
func ParseRole(s string) (Role, bool) {
	for _, r := range allRoles {
		if string(r) == s {
			return r, true
		}
	}
	return "", false
}

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

// StationScoped reports whether the role only sees cases registered at its own
// police station.
func (r Role) StationScoped() bool {
	return r == RolePolice || r == RoleSHO
}

// Elevated reports whether the role has cross-station visibility (court roles).
func (r Role) Elevated() bool {
	return r == RoleCourtClerk || r == RoleJudge
}

func (r Role) String() string { return string(r) }
