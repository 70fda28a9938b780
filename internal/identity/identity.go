// Package identity carries the authenticated caller handed to the core by
// the external trust boundary. The core never verifies credentials itself.
package identity

// Role is the closed set of caller roles.
type Role string

const (
	// RoleTeacher owns meetings and may activate sessions, mark students
	// manually, ingest recognition batches, and read rosters.
	RoleTeacher Role = "teacher"
	// RoleStudent may mark their own attendance and read their summary.
	RoleStudent Role = "student"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleTeacher, RoleStudent:
		return true
	}
	return false
}

// Identity is an authenticated caller.
type Identity struct {
	UserID string
	Role   Role
}
