package models

// Role is the coarse permission class of an account.
type Role string

const (
	RoleClient Role = "Client"
	RoleLawyer Role = "Lawyer"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleClient || r == RoleLawyer
}

// Principal is the authenticated identity attached to a request.
// It mirrors the account at token-issue time and is not re-read from the store.
type Principal struct {
	UserID uint `json:"user_id"`
	Role   Role `json:"role"`
}

// HasRole reports whether the principal's role is in allowed.
// An empty allowed set accepts any valid role.
func (p Principal) HasRole(allowed ...Role) bool {
	if !p.Role.Valid() {
		return false
	}
	if len(allowed) == 0 {
		return true
	}
	for _, r := range allowed {
		if p.Role == r {
			return true
		}
	}
	return false
}
