package auth

import "strings"

// UserRole is a role tag carried by credential records and session tokens.
type UserRole string

const (
	// RoleStudent is the default role for learners
	RoleStudent UserRole = "STUDENT"
	// RoleInstructor can manage courses, subjects, and topics
	RoleInstructor UserRole = "INSTRUCTOR"
	// RoleAdmin has full administrative access
	RoleAdmin UserRole = "ADMIN"
	// RoleUnknown tags role claims that normalize to none of the above
	RoleUnknown UserRole = "UNKNOWN"
)

// IsValid checks if the role is one of the predefined valid roles
func (r UserRole) IsValid() bool {
	switch r {
	case RoleStudent, RoleInstructor, RoleAdmin:
		return true
	default:
		return false
	}
}

// NormalizeRole maps a raw role string to its canonical tag: trimmed,
// upper-cased, empty falling back to STUDENT, anything unrecognized to
// UNKNOWN. Normalization happens exactly once, at identity-context or claim
// construction, never at comparison sites.
func NormalizeRole(raw string) UserRole {
	role := UserRole(strings.ToUpper(strings.TrimSpace(raw)))
	if role == "" {
		return RoleStudent
	}
	if role.IsValid() {
		return role
	}
	return RoleUnknown
}

// IssuanceRole is the role written into a freshly issued token. Records with
// an absent or unrecognized role degrade to STUDENT at issuance time only;
// the stored value is left untouched.
func IssuanceRole(raw string) UserRole {
	role := NormalizeRole(raw)
	if role == RoleUnknown {
		return RoleStudent
	}
	return role
}

// ParseRole safely parses a string into a UserRole type
func ParseRole(roleStr string) (UserRole, bool) {
	role := UserRole(roleStr)
	return role, role.IsValid()
}

// GetAllRoles returns all predefined roles
func GetAllRoles() []UserRole {
	return []UserRole{
		RoleStudent,
		RoleInstructor,
		RoleAdmin,
	}
}
