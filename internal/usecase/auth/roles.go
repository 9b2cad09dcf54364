package auth

// Roles carried in the session token.
const (
	// RoleAdmin may create, edit and delete content.
	RoleAdmin = "admin"
	// RoleViewer may sign in to the panel but only read.
	RoleViewer = "viewer"
)

// CanWrite reports whether role may change content.
func CanWrite(role string) bool {
	return role == RoleAdmin
}

// IsKnownRole reports whether role is one the portal issues.
func IsKnownRole(role string) bool {
	return role == RoleAdmin || role == RoleViewer
}
