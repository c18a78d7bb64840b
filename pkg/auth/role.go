package auth

import "strings"

// RoleAdmin is the only role this layer distinguishes; everything else is an
// ordinary caller.
const RoleAdmin = "admin"

// ResolveRole returns the caller's effective role. The app_metadata slot is
// checked before user_metadata; this precedence is the single source of truth
// for every guard (API middleware and the admin page gate alike).
func ResolveRole(claims *AccessTokenClaims) string {
	if claims == nil {
		return ""
	}
	if role := strings.TrimSpace(claims.AppMetadata.Role); role != "" {
		return role
	}
	return strings.TrimSpace(claims.UserMetadata.Role)
}

// IsAdmin reports whether the resolved role grants admin access.
func IsAdmin(claims *AccessTokenClaims) bool {
	return ResolveRole(claims) == RoleAdmin
}
