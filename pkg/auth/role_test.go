package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveRolePrefersAppMetadata(t *testing.T) {
	claims := &AccessTokenClaims{
		AppMetadata:  RoleMetadata{Role: "admin"},
		UserMetadata: RoleMetadata{Role: "customer"},
	}
	assert.Equal(t, "admin", ResolveRole(claims))
}

func TestResolveRoleFallsBackToUserMetadata(t *testing.T) {
	claims := &AccessTokenClaims{
		UserMetadata: RoleMetadata{Role: "customer"},
	}
	assert.Equal(t, "customer", ResolveRole(claims))

	claims.AppMetadata = RoleMetadata{Role: "   "}
	assert.Equal(t, "customer", ResolveRole(claims))
}

func TestResolveRoleEmpty(t *testing.T) {
	assert.Equal(t, "", ResolveRole(nil))
	assert.Equal(t, "", ResolveRole(&AccessTokenClaims{}))
}

func TestIsAdmin(t *testing.T) {
	assert.True(t, IsAdmin(&AccessTokenClaims{AppMetadata: RoleMetadata{Role: "admin"}}))
	assert.True(t, IsAdmin(&AccessTokenClaims{UserMetadata: RoleMetadata{Role: "admin"}}))
	assert.False(t, IsAdmin(&AccessTokenClaims{
		AppMetadata:  RoleMetadata{Role: "customer"},
		UserMetadata: RoleMetadata{Role: "admin"},
	}))
	assert.False(t, IsAdmin(nil))
}
