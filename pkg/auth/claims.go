package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// RoleMetadata is one of the two role slots carried on a token.
type RoleMetadata struct {
	Role string `json:"role,omitempty"`
}

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID       uuid.UUID
	Email        string
	AppMetadata  RoleMetadata
	UserMetadata RoleMetadata
	JTI          string
}

// AccessTokenClaims is the typed JWT issued to clients. The two metadata
// slots mirror the hosted-auth token shape the frontend already consumes:
// operator-assigned roles live in app_metadata, self-service ones in
// user_metadata.
type AccessTokenClaims struct {
	UserID       uuid.UUID    `json:"user_id"`
	Email        string       `json:"email,omitempty"`
	AppMetadata  RoleMetadata `json:"app_metadata,omitempty"`
	UserMetadata RoleMetadata `json:"user_metadata,omitempty"`
	jwt.RegisteredClaims
}
