package auth

import (
	"github.com/clinistock/backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID uuid.UUID
	Name   string
	Role   enums.Role
	Clinic string
	JTI    string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID uuid.UUID  `json:"user_id"`
	Name   string     `json:"name,omitempty"`
	Role   enums.Role `json:"role"`
	Clinic string     `json:"clinic,omitempty"`
	jwt.RegisteredClaims
}
