package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID     uuid.UUID
	RetailerID uuid.UUID
	Email      string
	JTI        string
}

// AccessTokenClaims represents the typed JWT issued to retailer users.
type AccessTokenClaims struct {
	UserID     uuid.UUID `json:"user_id"`
	RetailerID uuid.UUID `json:"retailer_id"`
	Email      string    `json:"email,omitempty"`
	jwt.RegisteredClaims
}
