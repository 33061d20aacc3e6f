package dto

import "github.com/golang-jwt/jwt/v5"

// AuthClaims are the JWT claims accepted by the API. UserID is the opaque
// learner id.
type AuthClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// MessageResponse represents a generic message response.
type MessageResponse struct {
	Message string `json:"message"`
}
