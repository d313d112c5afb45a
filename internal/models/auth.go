package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims represents the bearer token payload accepted on mutating routes.
type JWTClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}
