package domain

import (
	"github.com/golang-jwt/jwt/v5"
)

// AthleteClaims are the custom claims carried by the app's access token
type AthleteClaims struct {
	UserID string `json:"user_id"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}
