package auth

import "github.com/golang-jwt/jwt/v5"

// AdminRole is the only role the panel issues.
const AdminRole = "admin"

// AccessTokenClaims represents the typed JWT issued to the admin panel.
type AccessTokenClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}
