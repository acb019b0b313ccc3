package models

import "github.com/golang-jwt/jwt/v5"

// UserRole scopes route access.
type UserRole string

const (
	RoleStudent  UserRole = "STUDENT"
	RoleReviewer UserRole = "REVIEWER"
	RoleAdmin    UserRole = "ADMIN"
)

// JWTClaims represents the access-token payload issued by the identity
// provider. The portal validates tokens, it never issues them.
type JWTClaims struct {
	UserID    string   `json:"user_id"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Email     string   `json:"email"`
	Role      UserRole `json:"role"`
	jwt.RegisteredClaims
}
