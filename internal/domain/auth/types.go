package auth

import "time"

// RoleAdmin grants access to the FAQ management endpoints.
const RoleAdmin = "admin"

// Config drives admin token behavior.
type Config struct {
	Secret   string
	Issuer   string
	TokenTTL time.Duration
}

// Claims are the validated contents of an admin token.
type Claims struct {
	Subject   string
	Role      string
	ExpiresAt time.Time
}

// IssuedToken is a signed token plus its expiry.
type IssuedToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
