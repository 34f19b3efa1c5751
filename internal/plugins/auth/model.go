// Package auth handles admin authentication for Inkwell: login, logout, and
// session validation via opaque tokens stored in Redis. Inkwell is a
// single-author blog, so there is no self-service registration -- the admin
// account is bootstrapped from configuration at startup.
package auth

import (
	"time"
)

// User represents an admin account. This is the domain model used throughout
// the application; database scanning and JSON marshaling use it directly.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	DisplayName  string     `json:"display_name"`
	PasswordHash string     `json:"-"` // Never expose in JSON responses.
	CreatedAt    time.Time  `json:"created_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// --- Request DTOs (bound from HTTP requests) ---

// LoginRequest holds the credentials submitted to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// --- Session ---

// Session represents an authenticated admin session stored in Redis.
// The session token is the key, and this struct is the value (JSON-encoded).
type Session struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
