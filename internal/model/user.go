package model

import "time"

// Account roles. JWT role claims carry these values unchanged.
const (
	RoleAdmin  = "ADMIN"
	RoleClient = "CLIENT"
)

// User represents an account as stored in the `users` table. The
// password hash never leaves the repository and service layers.
type User struct {
	ID           uint64    // users.id
	Name         string    // users.name
	Email        string    // users.email (lower-cased, unique)
	PasswordHash string    // users.password_hash (bcrypt)
	Phone        string    // users.phone
	Role         string    // users.role: ADMIN | CLIENT
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table. Only the
// SHA-256 hash of the raw token is stored.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
