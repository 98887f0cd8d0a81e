package models

import "time"

// Role is the authorization level assigned to a user account.
type Role string

const (
	// RoleAdmin grants access to administrative operations such as
	// revoking enrolled faces for other accounts.
	RoleAdmin Role = "admin"

	// RoleOperator is the default role for facility personnel.
	RoleOperator Role = "operator"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleOperator
}

// User represents a personnel account used for authentication and attendance
// tracking. Credential fields must never be exposed outside trusted
// boundaries.
type User struct {
	// UserID is the internal unique identifier of the user.
	// It is not exposed via JSON and is used only at the persistence layer.
	UserID int64 `json:"-"`

	// Username is the unique login identifier used during authentication.
	Username string `json:"username"`

	// Email is the contact address captured at registration.
	Email string `json:"email"`

	// Password carries the plain-text password on inbound registration and
	// login requests only. It is never persisted and never serialized back
	// to clients.
	Password string `json:"password,omitempty"`

	// PasswordHash is the bcrypt hash stored at the persistence layer.
	// Excluded from JSON.
	PasswordHash string `json:"-"`

	// Role determines what the account may do once authenticated.
	Role Role `json:"role"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// Principal is the authenticated identity produced by a completed login:
// the user id together with the role the session carries.
type Principal struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}
