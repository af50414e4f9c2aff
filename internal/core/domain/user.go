package domain

import "time"

// UserStatus enumerates possible account states.
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusInactive  UserStatus = "inactive"
	UserStatusSuspended UserStatus = "suspended"
)

// User mirrors the persisted representation in the users table.
// The password is stored as a bcrypt hash, never plaintext, and the
// phone number is normalized to E.164 before persistence.
type User struct {
	ID           string
	Username     string
	Email        string
	Phone        string
	FirstName    string
	LastName     string
	StoreID      string
	RoleID       string
	PasswordHash string
	Status       UserStatus
	Online       bool
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Registration carries the attributes of a pending sign-up. It is never
// persisted before email verification; between the initial request and the
// verification click it exists only inside a signed token payload.
type Registration struct {
	Username  string
	Email     string
	Phone     string
	FirstName string
	LastName  string
	StoreID   string
	RoleID    string
	Password  string
}

// Role groups permission strings under a named profile.
type Role struct {
	ID          string
	Name        string
	Permissions []string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
