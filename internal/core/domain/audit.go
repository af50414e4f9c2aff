package domain

import "time"

// AuditLog is an immutable record of a mutating action performed by a user.
type AuditLog struct {
	ID        string
	UserID    string
	Action    string
	Entity    string
	EntityID  string
	OldValue  map[string]any
	NewValue  map[string]any
	IPAddress string
	UserAgent string
	CreatedAt time.Time
}
