package domain

import "time"

// Journal is a free-form user diary entry.
type Journal struct {
	ID          string
	UserID      string
	Title       string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
