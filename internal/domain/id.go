package domain

import "github.com/google/uuid"

// IDFunc produces candidate task ids.
type IDFunc func() string

// NewID returns a time-ordered UUIDv7 string, falling back to a random v4
// when the clock source fails.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
