package domain

import "time"

// User represents a registered participant. Closing an account is a soft
// delete: the row stays so historical transfers keep resolving, but a
// deleted user may no longer appear in new expenses.
type User struct {
	CreatedAt      time.Time
	UpdatedAt      time.Time
	ID             string
	Name           string
	Email          string
	Phone          string
	HashedPassword string
	Deleted        bool
}
