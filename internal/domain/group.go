package domain

import "time"

// Group is a set of users sharing expenses in one currency.
type Group struct {
	CreatedAt time.Time
	ID        string
	Name      string
	Currency  string
	CreatedBy string
}

// GroupMember links a user to a group. Removal is a soft delete so past
// expenses keep their membership history.
type GroupMember struct {
	JoinedAt time.Time
	GroupID  string
	UserID   string
	Deleted  bool
}
