package users

import "context"

// Repository persists user accounts.
type Repository interface {
	// Insert stores u, assigning its ID. Duplicate emails yield a conflict.
	Insert(ctx context.Context, u *User) (*User, error)
	Get(ctx context.Context, id string) (*User, error)
	// GetByEmail looks up a normalised email address.
	GetByEmail(ctx context.Context, email string) (*User, error)
	// SetResume replaces the resume reference of the user.
	SetResume(ctx context.Context, id string, ref *ResumeRef) error
}
