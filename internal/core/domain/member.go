package domain

import "time"

// Member models a registered account. Email is the login identifier.
type Member struct {
	ID           string     `json:"id"`
	Role         string     `json:"role"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	IsSuperuser  bool       `json:"is_superuser"`
	IsStaff      bool       `json:"is_staff"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

// NewMember builds a member ready to be persisted. Both audit timestamps are
// set to the same instant.
func NewMember(role, name, email, passwordHash string, now time.Time) *Member {
	now = now.UTC()
	return &Member{
		Role:         role,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
