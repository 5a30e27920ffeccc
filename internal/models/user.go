package models

import "time"

type User struct {
	ID        string
	Name      string
	Email     string
	Password  string // argon2id hash, never leaves the auth boundary
	Token     string // one-time confirmation/reset token, empty once consumed
	Confirmed bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Profile is the view of a user that is safe to expose
// to other users and past the authentication boundary.
type Profile struct {
	ID    string
	Name  string
	Email string
}

func (u *User) Profile() Profile {
	return Profile{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}
