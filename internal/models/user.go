package models

import "time"

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	IsBanned     bool      `json:"is_banned"`
	DateJoined   time.Time `json:"date_joined"`
}

// UserUpdate is a partial update descriptor. Nil fields are left
// untouched. Password carries the raw password; the service hashes it
// before it reaches the repository.
type UserUpdate struct {
	Username *string
	Password *string
	IsBanned *bool
}

func (u UserUpdate) Empty() bool {
	return u.Username == nil && u.Password == nil && u.IsBanned == nil
}
