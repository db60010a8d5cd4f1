package user

import "time"

// User is an account; Password holds the bcrypt hash.
type User struct {
	ID        int
	Login     string
	Email     string
	Password  string // bcrypt hash
	CreatedAt time.Time
}
