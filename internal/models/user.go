package models

import "time"

// User mirrors a row of the users table. Password holds whatever credential
// was persisted: a bcrypt hash, or the raw password for legacy accounts.
type User struct {
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Username  string    `json:"username"`
	Password  string    `json:"password"`
	Email     string    `json:"email"`
	CreatedOn time.Time `json:"created_on"`
}

// NewUser is the insert payload. CreatedOn is the caller-supplied timestamp,
// passed to the database as-is.
type NewUser struct {
	FirstName string
	LastName  string
	Username  string
	Password  string
	Email     string
	CreatedOn string
}
