// Package model defines the records stored and returned by the API.
package model

import "time"

// User represents a registered account.
//
// The JSON names ("_id", "fullname", "createdOn") are the wire names the
// existing frontend reads, so they stay as they are even though the Go field
// names follow Go conventions.
//
// WHY Password HAS json:"-"?
// The stored value is a bcrypt hash. It must never leave the server, so the
// field is skipped by encoding/json no matter which response embeds a User.
type User struct {
	ID        string    `json:"_id"       db:"id"`
	FullName  string    `json:"fullname"  db:"fullname"`
	Email     string    `json:"email"     db:"email"`
	Password  string    `json:"-"         db:"password"`
	CreatedOn time.Time `json:"createdOn" db:"created_on"`
}
