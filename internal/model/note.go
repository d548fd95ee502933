package model

import "time"

// Note is a single user note.
//
// OWNERSHIP:
// UserID is set once at creation and never changes. Every store query that
// reads, updates or deletes a note filters by BOTH the note ID and UserID,
// so a note is only ever visible to the account that created it.
//
// Tags is never nil once a note has been through a store. An absent tag list
// is stored and returned as [] so clients always receive a JSON array.
type Note struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	IsPinned  bool      `json:"isPinned"`
	UserID    string    `json:"userId"`
	CreatedOn time.Time `json:"createdOn"`
}
