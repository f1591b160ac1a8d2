// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// PasswordHash holds the bcrypt hash of the user's password — never the
// password itself, and never serialized to JSON (note the "-" tag). The
// username and email are both unique; either can be used to detect duplicate
// registrations.
//
// ProfilePhoto is the storage name of the user's photo (e.g.
// "profile_<id>_<ts>_<rand>.png"), empty if none has been uploaded. The
// handler layer turns it into a URL via the storage backend.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	ProfilePhoto string    `json:"profilePhoto,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UserSummary is a user as seen in the directory listing: public profile
// fields plus the viewer-relative connection status. No email, no hash.
type UserSummary struct {
	ID               string           `json:"id"`
	Username         string           `json:"username"`
	ProfilePhoto     string           `json:"profilePhoto,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
	ConnectionStatus ConnectionStatus `json:"connectionStatus"`
}
