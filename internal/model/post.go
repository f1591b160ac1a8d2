package model

import "time"

// Visibility controls who may read a post.
type Visibility string

const (
	// VisibilityPublic posts are readable by any authenticated user.
	VisibilityPublic Visibility = "public"
	// VisibilityPrivate posts are readable only by the author and the
	// author's accepted connections.
	VisibilityPrivate Visibility = "private"
)

// Valid reports whether v is one of the two known visibility values.
func (v Visibility) Valid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

// Post is a piece of content published by a user, optionally with an
// attached image.
//
// ImageName is the storage name of the attachment, empty for text-only
// posts. Posts are immutable after creation — there is no edit or delete
// path, so no UpdatedAt field.
type Post struct {
	ID         string     `json:"id"`
	UserID     string     `json:"userId"`
	Content    string     `json:"content"`
	ImageName  string     `json:"imageName,omitempty"`
	Visibility Visibility `json:"visibility"`
	CreatedAt  time.Time  `json:"createdAt"`

	// Denormalized author fields, populated by list/get queries that join
	// against users. Empty on bare inserts.
	Author      string `json:"author,omitempty"`
	AuthorPhoto string `json:"authorPhoto,omitempty"`

	// CommentCount is populated by feed queries (COUNT over comments).
	CommentCount int `json:"commentCount"`
}
