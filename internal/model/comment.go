package model

import "time"

// Comment is attached to exactly one post. Immutable after creation.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`

	// Denormalized author fields, populated by queries that join users.
	Author      string `json:"author,omitempty"`
	AuthorPhoto string `json:"authorPhoto,omitempty"`
}
