// Package repository defines the persistence interfaces the service layer
// programs against. The sqlite subpackage is the only implementation; tests
// substitute in-memory mocks.
package repository

import (
	"context"

	"github.com/sakif/social-network/internal/model"
)

// ListOptions carries limit/offset pagination for list queries.
type ListOptions struct {
	Limit  int
	Offset int
}

// UserRepository persists user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	UpdateProfilePhoto(ctx context.Context, userID, photoName string) error
	// ListOthers returns every user except the viewer, annotated with the
	// viewer's connection status to each.
	ListOthers(ctx context.Context, viewerID string) ([]model.UserSummary, error)
}

// PostRepository persists posts. Reads join the author's profile fields and
// the comment count into the returned models.
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, id string) (*model.Post, error)
	// ListFeed returns posts visible to the viewer, newest first: public
	// posts, the viewer's own posts, and private posts of accepted
	// connections.
	ListFeed(ctx context.Context, viewerID string, opts ListOptions) ([]model.Post, error)
	// ListByAuthor returns all of one author's posts, newest first,
	// regardless of visibility — callers apply the visibility predicate.
	ListByAuthor(ctx context.Context, authorID string, opts ListOptions) ([]model.Post, error)
}

// CommentRepository persists comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	ListByPost(ctx context.Context, postID string) ([]model.Comment, error)
}

// ConnectionRepository persists connection records. At most one record
// exists per user pair, in whichever direction it was requested.
type ConnectionRepository interface {
	Create(ctx context.Context, conn *model.Connection) error
	GetByID(ctx context.Context, id string) (*model.Connection, error)
	// GetBetween finds the record between two users in either direction.
	GetBetween(ctx context.Context, userA, userB string) (*model.Connection, error)
	// UpdateStatusIfPending transitions the exact-direction pending record
	// to the given status. Reports not-found if no such pending record
	// exists.
	UpdateStatusIfPending(ctx context.Context, requesterID, addresseeID string, status model.ConnectionState) error
	Delete(ctx context.Context, id string) error
	// ListAccepted returns the other participant of each accepted connection
	// involving the user, ordered by username.
	ListAccepted(ctx context.Context, userID string) ([]model.ConnectedUser, error)
	// IsConnected reports whether an accepted connection exists between the
	// two users in either direction.
	IsConnected(ctx context.Context, userA, userB string) (bool, error)
}
