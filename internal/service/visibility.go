// Package service contains the business logic layer.
//
// Handlers parse HTTP and delegate here; repositories only move data. The
// rules that matter — who may see which post, and how connection requests
// move between states — live in this package and nowhere else.
package service

import (
	"context"
	"fmt"

	"github.com/sakif/social-network/internal/model"
	"github.com/sakif/social-network/internal/repository"
)

// Visibility decides whether a viewer may read a post.
//
// The rule is a plain OR of three equivalent grants:
//
//  1. the post is public — any authenticated viewer may read it
//  2. the viewer is the author — always visible regardless of flag
//  3. an accepted connection links the viewer to the author, in either
//     direction
//
// The feed query in the sqlite package applies the identical rule in SQL so
// listing doesn't incur a connection lookup per row; this evaluator is the
// authority for every single-post decision (fetch, comment, profile
// listings). The two must stay in sync — the repository's ListFeed doc
// points back here.
type Visibility struct {
	connections repository.ConnectionRepository
}

// NewVisibility creates the evaluator.
func NewVisibility(connections repository.ConnectionRepository) *Visibility {
	return &Visibility{connections: connections}
}

// CanView reports whether viewerID may read post. It has no side effects;
// the only I/O is the connection lookup, and only when the cheaper grants
// don't already apply.
func (v *Visibility) CanView(ctx context.Context, viewerID string, post *model.Post) (bool, error) {
	if post.Visibility == model.VisibilityPublic {
		return true, nil
	}
	if post.UserID == viewerID {
		return true, nil
	}

	connected, err := v.connections.IsConnected(ctx, viewerID, post.UserID)
	if err != nil {
		return false, fmt.Errorf("checking connection for visibility: %w", err)
	}
	return connected, nil
}
