package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/social-network/internal/apperror"
	"github.com/sakif/social-network/internal/model"
	"github.com/sakif/social-network/internal/repository"
)

// MaxCommentLength bounds comment bodies.
const MaxCommentLength = 2000

// CommentService creates and lists comments. Both operations run behind
// the visibility rule: you can only comment on, or read comments of, a
// post you could read.
type CommentService struct {
	comments   repository.CommentRepository
	posts      repository.PostRepository
	visibility *Visibility
	logger     *slog.Logger
}

// NewCommentService creates a CommentService.
func NewCommentService(
	comments repository.CommentRepository,
	posts repository.PostRepository,
	visibility *Visibility,
	logger *slog.Logger,
) *CommentService {
	return &CommentService{
		comments:   comments,
		posts:      posts,
		visibility: visibility,
		logger:     logger,
	}
}

// Create attaches a comment to a post the commenter can see. A post that
// exists but is not visible to the commenter is reported as not found,
// same as the single-post fetch.
func (s *CommentService) Create(ctx context.Context, userID, postID, content string) (*model.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperror.ValidationFailed("content", "comment content is required")
	}
	if len(content) > MaxCommentLength {
		return nil, apperror.ValidationFailed("content",
			fmt.Sprintf("comment must be %d characters or less", MaxCommentLength))
	}

	if err := s.checkPostVisible(ctx, userID, postID); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		PostID:  postID,
		UserID:  userID,
		Content: content,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("creating comment: %w", err)
	}

	s.logger.Info("comment created",
		slog.String("commentID", comment.ID),
		slog.String("postID", postID),
		slog.String("userID", userID),
	)

	return comment, nil
}

// ListForPost returns a post's comments, oldest first, provided the viewer
// can see the post.
func (s *CommentService) ListForPost(ctx context.Context, viewerID, postID string) ([]model.Comment, error) {
	if err := s.checkPostVisible(ctx, viewerID, postID); err != nil {
		return nil, err
	}

	comments, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("listing comments for post %s: %w", postID, err)
	}
	return comments, nil
}

func (s *CommentService) checkPostVisible(ctx context.Context, viewerID, postID string) error {
	if postID == "" {
		return apperror.ValidationFailed("postId", "post ID is required")
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	ok, err := s.visibility.CanView(ctx, viewerID, post)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NotFound("post", postID)
	}
	return nil
}
