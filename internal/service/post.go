package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/social-network/internal/apperror"
	"github.com/sakif/social-network/internal/model"
	"github.com/sakif/social-network/internal/repository"
	"github.com/sakif/social-network/internal/storage"
)

// MaxPostContentLength bounds post bodies.
const MaxPostContentLength = 10000

// PostService handles post creation and every read path, applying the
// visibility rule on each one.
type PostService struct {
	posts      repository.PostRepository
	users      repository.UserRepository
	visibility *Visibility
	files      storage.Store
	logger     *slog.Logger
}

// NewPostService creates a PostService.
func NewPostService(
	posts repository.PostRepository,
	users repository.UserRepository,
	visibility *Visibility,
	files storage.Store,
	logger *slog.Logger,
) *PostService {
	return &PostService{
		posts:      posts,
		users:      users,
		visibility: visibility,
		files:      files,
		logger:     logger,
	}
}

// Create validates and publishes a new post, storing the attached image
// first if there is one. If the insert then fails, the stored image is
// deleted best-effort so failed posts don't accumulate orphan files.
func (s *PostService) Create(ctx context.Context, authorID, content string, visibility model.Visibility, image *Upload) (*model.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperror.ValidationFailed("content", "post content is required")
	}
	if len(content) > MaxPostContentLength {
		return nil, apperror.ValidationFailed("content",
			fmt.Sprintf("post content must be %d characters or less", MaxPostContentLength))
	}
	if visibility == "" {
		visibility = model.VisibilityPublic
	}
	if !visibility.Valid() {
		return nil, apperror.ValidationFailed("visibility", "invalid visibility setting")
	}

	var imageName string
	if image != nil {
		if err := validateImage(image); err != nil {
			return nil, err
		}
		imageName = newImageName("post", image.Filename)
		if err := s.files.Save(ctx, imageName, image.ContentType, image.Data); err != nil {
			return nil, fmt.Errorf("saving post image: %w", err)
		}
	}

	post := &model.Post{
		UserID:     authorID,
		Content:    content,
		ImageName:  imageName,
		Visibility: visibility,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		if imageName != "" {
			if delErr := s.files.Delete(ctx, imageName); delErr != nil {
				s.logger.Warn("failed to clean up image after post failure",
					slog.String("name", imageName),
					slog.String("error", delErr.Error()),
				)
			}
		}
		return nil, fmt.Errorf("creating post: %w", err)
	}

	s.logger.Info("post created",
		slog.String("postID", post.ID),
		slog.String("authorID", authorID),
		slog.String("visibility", string(visibility)),
	)

	return post, nil
}

// Feed returns the posts the viewer may read, newest first. The filtering
// happens in the repository's query; see Visibility for the rule.
func (s *PostService) Feed(ctx context.Context, viewerID string, limit, offset int) ([]model.Post, error) {
	posts, err := s.posts.ListFeed(ctx, viewerID, repository.ListOptions{Limit: limit, Offset: offset})
	if err != nil {
		s.logger.Error("failed to list feed",
			slog.String("viewerID", viewerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing feed: %w", err)
	}
	return posts, nil
}

// Get fetches a single post the viewer is allowed to read.
//
// A post the viewer may NOT read is reported exactly like a post that does
// not exist. Returning forbidden here would confirm the post exists, which
// is itself information a private post shouldn't leak.
func (s *PostService) Get(ctx context.Context, viewerID, postID string) (*model.Post, error) {
	if postID == "" {
		return nil, apperror.ValidationFailed("id", "post ID is required")
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	ok, err := s.visibility.CanView(ctx, viewerID, post)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.NotFound("post", postID)
	}

	return post, nil
}

// ProfilePosts returns a user's profile plus the subset of their posts the
// viewer may read. The author sees everything; others see public posts
// plus, when connected, private ones — the same rule as everywhere else,
// applied per post through the evaluator.
func (s *PostService) ProfilePosts(ctx context.Context, viewerID, username string) (*model.User, []model.Post, error) {
	author, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, nil, err
	}

	all, err := s.posts.ListByAuthor(ctx, author.ID, repository.ListOptions{Limit: 100})
	if err != nil {
		return nil, nil, fmt.Errorf("listing posts for %s: %w", username, err)
	}

	visible := make([]model.Post, 0, len(all))
	for i := range all {
		ok, err := s.visibility.CanView(ctx, viewerID, &all[i])
		if err != nil {
			return nil, nil, err
		}
		if ok {
			visible = append(visible, all[i])
		}
	}

	return author, visible, nil
}

// ImageURL resolves a stored image name to the URL clients fetch it from.
func (s *PostService) ImageURL(name string) string {
	if name == "" {
		return ""
	}
	return s.files.URL(name)
}
