package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/social-network/internal/model"
	"github.com/sakif/social-network/internal/repository"
	"github.com/sakif/social-network/internal/storage"
)

// UserService covers the profile and directory surface: the caller's own
// profile, profile-photo replacement, and the everyone-else listing.
type UserService struct {
	users  repository.UserRepository
	files  storage.Store
	logger *slog.Logger
}

// NewUserService creates a UserService.
func NewUserService(users repository.UserRepository, files storage.Store, logger *slog.Logger) *UserService {
	return &UserService{
		users:  users,
		files:  files,
		logger: logger,
	}
}

// Profile returns the user's own record.
func (s *UserService) Profile(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateProfilePhoto stores the uploaded photo, points the user record at
// it, and deletes the previous photo.
//
// The three steps are independent statements, not a transaction. A crash
// after the save but before the update leaves an orphaned file; a failed
// delete leaves the old file behind. Both are harmless — the record always
// references a photo that exists — so the old-photo delete is best-effort
// and only logged.
func (s *UserService) UpdateProfilePhoto(ctx context.Context, userID string, upload *Upload) (string, error) {
	if err := validateImage(upload); err != nil {
		return "", err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}

	name := newImageName("profile_"+userID, upload.Filename)
	if err := s.files.Save(ctx, name, upload.ContentType, upload.Data); err != nil {
		return "", fmt.Errorf("saving profile photo: %w", err)
	}

	if err := s.users.UpdateProfilePhoto(ctx, userID, name); err != nil {
		// The record still points at the old photo; remove the new file
		// so it doesn't leak.
		if delErr := s.files.Delete(ctx, name); delErr != nil {
			s.logger.Warn("failed to clean up photo after update failure",
				slog.String("name", name),
				slog.String("error", delErr.Error()),
			)
		}
		return "", fmt.Errorf("updating profile photo reference: %w", err)
	}

	if user.ProfilePhoto != "" {
		if err := s.files.Delete(ctx, user.ProfilePhoto); err != nil {
			s.logger.Warn("failed to delete old profile photo",
				slog.String("name", user.ProfilePhoto),
				slog.String("error", err.Error()),
			)
		}
	}

	s.logger.Info("profile photo updated",
		slog.String("userID", userID),
		slog.String("photo", name),
	)

	return name, nil
}

// Directory lists every other user with the caller's connection status to
// each — the data behind the "find people" page.
func (s *UserService) Directory(ctx context.Context, viewerID string) ([]model.UserSummary, error) {
	users, err := s.users.ListOthers(ctx, viewerID)
	if err != nil {
		s.logger.Error("failed to list users",
			slog.String("viewerID", viewerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

// PhotoURL resolves a stored photo name to the URL clients fetch it from.
// Empty names stay empty.
func (s *UserService) PhotoURL(name string) string {
	if name == "" {
		return ""
	}
	return s.files.URL(name)
}
