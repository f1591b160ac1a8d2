package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/social-network/internal/apperror"
	"github.com/sakif/social-network/internal/model"
	"github.com/sakif/social-network/internal/repository"
)

// UserDB implements repository.UserRepository over the shared pool.
type UserDB struct {
	conn *sql.DB
}

// compile-time interface check
var _ repository.UserRepository = (*UserDB)(nil)

// Create inserts a new user. A UNIQUE violation on username or email is
// reported as a conflict; registration is the only caller and maps it to
// a duplicate-account response without revealing which field collided.
func (db *UserDB) Create(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()
	user.CreatedAt = time.Now().UTC()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, profile_photo, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.ProfilePhoto,
		user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("username or email already exists")
		}
		return fmt.Errorf("sqlite: inserting user %s: %w", user.Username, err)
	}

	return nil
}

// GetByID retrieves a user by their internal ID.
func (db *UserDB) GetByID(ctx context.Context, id string) (*model.User, error) {
	return db.getUser(ctx, `WHERE id = ?`, id)
}

// GetByUsername retrieves a user by their unique username.
func (db *UserDB) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return db.getUser(ctx, `WHERE username = ?`, username)
}

func (db *UserDB) getUser(ctx context.Context, where string, arg any) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, profile_photo, created_at
		 FROM users `+where,
		arg,
	).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.ProfilePhoto,
		&u.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", fmt.Sprint(arg))
		}
		return nil, fmt.Errorf("sqlite: getting user %v: %w", arg, err)
	}

	return &u, nil
}

// UpdateProfilePhoto sets the user's stored photo name.
func (db *UserDB) UpdateProfilePhoto(ctx context.Context, userID, photoName string) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE users SET profile_photo = ? WHERE id = ?`,
		photoName, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating profile photo for %s: %w", userID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("user", userID)
	}

	return nil
}

// ListOthers returns every user except the viewer, each annotated with the
// viewer's relationship to them. The CASE folds the single possible
// connection record (either direction) into a viewer-relative status;
// users with no record fall through to 'not_connected'.
func (db *UserDB) ListOthers(ctx context.Context, viewerID string) ([]model.UserSummary, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT
			u.id, u.username, u.profile_photo, u.created_at,
			CASE
				WHEN c.status = 'accepted' THEN 'connected'
				WHEN c.status = 'pending' AND c.requester_id = ? THEN 'pending_sent'
				WHEN c.status = 'pending' AND c.addressee_id = ? THEN 'pending_received'
				WHEN c.status = 'rejected' THEN 'rejected'
				ELSE 'not_connected'
			END AS connection_status
		 FROM users u
		 LEFT JOIN connections c ON (
			(c.requester_id = ? AND c.addressee_id = u.id) OR
			(c.addressee_id = ? AND c.requester_id = u.id)
		 )
		 WHERE u.id != ?
		 ORDER BY u.username`,
		viewerID, viewerID, viewerID, viewerID, viewerID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing users: %w", err)
	}
	defer rows.Close()

	users := make([]model.UserSummary, 0, 16)
	for rows.Next() {
		var u model.UserSummary
		if err := rows.Scan(
			&u.ID, &u.Username, &u.ProfilePhoto, &u.CreatedAt, &u.ConnectionStatus,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating users: %w", err)
	}

	return users, nil
}
