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

// ConnectionDB implements repository.ConnectionRepository over the shared
// pool.
type ConnectionDB struct {
	conn *sql.DB
}

// compile-time interface check
var _ repository.ConnectionRepository = (*ConnectionDB)(nil)

const connectionColumns = `id, requester_id, addressee_id, status, created_at`

// Create inserts a new connection record.
//
// The service checks both orderings of the pair before calling this, but
// two simultaneous requests can both pass that check. The UNIQUE
// (requester_id, addressee_id) constraint is the backstop for the same
// ordered pair; we surface it as the same conflict the pre-check reports.
// Opposite-direction simultaneous requests are not caught by the
// constraint — an accepted limitation of the original design.
func (db *ConnectionDB) Create(ctx context.Context, conn *model.Connection) error {
	conn.ID = xid.New().String()
	if conn.Status == "" {
		conn.Status = model.ConnectionPending
	}
	conn.CreatedAt = time.Now().UTC()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO connections (id, requester_id, addressee_id, status, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		conn.ID,
		conn.RequesterID,
		conn.AddresseeID,
		string(conn.Status),
		conn.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("connection already exists")
		}
		return fmt.Errorf("sqlite: inserting connection: %w", err)
	}

	return nil
}

// GetByID retrieves a connection record by its ID.
func (db *ConnectionDB) GetByID(ctx context.Context, id string) (*model.Connection, error) {
	var c model.Connection

	err := db.conn.QueryRowContext(ctx,
		`SELECT `+connectionColumns+` FROM connections WHERE id = ?`,
		id,
	).Scan(&c.ID, &c.RequesterID, &c.AddresseeID, &c.Status, &c.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("connection", id)
		}
		return nil, fmt.Errorf("sqlite: getting connection %s: %w", id, err)
	}

	return &c, nil
}

// GetBetween finds the single record between two users, in whichever
// direction it was created. apperror.ErrNotFound means no record exists —
// callers treat that as the "no-edge" state, not a failure.
func (db *ConnectionDB) GetBetween(ctx context.Context, userA, userB string) (*model.Connection, error) {
	var c model.Connection

	err := db.conn.QueryRowContext(ctx,
		`SELECT `+connectionColumns+`
		 FROM connections
		 WHERE (requester_id = ? AND addressee_id = ?)
		    OR (requester_id = ? AND addressee_id = ?)`,
		userA, userB, userB, userA,
	).Scan(&c.ID, &c.RequesterID, &c.AddresseeID, &c.Status, &c.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFoundMsg("no connection between users")
		}
		return nil, fmt.Errorf("sqlite: getting connection between %s and %s: %w", userA, userB, err)
	}

	return &c, nil
}

// UpdateStatusIfPending transitions the pending record with exactly this
// direction to the given status. The status='pending' guard in the WHERE
// makes the transition atomic: a record that was already accepted,
// rejected, or never existed leaves zero rows affected, reported as
// not-found.
func (db *ConnectionDB) UpdateStatusIfPending(ctx context.Context, requesterID, addresseeID string, status model.ConnectionState) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE connections SET status = ?
		 WHERE requester_id = ? AND addressee_id = ? AND status = 'pending'`,
		string(status), requesterID, addresseeID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating connection status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFoundMsg("no pending connection request found")
	}

	return nil
}

// Delete removes a connection record.
func (db *ConnectionDB) Delete(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM connections WHERE id = ?`, id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting connection %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("connection", id)
	}

	return nil
}

// ListAccepted returns the other participant of each accepted connection
// the user is part of, ordered by username.
func (db *ConnectionDB) ListAccepted(ctx context.Context, userID string) ([]model.ConnectedUser, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT c.id, u.id, u.username, u.profile_photo, c.created_at
		 FROM connections c
		 JOIN users u ON u.id = CASE
			WHEN c.requester_id = ? THEN c.addressee_id
			ELSE c.requester_id
		 END
		 WHERE c.status = 'accepted'
		   AND (c.requester_id = ? OR c.addressee_id = ?)
		 ORDER BY u.username`,
		userID, userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing connections for %s: %w", userID, err)
	}
	defer rows.Close()

	connections := make([]model.ConnectedUser, 0, 8)
	for rows.Next() {
		var c model.ConnectedUser
		if err := rows.Scan(
			&c.ConnectionID, &c.UserID, &c.Username, &c.ProfilePhoto, &c.ConnectedSince,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning connection row: %w", err)
		}
		connections = append(connections, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating connections: %w", err)
	}

	return connections, nil
}

// IsConnected reports whether an accepted connection links the two users.
func (db *ConnectionDB) IsConnected(ctx context.Context, userA, userB string) (bool, error) {
	var n int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM connections
		 WHERE status = 'accepted'
		   AND ((requester_id = ? AND addressee_id = ?)
		     OR (requester_id = ? AND addressee_id = ?))`,
		userA, userB, userB, userA,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking connection between %s and %s: %w", userA, userB, err)
	}
	return n > 0, nil
}
