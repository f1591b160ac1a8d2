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

// PostDB implements repository.PostRepository over the shared pool.
type PostDB struct {
	conn *sql.DB
}

// compile-time interface check
var _ repository.PostRepository = (*PostDB)(nil)

// postColumns is the SELECT list shared by every post read. Each read joins
// the author row and counts comments so the API can render a feed card
// without N+1 follow-up queries.
const postColumns = `
	p.id, p.user_id, p.content, p.image_name, p.visibility, p.created_at,
	u.username, u.profile_photo,
	(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) AS comment_count`

// Create inserts a new post.
func (db *PostDB) Create(ctx context.Context, post *model.Post) error {
	post.ID = xid.New().String()
	post.CreatedAt = time.Now().UTC()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO posts (id, user_id, content, image_name, visibility, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		post.ID,
		post.UserID,
		post.Content,
		post.ImageName,
		string(post.Visibility),
		post.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting post: %w", err)
	}

	return nil
}

// GetByID retrieves a single post with author fields and comment count.
// No visibility check happens here — the service decides whether the
// viewer may actually see the returned post.
func (db *PostDB) GetByID(ctx context.Context, id string) (*model.Post, error) {
	var p model.Post

	err := db.conn.QueryRowContext(ctx,
		`SELECT `+postColumns+`
		 FROM posts p
		 JOIN users u ON p.user_id = u.id
		 WHERE p.id = ?`,
		id,
	).Scan(
		&p.ID, &p.UserID, &p.Content, &p.ImageName, &p.Visibility, &p.CreatedAt,
		&p.Author, &p.AuthorPhoto, &p.CommentCount,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("post", id)
		}
		return nil, fmt.Errorf("sqlite: getting post %s: %w", id, err)
	}

	return &p, nil
}

// ListFeed returns the posts the viewer may read, newest first.
//
// The WHERE clause is the visibility rule in SQL form: a post is in the
// feed if it is public, OR the viewer wrote it, OR an accepted connection
// links the viewer to its author in either direction. The same rule lives
// in service.CanView for single-post decisions; the two must stay in sync.
func (db *PostDB) ListFeed(ctx context.Context, viewerID string, opts repository.ListOptions) ([]model.Post, error) {
	limit, offset := clampList(opts)

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+postColumns+`
		 FROM posts p
		 JOIN users u ON p.user_id = u.id
		 WHERE p.visibility = 'public'
		    OR p.user_id = ?
		    OR EXISTS (
			SELECT 1 FROM connections conn
			WHERE conn.status = 'accepted'
			  AND ((conn.requester_id = ? AND conn.addressee_id = p.user_id)
			    OR (conn.addressee_id = ? AND conn.requester_id = p.user_id))
		    )
		 ORDER BY p.created_at DESC
		 LIMIT ? OFFSET ?`,
		viewerID, viewerID, viewerID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing feed: %w", err)
	}
	defer rows.Close()

	return scanPosts(rows, limit)
}

// ListByAuthor returns all of one author's posts, newest first, private
// included. Callers must filter with the visibility predicate before
// returning these to anyone but the author.
func (db *PostDB) ListByAuthor(ctx context.Context, authorID string, opts repository.ListOptions) ([]model.Post, error) {
	limit, offset := clampList(opts)

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+postColumns+`
		 FROM posts p
		 JOIN users u ON p.user_id = u.id
		 WHERE p.user_id = ?
		 ORDER BY p.created_at DESC
		 LIMIT ? OFFSET ?`,
		authorID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing posts by author %s: %w", authorID, err)
	}
	defer rows.Close()

	return scanPosts(rows, limit)
}

func scanPosts(rows *sql.Rows, capHint int) ([]model.Post, error) {
	posts := make([]model.Post, 0, capHint)
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(
			&p.ID, &p.UserID, &p.Content, &p.ImageName, &p.Visibility, &p.CreatedAt,
			&p.Author, &p.AuthorPhoto, &p.CommentCount,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning post row: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating posts: %w", err)
	}
	return posts, nil
}

// clampList applies the default page size and the hard maximum.
func clampList(opts repository.ListOptions) (limit, offset int) {
	limit = opts.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	offset = opts.Offset
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
