package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/sakif/social-network/internal/apperror"
	"github.com/sakif/social-network/internal/model"
	"github.com/sakif/social-network/internal/repository"
)

// In-memory fakes for the repository interfaces and the file store.
// Hand-written rather than generated: each one does exactly what the test
// needs and nothing else, which keeps failures easy to read.

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ---------------------------------------------------------------------
// users

type memUsers struct {
	byID map[string]*model.User
	seq  int

	// non-nil to simulate a storage failure
	failWith error
}

var _ repository.UserRepository = (*memUsers)(nil)

func newMemUsers() *memUsers {
	return &memUsers{byID: make(map[string]*model.User)}
}

func (m *memUsers) Create(_ context.Context, user *model.User) error {
	if m.failWith != nil {
		return m.failWith
	}
	for _, existing := range m.byID {
		if existing.Username == user.Username || existing.Email == user.Email {
			return apperror.Conflict("username or email already exists")
		}
	}
	m.seq++
	user.ID = fmt.Sprintf("user-%d", m.seq)
	user.CreatedAt = time.Now()
	copied := *user
	m.byID[user.ID] = &copied
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*model.User, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	u, ok := m.byID[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	copied := *u
	return &copied, nil
}

func (m *memUsers) GetByUsername(_ context.Context, username string) (*model.User, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	for _, u := range m.byID {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperror.NotFound("user", username)
}

func (m *memUsers) UpdateProfilePhoto(_ context.Context, userID, photoName string) error {
	u, ok := m.byID[userID]
	if !ok {
		return apperror.NotFound("user", userID)
	}
	u.ProfilePhoto = photoName
	return nil
}

func (m *memUsers) ListOthers(_ context.Context, viewerID string) ([]model.UserSummary, error) {
	summaries := make([]model.UserSummary, 0, len(m.byID))
	for _, u := range m.byID {
		if u.ID == viewerID {
			continue
		}
		summaries = append(summaries, model.UserSummary{
			ID:               u.ID,
			Username:         u.Username,
			ProfilePhoto:     u.ProfilePhoto,
			CreatedAt:        u.CreatedAt,
			ConnectionStatus: model.StatusNotConnected,
		})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Username < summaries[j].Username })
	return summaries, nil
}

// ---------------------------------------------------------------------
// posts

type memPosts struct {
	byID  map[string]*model.Post
	order []string // insertion order, oldest first
	seq   int

	createErr error
}

var _ repository.PostRepository = (*memPosts)(nil)

func newMemPosts() *memPosts {
	return &memPosts{byID: make(map[string]*model.Post)}
}

func (m *memPosts) Create(_ context.Context, post *model.Post) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.seq++
	post.ID = fmt.Sprintf("post-%d", m.seq)
	post.CreatedAt = time.Now()
	copied := *post
	m.byID[post.ID] = &copied
	m.order = append(m.order, post.ID)
	return nil
}

func (m *memPosts) GetByID(_ context.Context, id string) (*model.Post, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, apperror.NotFound("post", id)
	}
	copied := *p
	return &copied, nil
}

// ListFeed returns everything newest first; visibility filtering is the
// real query's job and is covered by the sqlite tests.
func (m *memPosts) ListFeed(_ context.Context, _ string, _ repository.ListOptions) ([]model.Post, error) {
	posts := make([]model.Post, 0, len(m.order))
	for i := len(m.order) - 1; i >= 0; i-- {
		posts = append(posts, *m.byID[m.order[i]])
	}
	return posts, nil
}

func (m *memPosts) ListByAuthor(_ context.Context, authorID string, _ repository.ListOptions) ([]model.Post, error) {
	posts := make([]model.Post, 0)
	for i := len(m.order) - 1; i >= 0; i-- {
		p := m.byID[m.order[i]]
		if p.UserID == authorID {
			posts = append(posts, *p)
		}
	}
	return posts, nil
}

// ---------------------------------------------------------------------
// comments

type memComments struct {
	byPost map[string][]model.Comment
	seq    int
}

var _ repository.CommentRepository = (*memComments)(nil)

func newMemComments() *memComments {
	return &memComments{byPost: make(map[string][]model.Comment)}
}

func (m *memComments) Create(_ context.Context, comment *model.Comment) error {
	m.seq++
	comment.ID = fmt.Sprintf("comment-%d", m.seq)
	comment.CreatedAt = time.Now()
	m.byPost[comment.PostID] = append(m.byPost[comment.PostID], *comment)
	return nil
}

func (m *memComments) ListByPost(_ context.Context, postID string) ([]model.Comment, error) {
	return append([]model.Comment(nil), m.byPost[postID]...), nil
}

// ---------------------------------------------------------------------
// connections

type memConnections struct {
	records map[string]*model.Connection
	users   *memUsers // for ListAccepted usernames; may be nil
	seq     int
}

var _ repository.ConnectionRepository = (*memConnections)(nil)

func newMemConnections() *memConnections {
	return &memConnections{records: make(map[string]*model.Connection)}
}

func (m *memConnections) Create(_ context.Context, conn *model.Connection) error {
	for _, existing := range m.records {
		if existing.RequesterID == conn.RequesterID && existing.AddresseeID == conn.AddresseeID {
			return apperror.Conflict("connection already exists")
		}
	}
	m.seq++
	conn.ID = fmt.Sprintf("conn-%d", m.seq)
	if conn.Status == "" {
		conn.Status = model.ConnectionPending
	}
	conn.CreatedAt = time.Now()
	copied := *conn
	m.records[conn.ID] = &copied
	return nil
}

func (m *memConnections) GetByID(_ context.Context, id string) (*model.Connection, error) {
	c, ok := m.records[id]
	if !ok {
		return nil, apperror.NotFound("connection", id)
	}
	copied := *c
	return &copied, nil
}

func (m *memConnections) GetBetween(_ context.Context, userA, userB string) (*model.Connection, error) {
	for _, c := range m.records {
		if (c.RequesterID == userA && c.AddresseeID == userB) ||
			(c.RequesterID == userB && c.AddresseeID == userA) {
			copied := *c
			return &copied, nil
		}
	}
	return nil, apperror.NotFoundMsg("no connection between users")
}

func (m *memConnections) UpdateStatusIfPending(_ context.Context, requesterID, addresseeID string, status model.ConnectionState) error {
	for _, c := range m.records {
		if c.RequesterID == requesterID && c.AddresseeID == addresseeID && c.Status == model.ConnectionPending {
			c.Status = status
			return nil
		}
	}
	return apperror.NotFoundMsg("no pending connection request found")
}

func (m *memConnections) Delete(_ context.Context, id string) error {
	if _, ok := m.records[id]; !ok {
		return apperror.NotFound("connection", id)
	}
	delete(m.records, id)
	return nil
}

func (m *memConnections) ListAccepted(_ context.Context, userID string) ([]model.ConnectedUser, error) {
	list := make([]model.ConnectedUser, 0)
	for _, c := range m.records {
		if c.Status != model.ConnectionAccepted {
			continue
		}
		var otherID string
		switch userID {
		case c.RequesterID:
			otherID = c.AddresseeID
		case c.AddresseeID:
			otherID = c.RequesterID
		default:
			continue
		}
		row := model.ConnectedUser{
			ConnectionID:   c.ID,
			UserID:         otherID,
			ConnectedSince: c.CreatedAt,
		}
		if m.users != nil {
			if u, ok := m.users.byID[otherID]; ok {
				row.Username = u.Username
				row.ProfilePhoto = u.ProfilePhoto
			}
		}
		list = append(list, row)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].UserID < list[j].UserID })
	return list, nil
}

func (m *memConnections) IsConnected(_ context.Context, userA, userB string) (bool, error) {
	for _, c := range m.records {
		if c.Status != model.ConnectionAccepted {
			continue
		}
		if (c.RequesterID == userA && c.AddresseeID == userB) ||
			(c.RequesterID == userB && c.AddresseeID == userA) {
			return true, nil
		}
	}
	return false, nil
}

// ---------------------------------------------------------------------
// file store

type memStore struct {
	files map[string][]byte

	saveErr   error
	deleteErr error
}

func newMemStore() *memStore {
	return &memStore{files: make(map[string][]byte)}
}

func (m *memStore) Save(_ context.Context, name, _ string, data []byte) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.files[name] = append([]byte(nil), data...)
	return nil
}

func (m *memStore) Delete(_ context.Context, name string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.files, name)
	return nil
}

func (m *memStore) URL(name string) string {
	return "/uploads/" + name
}
