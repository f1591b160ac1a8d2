package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/social-network/internal/apperror"
	"github.com/sakif/social-network/internal/model"
	"github.com/sakif/social-network/internal/repository"
)

// createTestPost inserts a post and fails the test on error.
func createTestPost(t *testing.T, p *PostDB, userID, content string, visibility model.Visibility) *model.Post {
	t.Helper()
	post := &model.Post{
		UserID:     userID,
		Content:    content,
		Visibility: visibility,
	}
	if err := p.Create(context.Background(), post); err != nil {
		t.Fatalf("failed to create test post: %v", err)
	}
	return post
}

// feedContents collects the content strings of a feed page into a set for
// membership assertions that don't depend on ordering.
func feedContents(posts []model.Post) map[string]bool {
	set := make(map[string]bool, len(posts))
	for _, p := range posts {
		set[p.Content] = true
	}
	return set
}

func TestPostCreate(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db.Users(), "alice")

	post := createTestPost(t, db.Posts(), alice.ID, "hello world", model.VisibilityPublic)

	if post.ID == "" {
		t.Error("Create() did not set post.ID")
	}
	if post.CreatedAt.IsZero() {
		t.Error("Create() did not set post.CreatedAt")
	}
}

func TestPostGetByID(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db.Users(), "alice")
	created := createTestPost(t, db.Posts(), alice.ID, "my post", model.VisibilityPrivate)

	found, err := db.Posts().GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}

	if found.Content != "my post" {
		t.Errorf("Content = %q, want %q", found.Content, "my post")
	}
	if found.Visibility != model.VisibilityPrivate {
		t.Errorf("Visibility = %q, want %q", found.Visibility, model.VisibilityPrivate)
	}
	if found.Author != "alice" {
		t.Errorf("Author = %q, want %q (join against users)", found.Author, "alice")
	}
	if found.CommentCount != 0 {
		t.Errorf("CommentCount = %d, want 0", found.CommentCount)
	}
}

func TestPostGetByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Posts().GetByID(context.Background(), "nonexistent-id")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestPostGetByID_CommentCount(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	alice := createTestUser(t, db.Users(), "alice")
	bob := createTestUser(t, db.Users(), "bob")
	post := createTestPost(t, db.Posts(), alice.ID, "discuss", model.VisibilityPublic)

	for i := 0; i < 3; i++ {
		comment := &model.Comment{PostID: post.ID, UserID: bob.ID, Content: "nice"}
		if err := db.Comments().Create(ctx, comment); err != nil {
			t.Fatalf("creating comment: %v", err)
		}
	}

	found, err := db.Posts().GetByID(ctx, post.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found.CommentCount != 3 {
		t.Errorf("CommentCount = %d, want 3", found.CommentCount)
	}
}

func TestPostListFeed_VisibilityRule(t *testing.T) {
	db := newTestDB(t)
	u := db.Users()
	p := db.Posts()
	c := db.Connections()
	ctx := context.Background()

	alice := createTestUser(t, u, "alice")
	bob := createTestUser(t, u, "bob")
	carol := createTestUser(t, u, "carol")

	createTestPost(t, p, alice.ID, "alice public", model.VisibilityPublic)
	createTestPost(t, p, alice.ID, "alice private", model.VisibilityPrivate)
	createTestPost(t, p, carol.ID, "carol private", model.VisibilityPrivate)

	// bob <-> alice accepted; bob and carol are strangers.
	mustCreateConnection(t, c, bob.ID, alice.ID)
	if err := c.UpdateStatusIfPending(ctx, bob.ID, alice.ID, model.ConnectionAccepted); err != nil {
		t.Fatalf("accepting bob->alice: %v", err)
	}

	feed, err := p.ListFeed(ctx, bob.ID, repository.ListOptions{})
	if err != nil {
		t.Fatalf("ListFeed() error = %v", err)
	}

	got := feedContents(feed)
	if !got["alice public"] {
		t.Error("feed is missing the public post")
	}
	if !got["alice private"] {
		t.Error("feed is missing the private post of a connected author")
	}
	if got["carol private"] {
		t.Error("feed leaked a private post from an unconnected author")
	}
}

func TestPostListFeed_OwnPrivatePostsVisible(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db.Users(), "alice")
	createTestPost(t, db.Posts(), alice.ID, "just for me", model.VisibilityPrivate)

	feed, err := db.Posts().ListFeed(context.Background(), alice.ID, repository.ListOptions{})
	if err != nil {
		t.Fatalf("ListFeed() error = %v", err)
	}
	if !feedContents(feed)["just for me"] {
		t.Error("author's own private post missing from their feed")
	}
}

func TestPostListFeed_PendingConnectionDoesNotGrantAccess(t *testing.T) {
	db := newTestDB(t)
	u := db.Users()
	ctx := context.Background()

	alice := createTestUser(t, u, "alice")
	bob := createTestUser(t, u, "bob")
	createTestPost(t, db.Posts(), alice.ID, "private stuff", model.VisibilityPrivate)

	// Pending only — not accepted.
	mustCreateConnection(t, db.Connections(), bob.ID, alice.ID)

	feed, err := db.Posts().ListFeed(ctx, bob.ID, repository.ListOptions{})
	if err != nil {
		t.Fatalf("ListFeed() error = %v", err)
	}
	if feedContents(feed)["private stuff"] {
		t.Error("pending connection granted access to a private post")
	}
}

func TestPostListFeed_Pagination(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db.Users(), "alice")
	for i := 0; i < 5; i++ {
		createTestPost(t, db.Posts(), alice.ID, "post", model.VisibilityPublic)
	}

	page1, err := db.Posts().ListFeed(context.Background(), alice.ID, repository.ListOptions{Limit: 2})
	if err != nil {
		t.Fatalf("ListFeed() page 1 error = %v", err)
	}
	if len(page1) != 2 {
		t.Errorf("page 1 has %d posts, want 2", len(page1))
	}

	page3, err := db.Posts().ListFeed(context.Background(), alice.ID, repository.ListOptions{Limit: 2, Offset: 4})
	if err != nil {
		t.Fatalf("ListFeed() page 3 error = %v", err)
	}
	if len(page3) != 1 {
		t.Errorf("page 3 has %d posts, want 1", len(page3))
	}
}

func TestPostListByAuthor_IncludesPrivate(t *testing.T) {
	db := newTestDB(t)
	u := db.Users()

	alice := createTestUser(t, u, "alice")
	bob := createTestUser(t, u, "bob")
	createTestPost(t, db.Posts(), alice.ID, "alice public", model.VisibilityPublic)
	createTestPost(t, db.Posts(), alice.ID, "alice private", model.VisibilityPrivate)
	createTestPost(t, db.Posts(), bob.ID, "bob post", model.VisibilityPublic)

	posts, err := db.Posts().ListByAuthor(context.Background(), alice.ID, repository.ListOptions{})
	if err != nil {
		t.Fatalf("ListByAuthor() error = %v", err)
	}

	// Private rows are returned here; the service layer filters them per
	// viewer before anything leaves the API.
	if len(posts) != 2 {
		t.Fatalf("ListByAuthor() returned %d posts, want 2", len(posts))
	}
	for _, post := range posts {
		if post.UserID != alice.ID {
			t.Errorf("ListByAuthor() returned a post by %q", post.UserID)
		}
	}
}

func TestCommentListByPost(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	alice := createTestUser(t, db.Users(), "alice")
	bob := createTestUser(t, db.Users(), "bob")
	post := createTestPost(t, db.Posts(), alice.ID, "thread", model.VisibilityPublic)

	for _, content := range []string{"first", "second"} {
		comment := &model.Comment{PostID: post.ID, UserID: bob.ID, Content: content}
		if err := db.Comments().Create(ctx, comment); err != nil {
			t.Fatalf("creating comment %q: %v", content, err)
		}
	}

	comments, err := db.Comments().ListByPost(ctx, post.ID)
	if err != nil {
		t.Fatalf("ListByPost() error = %v", err)
	}

	if len(comments) != 2 {
		t.Fatalf("ListByPost() returned %d comments, want 2", len(comments))
	}
	if comments[0].Content != "first" {
		t.Errorf("comments[0].Content = %q, want %q (oldest first)", comments[0].Content, "first")
	}
	if comments[0].Author != "bob" {
		t.Errorf("comments[0].Author = %q, want %q", comments[0].Author, "bob")
	}
}

func TestCommentListByPost_Empty(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db.Users(), "alice")
	post := createTestPost(t, db.Posts(), alice.ID, "quiet", model.VisibilityPublic)

	comments, err := db.Comments().ListByPost(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("ListByPost() error = %v", err)
	}
	if len(comments) != 0 {
		t.Errorf("ListByPost() returned %d comments, want 0", len(comments))
	}
}
