// Package main seeds a running server with fake users, posts, connections,
// and comments over its HTTP API. Useful for exercising the feed and the
// visibility rules with realistic data.
//
// Usage:
//
//	go run ./cmd/seed                # targets http://localhost:8080
//	SEED_BASE_URL=... go run ./cmd/seed
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

const (
	userCount    = 8
	postsPerUser = 3
	seedPassword = "seedpass1"
)

type seededUser struct {
	ID       string
	Username string
	Token    string
}

type client struct {
	base string
	http *http.Client
}

func main() {
	gofakeit.Seed(time.Now().UnixNano())

	base := os.Getenv("SEED_BASE_URL")
	if base == "" {
		base = "http://localhost:8080"
	}
	c := &client{base: base, http: &http.Client{Timeout: 10 * time.Second}}

	users := make([]seededUser, 0, userCount)
	for i := 0; i < userCount; i++ {
		u, err := c.register()
		if err != nil {
			log.Fatalf("registering user: %v", err)
		}
		users = append(users, u)
		log.Printf("registered %s", u.Username)
	}

	for _, u := range users {
		for i := 0; i < postsPerUser; i++ {
			visibility := "public"
			if gofakeit.Bool() {
				visibility = "private"
			}
			if err := c.createPost(u.Token, gofakeit.Sentence(12), visibility); err != nil {
				log.Printf("creating post for %s: %v", u.Username, err)
			}
		}
	}

	// Each user requests a connection with the next two users; the first
	// of each pair accepts, the second is left pending or rejected.
	for i, u := range users {
		for offset := 1; offset <= 2; offset++ {
			other := users[(i+offset)%len(users)]
			if err := c.requestConnection(u.Token, other.ID); err != nil {
				log.Printf("connection request %s -> %s: %v", u.Username, other.Username, err)
				continue
			}
			switch offset {
			case 1:
				if err := c.acceptConnection(other.Token, u.ID); err != nil {
					log.Printf("accepting %s -> %s: %v", u.Username, other.Username, err)
				}
			case 2:
				if gofakeit.Bool() {
					if err := c.rejectConnection(other.Token, u.ID); err != nil {
						log.Printf("rejecting %s -> %s: %v", u.Username, other.Username, err)
					}
				}
			}
		}
	}

	// Comment on whatever each user can see in their feed.
	for _, u := range users {
		postIDs, err := c.feedPostIDs(u.Token)
		if err != nil {
			log.Printf("fetching feed for %s: %v", u.Username, err)
			continue
		}
		for _, postID := range postIDs {
			if gofakeit.Number(0, 2) == 0 {
				if err := c.createComment(u.Token, postID, gofakeit.Sentence(6)); err != nil {
					log.Printf("commenting on %s: %v", postID, err)
				}
			}
		}
	}

	log.Printf("seeded %d users with posts, connections, and comments", len(users))
}

func (c *client) register() (seededUser, error) {
	payload := map[string]string{
		"username": gofakeit.Username(),
		"email":    gofakeit.Email(),
		"password": seedPassword,
	}

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID       string `json:"id"`
			Username string `json:"username"`
		} `json:"user"`
	}
	if err := c.postJSON("", "/api/register", payload, &resp); err != nil {
		return seededUser{}, err
	}

	return seededUser{ID: resp.User.ID, Username: resp.User.Username, Token: resp.Token}, nil
}

func (c *client) createPost(token, content, visibility string) error {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	writer.WriteField("content", content)
	writer.WriteField("visibility", visibility)
	writer.Close()

	req, err := http.NewRequest(http.MethodPost, c.base+"/api/posts", &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	return c.do(req, nil)
}

func (c *client) requestConnection(token, addresseeID string) error {
	return c.postJSON(token, "/api/connections/request", map[string]string{"addresseeId": addresseeID}, nil)
}

func (c *client) acceptConnection(token, requesterID string) error {
	return c.postJSON(token, "/api/connections/accept", map[string]string{"requesterId": requesterID}, nil)
}

func (c *client) rejectConnection(token, requesterID string) error {
	return c.postJSON(token, "/api/connections/reject", map[string]string{"requesterId": requesterID}, nil)
}

func (c *client) feedPostIDs(token string) ([]string, error) {
	req, err := http.NewRequest(http.MethodGet, c.base+"/api/posts", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	var posts []struct {
		ID string `json:"id"`
	}
	if err := c.do(req, &posts); err != nil {
		return nil, err
	}

	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return ids, nil
}

func (c *client) createComment(token, postID, content string) error {
	return c.postJSON(token, "/api/posts/"+postID+"/comments", map[string]string{"content": content}, nil)
}

func (c *client) postJSON(token, path string, payload, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, c.base+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.do(req, out)
}

func (c *client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s: %s", req.Method, req.URL.Path, resp.Status)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
