// Package storage abstracts where uploaded images live. The app writes a
// file once under a generated unique name, serves it by URL, and deletes it
// when replaced — storage is never consulted for authorization decisions.
package storage

import "context"

// Store persists uploaded files under caller-generated names.
type Store interface {
	// Save persists data under name. Names are generated unique per
	// upload, so Save never overwrites.
	Save(ctx context.Context, name, contentType string, data []byte) error
	// Delete removes a stored file. Deleting a missing file is not an
	// error — replacement flows delete best-effort.
	Delete(ctx context.Context, name string) error
	// URL returns the path or URL a client fetches the file from.
	URL(name string) string
}
