package service

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/social-network/internal/apperror"
)

// MaxUploadBytes is the size limit for image uploads (posts and profile
// photos alike).
const MaxUploadBytes = 5 << 20 // 5 MiB

// Upload is an in-memory file received from a multipart form.
type Upload struct {
	Filename    string // client-supplied name; only its extension is kept
	ContentType string
	Data        []byte
}

// validateImage rejects non-image or oversized uploads.
func validateImage(u *Upload) error {
	if !strings.HasPrefix(u.ContentType, "image/") {
		return apperror.ValidationFailed("image", "only image files are allowed")
	}
	if len(u.Data) > MaxUploadBytes {
		return apperror.ValidationFailed("image", "image must be 5MB or smaller")
	}
	return nil
}

// newImageName builds a unique storage name like
// "post_1700000000_cv37rs3pp9olc6atsptg.png". Only the extension of the
// client filename survives — everything identifying comes from us.
func newImageName(prefix, originalFilename string) string {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	return fmt.Sprintf("%s_%d_%s%s", prefix, time.Now().Unix(), xid.New().String(), ext)
}
