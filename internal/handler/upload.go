package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/sakif/social-network/internal/apperror"
	"github.com/sakif/social-network/internal/service"
)

// maxMultipartMemory bounds how much of a multipart body is held in RAM;
// the rest spills to temp files. Uploads themselves are capped separately.
const maxMultipartMemory = 8 << 20

// readUpload extracts an optional file field from a multipart form.
// Returns (nil, nil) when the field is absent. The read is capped one byte
// past the service limit so an oversized upload fails validation instead
// of silently truncating.
func readUpload(r *http.Request, field string) (*service.Upload, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, apperror.ValidationFailed(field, fmt.Sprintf("invalid %s upload", field))
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, service.MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s upload: %w", field, err)
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	return &service.Upload{
		Filename:    header.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}
