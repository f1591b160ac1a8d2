package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sakif/social-network/internal/apperror"
)

func TestWriteError_StatusMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"validation", apperror.ValidationFailed("field", "bad input"), http.StatusBadRequest, "validation_error"},
		{"unauthorized", apperror.Unauthorized("invalid credentials"), http.StatusUnauthorized, "unauthorized"},
		{"forbidden", apperror.Forbidden("not yours"), http.StatusForbidden, "forbidden"},
		{"not found", apperror.NotFound("post", "p1"), http.StatusNotFound, "not_found"},
		{"conflict", apperror.Conflict("already exists"), http.StatusConflict, "conflict"},
		{"unknown", errors.New("sql: something leaked"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			writeError(rr, tc.err)

			assert.Equal(t, tc.wantStatus, rr.Code)

			var resp ErrorResponse
			assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
			assert.Equal(t, tc.wantError, resp.Error)
		})
	}
}

func TestWriteError_WrappedAppError(t *testing.T) {
	// Errors wrapped by the service layer must still map correctly.
	wrapped := errors.Join(errors.New("context"), apperror.NotFound("post", "p1"))

	rr := httptest.NewRecorder()
	writeError(rr, wrapped)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestWriteError_HidesInternalDetails(t *testing.T) {
	rr := httptest.NewRecorder()
	writeError(rr, errors.New("pq: relation users does not exist"))

	var resp ErrorResponse
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.NotContains(t, resp.Message, "users")
	assert.Equal(t, "an internal error occurred", resp.Message)
}
