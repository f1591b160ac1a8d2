package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/social-network/internal/auth"
	"github.com/sakif/social-network/internal/service"
)

// ConnectionHandler exposes the connection state machine over HTTP.
type ConnectionHandler struct {
	connections *service.ConnectionService
	logger      *slog.Logger
}

// NewConnectionHandler creates a ConnectionHandler.
func NewConnectionHandler(connections *service.ConnectionService, logger *slog.Logger) *ConnectionHandler {
	return &ConnectionHandler{connections: connections, logger: logger}
}

// HandleList returns the caller's accepted connections.
//
// GET /api/connections
func (h *ConnectionHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	connections, err := h.connections.List(r.Context(), id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, connections)
}

// HandleRequest sends a connection request from the caller.
//
// POST /api/connections/request {"addresseeId": "..."}
func (h *ConnectionHandler) HandleRequest(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	var req struct {
		AddresseeID string `json:"addresseeId"`
	}
	if err := decodeJSON(w, r, &req, h.logger); err != nil {
		return
	}

	conn, err := h.connections.Request(r.Context(), id.UserID, req.AddresseeID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"connectionId": conn.ID,
	})
}

// HandleAccept accepts a pending request addressed to the caller.
//
// POST /api/connections/accept {"requesterId": "..."}
func (h *ConnectionHandler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, h.connections.Accept, "accepted")
}

// HandleReject rejects a pending request addressed to the caller.
//
// POST /api/connections/reject {"requesterId": "..."}
func (h *ConnectionHandler) HandleReject(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, h.connections.Reject, "rejected")
}

// resolve handles the shared accept/reject plumbing. The caller is
// always the addressee of the pending request.
func (h *ConnectionHandler) resolve(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, addresseeID, requesterID string) error,
	status string,
) {
	id, _ := auth.IdentityFromContext(r.Context())

	var req struct {
		RequesterID string `json:"requesterId"`
	}
	if err := decodeJSON(w, r, &req, h.logger); err != nil {
		return
	}

	if err := op(r.Context(), id.UserID, req.RequesterID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": status})
}

// HandleRemove removes an accepted connection the caller is part of.
//
// DELETE /api/connections/{id}
func (h *ConnectionHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())
	connectionID := chi.URLParam(r, "id")

	if err := h.connections.Remove(r.Context(), id.UserID, connectionID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}
