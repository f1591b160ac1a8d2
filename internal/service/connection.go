package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sakif/social-network/internal/apperror"
	"github.com/sakif/social-network/internal/model"
	"github.com/sakif/social-network/internal/repository"
)

// ConnectionService owns the connection state machine:
//
//	no record --Request--> pending --Accept--> accepted --Remove--> no record
//	                               --Reject--> rejected (terminal)
//
// Every transition is guarded: Request refuses self-edges and any existing
// record between the pair; Accept/Reject require the exact-direction
// pending record; Remove requires an accepted record and a participant as
// the actor. Rejection is terminal — no operation leaves the rejected
// state, so a rejected pair can never re-request.
type ConnectionService struct {
	connections repository.ConnectionRepository
	logger      *slog.Logger
}

// NewConnectionService creates a ConnectionService.
func NewConnectionService(connections repository.ConnectionRepository, logger *slog.Logger) *ConnectionService {
	return &ConnectionService{
		connections: connections,
		logger:      logger,
	}
}

// Request creates a pending connection from requester to addressee.
//
// The pre-check reads both orderings of the pair, so a request is blocked
// by any prior record — pending, accepted, or rejected, in either
// direction. Between the check and the insert another request can slip in;
// the store's uniqueness constraint turns that race into the same conflict
// error for the ordered pair.
func (s *ConnectionService) Request(ctx context.Context, requesterID, addresseeID string) (*model.Connection, error) {
	if addresseeID == "" {
		return nil, apperror.ValidationFailed("addresseeId", "addressee ID is required")
	}
	if requesterID == addresseeID {
		return nil, apperror.ValidationFailed("addresseeId", "cannot connect to yourself")
	}

	_, err := s.connections.GetBetween(ctx, requesterID, addresseeID)
	switch {
	case err == nil:
		return nil, apperror.Conflict("connection already exists")
	case !errors.Is(err, apperror.ErrNotFound):
		return nil, fmt.Errorf("checking existing connection: %w", err)
	}

	conn := &model.Connection{
		RequesterID: requesterID,
		AddresseeID: addresseeID,
		Status:      model.ConnectionPending,
	}
	if err := s.connections.Create(ctx, conn); err != nil {
		return nil, fmt.Errorf("creating connection request: %w", err)
	}

	s.logger.Info("connection requested",
		slog.String("connectionID", conn.ID),
		slog.String("requesterID", requesterID),
		slog.String("addresseeID", addresseeID),
	)

	return conn, nil
}

// Accept transitions the pending request from requesterID to addresseeID
// into the accepted state. Only the addressee of that exact record can do
// this; any other caller simply finds no pending record in their direction.
func (s *ConnectionService) Accept(ctx context.Context, addresseeID, requesterID string) error {
	return s.resolve(ctx, addresseeID, requesterID, model.ConnectionAccepted)
}

// Reject transitions the pending request into the rejected state. The
// record is kept, which is what makes rejection permanent: it blocks any
// future Request between the pair.
func (s *ConnectionService) Reject(ctx context.Context, addresseeID, requesterID string) error {
	return s.resolve(ctx, addresseeID, requesterID, model.ConnectionRejected)
}

func (s *ConnectionService) resolve(ctx context.Context, addresseeID, requesterID string, status model.ConnectionState) error {
	if requesterID == "" {
		return apperror.ValidationFailed("requesterId", "requester ID is required")
	}

	if err := s.connections.UpdateStatusIfPending(ctx, requesterID, addresseeID, status); err != nil {
		return err
	}

	s.logger.Info("connection resolved",
		slog.String("requesterID", requesterID),
		slog.String("addresseeID", addresseeID),
		slog.String("status", string(status)),
	)

	return nil
}

// Remove deletes an accepted connection. Either participant may remove it;
// anyone else — or any non-accepted record — gets the same not-found
// answer, so outsiders cannot probe whether a connection ID exists.
func (s *ConnectionService) Remove(ctx context.Context, actorID, connectionID string) error {
	if connectionID == "" {
		return apperror.ValidationFailed("connectionId", "connection ID is required")
	}

	conn, err := s.connections.GetByID(ctx, connectionID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.NotFoundMsg("connection not found or you are not authorized to remove it")
		}
		return fmt.Errorf("fetching connection %s: %w", connectionID, err)
	}

	if conn.Status != model.ConnectionAccepted ||
		(conn.RequesterID != actorID && conn.AddresseeID != actorID) {
		return apperror.NotFoundMsg("connection not found or you are not authorized to remove it")
	}

	if err := s.connections.Delete(ctx, connectionID); err != nil {
		return fmt.Errorf("deleting connection %s: %w", connectionID, err)
	}

	s.logger.Info("connection removed",
		slog.String("connectionID", connectionID),
		slog.String("actorID", actorID),
	)

	return nil
}

// StatusWith maps the record between viewer and other (if any) to the
// viewer-relative status shown in listings. Pending records read
// differently from each side: the requester sees pending_sent, the
// addressee pending_received.
func (s *ConnectionService) StatusWith(ctx context.Context, viewerID, otherID string) (model.ConnectionStatus, error) {
	conn, err := s.connections.GetBetween(ctx, viewerID, otherID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return model.StatusNotConnected, nil
		}
		return "", fmt.Errorf("fetching connection state: %w", err)
	}

	switch conn.Status {
	case model.ConnectionAccepted:
		return model.StatusConnected, nil
	case model.ConnectionRejected:
		return model.StatusRejected, nil
	case model.ConnectionPending:
		if conn.RequesterID == viewerID {
			return model.StatusPendingSent, nil
		}
		return model.StatusPendingReceived, nil
	default:
		return "", fmt.Errorf("unknown connection status %q", conn.Status)
	}
}

// List returns the caller's accepted connections.
func (s *ConnectionService) List(ctx context.Context, userID string) ([]model.ConnectedUser, error) {
	connections, err := s.connections.ListAccepted(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list connections",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing connections: %w", err)
	}
	return connections, nil
}
