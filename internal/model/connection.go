package model

import "time"

// ConnectionState is the stored status of a connection record.
//
// Lifecycle: a record is born "pending" when one user requests a connection
// to another. The addressee may move it to "accepted" or "rejected".
// An accepted record can later be deleted (removal) by either participant,
// which takes the pair back to having no record at all.
//
// There is at most one record per pair of users, regardless of direction —
// enforced by a UNIQUE(requester_id, addressee_id) constraint plus an
// existence check against both orderings before insert.
type ConnectionState string

const (
	ConnectionPending  ConnectionState = "pending"
	ConnectionAccepted ConnectionState = "accepted"
	ConnectionRejected ConnectionState = "rejected"
)

// Connection is a directed edge from the requester to the addressee.
// Direction matters while pending (only the addressee can accept or
// reject); once accepted the relationship is symmetric.
type Connection struct {
	ID          string          `json:"id"`
	RequesterID string          `json:"requesterId"`
	AddresseeID string          `json:"addresseeId"`
	Status      ConnectionState `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ConnectionStatus is the viewer-relative reading of a connection record,
// as shown in the user directory. Unlike ConnectionState it distinguishes
// which side of a pending request the viewer is on.
type ConnectionStatus string

const (
	StatusConnected       ConnectionStatus = "connected"
	StatusPendingSent     ConnectionStatus = "pending_sent"
	StatusPendingReceived ConnectionStatus = "pending_received"
	StatusRejected        ConnectionStatus = "rejected"
	StatusNotConnected    ConnectionStatus = "not_connected"
)

// ConnectedUser is a row in the caller's accepted-connections listing:
// the other participant's public profile plus the connection record's ID
// (needed for removal) and date.
type ConnectedUser struct {
	ConnectionID   string    `json:"connectionId"`
	UserID         string    `json:"userId"`
	Username       string    `json:"username"`
	ProfilePhoto   string    `json:"profilePhoto,omitempty"`
	ConnectedSince time.Time `json:"connectedSince"`
}
