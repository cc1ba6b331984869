package goRoles

import (
	"io"
	"log/slog"

	internalaudit "github.com/MrEthical07/goRoles/internal/audit"
	"github.com/MrEthical07/goRoles/session"
)

// Role is the identity record returned by the role API. It doubles as the
// session identity: the Client stores the Role returned by login and
// refresh, and JWTToken carries the credential presented on later calls.
type Role struct {
	ID         string `json:"id"`
	Title      string `json:"title,omitempty"`
	FirstName  string `json:"firstName,omitempty"`
	LastName   string `json:"lastName,omitempty"`
	Email      string `json:"email,omitempty"`
	Role       string `json:"role,omitempty"`
	Created    string `json:"created,omitempty"`
	Updated    string `json:"updated,omitempty"`
	IsVerified bool   `json:"isVerified,omitempty"`
	JWTToken   string `json:"jwtToken,omitempty"`
}

// FullName joins first and last name.
func (r Role) FullName() string {
	switch {
	case r.FirstName == "":
		return r.LastName
	case r.LastName == "":
		return r.FirstName
	default:
		return r.FirstName + " " + r.LastName
	}
}

// RoleParams is the body of create and update requests. Zero fields are
// omitted so that update sends only what the caller set.
type RoleParams struct {
	Title           string `json:"title,omitempty"`
	FirstName       string `json:"firstName,omitempty"`
	LastName        string `json:"lastName,omitempty"`
	Email           string `json:"email,omitempty"`
	Role            string `json:"role,omitempty"`
	Password        string `json:"password,omitempty"`
	ConfirmPassword string `json:"confirmPassword,omitempty"`
}

// RegisterRequest is the body of [Client.Register].
type RegisterRequest struct {
	Title           string `json:"title,omitempty"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	AcceptTerms     bool   `json:"acceptTerms"`
}

// Message is the {"message": ...} body returned by account endpoints.
type Message struct {
	Message string `json:"message"`
}

// SessionSnapshot is one published state of the current identity.
type SessionSnapshot = session.Snapshot[Role]

// Subscription delivers [SessionSnapshot] values until closed.
type Subscription = session.Subscription[Role]

// AuditEvent is a structured audit record emitted by the client.
type AuditEvent = internalaudit.Event

// AuditSink receives [AuditEvent] values from the client's audit dispatcher.
type AuditSink = internalaudit.Sink

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink is an [AuditSink] that writes JSON-encoded events to an
// [io.Writer].
type JSONWriterSink = internalaudit.JSONWriterSink

// SlogSink is an [AuditSink] that logs events through [log/slog].
type SlogSink = internalaudit.SlogSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}

// NewSlogSink creates a [SlogSink]. A nil logger selects [slog.Default].
func NewSlogSink(logger *slog.Logger) *SlogSink {
	return internalaudit.NewSlogSink(logger)
}
