// Package session persists diagram sessions: the node positions a user has
// dragged into place for a topology, so a diagram can be reopened exactly as
// it was left.
//
// Two backends are provided:
//   - file: JSON files under the user's config directory, for CLI usage
//   - mongo: MongoDB-backed storage for server deployments
//
// # Usage
//
// Create a session store:
//
//	// CLI
//	store, err := session.NewFileStore("")  // Uses ~/.config/bgpmap/sessions/
//
//	// Server
//	store, err := session.NewMongoStore(ctx, session.MongoOptions{
//	    URI: "mongodb://localhost:27017",
//	})
//
// Manage sessions:
//
//	sess := session.New("lab-topology", topoHash, engine.Positions())
//	store.Set(ctx, sess)
//
//	sess, err := store.Get(ctx, id)
//	if sess == nil {
//	    // Session not found or expired
//	}
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/routeviz/bgpmap/pkg/layout"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("not found")

	// ErrExpired is returned when a session has exceeded its TTL.
	ErrExpired = errors.New("expired")
)

// Session stores the saved positions of one diagram.
//
// TopologyHash is the content hash of the topology the positions belong to;
// reopening a session against a changed topology keeps matching nodes pinned
// and lays out the rest.
type Session struct {
	ID           string                  `json:"id" bson:"_id"`
	Name         string                  `json:"name" bson:"name"`
	TopologyHash string                  `json:"topology_hash" bson:"topology_hash"`
	Positions    map[string]layout.Point `json:"positions" bson:"positions"`
	CreatedAt    time.Time               `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time               `json:"updated_at" bson:"updated_at"`
	ExpiresAt    time.Time               `json:"expires_at,omitempty" bson:"expires_at,omitempty"`
}

// IsExpired returns true if the session has expired. Sessions without an
// ExpiresAt never expire.
func (s *Session) IsExpired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// Touch updates the modification timestamp.
func (s *Session) Touch() {
	s.UpdatedAt = time.Now()
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist or has expired.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores a session, replacing any previous version.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, id string) error

	// List returns all live sessions, newest first.
	List(ctx context.Context) ([]*Session, error)

	// Cleanup removes expired sessions (may be a no-op for backends with
	// native expiry).
	Cleanup(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// DefaultTTL is the default session duration for server-held sessions.
// CLI sessions are created without expiry.
const DefaultTTL = 30 * 24 * time.Hour

// New creates a session with a fresh UUID and no expiry.
func New(name, topologyHash string, positions map[string]layout.Point) *Session {
	now := time.Now()
	return &Session{
		ID:           uuid.NewString(),
		Name:         name,
		TopologyHash: topologyHash,
		Positions:    positions,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// NewExpiring creates a session that expires after ttl.
func NewExpiring(name, topologyHash string, positions map[string]layout.Point, ttl time.Duration) *Session {
	s := New(name, topologyHash, positions)
	s.ExpiresAt = s.CreatedAt.Add(ttl)
	return s
}
