package session

import (
	"context"
	"time"
)

// SourceGoogle tags sessions created through the Google OAuth flow.
const SourceGoogle = "google"

// User is the identity snapshot kept for the lifetime of a session.
// It holds facts from the provider profile only, no auth state.
type User struct {
	Email  string `json:"email"`
	Name   string `json:"name"`
	Source string `json:"source"`
}

// Store defines how session records are persisted. Records are opaque
// blobs: callers marshal before Save and get the raw bytes back from
// Get, which keeps the verify contract byte-for-byte stable.
//
// Get returns (nil, nil) when the id is unknown or expired; expiry is
// the store's job, never the caller's.
type Store interface {
	Save(ctx context.Context, sessionID string, record []byte, ttl time.Duration) error
	Get(ctx context.Context, sessionID string) ([]byte, error)
	Delete(ctx context.Context, sessionID string) error
}
