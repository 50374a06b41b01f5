package session

import "context"

// Storage defines the session storage API
type Storage interface {
	// GetByRawToken retrieves a session by its raw (prior hashing) token
	GetByRawToken(ctx context.Context, rawToken string) (*Session, error)

	// Create creates a new session holding the given identity token and returns the raw session token
	Create(ctx context.Context, idToken string, expires int64) (string, error)

	// Terminate terminates the session belonging to the given raw token, if any
	Terminate(ctx context.Context, rawToken string) error

	// TerminateExpired terminates all sessions that are expired
	TerminateExpired(ctx context.Context) (int, error)
}
