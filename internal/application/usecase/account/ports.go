package account

import (
	"context"

	"github.com/google/uuid"
)

// SessionStore holds the opaque session credential for an authenticated
// user. The token is meaningless outside this layer; it carries nothing
// but a reference to the user id.
type SessionStore interface {
	// Create establishes a session for the user and returns the opaque
	// token handed to the client.
	Create(ctx context.Context, userID uuid.UUID) (string, error)

	// Resolve maps a token back to the user id it was issued for.
	// Unknown or expired tokens fail with a not-found error.
	Resolve(ctx context.Context, token string) (uuid.UUID, error)

	// Destroy removes a session. Destroying a session that does not
	// exist is a no-op success.
	Destroy(ctx context.Context, token string) error
}

// TransportGate reports whether the current request arrived over the
// restricted secure channel. Identity-mutating operations consult it
// before touching any store.
type TransportGate interface {
	Secure(ctx context.Context) bool
}

// ResetMailer hands a serialized reset string to the external delivery
// collaborator. The plaintext token inside it never touches our storage.
type ResetMailer interface {
	SendReset(ctx context.Context, email, resetString string) error
}
