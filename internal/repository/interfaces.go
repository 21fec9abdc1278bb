package repository

import (
	"context"
	"time"
)

// SessionRepository maps live session tokens to user ids.
//
// A user may hold any number of sessions at once. Implementations must be
// safe for concurrent use.
//
// Why keep sessions behind an interface when users and channels are not?
//   - Users, channels and messages must change together under one lock, so
//     they live in memory.Directory and nowhere else.
//   - Sessions are independent key/value pairs. They can sit in process
//     memory (memory.SessionStore) or in Redis (redisstore.SessionStore),
//     picked by SESSION_BACKEND at startup.
//   - The identity service only sees this interface, so both backends are
//     tested against the same expectations.
type SessionRepository interface {
	// Save records token as an active session for userID. ttl <= 0 means the
	// session lives until it is deleted.
	Save(ctx context.Context, token string, userID int, ttl time.Duration) error

	// Lookup returns the user id behind token. ok is false when there is no
	// such session; that is not an error.
	Lookup(ctx context.Context, token string) (userID int, ok bool, err error)

	// Delete ends the session. removed is false when it did not exist.
	Delete(ctx context.Context, token string) (removed bool, err error)

	// Clear ends every session.
	Clear(ctx context.Context) error
}
