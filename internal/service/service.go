// Package service implements the Flockr operations on top of the Directory
// and the access policy. Handlers hand in an already-resolved caller id; the
// identity service is what resolves it.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/andres-erbsen/clock"
	"github.com/lalith-99/flockr/internal/apperr"
	"github.com/lalith-99/flockr/internal/models"
	"github.com/lalith-99/flockr/internal/repository"
	"github.com/lalith-99/flockr/internal/repository/memory"
	"go.uber.org/zap"
)

// Clock is the time source for message timestamps and deferred sends.
// clock.New() satisfies it in production; tests pass clock.NewMock().
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) *clock.Timer
}

// Config carries the knobs the services need from the process config.
type Config struct {
	TokenSecret string
	SessionTTL  time.Duration
	HashCost    int
}

// Services bundles every component that shares one Directory.
type Services struct {
	Identity *IdentityService
	Channels *ChannelService
	Messages *MessageService
	Query    *QueryService
	Users    *UserService

	dir      *memory.Directory
	sessions repository.SessionRepository
	logger   *zap.Logger
}

func New(
	dir *memory.Directory,
	sessions repository.SessionRepository,
	clk Clock,
	cfg Config,
	logger *zap.Logger,
) *Services {
	identity := NewIdentityService(dir, sessions, cfg, logger)
	return &Services{
		Identity: identity,
		Channels: NewChannelService(dir, logger),
		Messages: NewMessageService(dir, identity, clk, logger),
		Query:    NewQueryService(dir),
		Users:    NewUserService(dir, logger),
		dir:      dir,
		sessions: sessions,
		logger:   logger,
	}
}

// Clear resets users, channels, messages, sessions and the id counter.
// Deferred sends still pending are dropped when they fire. Calling it on an
// empty system is a no-op.
func (s *Services) Clear(ctx context.Context) error {
	s.dir.Reset()
	if err := s.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("clear sessions: %w", err)
	}
	s.logger.Info("state cleared")
	return nil
}

// lookupCaller returns the authenticated user's record. A valid session for a
// user that no longer exists counts as unauthenticated.
func lookupCaller(tx *memory.Tx, callerID int) (*models.User, error) {
	u := tx.User(callerID)
	if u == nil {
		return nil, apperr.ErrUnauthenticated
	}
	return u, nil
}
