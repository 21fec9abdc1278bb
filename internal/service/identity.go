package service

import (
	"context"
	"fmt"
	"time"

	"github.com/lalith-99/flockr/internal/apperr"
	"github.com/lalith-99/flockr/internal/auth"
	"github.com/lalith-99/flockr/internal/models"
	"github.com/lalith-99/flockr/internal/repository"
	"github.com/lalith-99/flockr/internal/repository/memory"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthResult is what register and login return.
// The client sends Token back on every later request.
type AuthResult struct {
	UserID int    `json:"u_id"`
	Token  string `json:"token"`
}

// IdentityService owns credentials and sessions.
type IdentityService struct {
	dir      *memory.Directory
	sessions repository.SessionRepository
	secret   string
	ttl      time.Duration
	hashCost int
	logger   *zap.Logger
}

func NewIdentityService(
	dir *memory.Directory,
	sessions repository.SessionRepository,
	cfg Config,
	logger *zap.Logger,
) *IdentityService {
	cost := cfg.HashCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &IdentityService{
		dir:      dir,
		sessions: sessions,
		secret:   cfg.TokenSecret,
		ttl:      cfg.SessionTTL,
		hashCost: cost,
		logger:   logger,
	}
}

// Register creates a user and opens a session for it.
//
// Checks run in order: names, email format, email in use, password. The very
// first user becomes a global Owner; everyone after is a Member.
func (s *IdentityService) Register(ctx context.Context, email, password, first, last string) (*AuthResult, error) {
	if err := validateRegisterName(first); err != nil {
		return nil, err
	}
	if err := validateRegisterName(last); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := s.dir.View(func(tx *memory.Tx) error {
		if tx.UserByEmail(email) != nil {
			return apperr.ErrEmailInUse
		}
		return nil
	}); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	// bcrypt is slow on purpose; hash before taking the write lock.
	hash, err := auth.HashPassword(password, s.hashCost)
	if err != nil {
		return nil, err
	}

	var user models.User
	err = s.dir.Update(func(tx *memory.Tx) error {
		// The email may have been taken while we were hashing.
		if tx.UserByEmail(email) != nil {
			return apperr.ErrEmailInUse
		}

		permission := models.PermissionMember
		if tx.UserCount() == 0 {
			permission = models.PermissionOwner
		}

		u := tx.AddUser(&models.User{
			Email:        email,
			PasswordHash: hash,
			NameFirst:    first,
			NameLast:     last,
			Handle:       generateHandle(first, tx.HandleExists),
			Permission:   permission,
		})
		user = *u
		return nil
	})
	if err != nil {
		return nil, err
	}

	token, err := s.IssueSession(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		zap.Int("u_id", user.ID),
		zap.String("handle", user.Handle),
		zap.Int("permission", int(user.Permission)),
	)
	return &AuthResult{UserID: user.ID, Token: token}, nil
}

// Login checks email and password against every registered user and opens a
// new session on a match. Existing sessions for the user stay valid.
func (s *IdentityService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	var hash string
	userID := 0
	found := false
	_ = s.dir.View(func(tx *memory.Tx) error {
		for _, u := range tx.Users() {
			if u.Email == email {
				userID, hash, found = u.ID, u.PasswordHash, true
				break
			}
		}
		return nil
	})

	// Same error for unknown email and wrong password.
	if !found || !auth.CheckPassword(hash, password) {
		return nil, apperr.ErrInvalidCredentials
	}

	token, err := s.IssueSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("user logged in", zap.Int("u_id", userID))
	return &AuthResult{UserID: userID, Token: token}, nil
}

// IssueSession mints a signed token for userID and records it as active.
func (s *IdentityService) IssueSession(ctx context.Context, userID int) (string, error) {
	token, err := auth.GenerateToken(userID, s.secret, s.ttl)
	if err != nil {
		return "", err
	}
	if err := s.sessions.Save(ctx, token, userID, s.ttl); err != nil {
		return "", fmt.Errorf("issue session: %w", err)
	}
	return token, nil
}

// EndSession logs token out. It reports whether a session was actually
// removed; an unknown token is a normal false, not an error.
func (s *IdentityService) EndSession(ctx context.Context, token string) (bool, error) {
	removed, err := s.sessions.Delete(ctx, token)
	if err != nil {
		return false, fmt.Errorf("end session: %w", err)
	}
	if removed {
		s.logger.Debug("session ended")
	}
	return removed, nil
}

// Resolve returns the user id behind an active session token.
func (s *IdentityService) Resolve(ctx context.Context, token string) (int, error) {
	if token == "" {
		return 0, apperr.ErrUnauthenticated
	}

	userID, ok, err := s.sessions.Lookup(ctx, token)
	if err != nil {
		return 0, fmt.Errorf("resolve session: %w", err)
	}
	if !ok {
		return 0, apperr.ErrUnauthenticated
	}

	claims, err := auth.ParseToken(token, s.secret)
	if err != nil || claims.UserID != userID {
		return 0, apperr.ErrUnauthenticated
	}
	return userID, nil
}
