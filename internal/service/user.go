package service

import (
	"context"

	"github.com/lalith-99/flockr/internal/apperr"
	"github.com/lalith-99/flockr/internal/models"
	"github.com/lalith-99/flockr/internal/policy"
	"github.com/lalith-99/flockr/internal/repository/memory"
	"go.uber.org/zap"
)

// UserService handles profile edits and the admin permission change.
type UserService struct {
	dir    *memory.Directory
	logger *zap.Logger
}

func NewUserService(dir *memory.Directory, logger *zap.Logger) *UserService {
	return &UserService{dir: dir, logger: logger}
}

// Profile returns the public profile of userID.
func (s *UserService) Profile(ctx context.Context, userID int) (*models.UserProfile, error) {
	var profile *models.UserProfile
	err := s.dir.View(func(tx *memory.Tx) error {
		u := tx.User(userID)
		if u == nil {
			return apperr.ErrUnknownUser
		}
		p := u.Profile()
		profile = &p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *UserService) SetName(ctx context.Context, callerID int, first, last string) error {
	if err := validateProfileName(first); err != nil {
		return err
	}
	if err := validateProfileName(last); err != nil {
		return err
	}

	return s.dir.Update(func(tx *memory.Tx) error {
		u, err := lookupCaller(tx, callerID)
		if err != nil {
			return err
		}
		tx.UpdateUser(u, func(u *models.User) {
			u.NameFirst = first
			u.NameLast = last
		})
		return nil
	})
}

// SetEmail changes the caller's email. An email already held by anyone,
// the caller included, is rejected.
func (s *UserService) SetEmail(ctx context.Context, callerID int, email string) error {
	if err := validateEmail(email); err != nil {
		return err
	}

	return s.dir.Update(func(tx *memory.Tx) error {
		u, err := lookupCaller(tx, callerID)
		if err != nil {
			return err
		}
		if tx.UserByEmail(email) != nil {
			return apperr.ErrEmailInUse
		}
		tx.UpdateUser(u, func(u *models.User) { u.Email = email })
		return nil
	})
}

func (s *UserService) SetHandle(ctx context.Context, callerID int, handle string) error {
	if err := validateHandle(handle); err != nil {
		return err
	}

	return s.dir.Update(func(tx *memory.Tx) error {
		u, err := lookupCaller(tx, callerID)
		if err != nil {
			return err
		}
		if tx.HandleExists(handle) {
			return apperr.ErrHandleInUse
		}
		tx.UpdateUser(u, func(u *models.User) { u.Handle = handle })
		return nil
	})
}

// ChangePermission sets targetID's global permission. Only global Owners may
// call it.
func (s *UserService) ChangePermission(ctx context.Context, callerID, targetID int, permission models.Permission) error {
	return s.dir.Update(func(tx *memory.Tx) error {
		caller, err := lookupCaller(tx, callerID)
		if err != nil {
			return err
		}
		if !policy.IsGlobalOwner(caller) {
			return apperr.ErrNotOwner
		}
		if !permission.Valid() {
			return apperr.ErrInvalidPermission
		}
		target := tx.User(targetID)
		if target == nil {
			return apperr.ErrUnknownUser
		}

		tx.UpdateUser(target, func(u *models.User) { u.Permission = permission })
		s.logger.Info("permission changed",
			zap.Int("u_id", targetID),
			zap.Int("permission", int(permission)),
			zap.Int("by", callerID),
		)
		return nil
	})
}
