package service

import (
	"context"
	"unicode/utf8"

	"github.com/lalith-99/flockr/internal/apperr"
	"github.com/lalith-99/flockr/internal/models"
	"github.com/lalith-99/flockr/internal/policy"
	"github.com/lalith-99/flockr/internal/repository/memory"
	"go.uber.org/zap"
)

// ChannelService handles channel creation, membership and ownership.
type ChannelService struct {
	dir    *memory.Directory
	logger *zap.Logger
}

func NewChannelService(dir *memory.Directory, logger *zap.Logger) *ChannelService {
	return &ChannelService{dir: dir, logger: logger}
}

// Create makes a channel with the caller as its first owner-member.
func (s *ChannelService) Create(ctx context.Context, callerID int, name string, isPublic bool) (int, error) {
	if utf8.RuneCountInString(name) > MaxChannelNameLength {
		return 0, apperr.ErrChannelNameTooLong
	}

	var channelID int
	err := s.dir.Update(func(tx *memory.Tx) error {
		if _, err := lookupCaller(tx, callerID); err != nil {
			return err
		}
		channelID = tx.AddChannel(name, isPublic, callerID).ID
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("channel created",
		zap.Int("channel_id", channelID),
		zap.Int("u_id", callerID),
		zap.Bool("is_public", isPublic),
	)
	return channelID, nil
}

// Invite adds invitee to the channel's all-members list. The caller must
// already be a member. Inviting someone who is already a member appends them
// again.
func (s *ChannelService) Invite(ctx context.Context, callerID, channelID, inviteeID int) error {
	return s.dir.Update(func(tx *memory.Tx) error {
		caller, err := lookupCaller(tx, callerID)
		if err != nil {
			return err
		}
		ch := tx.Channel(channelID)
		if ch == nil {
			return apperr.ErrUnknownChannel
		}
		if tx.User(inviteeID) == nil {
			return apperr.ErrUnknownUser
		}
		if !policy.IsChannelMember(caller, ch) {
			return apperr.ErrNotMember
		}

		tx.AppendMember(ch, inviteeID)
		s.logger.Debug("user invited",
			zap.Int("channel_id", channelID),
			zap.Int("u_id", inviteeID),
			zap.Int("by", callerID),
		)
		return nil
	})
}

// Join adds the caller to a public channel. Global Owners may also join
// private ones.
func (s *ChannelService) Join(ctx context.Context, callerID, channelID int) error {
	return s.dir.Update(func(tx *memory.Tx) error {
		caller, err := lookupCaller(tx, callerID)
		if err != nil {
			return err
		}
		ch := tx.Channel(channelID)
		if ch == nil {
			return apperr.ErrUnknownChannel
		}
		if !policy.CanJoin(caller, ch) {
			return apperr.ErrNotPermitted
		}

		tx.AppendMember(ch, callerID)
		s.logger.Debug("user joined", zap.Int("channel_id", channelID), zap.Int("u_id", callerID))
		return nil
	})
}

// Leave removes one entry for the caller: from owner-members if present there,
// otherwise from all-members.
func (s *ChannelService) Leave(ctx context.Context, callerID, channelID int) error {
	return s.dir.Update(func(tx *memory.Tx) error {
		if _, err := lookupCaller(tx, callerID); err != nil {
			return err
		}
		ch := tx.Channel(channelID)
		if ch == nil {
			return apperr.ErrUnknownChannel
		}

		switch {
		case policy.IsExplicitOwner(callerID, ch):
			tx.RemoveOwner(ch, callerID)
		case !tx.RemoveMember(ch, callerID):
			return apperr.ErrNotMember
		}

		s.logger.Debug("user left", zap.Int("channel_id", channelID), zap.Int("u_id", callerID))
		return nil
	})
}

// AddOwner appends target to owner-members.
func (s *ChannelService) AddOwner(ctx context.Context, callerID, channelID, targetID int) error {
	return s.dir.Update(func(tx *memory.Tx) error {
		ch, err := s.ownershipChange(tx, callerID, channelID, func(ch *models.Channel) error {
			if policy.IsExplicitOwner(targetID, ch) {
				return apperr.ErrAlreadyOwner
			}
			return nil
		})
		if err != nil {
			return err
		}
		if tx.User(targetID) == nil {
			return apperr.ErrUnknownUser
		}

		tx.AppendOwner(ch, targetID)
		s.logger.Info("owner added",
			zap.Int("channel_id", channelID),
			zap.Int("u_id", targetID),
			zap.Int("by", callerID),
		)
		return nil
	})
}

// RemoveOwner deletes target from owner-members. Target keeps whatever
// all-members entries it has.
func (s *ChannelService) RemoveOwner(ctx context.Context, callerID, channelID, targetID int) error {
	return s.dir.Update(func(tx *memory.Tx) error {
		ch, err := s.ownershipChange(tx, callerID, channelID, func(ch *models.Channel) error {
			if !policy.IsExplicitOwner(targetID, ch) {
				return apperr.ErrNotAnOwner
			}
			return nil
		})
		if err != nil {
			return err
		}

		tx.RemoveOwner(ch, targetID)
		s.logger.Info("owner removed",
			zap.Int("channel_id", channelID),
			zap.Int("u_id", targetID),
			zap.Int("by", callerID),
		)
		return nil
	})
}

// ownershipChange runs the checks shared by AddOwner and RemoveOwner: the
// channel exists, the target-state check passes, then the caller is an owner.
func (s *ChannelService) ownershipChange(
	tx *memory.Tx,
	callerID, channelID int,
	checkTarget func(ch *models.Channel) error,
) (*models.Channel, error) {
	caller, err := lookupCaller(tx, callerID)
	if err != nil {
		return nil, err
	}
	ch := tx.Channel(channelID)
	if ch == nil {
		return nil, apperr.ErrUnknownChannel
	}
	if err := checkTarget(ch); err != nil {
		return nil, err
	}
	if !policy.IsChannelOwner(caller, ch) {
		return nil, apperr.ErrNotOwner
	}
	return ch, nil
}
