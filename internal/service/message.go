package service

import (
	"context"
	"time"

	"github.com/lalith-99/flockr/internal/apperr"
	"github.com/lalith-99/flockr/internal/models"
	"github.com/lalith-99/flockr/internal/policy"
	"github.com/lalith-99/flockr/internal/repository/memory"
	"go.uber.org/zap"
)

// sessionResolver turns a session token back into a user id.
// *IdentityService satisfies it.
type sessionResolver interface {
	Resolve(ctx context.Context, token string) (int, error)
}

// MessageService handles the message lifecycle: send, edit, remove, react,
// pin and deferred send.
type MessageService struct {
	dir      *memory.Directory
	sessions sessionResolver
	clock    Clock
	logger   *zap.Logger
}

func NewMessageService(dir *memory.Directory, sessions sessionResolver, clk Clock, logger *zap.Logger) *MessageService {
	return &MessageService{dir: dir, sessions: sessions, clock: clk, logger: logger}
}

// Send appends a message to the channel and returns its id.
func (s *MessageService) Send(ctx context.Context, callerID, channelID int, body string) (int, error) {
	return s.send(callerID, channelID, body, nil)
}

// send is Send with an optional guard that runs first inside the write lock.
func (s *MessageService) send(callerID, channelID int, body string, guard func(tx *memory.Tx) error) (int, error) {
	var messageID int
	err := s.dir.Update(func(tx *memory.Tx) error {
		if guard != nil {
			if err := guard(tx); err != nil {
				return err
			}
		}
		caller, err := lookupCaller(tx, callerID)
		if err != nil {
			return err
		}
		ch := tx.Channel(channelID)
		if ch == nil {
			return apperr.ErrUnknownChannel
		}
		if err := validateMessageBody(body); err != nil {
			return err
		}
		if !policy.IsChannelMember(caller, ch) {
			return apperr.ErrNotMember
		}

		m := tx.AddMessage(&models.Message{
			ChannelID:   channelID,
			AuthorID:    callerID,
			Body:        body,
			TimeCreated: s.clock.Now().Unix(),
		})
		messageID = m.ID
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Debug("message sent",
		zap.Int("message_id", messageID),
		zap.Int("channel_id", channelID),
		zap.Int("u_id", callerID),
	)
	return messageID, nil
}

// SendLater schedules a send for timeSent (Unix seconds) on behalf of the
// session behind token.
//
// Only the session and the time are checked now. When the timer fires the
// token is resolved again and the send goes through the same checks as Send,
// so a session that has ended by then sends nothing. A send scheduled before
// a Clear is dropped even if a new user now holds the same id. Failures at
// fire time are logged; there is no way to cancel or observe them.
func (s *MessageService) SendLater(ctx context.Context, token string, channelID int, body string, timeSent int64) error {
	callerID, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		return err
	}

	now := s.clock.Now()
	if timeSent < now.Unix() {
		return apperr.ErrPastScheduleTime
	}

	generation := s.dir.Generation()
	delay := time.Unix(timeSent, 0).Sub(now)
	s.clock.AfterFunc(delay, func() {
		s.fireDeferred(token, channelID, body, generation)
	})

	s.logger.Debug("message scheduled",
		zap.Int("channel_id", channelID),
		zap.Int("u_id", callerID),
		zap.Duration("delay", delay),
	)
	return nil
}

func (s *MessageService) fireDeferred(token string, channelID int, body string, generation uint64) {
	ctx := context.Background()

	callerID, err := s.sessions.Resolve(ctx, token)
	if err == nil {
		var messageID int
		messageID, err = s.send(callerID, channelID, body, func(tx *memory.Tx) error {
			if tx.Generation() != generation {
				return apperr.ErrUnauthenticated
			}
			return nil
		})
		if err == nil {
			s.logger.Info("deferred message sent",
				zap.Int("message_id", messageID),
				zap.Int("channel_id", channelID),
			)
			return
		}
	}

	s.logger.Warn("deferred send failed",
		zap.Int("channel_id", channelID),
		zap.Error(err),
	)
}

// Remove deletes a message. Authors may remove their own messages; channel
// owners and global Owners may remove any.
func (s *MessageService) Remove(ctx context.Context, callerID, messageID int) error {
	return s.dir.Update(func(tx *memory.Tx) error {
		m, err := s.modifiable(tx, callerID, messageID)
		if err != nil {
			return err
		}
		tx.RemoveMessage(m.ID)
		s.logger.Debug("message removed", zap.Int("message_id", messageID), zap.Int("by", callerID))
		return nil
	})
}

// Edit replaces a message body, keeping its id and timestamp. An empty body
// removes the message instead.
func (s *MessageService) Edit(ctx context.Context, callerID, messageID int, body string) error {
	return s.dir.Update(func(tx *memory.Tx) error {
		m, err := s.modifiable(tx, callerID, messageID)
		if err != nil {
			return err
		}

		if body == "" {
			tx.RemoveMessage(m.ID)
			s.logger.Debug("message removed by empty edit", zap.Int("message_id", messageID))
			return nil
		}
		if err := validateMessageBody(body); err != nil {
			return err
		}

		tx.SetBody(m, body)
		s.logger.Debug("message edited", zap.Int("message_id", messageID), zap.Int("by", callerID))
		return nil
	})
}

func (s *MessageService) modifiable(tx *memory.Tx, callerID, messageID int) (*models.Message, error) {
	caller, err := lookupCaller(tx, callerID)
	if err != nil {
		return nil, err
	}
	m := tx.Message(messageID)
	if m == nil {
		return nil, apperr.ErrUnknownMessage
	}
	if !policy.CanModifyMessage(caller, m, tx.Channel(m.ChannelID)) {
		return nil, apperr.ErrNotPermitted
	}
	return m, nil
}

// React adds the caller to the message's reaction list for reactID.
func (s *MessageService) React(ctx context.Context, callerID, messageID, reactID int) error {
	return s.dir.Update(func(tx *memory.Tx) error {
		m, err := s.reactable(tx, callerID, messageID, reactID)
		if err != nil {
			return err
		}
		if memory.HasReacted(m, reactID, callerID) {
			return apperr.ErrAlreadyReacted
		}
		tx.AddReact(m, reactID, callerID)
		return nil
	})
}

// Unreact removes the caller from the message's reaction list for reactID.
func (s *MessageService) Unreact(ctx context.Context, callerID, messageID, reactID int) error {
	return s.dir.Update(func(tx *memory.Tx) error {
		m, err := s.reactable(tx, callerID, messageID, reactID)
		if err != nil {
			return err
		}
		if !memory.HasReacted(m, reactID, callerID) {
			return apperr.ErrNotReacted
		}
		tx.RemoveReact(m, reactID, callerID)
		return nil
	})
}

// reactable checks the react kind and that the message sits in a channel the
// caller has joined. A missing message fails the same way as one in a
// foreign channel.
func (s *MessageService) reactable(tx *memory.Tx, callerID, messageID, reactID int) (*models.Message, error) {
	caller, err := lookupCaller(tx, callerID)
	if err != nil {
		return nil, err
	}
	if reactID != models.ReactThumbsUp {
		return nil, apperr.ErrInvalidReactionKind
	}
	m := tx.Message(messageID)
	if m == nil || !policy.IsChannelMember(caller, tx.Channel(m.ChannelID)) {
		return nil, apperr.ErrMessageNotInJoinedChannel
	}
	return m, nil
}

func (s *MessageService) Pin(ctx context.Context, callerID, messageID int) error {
	return s.setPinned(callerID, messageID, true)
}

func (s *MessageService) Unpin(ctx context.Context, callerID, messageID int) error {
	return s.setPinned(callerID, messageID, false)
}

// setPinned checks, in order: message exists, caller is in its channel, the
// message is not already in the target state, caller owns the channel.
func (s *MessageService) setPinned(callerID, messageID int, pinned bool) error {
	return s.dir.Update(func(tx *memory.Tx) error {
		caller, err := lookupCaller(tx, callerID)
		if err != nil {
			return err
		}
		m := tx.Message(messageID)
		if m == nil {
			return apperr.ErrUnknownMessage
		}
		ch := tx.Channel(m.ChannelID)
		if !policy.IsChannelMember(caller, ch) {
			return apperr.ErrNotInChannel
		}
		if m.IsPinned == pinned {
			if pinned {
				return apperr.ErrAlreadyPinned
			}
			return apperr.ErrAlreadyUnpinned
		}
		if !policy.IsChannelOwner(caller, ch) {
			return apperr.ErrNotOwner
		}

		tx.SetPinned(m, pinned)
		s.logger.Debug("pin state changed",
			zap.Int("message_id", messageID),
			zap.Bool("pinned", pinned),
			zap.Int("by", callerID),
		)
		return nil
	})
}
