package service

import (
	"context"
	"strings"

	"github.com/lalith-99/flockr/internal/apperr"
	"github.com/lalith-99/flockr/internal/models"
	"github.com/lalith-99/flockr/internal/policy"
	"github.com/lalith-99/flockr/internal/repository/memory"
)

// PageSize is the number of messages in one ChannelMessages window.
const PageSize = 50

// QueryService serves read-only projections. Everything it returns is copied
// out of the Directory under the read lock.
type QueryService struct {
	dir *memory.Directory
}

func NewQueryService(dir *memory.Directory) *QueryService {
	return &QueryService{dir: dir}
}

// ChannelMessages returns up to PageSize messages, newest first, skipping the
// start newest ones. End is start+PageSize when older messages remain after
// this window, otherwise -1.
func (s *QueryService) ChannelMessages(ctx context.Context, callerID, channelID, start int) (*models.MessagePage, error) {
	var page *models.MessagePage
	err := s.dir.View(func(tx *memory.Tx) error {
		caller, err := lookupCaller(tx, callerID)
		if err != nil {
			return err
		}
		ch := tx.Channel(channelID)
		if ch == nil {
			return apperr.ErrUnknownChannel
		}

		stored := tx.ChannelMessages(channelID)
		total := len(stored)
		if start < 0 || start > total {
			return apperr.ErrStartBeyondRange
		}
		if !policy.IsChannelMember(caller, ch) {
			return apperr.ErrNotMember
		}

		// stored is oldest first; walk it backwards from the start offset.
		n := min(PageSize, total-start)
		messages := make([]models.Message, 0, n)
		for i := 0; i < n; i++ {
			messages = append(messages, stored[total-1-start-i].Clone())
		}

		end := -1
		if total-start > PageSize {
			end = start + PageSize
		}
		page = &models.MessagePage{Messages: messages, Start: start, End: end}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

// Search returns messages whose body contains query, ignoring case, from the
// channels the caller has joined. Results are in send order.
func (s *QueryService) Search(ctx context.Context, callerID int, query string) ([]models.SearchResult, error) {
	needle := strings.ToLower(query)
	results := make([]models.SearchResult, 0)

	err := s.dir.View(func(tx *memory.Tx) error {
		caller, err := lookupCaller(tx, callerID)
		if err != nil {
			return err
		}

		joined := make(map[int]bool)
		for _, ch := range tx.Channels() {
			if policy.IsChannelMember(caller, ch) {
				joined[ch.ID] = true
			}
		}

		for _, m := range tx.Messages() {
			if !joined[m.ChannelID] || !strings.Contains(strings.ToLower(m.Body), needle) {
				continue
			}
			results = append(results, models.SearchResult{
				ID:          m.ID,
				AuthorID:    m.AuthorID,
				Body:        m.Body,
				TimeCreated: m.TimeCreated,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// ListJoinedChannels returns the channels the caller is in, in creation order.
func (s *QueryService) ListJoinedChannels(ctx context.Context, callerID int) ([]models.ChannelSummary, error) {
	channels := make([]models.ChannelSummary, 0)
	err := s.dir.View(func(tx *memory.Tx) error {
		caller, err := lookupCaller(tx, callerID)
		if err != nil {
			return err
		}
		for _, ch := range tx.Channels() {
			if policy.IsChannelMember(caller, ch) {
				channels = append(channels, ch.Summary())
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return channels, nil
}

// ListAllChannels returns every channel, public or private.
func (s *QueryService) ListAllChannels(ctx context.Context) []models.ChannelSummary {
	channels := make([]models.ChannelSummary, 0)
	_ = s.dir.View(func(tx *memory.Tx) error {
		for _, ch := range tx.Channels() {
			channels = append(channels, ch.Summary())
		}
		return nil
	})
	return channels
}

// ChannelDetails returns a channel's name and both membership lists, with
// names taken from the current user records.
func (s *QueryService) ChannelDetails(ctx context.Context, callerID, channelID int) (*models.ChannelDetails, error) {
	var details *models.ChannelDetails
	err := s.dir.View(func(tx *memory.Tx) error {
		caller, err := lookupCaller(tx, callerID)
		if err != nil {
			return err
		}
		ch := tx.Channel(channelID)
		if ch == nil {
			return apperr.ErrUnknownChannel
		}
		if !policy.IsChannelMember(caller, ch) {
			return apperr.ErrNotMember
		}

		details = &models.ChannelDetails{
			Name:         ch.Name,
			OwnerMembers: members(tx, ch.OwnerMembers),
			AllMembers:   members(tx, ch.AllMembers),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return details, nil
}

func members(tx *memory.Tx, ids []int) []models.Member {
	out := make([]models.Member, 0, len(ids))
	for _, id := range ids {
		u := tx.User(id)
		if u == nil {
			continue
		}
		out = append(out, models.Member{ID: u.ID, NameFirst: u.NameFirst, NameLast: u.NameLast})
	}
	return out
}

// ListUsers returns every user's public profile.
func (s *QueryService) ListUsers(ctx context.Context) []models.UserProfile {
	users := make([]models.UserProfile, 0)
	_ = s.dir.View(func(tx *memory.Tx) error {
		for _, u := range tx.Users() {
			users = append(users, u.Profile())
		}
		return nil
	})
	return users
}
