package service

import (
	"strings"
	"testing"

	"github.com/lalith-99/flockr/internal/apperr"
	"github.com/lalith-99/flockr/internal/models"
	"github.com/lalith-99/flockr/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func channelOf(t *testing.T, svc *Services, channelID int) models.Channel {
	t.Helper()
	var out models.Channel
	require.NoError(t, svc.dir.View(func(tx *memory.Tx) error {
		ch := tx.Channel(channelID)
		require.NotNil(t, ch)
		out = *ch
		out.OwnerMembers = append([]int{}, ch.OwnerMembers...)
		out.AllMembers = append([]int{}, ch.AllMembers...)
		return nil
	}))
	return out
}

func TestCreateChannel(t *testing.T) {
	svc, _ := newTestServices(t)
	_ = register(t, svc, "admin@example.com", "Admin")
	ann := register(t, svc, "ann@example.com", "Ann")

	id := createChannel(t, svc, ann.UserID, strings.Repeat("c", MaxChannelNameLength), true)
	ch := channelOf(t, svc, id)
	assert.Equal(t, []int{ann.UserID}, ch.OwnerMembers)
	assert.Empty(t, ch.AllMembers)

	_, err := svc.Channels.Create(ctx, ann.UserID, strings.Repeat("c", MaxChannelNameLength+1), true)
	assert.ErrorIs(t, err, apperr.ErrChannelNameTooLong)
}

func TestJoin(t *testing.T) {
	svc, _ := newTestServices(t)
	admin := register(t, svc, "admin@example.com", "Admin")
	ann := register(t, svc, "ann@example.com", "Ann")
	bob := register(t, svc, "bob@example.com", "Bob")

	public := createChannel(t, svc, ann.UserID, "public", true)
	private := createChannel(t, svc, ann.UserID, "private", false)

	require.NoError(t, svc.Channels.Join(ctx, bob.UserID, public))
	assert.Equal(t, []int{bob.UserID}, channelOf(t, svc, public).AllMembers)

	assert.ErrorIs(t, svc.Channels.Join(ctx, bob.UserID, private), apperr.ErrNotPermitted)
	assert.ErrorIs(t, svc.Channels.Join(ctx, bob.UserID, 9999), apperr.ErrUnknownChannel)

	// Global owners may join private channels.
	require.NoError(t, svc.Channels.Join(ctx, admin.UserID, private))
}

func TestInvite(t *testing.T) {
	svc, _ := newTestServices(t)
	_ = register(t, svc, "admin@example.com", "Admin")
	ann := register(t, svc, "ann@example.com", "Ann")
	bob := register(t, svc, "bob@example.com", "Bob")
	carl := register(t, svc, "carl@example.com", "Carl")

	ch := createChannel(t, svc, ann.UserID, "private", false)

	assert.ErrorIs(t, svc.Channels.Invite(ctx, ann.UserID, 9999, bob.UserID), apperr.ErrUnknownChannel)
	assert.ErrorIs(t, svc.Channels.Invite(ctx, ann.UserID, ch, 9999), apperr.ErrUnknownUser)
	assert.ErrorIs(t, svc.Channels.Invite(ctx, carl.UserID, ch, bob.UserID), apperr.ErrNotMember)

	require.NoError(t, svc.Channels.Invite(ctx, ann.UserID, ch, bob.UserID))
	require.NoError(t, svc.Channels.Invite(ctx, ann.UserID, ch, bob.UserID))
	assert.Equal(t, []int{bob.UserID, bob.UserID}, channelOf(t, svc, ch).AllMembers)
}

func TestLeave(t *testing.T) {
	svc, _ := newTestServices(t)
	_ = register(t, svc, "admin@example.com", "Admin")
	ann := register(t, svc, "ann@example.com", "Ann")
	bob := register(t, svc, "bob@example.com", "Bob")

	ch := createChannel(t, svc, ann.UserID, "general", true)
	require.NoError(t, svc.Channels.Join(ctx, bob.UserID, ch))

	require.NoError(t, svc.Channels.Leave(ctx, bob.UserID, ch))
	assert.Empty(t, channelOf(t, svc, ch).AllMembers)
	assert.ErrorIs(t, svc.Channels.Leave(ctx, bob.UserID, ch), apperr.ErrNotMember)

	// The creator leaves through the owner list.
	require.NoError(t, svc.Channels.Leave(ctx, ann.UserID, ch))
	assert.Empty(t, channelOf(t, svc, ch).OwnerMembers)

	assert.ErrorIs(t, svc.Channels.Leave(ctx, ann.UserID, 9999), apperr.ErrUnknownChannel)
}

func TestLeave_OwnerWhoAlsoJoinedStaysMember(t *testing.T) {
	svc, _ := newTestServices(t)
	_ = register(t, svc, "admin@example.com", "Admin")
	ann := register(t, svc, "ann@example.com", "Ann")

	ch := createChannel(t, svc, ann.UserID, "general", true)
	require.NoError(t, svc.Channels.Join(ctx, ann.UserID, ch))

	require.NoError(t, svc.Channels.Leave(ctx, ann.UserID, ch))
	got := channelOf(t, svc, ch)
	assert.Empty(t, got.OwnerMembers)
	assert.Equal(t, []int{ann.UserID}, got.AllMembers)
}

func TestAddOwner(t *testing.T) {
	svc, _ := newTestServices(t)
	admin := register(t, svc, "admin@example.com", "Admin")
	ann := register(t, svc, "ann@example.com", "Ann")
	bob := register(t, svc, "bob@example.com", "Bob")
	carl := register(t, svc, "carl@example.com", "Carl")

	ch := createChannel(t, svc, ann.UserID, "general", true)

	assert.ErrorIs(t, svc.Channels.AddOwner(ctx, ann.UserID, 9999, bob.UserID), apperr.ErrUnknownChannel)
	assert.ErrorIs(t, svc.Channels.AddOwner(ctx, ann.UserID, ch, ann.UserID), apperr.ErrAlreadyOwner)
	assert.ErrorIs(t, svc.Channels.AddOwner(ctx, bob.UserID, ch, carl.UserID), apperr.ErrNotOwner)
	assert.ErrorIs(t, svc.Channels.AddOwner(ctx, ann.UserID, ch, 9999), apperr.ErrUnknownUser)

	require.NoError(t, svc.Channels.AddOwner(ctx, ann.UserID, ch, bob.UserID))
	// Global owner acts as channel owner without being listed.
	require.NoError(t, svc.Channels.AddOwner(ctx, admin.UserID, ch, carl.UserID))

	assert.Equal(t, []int{ann.UserID, bob.UserID, carl.UserID}, channelOf(t, svc, ch).OwnerMembers)
}

func TestRemoveOwner(t *testing.T) {
	svc, _ := newTestServices(t)
	_ = register(t, svc, "admin@example.com", "Admin")
	ann := register(t, svc, "ann@example.com", "Ann")
	bob := register(t, svc, "bob@example.com", "Bob")

	ch := createChannel(t, svc, ann.UserID, "general", true)
	require.NoError(t, svc.Channels.Join(ctx, bob.UserID, ch))

	assert.ErrorIs(t, svc.Channels.RemoveOwner(ctx, ann.UserID, ch, bob.UserID), apperr.ErrNotAnOwner)
	assert.ErrorIs(t, svc.Channels.RemoveOwner(ctx, bob.UserID, ch, ann.UserID), apperr.ErrNotOwner)

	require.NoError(t, svc.Channels.AddOwner(ctx, ann.UserID, ch, bob.UserID))
	require.NoError(t, svc.Channels.RemoveOwner(ctx, ann.UserID, ch, bob.UserID))

	got := channelOf(t, svc, ch)
	assert.Equal(t, []int{ann.UserID}, got.OwnerMembers)
	assert.Equal(t, []int{bob.UserID}, got.AllMembers, "demoted owner keeps membership")

	// An owner may demote themselves.
	require.NoError(t, svc.Channels.RemoveOwner(ctx, ann.UserID, ch, ann.UserID))
	assert.Empty(t, channelOf(t, svc, ch).OwnerMembers)
}

func TestUnknownCaller(t *testing.T) {
	svc, _ := newTestServices(t)
	_, err := svc.Channels.Create(ctx, 42, "ghost", true)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}
