// Package policy decides who may act on a channel or message.
//
// Every function is a pure predicate over records read inside one Directory
// transaction. Global Owner permission is folded in only through
// IsChannelOwner, so it applies the same way to ownership changes, pinning
// and message moderation.
package policy

import (
	"slices"

	"github.com/lalith-99/flockr/internal/models"
)

// IsGlobalOwner reports whether u holds Owner permission.
func IsGlobalOwner(u *models.User) bool {
	return u != nil && u.Permission == models.PermissionOwner
}

// IsChannelMember reports whether u appears in either membership list of ch.
func IsChannelMember(u *models.User, ch *models.Channel) bool {
	if u == nil || ch == nil {
		return false
	}
	return slices.Contains(ch.OwnerMembers, u.ID) || slices.Contains(ch.AllMembers, u.ID)
}

// IsExplicitOwner reports whether u is in ch's owner-members list, ignoring
// global permission.
func IsExplicitOwner(userID int, ch *models.Channel) bool {
	return ch != nil && slices.Contains(ch.OwnerMembers, userID)
}

// IsChannelOwner reports whether u may act as an owner of ch: either listed
// in owner-members or a global Owner.
func IsChannelOwner(u *models.User, ch *models.Channel) bool {
	if u == nil || ch == nil {
		return false
	}
	return IsExplicitOwner(u.ID, ch) || IsGlobalOwner(u)
}

// CanModifyMessage reports whether u may edit or remove m, which lives in ch.
func CanModifyMessage(u *models.User, m *models.Message, ch *models.Channel) bool {
	if u == nil || m == nil {
		return false
	}
	return m.AuthorID == u.ID || IsChannelOwner(u, ch)
}

// CanJoin reports whether u may join ch without an invite.
func CanJoin(u *models.User, ch *models.Channel) bool {
	if u == nil || ch == nil {
		return false
	}
	return ch.IsPublic || IsGlobalOwner(u)
}
