package policy

import (
	"testing"

	"github.com/lalith-99/flockr/internal/models"
)

func TestChannelPredicates(t *testing.T) {
	admin := &models.User{ID: 1, Permission: models.PermissionOwner}
	owner := &models.User{ID: 2, Permission: models.PermissionMember}
	member := &models.User{ID: 3, Permission: models.PermissionMember}
	outsider := &models.User{ID: 4, Permission: models.PermissionMember}

	private := &models.Channel{ID: 10, OwnerMembers: []int{2}, AllMembers: []int{3}}
	public := &models.Channel{ID: 11, IsPublic: true, OwnerMembers: []int{2}}

	cases := []struct {
		name string
		got  bool
		want bool
	}{
		{name: "owner-list user is member", got: IsChannelMember(owner, private), want: true},
		{name: "all-members user is member", got: IsChannelMember(member, private), want: true},
		{name: "outsider is not member", got: IsChannelMember(outsider, private), want: false},
		{name: "global owner is not implicitly member", got: IsChannelMember(admin, private), want: false},
		{name: "nil channel", got: IsChannelMember(member, nil), want: false},

		{name: "explicit owner owns", got: IsChannelOwner(owner, private), want: true},
		{name: "global owner owns", got: IsChannelOwner(admin, private), want: true},
		{name: "plain member does not own", got: IsChannelOwner(member, private), want: false},
		{name: "global owner is not explicit owner", got: IsExplicitOwner(admin.ID, private), want: false},

		{name: "anyone joins public", got: CanJoin(outsider, public), want: true},
		{name: "member cannot join private", got: CanJoin(outsider, private), want: false},
		{name: "global owner joins private", got: CanJoin(admin, private), want: true},

		{name: "global owner flag", got: IsGlobalOwner(admin), want: true},
		{name: "member flag", got: IsGlobalOwner(member), want: false},
		{name: "nil user", got: IsGlobalOwner(nil), want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.want {
				t.Fatalf("got %v, want %v", tc.got, tc.want)
			}
		})
	}
}

func TestCanModifyMessage(t *testing.T) {
	admin := &models.User{ID: 1, Permission: models.PermissionOwner}
	owner := &models.User{ID: 2, Permission: models.PermissionMember}
	author := &models.User{ID: 3, Permission: models.PermissionMember}
	other := &models.User{ID: 4, Permission: models.PermissionMember}

	ch := &models.Channel{ID: 10, OwnerMembers: []int{2}, AllMembers: []int{3, 4}}
	m := &models.Message{ID: 20, ChannelID: 10, AuthorID: 3}

	cases := []struct {
		name string
		user *models.User
		want bool
	}{
		{name: "author", user: author, want: true},
		{name: "channel owner", user: owner, want: true},
		{name: "global owner", user: admin, want: true},
		{name: "other member", user: other, want: false},
		{name: "nil user", user: nil, want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanModifyMessage(tc.user, m, ch); got != tc.want {
				t.Fatalf("CanModifyMessage = %v, want %v", got, tc.want)
			}
		})
	}
}
