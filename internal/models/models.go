package models

// Permission is a user's global permission level.
//
// Owner is granted to the first user who ever registers. An Owner acts as an
// owner of every channel and may change other users' permissions.
type Permission int

const (
	PermissionOwner  Permission = 1
	PermissionMember Permission = 2
)

// Valid reports whether p is one of the known permission levels.
func (p Permission) Valid() bool {
	return p == PermissionOwner || p == PermissionMember
}

// ReactThumbsUp is the only reaction kind currently accepted.
const ReactThumbsUp = 1

// User is a registered account.
//
// PasswordHash and Permission never leave the service layer; handlers return
// UserProfile instead.
type User struct {
	ID           int        `json:"u_id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	NameFirst    string     `json:"name_first"`
	NameLast     string     `json:"name_last"`
	Handle       string     `json:"handle_str"`
	Permission   Permission `json:"-"`
}

// Profile is the public projection of a user.
func (u *User) Profile() UserProfile {
	return UserProfile{
		ID:        u.ID,
		Email:     u.Email,
		NameFirst: u.NameFirst,
		NameLast:  u.NameLast,
		Handle:    u.Handle,
	}
}

// UserProfile is what other users are allowed to see.
type UserProfile struct {
	ID        int    `json:"u_id"`
	Email     string `json:"email"`
	NameFirst string `json:"name_first"`
	NameLast  string `json:"name_last"`
	Handle    string `json:"handle_str"`
}

// Channel is a chat room.
//
// OwnerMembers and AllMembers are two independent ordered lists of user ids.
// A channel's creator starts in OwnerMembers only. Nothing stops a user from
// appearing in both lists, or twice in AllMembers after repeated invites.
type Channel struct {
	ID           int    `json:"channel_id"`
	Name         string `json:"name"`
	IsPublic     bool   `json:"is_public"`
	OwnerMembers []int  `json:"-"`
	AllMembers   []int  `json:"-"`
}

// Summary is the list-view projection of a channel.
func (c *Channel) Summary() ChannelSummary {
	return ChannelSummary{ID: c.ID, Name: c.Name}
}

type ChannelSummary struct {
	ID   int    `json:"channel_id"`
	Name string `json:"name"`
}

// Member is a user as listed in channel details.
type Member struct {
	ID        int    `json:"u_id"`
	NameFirst string `json:"name_first"`
	NameLast  string `json:"name_last"`
}

type ChannelDetails struct {
	Name         string   `json:"name"`
	OwnerMembers []Member `json:"owner_members"`
	AllMembers   []Member `json:"all_members"`
}

// React is one reaction kind on a message and the users who reacted with it.
type React struct {
	ReactID int   `json:"react_id"`
	UserIDs []int `json:"u_ids"`
}

// Message is a single chat message in a channel.
//
// TimeCreated is Unix seconds. Reacts holds at most one entry (ReactThumbsUp),
// created on the first react.
type Message struct {
	ID          int     `json:"message_id"`
	ChannelID   int     `json:"channel_id"`
	AuthorID    int     `json:"u_id"`
	Body        string  `json:"message"`
	TimeCreated int64   `json:"time_created"`
	Reacts      []React `json:"reacts"`
	IsPinned    bool    `json:"is_pinned"`
}

// Clone returns a deep copy that shares no slices with m.
func (m *Message) Clone() Message {
	out := *m
	out.Reacts = make([]React, len(m.Reacts))
	for i, r := range m.Reacts {
		out.Reacts[i] = React{
			ReactID: r.ReactID,
			UserIDs: append([]int{}, r.UserIDs...),
		}
	}
	return out
}

// SearchResult is the projection returned by message search.
type SearchResult struct {
	ID          int    `json:"message_id"`
	AuthorID    int    `json:"u_id"`
	Body        string `json:"message"`
	TimeCreated int64  `json:"time_created"`
}

// MessagePage is one window of channel history, newest first.
// End is -1 when no older messages remain.
type MessagePage struct {
	Messages []Message `json:"messages"`
	Start    int       `json:"start"`
	End      int       `json:"end"`
}
