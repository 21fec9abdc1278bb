// Package memory holds the process-lifetime stores: the Directory of users,
// channels and messages, and an in-memory session store.
package memory

import (
	"slices"
	"sync"

	"github.com/lalith-99/flockr/internal/models"
)

// firstID is the first identifier the counter hands out.
const firstID = 1

// Directory owns every user, channel and message plus the id counter they
// share.
//
// All access goes through Update or View. One RWMutex guards the whole
// Directory: invariants such as id uniqueness and membership consistency span
// several entities, so per-entity locks would not be enough.
type Directory struct {
	mu    sync.RWMutex
	state state

	// generation counts Resets. It survives them, unlike the id counter, so
	// work scheduled against an earlier generation can tell it is stale.
	generation uint64
}

type state struct {
	nextID   int
	users    []*models.User
	channels []*models.Channel
	messages []*models.Message
}

func NewDirectory() *Directory {
	return &Directory{state: state{nextID: firstID}}
}

// Update runs fn with exclusive access. fn must finish all of its checks
// before it mutates anything, so a returned error never leaves partial state.
func (d *Directory) Update(fn func(tx *Tx) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return fn(&Tx{s: &d.state, generation: d.generation, writable: true})
}

// View runs fn with shared access. Values handed out of fn must be copies.
func (d *Directory) View(fn func(tx *Tx) error) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return fn(&Tx{s: &d.state, generation: d.generation})
}

// Reset drops every user, channel and message, rewinds the id counter and
// starts a new generation.
func (d *Directory) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = state{nextID: firstID}
	d.generation++
}

// Generation returns the number of Resets so far.
func (d *Directory) Generation() uint64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.generation
}

// Tx is the view of the Directory handed to Update and View callbacks.
// Mutating methods panic when called from View.
type Tx struct {
	s          *state
	generation uint64
	writable   bool
}

func (tx *Tx) mustWrite() {
	if !tx.writable {
		panic("memory: mutation inside read-only transaction")
	}
}

// Generation is the Directory generation this transaction runs in.
func (tx *Tx) Generation() uint64 {
	return tx.generation
}

func (tx *Tx) nextID() int {
	id := tx.s.nextID
	tx.s.nextID++
	return id
}

// ---------------------------------------------------------------
// Users
// ---------------------------------------------------------------

// User returns the user with id, or nil.
func (tx *Tx) User(id int) *models.User {
	for _, u := range tx.s.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

// Users returns all users in registration order. Callers must not keep the
// pointers past the transaction.
func (tx *Tx) Users() []*models.User {
	return tx.s.users
}

func (tx *Tx) UserCount() int {
	return len(tx.s.users)
}

func (tx *Tx) UserByEmail(email string) *models.User {
	for _, u := range tx.s.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func (tx *Tx) HandleExists(handle string) bool {
	for _, u := range tx.s.users {
		if u.Handle == handle {
			return true
		}
	}
	return false
}

// AddUser assigns the next id to u and stores it.
func (tx *Tx) AddUser(u *models.User) *models.User {
	tx.mustWrite()
	u.ID = tx.nextID()
	tx.s.users = append(tx.s.users, u)
	return u
}

// UpdateUser applies fn to the user. It exists so every write to a user
// record is visibly inside a writable transaction.
func (tx *Tx) UpdateUser(u *models.User, fn func(u *models.User)) {
	tx.mustWrite()
	fn(u)
}

// ---------------------------------------------------------------
// Channels
// ---------------------------------------------------------------

func (tx *Tx) Channel(id int) *models.Channel {
	for _, ch := range tx.s.channels {
		if ch.ID == id {
			return ch
		}
	}
	return nil
}

func (tx *Tx) Channels() []*models.Channel {
	return tx.s.channels
}

// AddChannel stores a new channel with creatorID as its only owner-member.
func (tx *Tx) AddChannel(name string, isPublic bool, creatorID int) *models.Channel {
	tx.mustWrite()
	ch := &models.Channel{
		ID:           tx.nextID(),
		Name:         name,
		IsPublic:     isPublic,
		OwnerMembers: []int{creatorID},
		AllMembers:   []int{},
	}
	tx.s.channels = append(tx.s.channels, ch)
	return ch
}

// AppendMember adds userID to the channel's all-members list. Duplicates are
// kept.
func (tx *Tx) AppendMember(ch *models.Channel, userID int) {
	tx.mustWrite()
	ch.AllMembers = append(ch.AllMembers, userID)
}

// AppendOwner adds userID to the channel's owner-members list.
func (tx *Tx) AppendOwner(ch *models.Channel, userID int) {
	tx.mustWrite()
	ch.OwnerMembers = append(ch.OwnerMembers, userID)
}

// RemoveOwner deletes the first occurrence of userID from owner-members and
// reports whether one was found.
func (tx *Tx) RemoveOwner(ch *models.Channel, userID int) bool {
	tx.mustWrite()
	var ok bool
	ch.OwnerMembers, ok = removeFirst(ch.OwnerMembers, userID)
	return ok
}

// RemoveMember deletes the first occurrence of userID from all-members and
// reports whether one was found.
func (tx *Tx) RemoveMember(ch *models.Channel, userID int) bool {
	tx.mustWrite()
	var ok bool
	ch.AllMembers, ok = removeFirst(ch.AllMembers, userID)
	return ok
}

func removeFirst(ids []int, id int) ([]int, bool) {
	i := slices.Index(ids, id)
	if i < 0 {
		return ids, false
	}
	return slices.Delete(ids, i, i+1), true
}

// ---------------------------------------------------------------
// Messages
// ---------------------------------------------------------------

func (tx *Tx) Message(id int) *models.Message {
	for _, m := range tx.s.messages {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// Messages returns every message in storage (send) order.
func (tx *Tx) Messages() []*models.Message {
	return tx.s.messages
}

// ChannelMessages returns the channel's messages in storage order.
func (tx *Tx) ChannelMessages(channelID int) []*models.Message {
	out := make([]*models.Message, 0)
	for _, m := range tx.s.messages {
		if m.ChannelID == channelID {
			out = append(out, m)
		}
	}
	return out
}

// AddMessage assigns the next id to m and appends it. m.ChannelID must name a
// live channel; callers check that first.
func (tx *Tx) AddMessage(m *models.Message) *models.Message {
	tx.mustWrite()
	m.ID = tx.nextID()
	if m.Reacts == nil {
		m.Reacts = []models.React{}
	}
	tx.s.messages = append(tx.s.messages, m)
	return m
}

// RemoveMessage deletes the message with id and reports whether it existed.
func (tx *Tx) RemoveMessage(id int) bool {
	tx.mustWrite()
	i := slices.IndexFunc(tx.s.messages, func(m *models.Message) bool { return m.ID == id })
	if i < 0 {
		return false
	}
	tx.s.messages = slices.Delete(tx.s.messages, i, i+1)
	return true
}

// SetBody replaces the message body, keeping id and timestamp.
func (tx *Tx) SetBody(m *models.Message, body string) {
	tx.mustWrite()
	m.Body = body
}

func (tx *Tx) SetPinned(m *models.Message, pinned bool) {
	tx.mustWrite()
	m.IsPinned = pinned
}

// AddReact records userID under reactID, creating the entry on first use.
func (tx *Tx) AddReact(m *models.Message, reactID, userID int) {
	tx.mustWrite()
	for i := range m.Reacts {
		if m.Reacts[i].ReactID == reactID {
			m.Reacts[i].UserIDs = append(m.Reacts[i].UserIDs, userID)
			return
		}
	}
	m.Reacts = append(m.Reacts, models.React{ReactID: reactID, UserIDs: []int{userID}})
}

// RemoveReact drops userID from reactID's user list. The entry itself stays.
func (tx *Tx) RemoveReact(m *models.Message, reactID, userID int) bool {
	tx.mustWrite()
	for i := range m.Reacts {
		if m.Reacts[i].ReactID == reactID {
			var ok bool
			m.Reacts[i].UserIDs, ok = removeFirst(m.Reacts[i].UserIDs, userID)
			return ok
		}
	}
	return false
}

// HasReacted reports whether userID is in reactID's user list.
func HasReacted(m *models.Message, reactID, userID int) bool {
	for _, r := range m.Reacts {
		if r.ReactID == reactID {
			return slices.Contains(r.UserIDs, userID)
		}
	}
	return false
}
