package service

import (
	"fmt"
	"sync"
	"testing"

	"github.com/lalith-99/flockr/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run with -race. Every goroutine registers, joins, sends and reacts through
// one Services, so ids come from the shared counter under contention.
func TestConcurrentUsersKeepIDsAndMembershipConsistent(t *testing.T) {
	const workers = 40

	svc, _ := newTestServices(t)
	admin := register(t, svc, "admin@example.com", "Admin")
	ch := createChannel(t, svc, admin.UserID, "general", true)
	seed := send(t, svc, admin.UserID, ch, "seed")

	var (
		mu         sync.Mutex
		userIDs    []int
		messageIDs []int
		errs       []error
		wg         sync.WaitGroup
	)
	fail := func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			res, err := svc.Identity.Register(ctx, fmt.Sprintf("user%d@example.com", i), "password1", "Worker", "Bee")
			if err != nil {
				fail(err)
				return
			}
			if err := svc.Channels.Join(ctx, res.UserID, ch); err != nil {
				fail(err)
				return
			}
			id, err := svc.Messages.Send(ctx, res.UserID, ch, fmt.Sprintf("hello from %d", i))
			if err != nil {
				fail(err)
				return
			}
			if err := svc.Messages.React(ctx, res.UserID, seed, models.ReactThumbsUp); err != nil {
				fail(err)
				return
			}

			mu.Lock()
			userIDs = append(userIDs, res.UserID)
			messageIDs = append(messageIDs, id)
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	require.Empty(t, errs)
	require.Len(t, userIDs, workers)
	require.Len(t, messageIDs, workers)

	seen := map[int]bool{admin.UserID: true, ch: true, seed: true}
	for _, id := range append(append([]int{}, userIDs...), messageIDs...) {
		assert.False(t, seen[id], "id %d handed out twice", id)
		seen[id] = true
	}

	page, err := svc.Query.ChannelMessages(ctx, admin.UserID, ch, 0)
	require.NoError(t, err)
	assert.Len(t, page.Messages, workers+1)

	details, err := svc.Query.ChannelDetails(ctx, admin.UserID, ch)
	require.NoError(t, err)
	assert.Len(t, details.AllMembers, workers)

	var reacted []int
	for _, m := range page.Messages {
		if m.ID == seed {
			require.Len(t, m.Reacts, 1)
			reacted = m.Reacts[0].UserIDs
		}
	}
	assert.ElementsMatch(t, userIDs, reacted)

	handles := map[string]bool{}
	for _, u := range svc.Query.ListUsers(ctx) {
		assert.False(t, handles[u.Handle], "handle %q handed out twice", u.Handle)
		handles[u.Handle] = true
	}
	assert.Len(t, handles, workers+1)
}
