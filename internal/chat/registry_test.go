package chat

import (
	"fmt"
	"testing"
	"time"

	"codearena-gateway/internal/domain/identity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sender() identity.Identity {
	return identity.Identity{ID: "u-1", Username: "alice", Role: identity.RoleUser}
}

func TestPublishDeliversToSubscribers(t *testing.T) {
	r := NewRegistry(zap.NewNop())

	ch, unsubscribe := r.Subscribe("g-1")
	defer unsubscribe()

	msg := NewMessage("g-1", sender(), "hello")
	r.Publish(msg)

	select {
	case got := <-ch:
		assert.Equal(t, msg.ID, got.ID)
		assert.Equal(t, "hello", got.Text)
		assert.Equal(t, "alice", got.Sender.Username)
	case <-time.After(time.Second):
		t.Fatal("message not delivered")
	}
}

func TestPublishIsScopedToRoom(t *testing.T) {
	r := NewRegistry(zap.NewNop())

	ch, unsubscribe := r.Subscribe("g-1")
	defer unsubscribe()

	r.Publish(NewMessage("g-2", sender(), "elsewhere"))

	select {
	case <-ch:
		t.Fatal("message leaked across rooms")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHistoryIsBounded(t *testing.T) {
	r := NewRegistry(zap.NewNop())

	for i := 0; i < maxHistory+10; i++ {
		r.Publish(NewMessage("g-1", sender(), fmt.Sprintf("msg %d", i)))
	}

	history := r.History("g-1")
	require.Len(t, history, maxHistory)
	assert.Equal(t, fmt.Sprintf("msg %d", 10), history[0].Text, "oldest messages are evicted first")
	assert.Equal(t, fmt.Sprintf("msg %d", maxHistory+9), history[len(history)-1].Text)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	r := NewRegistry(zap.NewNop())

	ch, unsubscribe := r.Subscribe("g-1")
	unsubscribe()
	unsubscribe() // idempotent

	r.Publish(NewMessage("g-1", sender(), "after"))

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("delivery after unsubscribe")
		}
	case <-time.After(50 * time.Millisecond):
	}
	assert.Equal(t, 0, r.Subscribers("g-1"))
}

type recordingHooks struct {
	active chan string
	idle   chan string
}

func newRecordingHooks() *recordingHooks {
	return &recordingHooks{active: make(chan string, 8), idle: make(chan string, 8)}
}

func (h *recordingHooks) RoomActive(groupID string) { h.active <- groupID }
func (h *recordingHooks) RoomIdle(groupID string)   { h.idle <- groupID }

func TestPresenceHooksFireOnFirstAndLast(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	hooks := newRecordingHooks()
	r.SetPresenceHooks(hooks)

	_, unsub1 := r.Subscribe("g-1")
	_, unsub2 := r.Subscribe("g-1")

	select {
	case got := <-hooks.active:
		assert.Equal(t, "g-1", got)
	case <-time.After(time.Second):
		t.Fatal("RoomActive not fired")
	}
	select {
	case <-hooks.active:
		t.Fatal("RoomActive fired for a second subscriber")
	default:
	}

	unsub1()
	select {
	case <-hooks.idle:
		t.Fatal("RoomIdle fired while a subscriber remains")
	default:
	}

	unsub2()
	select {
	case got := <-hooks.idle:
		assert.Equal(t, "g-1", got)
	case <-time.After(time.Second):
		t.Fatal("RoomIdle not fired")
	}
}

func TestBotSquadGeneratesTrafficWhileRoomIsActive(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	bots := NewBotSquad(r, zap.NewNop())
	bots.interval = func() time.Duration { return 5 * time.Millisecond }

	ch, unsubscribe := r.Subscribe("g-1")

	var got []string
	deadline := time.After(2 * time.Second)
	for len(got) < 3 {
		select {
		case msg := <-ch:
			got = append(got, msg.Sender.ID)
		case <-deadline:
			t.Fatal("bot traffic never arrived")
		}
	}
	for _, id := range got {
		assert.Contains(t, id, "bot-")
	}

	unsubscribe()
	bots.Shutdown()
}

func TestBotSquadStopsWhenRoomGoesIdle(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	bots := NewBotSquad(r, zap.NewNop())
	bots.interval = func() time.Duration { return 5 * time.Millisecond }

	ch, unsubscribe := r.Subscribe("g-1")

	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("no bot traffic")
	}

	unsubscribe()
	// Give any in-flight bot message time to land, then verify silence.
	time.Sleep(30 * time.Millisecond)
	before := len(r.History("g-1"))
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, before, len(r.History("g-1")), "bots must stop after the last subscriber leaves")
}
