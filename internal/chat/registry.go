// Package chat keeps per-group chat rooms in memory. Messages are ephemeral
// by design: a bounded recent log per room, live fan-out to websocket
// subscribers, nothing durable.
package chat

import (
	"sync"
	"time"

	"codearena-gateway/internal/domain/chat"
	"codearena-gateway/internal/domain/identity"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// maxHistory bounds the per-room recent log.
const maxHistory = 20

// PresenceHooks is notified when a room gains its first subscriber or loses
// its last one. The bot squad uses it to start and stop traffic.
type PresenceHooks interface {
	RoomActive(groupID string)
	RoomIdle(groupID string)
}

type room struct {
	log  []chat.Message
	subs map[chan chat.Message]bool
}

// Registry owns every room. Rooms are created lazily on first touch and are
// never removed; an idle room is just an empty struct.
type Registry struct {
	mu     sync.Mutex
	rooms  map[string]*room
	hooks  PresenceHooks
	logger *zap.Logger
}

func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		rooms:  make(map[string]*room),
		logger: logger,
	}
}

// SetPresenceHooks wires the presence listener. Must be called before the
// first Subscribe.
func (r *Registry) SetPresenceHooks(hooks PresenceHooks) {
	r.hooks = hooks
}

// NewMessage stamps a message with an ID and timestamp.
func NewMessage(groupID string, sender identity.Identity, text string) chat.Message {
	return chat.Message{
		ID:        ulid.Make().String(),
		GroupID:   groupID,
		Sender:    sender,
		Text:      text,
		Timestamp: time.Now(),
	}
}

// Subscribe attaches a listener to a room and returns its delivery channel
// plus an unsubscribe func. The channel is buffered; a subscriber that stops
// draining loses messages rather than blocking the room.
func (r *Registry) Subscribe(groupID string) (<-chan chat.Message, func()) {
	ch := make(chan chat.Message, 64)

	r.mu.Lock()
	rm := r.roomLocked(groupID)
	first := len(rm.subs) == 0
	rm.subs[ch] = true
	r.mu.Unlock()

	if first && r.hooks != nil {
		r.hooks.RoomActive(groupID)
	}

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			r.mu.Lock()
			delete(rm.subs, ch)
			last := len(rm.subs) == 0
			r.mu.Unlock()

			if last && r.hooks != nil {
				r.hooks.RoomIdle(groupID)
			}
		})
	}
	return ch, unsubscribe
}

// Publish appends a message to the room log and fans it out to every
// subscriber.
func (r *Registry) Publish(msg chat.Message) {
	r.mu.Lock()
	rm := r.roomLocked(msg.GroupID)

	rm.log = append(rm.log, msg)
	if len(rm.log) > maxHistory {
		rm.log = rm.log[len(rm.log)-maxHistory:]
	}

	subs := make([]chan chat.Message, 0, len(rm.subs))
	for ch := range rm.subs {
		subs = append(subs, ch)
	}
	r.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- msg:
		default:
			r.logger.Debug("dropping chat message for slow subscriber",
				zap.String("group_id", msg.GroupID))
		}
	}
}

// History returns a copy of the room's recent log, oldest first.
func (r *Registry) History(groupID string) []chat.Message {
	r.mu.Lock()
	defer r.mu.Unlock()

	rm := r.roomLocked(groupID)
	out := make([]chat.Message, len(rm.log))
	copy(out, rm.log)
	return out
}

// Subscribers reports how many listeners a room currently has.
func (r *Registry) Subscribers(groupID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.roomLocked(groupID).subs)
}

var welcomeSender = identity.Identity{ID: "bot-arena", Username: "arena_bot", Role: identity.RoleUser, Verified: true}

func (r *Registry) roomLocked(groupID string) *room {
	rm, ok := r.rooms[groupID]
	if !ok {
		rm = &room{subs: make(map[chan chat.Message]bool)}
		rm.log = append(rm.log, NewMessage(groupID, welcomeSender, "Welcome to the group chat!"))
		r.rooms[groupID] = rm
	}
	return rm
}
