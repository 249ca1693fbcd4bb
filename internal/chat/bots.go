package chat

import (
	"math/rand"
	"sync"
	"time"

	"codearena-gateway/internal/domain/identity"

	"go.uber.org/zap"
)

// Bot chatter cadence. Each room with at least one human subscriber gets a
// message every 8 to 15 seconds.
const (
	botIntervalMin    = 8 * time.Second
	botIntervalJitter = 7 * time.Second
)

var botPersonas = []identity.Identity{
	{ID: "bot-ada", Username: "ada_bot", Role: identity.RoleUser, Verified: true},
	{ID: "bot-linus", Username: "linus_bot", Role: identity.RoleUser, Verified: true},
	{ID: "bot-grace", Username: "grace_bot", Role: identity.RoleUser, Verified: true},
	{ID: "bot-alan", Username: "alan_bot", Role: identity.RoleUser, Verified: true},
}

var botLines = []string{
	"Anyone up for a practice session tonight?",
	"Just solved that DP problem from last week, the trick is memoizing the state.",
	"Who's joining the next competition?",
	"That graph problem was brutal. Dijkstra with a twist.",
	"Good luck everyone in the upcoming contest!",
	"I think a segment tree is overkill there, a prefix sum works fine.",
	"Does anyone have tips for two-pointer problems?",
	"Check out the new problem set, the medium ones are interesting.",
	"My solution TLE'd on the last test case, time to optimize.",
	"Binary search on the answer works for that one.",
}

// BotSquad generates ambient chat traffic per room. It implements
// PresenceHooks: traffic starts with a room's first subscriber and stops
// with its last.
type BotSquad struct {
	registry *Registry
	logger   *zap.Logger

	mu    sync.Mutex
	stops map[string]chan struct{}

	// interval is swapped in tests for a fast deterministic cadence.
	interval func() time.Duration
}

var _ PresenceHooks = (*BotSquad)(nil)

func NewBotSquad(registry *Registry, logger *zap.Logger) *BotSquad {
	s := &BotSquad{
		registry: registry,
		logger:   logger,
		stops:    make(map[string]chan struct{}),
		interval: func() time.Duration {
			return botIntervalMin + time.Duration(rand.Int63n(int64(botIntervalJitter)))
		},
	}
	registry.SetPresenceHooks(s)
	return s
}

func (s *BotSquad) RoomActive(groupID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, running := s.stops[groupID]; running {
		return
	}
	stop := make(chan struct{})
	s.stops[groupID] = stop
	go s.chatter(groupID, stop)

	s.logger.Debug("bot chatter started", zap.String("group_id", groupID))
}

func (s *BotSquad) RoomIdle(groupID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if stop, running := s.stops[groupID]; running {
		close(stop)
		delete(s.stops, groupID)
		s.logger.Debug("bot chatter stopped", zap.String("group_id", groupID))
	}
}

// Shutdown stops every running bot.
func (s *BotSquad) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for groupID, stop := range s.stops {
		close(stop)
		delete(s.stops, groupID)
	}
}

func (s *BotSquad) chatter(groupID string, stop <-chan struct{}) {
	timer := time.NewTimer(s.interval())
	defer timer.Stop()

	for {
		select {
		case <-stop:
			return
		case <-timer.C:
			persona := botPersonas[rand.Intn(len(botPersonas))]
			line := botLines[rand.Intn(len(botLines))]
			s.registry.Publish(NewMessage(groupID, persona, line))
			timer.Reset(s.interval())
		}
	}
}
