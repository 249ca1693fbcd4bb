package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Manager owns one Store per gateway session and the persisted copies in
// Redis. Stores live in memory for the process lifetime; Redis only carries
// the provisional last-known identity across reloads and restarts.
type Manager struct {
	mu     sync.RWMutex
	stores map[string]*Store

	cache  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewManager(cache *redis.Client, ttl time.Duration, logger *zap.Logger) *Manager {
	return &Manager{
		stores: make(map[string]*Store),
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

// NewSessionID mints a gateway session ID.
func NewSessionID() string {
	return ulid.Make().String()
}

// Get returns the Store for a gateway session, creating it on first contact.
// A freshly created store is seeded with the persisted provisional copy when
// one exists.
func (m *Manager) Get(ctx context.Context, sid string) *Store {
	m.mu.RLock()
	store, ok := m.stores[sid]
	m.mu.RUnlock()
	if ok {
		return store
	}

	m.mu.Lock()
	if store, ok = m.stores[sid]; ok {
		m.mu.Unlock()
		return store
	}
	store = NewStore()
	m.stores[sid] = store
	m.mu.Unlock()

	if persisted := m.restore(ctx, sid); persisted != nil && persisted.Identity != nil {
		store.RestoreProvisional(persisted.Identity)
	}
	return store
}

// Persist writes the non-sensitive session copy. Failures are logged, not
// fatal: the persisted copy is an optimization, never the source of truth.
func (m *Manager) Persist(ctx context.Context, sid string, snap Snapshot) {
	if m.cache == nil || snap.Identity == nil {
		return
	}

	data, err := json.Marshal(PersistedSession{Identity: snap.Identity, SavedAt: time.Now()})
	if err != nil {
		m.logger.Error("failed to marshal persisted session", zap.Error(err))
		return
	}
	if err := m.cache.Set(ctx, m.sessionKey(sid), data, m.ttl).Err(); err != nil {
		m.logger.Warn("failed to persist session copy", zap.String("sid", sid), zap.Error(err))
	}
}

// Purge removes the persisted copy. Called unconditionally on logout.
func (m *Manager) Purge(ctx context.Context, sid string) {
	if m.cache == nil {
		return
	}
	if err := m.cache.Del(ctx, m.sessionKey(sid)).Err(); err != nil {
		m.logger.Warn("failed to purge session copy", zap.String("sid", sid), zap.Error(err))
	}
}

func (m *Manager) restore(ctx context.Context, sid string) *PersistedSession {
	if m.cache == nil {
		return nil
	}

	data, err := m.cache.Get(ctx, m.sessionKey(sid)).Bytes()
	if err != nil {
		if err != redis.Nil {
			m.logger.Warn("failed to restore session copy", zap.String("sid", sid), zap.Error(err))
		}
		return nil
	}

	var persisted PersistedSession
	if err := json.Unmarshal(data, &persisted); err != nil {
		m.logger.Warn("corrupt persisted session copy, ignoring", zap.String("sid", sid), zap.Error(err))
		return nil
	}
	return &persisted
}

func (m *Manager) sessionKey(sid string) string {
	return fmt.Sprintf("gwsession:%s", sid)
}
