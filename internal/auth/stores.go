package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spigell/jobmatch/internal/users"
)

type memoryEntry struct {
	id      users.Identity
	expires time.Time
}

// MemoryStore keeps sessions in process memory.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]memoryEntry), now: time.Now}
}

func (m *MemoryStore) Save(_ context.Context, token string, id users.Identity, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[token] = memoryEntry{id: id, expires: m.now().Add(ttl)}
	return nil
}

func (m *MemoryStore) Load(_ context.Context, token string) (users.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.sessions[token]
	if !ok {
		return users.Identity{}, ErrSessionNotFound
	}
	if !m.now().Before(entry.expires) {
		delete(m.sessions, token)
		return users.Identity{}, ErrSessionNotFound
	}
	return entry.id, nil
}

func (m *MemoryStore) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}

// RedisStore keeps sessions as expiring JSON values.
type RedisStore struct {
	rdb redis.UniversalClient
}

func NewRedisStore(rdb redis.UniversalClient) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func sessionKey(token string) string { return "session:" + token }

func (r *RedisStore) Save(ctx context.Context, token string, id users.Identity, ttl time.Duration) error {
	raw, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return r.rdb.Set(ctx, sessionKey(token), raw, ttl).Err()
}

func (r *RedisStore) Load(ctx context.Context, token string) (users.Identity, error) {
	raw, err := r.rdb.Get(ctx, sessionKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return users.Identity{}, ErrSessionNotFound
	}
	if err != nil {
		return users.Identity{}, err
	}

	var id users.Identity
	if err := json.Unmarshal(raw, &id); err != nil {
		return users.Identity{}, fmt.Errorf("decode session: %w", err)
	}
	return id, nil
}

func (r *RedisStore) Delete(ctx context.Context, token string) error {
	return r.rdb.Del(ctx, sessionKey(token)).Err()
}
