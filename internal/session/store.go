package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mergington/portal-gateway/internal/models"
)

// ErrNoRecord is returned when the store holds nothing for the session id.
var ErrNoRecord = fmt.Errorf("session: no record")

// ErrCorrupt is returned when a stored record cannot be decoded. Callers
// treat it as anonymous; the corrupt entry is discarded.
var ErrCorrupt = fmt.Errorf("session: corrupt record")

// Store persists session records under the single well-known key per session.
type Store interface {
	Get(ctx context.Context, id string) (*models.Session, error)
	Save(ctx context.Context, s *models.Session) error
	Delete(ctx context.Context, id string) error
}

const redisKeyPrefix = "portal:session:"

// RedisStore keeps session records in Redis with a TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisStore constructs a redis-backed store.
func NewRedisStore(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisStore{client: client, ttl: ttl, logger: logger}
}

func (r *RedisStore) Get(ctx context.Context, id string) (*models.Session, error) {
	raw, err := r.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNoRecord
		}
		return nil, fmt.Errorf("redis get session %s: %w", id, err)
	}

	var sess models.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		// unreadable records are dropped, not surfaced
		r.logger.Warn("discarding corrupt session record", zap.String("session_id", id), zap.Error(err))
		_ = r.client.Del(ctx, redisKeyPrefix+id).Err()
		return nil, ErrCorrupt
	}
	return &sess, nil
}

func (r *RedisStore) Save(ctx context.Context, s *models.Session) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", s.ID, err)
	}
	if err := r.client.Set(ctx, redisKeyPrefix+s.ID, payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set session %s: %w", s.ID, err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, redisKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("redis delete session %s: %w", id, err)
	}
	return nil
}

// MemoryStore is the in-process Store used by tests.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string][]byte
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string][]byte)}
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.records[id]
	if !ok {
		return nil, ErrNoRecord
	}
	var sess models.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		delete(m.records, id)
		return nil, ErrCorrupt
	}
	return &sess, nil
}

func (m *MemoryStore) Save(ctx context.Context, s *models.Session) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[s.ID] = payload
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, id)
	return nil
}

// Corrupt overwrites a record with undecodable bytes, for tests.
func (m *MemoryStore) Corrupt(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[id] = []byte("{not json")
}
