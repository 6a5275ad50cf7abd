package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"azellar-portal/internal/infrastructure/cache"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found")

// Record is the server-side half of a browser session.
type Record struct {
	ID           string    `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}

func (r Record) identity() *Identity {
	return &Identity{ID: r.UserID, Email: r.Email, FullName: r.FullName}
}

type Repository interface {
	Get(ctx context.Context, id string) (Record, error)
	Save(ctx context.Context, rec Record, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// NewRepository stores sessions in Redis when it is reachable and in process
// memory otherwise.
func NewRepository(rdb *cache.Redis) Repository {
	if rdb.Available() {
		return &RedisRepository{rdb: rdb}
	}
	return NewMemoryRepository()
}

type RedisRepository struct {
	rdb *cache.Redis
}

func sessionKey(id string) string {
	return "session:" + id
}

func (r *RedisRepository) Get(ctx context.Context, id string) (Record, error) {
	var rec Record
	hit, err := r.rdb.GetJSON(ctx, sessionKey(id), &rec)
	if err != nil {
		return Record{}, err
	}
	if !hit {
		return Record{}, ErrSessionNotFound
	}
	return rec, nil
}

func (r *RedisRepository) Save(ctx context.Context, rec Record, ttl time.Duration) error {
	if !r.rdb.Available() {
		return cache.ErrUnavailable
	}
	return r.rdb.SetJSON(ctx, sessionKey(rec.ID), rec, ttl)
}

func (r *RedisRepository) Delete(ctx context.Context, id string) error {
	return r.rdb.Delete(ctx, sessionKey(id))
}

type memoryEntry struct {
	rec     Record
	expires time.Time
}

type MemoryRepository struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{entries: make(map[string]memoryEntry), now: time.Now}
}

func (m *MemoryRepository) Get(_ context.Context, id string) (Record, error) {
	m.mu.RLock()
	e, ok := m.entries[id]
	m.mu.RUnlock()
	if !ok {
		return Record{}, ErrSessionNotFound
	}
	if !e.expires.IsZero() && m.now().After(e.expires) {
		m.mu.Lock()
		delete(m.entries, id)
		m.mu.Unlock()
		return Record{}, ErrSessionNotFound
	}
	return e.rec, nil
}

func (m *MemoryRepository) Save(_ context.Context, rec Record, ttl time.Duration) error {
	var exp time.Time
	if ttl > 0 {
		exp = m.now().Add(ttl)
	}
	m.mu.Lock()
	m.entries[rec.ID] = memoryEntry{rec: rec, expires: exp}
	m.mu.Unlock()
	return nil
}

func (m *MemoryRepository) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.entries, id)
	m.mu.Unlock()
	return nil
}
