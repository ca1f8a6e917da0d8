package auth

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value   time.Time // revocation time
	expires time.Time // zero means never
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expires.IsZero() && now.After(e.expires)
}

// InMemoryTokenBlacklist keeps revocations in process memory under the same
// keys the Redis blacklist uses. Expired entries are dropped when read.
type InMemoryTokenBlacklist struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string]memoryEntry
}

var _ TokenBlacklist = (*InMemoryTokenBlacklist)(nil)

func NewInMemoryTokenBlacklist() *InMemoryTokenBlacklist {
	return &InMemoryTokenBlacklist{now: time.Now, entries: make(map[string]memoryEntry)}
}

func (b *InMemoryTokenBlacklist) put(key string, ttl time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	e := memoryEntry{value: now}
	if ttl > 0 {
		e.expires = now.Add(ttl)
	}
	b.entries[key] = e
}

func (b *InMemoryTokenBlacklist) get(key string) (memoryEntry, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.entries[key]
	if ok && e.expired(b.now()) {
		delete(b.entries, key)
		return memoryEntry{}, false
	}
	return e, ok
}

func (b *InMemoryTokenBlacklist) AddToBlacklist(_ context.Context, jti string, ttl time.Duration) error {
	if ttl > 0 {
		b.put(jtiKey(jti), ttl)
	}
	return nil
}

func (b *InMemoryTokenBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	_, ok := b.get(jtiKey(jti))
	return ok, nil
}

func (b *InMemoryTokenBlacklist) AddUserTokensToBlacklist(_ context.Context, userID string, ttl time.Duration) error {
	b.put(userKey(userID), ttl)
	return nil
}

func (b *InMemoryTokenBlacklist) IsUserTokenInvalidated(_ context.Context, userID string, tokenIssuedAt time.Time) (bool, error) {
	e, ok := b.get(userKey(userID))
	return ok && tokenIssuedAt.Unix() <= e.value.Unix(), nil
}
