package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"skillcheck/internal/cache"
	"skillcheck/internal/domain"
	"skillcheck/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// CachedHistoryStore is a read-through cache in front of a HistoryStore.
// Per-skill histories are cached as JSON; Append invalidates the entry.
// Each key carries a generation bumped by Append, and a load only fills the
// cache when no Append ran while it was reading.
type CachedHistoryStore struct {
	next  domain.HistoryStore
	cache domain.Cache
	ttl   time.Duration
	group singleflight.Group

	mu   sync.Mutex
	gens map[string]uint64
}

func NewCachedHistoryStore(next domain.HistoryStore, c domain.Cache, ttl time.Duration) *CachedHistoryStore {
	return &CachedHistoryStore{next: next, cache: c, ttl: ttl, gens: make(map[string]uint64)}
}

func (s *CachedHistoryStore) generation(key string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gens[key]
}

// fill stores data unless key moved past gen. The lock is held across the
// write so an Append cannot bump and delete in between.
func (s *CachedHistoryStore) fill(ctx context.Context, key string, gen uint64, data string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gens[key] != gen {
		logger.Get().Debug("skipping stale history cache fill", zap.String("key", key))
		return
	}
	if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
		logger.Get().Warn("history cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *CachedHistoryStore) Append(ctx context.Context, record *domain.SessionRecord) error {
	if err := s.next.Append(ctx, record); err != nil {
		return err
	}
	key := cache.HistoryKey(record.UserID, record.Skill)
	s.mu.Lock()
	s.gens[key]++
	s.mu.Unlock()
	if err := s.cache.Delete(ctx, key); err != nil {
		// a stale entry only lives until its TTL
		logger.Get().Warn("history cache invalidation failed", zap.String("key", key), zap.Error(err))
	}
	return nil
}

func (s *CachedHistoryStore) Read(ctx context.Context, userID, skill string) ([]*domain.SessionRecord, error) {
	key := cache.HistoryKey(userID, skill)

	cached, err := s.cache.Get(ctx, key)
	switch {
	case err == nil:
		var records []*domain.SessionRecord
		jsonErr := json.Unmarshal([]byte(cached), &records)
		if jsonErr == nil {
			return records, nil
		}
		logger.Get().Warn("discarding undecodable history cache entry", zap.String("key", key), zap.Error(jsonErr))
	case !errors.Is(err, domain.ErrCacheMiss):
		logger.Get().Warn("history cache read failed", zap.String("key", key), zap.Error(err))
	}

	// loads started before an Append are not shared with readers after it
	gen := s.generation(key)
	v, err, _ := s.group.Do(fmt.Sprintf("%s#%d", key, gen), func() (interface{}, error) {
		records, err := s.next.Read(ctx, userID, skill)
		if err != nil {
			return nil, err
		}
		if data, err := json.Marshal(records); err == nil {
			s.fill(ctx, key, gen, string(data))
		}
		return records, nil
	})
	if err != nil {
		return nil, err
	}
	records, ok := v.([]*domain.SessionRecord)
	if !ok {
		return nil, fmt.Errorf("unexpected type from history load: %T", v)
	}
	return records, nil
}

// ListByUser is not cached.
func (s *CachedHistoryStore) ListByUser(ctx context.Context, userID string) ([]*domain.SessionRecord, error) {
	return s.next.ListByUser(ctx, userID)
}
