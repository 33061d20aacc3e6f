package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"skillcheck/internal/cache"
	"skillcheck/internal/domain"
)

// CacheSessionStore keeps in-flight sessions as JSON in a domain.Cache, one
// key per user, so that a new session replaces the old one.
type CacheSessionStore struct {
	cache domain.Cache
	ttl   time.Duration
}

func NewCacheSessionStore(c domain.Cache, ttl time.Duration) *CacheSessionStore {
	return &CacheSessionStore{cache: c, ttl: ttl}
}

func (s *CacheSessionStore) Save(ctx context.Context, session *domain.ActiveSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.cache.Set(ctx, cache.SessionKey(session.UserID), string(data), s.ttl); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *CacheSessionStore) Load(ctx context.Context, userID string) (*domain.ActiveSession, error) {
	data, err := s.cache.Get(ctx, cache.SessionKey(userID))
	if errors.Is(err, domain.ErrCacheMiss) {
		return nil, domain.NewSessionNotFoundError(userID)
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var session domain.ActiveSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &session, nil
}

func (s *CacheSessionStore) Delete(ctx context.Context, userID string) error {
	return s.cache.Delete(ctx, cache.SessionKey(userID))
}
