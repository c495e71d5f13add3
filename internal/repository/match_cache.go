package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jomarcello/Signal-Processor/internal/domain/models"
	domrepo "github.com/jomarcello/Signal-Processor/internal/domain/repository"
	"github.com/jomarcello/Signal-Processor/pkg/cache"
	applogger "github.com/jomarcello/Signal-Processor/pkg/logger"
)

const matchKeyPrefix = "match"

// CacheMatchStore keeps subscriber-matcher success bodies in the cache
// backend, keyed by instrument and interval. Backend failures degrade to
// misses: a broken cache slows dispatches down, it never fails them.
type CacheMatchStore struct {
	cache cache.Service
	l     *applogger.Logger
}

func NewCacheMatchStore(c cache.Service, l *applogger.Logger) *CacheMatchStore {
	return &CacheMatchStore{cache: c, l: l}
}

var _ domrepo.MatchCache = (*CacheMatchStore)(nil)

func matchKey(sig models.Signal) string {
	return cache.GenerateKeyWithParams(matchKeyPrefix, sig.Symbol(), sig.Interval())
}

func (s *CacheMatchStore) Get(ctx context.Context, sig models.Signal) (map[string]any, bool) {
	if sig.Symbol() == "" {
		return nil, false
	}

	var raw any
	key := matchKey(sig)
	if err := s.cache.Get(ctx, key, &raw); err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) && s.l != nil {
			s.l.Warn("match cache get failed",
				applogger.String("key", key),
				applogger.Error(err),
			)
		}
		return nil, false
	}

	body, ok := raw.(map[string]any)
	if !ok || len(body) == 0 {
		return nil, false
	}
	return body, true
}

func (s *CacheMatchStore) Set(ctx context.Context, sig models.Signal, body map[string]any, ttl time.Duration) {
	if sig.Symbol() == "" || len(body) == 0 {
		return
	}

	key := matchKey(sig)
	if err := s.cache.Set(ctx, key, body, ttl); err != nil && s.l != nil {
		s.l.Warn("match cache set failed",
			applogger.String("key", key),
			applogger.Error(err),
		)
	}
}
