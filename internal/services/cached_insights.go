package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"taskflow/internal/cache"
	"taskflow/internal/clock"

	"github.com/gofrs/uuid"
)

// CachedInsightService memoizes analytics per user and day. Any task or
// project change for the user drops the entries through InvalidateUser.
type CachedInsightService struct {
	insights InsightProvider
	cache    cache.Cache
	clock    clock.Clock
	ttl      time.Duration
}

func NewCachedInsightService(insights InsightProvider, c cache.Cache, clk clock.Clock, ttl time.Duration) *CachedInsightService {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &CachedInsightService{insights: insights, cache: c, clock: clk, ttl: ttl}
}

func userPrefix(userID uuid.UUID) string {
	return fmt.Sprintf("analytics:%s:", userID.String())
}

func (s *CachedInsightService) key(userID uuid.UUID) string {
	return userPrefix(userID) + clock.FormatDate(s.clock.Now())
}

func (s *CachedInsightService) Insights(ctx context.Context, userID uuid.UUID) (*Insights, error) {
	key := s.key(userID)

	var cached Insights
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	result, err := s.insights.Insights(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, result, s.ttl); err != nil {
		log.Printf("insights: cache set %s: %v", key, err)
	}
	return result, nil
}

func (s *CachedInsightService) InvalidateUser(ctx context.Context, userID uuid.UUID) {
	if err := s.cache.DeletePrefix(ctx, userPrefix(userID)); err != nil {
		log.Printf("insights: invalidate %s: %v", userID, err)
	}
}

func (s *CachedInsightService) Stats() map[string]interface{} {
	return s.cache.Stats()
}
