package stores

import (
	"container/list"
	"sync"
	"time"

	"github.com/AtRiskMedia/crosstrace-go/internal/domain/insights"
	"github.com/AtRiskMedia/crosstrace-go/internal/infrastructure/caching/types"
	"github.com/AtRiskMedia/crosstrace-go/internal/infrastructure/observability/logging"
)

// InsightsStore caches computed cross-session insights per fingerprint.
// Entries live until the journey changes or TTL/LRU eviction removes them.
type InsightsStore struct {
	entries  map[string]*list.Element
	recency  *list.List
	capacity int
	ttl      time.Duration
	mu       sync.Mutex
	logger   *logging.ChanneledLogger
}

// NewInsightsStore creates an insights cache store with the given bounds.
func NewInsightsStore(capacity int, ttl time.Duration, logger *logging.ChanneledLogger) *InsightsStore {
	if logger != nil {
		logger.Cache().Info("Initializing insights cache store", "capacity", capacity, "ttl", ttl)
	}
	return &InsightsStore{
		entries:  make(map[string]*list.Element),
		recency:  list.New(),
		capacity: capacity,
		ttl:      ttl,
		logger:   logger,
	}
}

// Get retrieves cached insights and refreshes their recency.
func (s *InsightsStore) Get(fingerprintID string) (*insights.CrossSessionInsights, bool) {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	el, found := s.entries[fingerprintID]
	if !found {
		if s.logger != nil {
			s.logger.LogCacheOperation("get_insights", fingerprintID, false, time.Since(start))
		}
		return nil, false
	}

	entry := el.Value.(*types.InsightEntry)
	if s.ttl > 0 && time.Since(entry.CachedAt) > s.ttl {
		s.recency.Remove(el)
		delete(s.entries, fingerprintID)
		if s.logger != nil {
			s.logger.Cache().Debug("Cache operation", "operation", "get_insights", "key", fingerprintID, "hit", false, "reason", "expired", "duration", time.Since(start))
		}
		return nil, false
	}

	s.recency.MoveToFront(el)
	if s.logger != nil {
		s.logger.LogCacheOperation("get_insights", fingerprintID, true, time.Since(start))
	}
	return entry.Insights, true
}

// Set stores a computed insight, evicting the least recently used entry when full.
func (s *InsightsStore) Set(result *insights.CrossSessionInsights) {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if el, exists := s.entries[result.FingerprintID]; exists {
		entry := el.Value.(*types.InsightEntry)
		entry.Insights = result
		entry.CachedAt = now
		s.recency.MoveToFront(el)
	} else {
		el := s.recency.PushFront(&types.InsightEntry{
			FingerprintID: result.FingerprintID,
			Insights:      result,
			CachedAt:      now,
		})
		s.entries[result.FingerprintID] = el
		s.evictOverCapacity()
	}

	if s.logger != nil {
		s.logger.Cache().Debug("Cache operation", "operation", "set_insights", "key", result.FingerprintID, "duration", time.Since(start))
	}
}

// Invalidate drops one fingerprint's cached insights.
func (s *InsightsStore) Invalidate(fingerprintID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if el, exists := s.entries[fingerprintID]; exists {
		s.recency.Remove(el)
		delete(s.entries, fingerprintID)
		if s.logger != nil {
			s.logger.Cache().Debug("Cache operation", "operation", "invalidate_insights", "key", fingerprintID)
		}
	}
}

// PurgeExpired removes all TTL-expired entries.
func (s *InsightsStore) PurgeExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ttl <= 0 {
		return 0
	}

	var purged int
	for key, el := range s.entries {
		entry := el.Value.(*types.InsightEntry)
		if time.Since(entry.CachedAt) > s.ttl {
			s.recency.Remove(el)
			delete(s.entries, key)
			purged++
		}
	}
	return purged
}

// Len reports the current entry count.
func (s *InsightsStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *InsightsStore) evictOverCapacity() {
	for s.capacity > 0 && len(s.entries) > s.capacity {
		oldest := s.recency.Back()
		if oldest == nil {
			return
		}
		entry := oldest.Value.(*types.InsightEntry)
		s.recency.Remove(oldest)
		delete(s.entries, entry.FingerprintID)
		if s.logger != nil {
			s.logger.Cache().Debug("Cache operation", "operation", "evict_insights", "key", entry.FingerprintID, "reason", "capacity")
		}
	}
}
