package stores

import (
	"container/list"
	"sync"
	"time"

	"github.com/AtRiskMedia/crosstrace-go/internal/domain/sessions"
	"github.com/AtRiskMedia/crosstrace-go/internal/infrastructure/caching/types"
	"github.com/AtRiskMedia/crosstrace-go/internal/infrastructure/observability/logging"
)

// CorrelationsStore memoizes filtered correlation lookups per fingerprint.
// Only authoritative results land here; degraded fallbacks are never cached
// so a recovered correlation service is picked up on the next call.
type CorrelationsStore struct {
	entries  map[string]*list.Element
	recency  *list.List
	capacity int
	ttl      time.Duration
	mu       sync.Mutex
	logger   *logging.ChanneledLogger
}

// NewCorrelationsStore creates a correlations cache store with the given bounds.
func NewCorrelationsStore(capacity int, ttl time.Duration, logger *logging.ChanneledLogger) *CorrelationsStore {
	if logger != nil {
		logger.Cache().Info("Initializing correlations cache store", "capacity", capacity, "ttl", ttl)
	}
	return &CorrelationsStore{
		entries:  make(map[string]*list.Element),
		recency:  list.New(),
		capacity: capacity,
		ttl:      ttl,
		logger:   logger,
	}
}

// Get retrieves cached correlations and refreshes their recency.
func (s *CorrelationsStore) Get(fingerprintID string) ([]sessions.SessionCorrelation, bool) {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	el, found := s.entries[fingerprintID]
	if !found {
		if s.logger != nil {
			s.logger.LogCacheOperation("get_correlations", fingerprintID, false, time.Since(start))
		}
		return nil, false
	}

	entry := el.Value.(*types.CorrelationEntry)
	if s.ttl > 0 && time.Since(entry.CachedAt) > s.ttl {
		s.recency.Remove(el)
		delete(s.entries, fingerprintID)
		if s.logger != nil {
			s.logger.Cache().Debug("Cache operation", "operation", "get_correlations", "key", fingerprintID, "hit", false, "reason", "expired", "duration", time.Since(start))
		}
		return nil, false
	}

	s.recency.MoveToFront(el)
	if s.logger != nil {
		s.logger.LogCacheOperation("get_correlations", fingerprintID, true, time.Since(start))
	}
	return entry.Correlations, true
}

// Set stores a correlation list, evicting the least recently used entry when full.
func (s *CorrelationsStore) Set(fingerprintID string, correlations []sessions.SessionCorrelation) {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if el, exists := s.entries[fingerprintID]; exists {
		entry := el.Value.(*types.CorrelationEntry)
		entry.Correlations = correlations
		entry.CachedAt = now
		s.recency.MoveToFront(el)
	} else {
		el := s.recency.PushFront(&types.CorrelationEntry{
			FingerprintID: fingerprintID,
			Correlations:  correlations,
			CachedAt:      now,
		})
		s.entries[fingerprintID] = el
		s.evictOverCapacity()
	}

	if s.logger != nil {
		s.logger.Cache().Debug("Cache operation", "operation", "set_correlations", "key", fingerprintID, "count", len(correlations), "duration", time.Since(start))
	}
}

// Invalidate drops one fingerprint's cached correlations.
func (s *CorrelationsStore) Invalidate(fingerprintID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if el, exists := s.entries[fingerprintID]; exists {
		s.recency.Remove(el)
		delete(s.entries, fingerprintID)
		if s.logger != nil {
			s.logger.Cache().Debug("Cache operation", "operation", "invalidate_correlations", "key", fingerprintID)
		}
	}
}

// PurgeExpired removes all TTL-expired entries.
func (s *CorrelationsStore) PurgeExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ttl <= 0 {
		return 0
	}

	var purged int
	for key, el := range s.entries {
		entry := el.Value.(*types.CorrelationEntry)
		if time.Since(entry.CachedAt) > s.ttl {
			s.recency.Remove(el)
			delete(s.entries, key)
			purged++
		}
	}
	return purged
}

// Len reports the current entry count.
func (s *CorrelationsStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *CorrelationsStore) evictOverCapacity() {
	for s.capacity > 0 && len(s.entries) > s.capacity {
		oldest := s.recency.Back()
		if oldest == nil {
			return
		}
		entry := oldest.Value.(*types.CorrelationEntry)
		s.recency.Remove(oldest)
		delete(s.entries, entry.FingerprintID)
		if s.logger != nil {
			s.logger.Cache().Debug("Cache operation", "operation", "evict_correlations", "key", entry.FingerprintID, "reason", "capacity")
		}
	}
}
