// Package stores provides the concrete bounded cache store implementations.
// Each store is an LRU map with TTL expiry, safe for concurrent use so the
// engine can be embedded in a multi-request server.
package stores

import (
	"container/list"
	"sync"
	"time"

	"github.com/AtRiskMedia/crosstrace-go/internal/domain/sessions"
	"github.com/AtRiskMedia/crosstrace-go/internal/infrastructure/caching/types"
	"github.com/AtRiskMedia/crosstrace-go/internal/infrastructure/observability/logging"
)

// JourneysStore caches user journeys per fingerprint.
type JourneysStore struct {
	entries  map[string]*list.Element
	recency  *list.List // front = most recently used
	capacity int
	ttl      time.Duration
	mu       sync.Mutex
	logger   *logging.ChanneledLogger
}

// NewJourneysStore creates a journeys cache store with the given bounds.
func NewJourneysStore(capacity int, ttl time.Duration, logger *logging.ChanneledLogger) *JourneysStore {
	if logger != nil {
		logger.Cache().Info("Initializing journeys cache store", "capacity", capacity, "ttl", ttl)
	}
	return &JourneysStore{
		entries:  make(map[string]*list.Element),
		recency:  list.New(),
		capacity: capacity,
		ttl:      ttl,
		logger:   logger,
	}
}

// Get retrieves a cached journey and refreshes its recency.
func (s *JourneysStore) Get(fingerprintID string) (*sessions.UserJourney, bool) {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	el, found := s.entries[fingerprintID]
	if !found {
		if s.logger != nil {
			s.logger.LogCacheOperation("get_journey", fingerprintID, false, time.Since(start))
		}
		return nil, false
	}

	entry := el.Value.(*types.JourneyEntry)
	if s.ttl > 0 && time.Since(entry.CachedAt) > s.ttl {
		s.recency.Remove(el)
		delete(s.entries, fingerprintID)
		if s.logger != nil {
			s.logger.Cache().Debug("Cache operation", "operation", "get_journey", "key", fingerprintID, "hit", false, "reason", "expired", "duration", time.Since(start))
		}
		return nil, false
	}

	s.recency.MoveToFront(el)
	if s.logger != nil {
		s.logger.LogCacheOperation("get_journey", fingerprintID, true, time.Since(start))
	}
	return entry.Journey, true
}

// Set stores a journey, evicting the least recently used entry when full.
func (s *JourneysStore) Set(journey *sessions.UserJourney) {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if el, exists := s.entries[journey.FingerprintID]; exists {
		entry := el.Value.(*types.JourneyEntry)
		entry.Journey = journey
		entry.CachedAt = now
		s.recency.MoveToFront(el)
	} else {
		el := s.recency.PushFront(&types.JourneyEntry{
			FingerprintID: journey.FingerprintID,
			Journey:       journey,
			CachedAt:      now,
		})
		s.entries[journey.FingerprintID] = el
		s.evictOverCapacity()
	}

	if s.logger != nil {
		s.logger.Cache().Debug("Cache operation", "operation", "set_journey", "key", journey.FingerprintID, "sessions", journey.SessionCount(), "duration", time.Since(start))
	}
}

// Invalidate drops one fingerprint's cached journey.
func (s *JourneysStore) Invalidate(fingerprintID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if el, exists := s.entries[fingerprintID]; exists {
		s.recency.Remove(el)
		delete(s.entries, fingerprintID)
		if s.logger != nil {
			s.logger.Cache().Debug("Cache operation", "operation", "invalidate_journey", "key", fingerprintID)
		}
	}
}

// PurgeExpired removes all TTL-expired entries.
func (s *JourneysStore) PurgeExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ttl <= 0 {
		return 0
	}

	var purged int
	for key, el := range s.entries {
		entry := el.Value.(*types.JourneyEntry)
		if time.Since(entry.CachedAt) > s.ttl {
			s.recency.Remove(el)
			delete(s.entries, key)
			purged++
		}
	}
	return purged
}

// Len reports the current entry count.
func (s *JourneysStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// evictOverCapacity drops least recently used entries. Caller holds the lock.
func (s *JourneysStore) evictOverCapacity() {
	for s.capacity > 0 && len(s.entries) > s.capacity {
		oldest := s.recency.Back()
		if oldest == nil {
			return
		}
		entry := oldest.Value.(*types.JourneyEntry)
		s.recency.Remove(oldest)
		delete(s.entries, entry.FingerprintID)
		if s.logger != nil {
			s.logger.Cache().Debug("Cache operation", "operation", "evict_journey", "key", entry.FingerprintID, "reason", "capacity")
		}
	}
}
