// Package session owns the in-memory datasets created by workbook uploads.
// Each upload gets a UUID; queries present it to reach their own data and
// never anyone else's. Datasets expire by TTL and are capped in number.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	apierrors "truccoanalytics/internal/errors"
	"truccoanalytics/pkg/contracts/domain"
)

// Dataset is one upload's sanitized tables plus the derived filter options.
type Dataset struct {
	ID         string
	Workbook   *domain.Workbook
	Filters    domain.FilterOptions
	CreatedAt  time.Time
	lastAccess time.Time
}

// Store is a mutex-guarded in-memory session map with TTL eviction and a
// hard session cap. When full, the least recently accessed dataset is
// evicted to make room.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Dataset

	ttl         time.Duration
	maxSessions int
	logger      *slog.Logger
}

// NewStore creates a session store.
func NewStore(ttl time.Duration, maxSessions int, logger *slog.Logger) *Store {
	return &Store{
		sessions:    make(map[string]*Dataset),
		ttl:         ttl,
		maxSessions: maxSessions,
		logger:      logger.With(slog.String("component", "session_store")),
	}
}

// Put stores a new dataset and returns its session ID.
func (s *Store) Put(ctx context.Context, wb *domain.Workbook, filters domain.FilterOptions) string {
	id := uuid.New().String()
	now := time.Now()

	s.mu.Lock()
	if s.maxSessions > 0 && len(s.sessions) >= s.maxSessions {
		s.evictOldestLocked(ctx)
	}
	s.sessions[id] = &Dataset{
		ID:         id,
		Workbook:   wb,
		Filters:    filters,
		CreatedAt:  now,
		lastAccess: now,
	}
	count := len(s.sessions)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "session created",
		slog.String("session_id", id),
		slog.String("filename", wb.Filename),
		slog.Int("active_sessions", count))

	return id
}

// Get returns the dataset for a session ID, refreshing its access time.
// Expired or unknown sessions return ErrSessionNotFound.
func (s *Store) Get(ctx context.Context, id string) (*Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ds, ok := s.sessions[id]
	if !ok {
		return nil, apierrors.ErrSessionNotFound
	}
	if s.expired(ds, time.Now()) {
		delete(s.sessions, id)
		s.logger.InfoContext(ctx, "session expired on access", slog.String("session_id", id))
		return nil, apierrors.ErrSessionNotFound
	}

	ds.lastAccess = time.Now()
	return ds, nil
}

// Delete removes a session if present.
func (s *Store) Delete(ctx context.Context, id string) {
	s.mu.Lock()
	_, existed := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if existed {
		s.logger.InfoContext(ctx, "session deleted", slog.String("session_id", id))
	}
}

// Count returns the number of live sessions.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// StartJanitor runs periodic TTL eviction until the context is cancelled.
func (s *Store) StartJanitor(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.evictExpired(ctx)
			}
		}
	}()
}

// evictExpired drops every session past its TTL.
func (s *Store) evictExpired(ctx context.Context) {
	now := time.Now()

	s.mu.Lock()
	var evicted []string
	for id, ds := range s.sessions {
		if s.expired(ds, now) {
			delete(s.sessions, id)
			evicted = append(evicted, id)
		}
	}
	s.mu.Unlock()

	for _, id := range evicted {
		s.logger.InfoContext(ctx, "session expired", slog.String("session_id", id))
	}
}

// evictOldestLocked removes the least recently accessed session. Caller
// must hold the write lock.
func (s *Store) evictOldestLocked(ctx context.Context) {
	var oldestID string
	var oldest time.Time

	for id, ds := range s.sessions {
		if oldestID == "" || ds.lastAccess.Before(oldest) {
			oldestID = id
			oldest = ds.lastAccess
		}
	}
	if oldestID != "" {
		delete(s.sessions, oldestID)
		s.logger.WarnContext(ctx, "session evicted, store full",
			slog.String("session_id", oldestID))
	}
}

func (s *Store) expired(ds *Dataset, now time.Time) bool {
	return s.ttl > 0 && now.Sub(ds.lastAccess) > s.ttl
}
