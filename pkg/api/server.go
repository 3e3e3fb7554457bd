package api

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/regipulse/regipulse/pkg/analytics"
	"github.com/regipulse/regipulse/pkg/datasource"
	"github.com/regipulse/regipulse/pkg/observability"
	"github.com/regipulse/regipulse/pkg/registrations"
	"github.com/regipulse/regipulse/pkg/resultcache"
)

// Server serves the analytics API over a registration dataset.
//
// The dataset is held in memory and swapped atomically on Refresh, so
// handlers always observe a consistent snapshot. Computed results are
// memoized per dataset fingerprint; a refresh that changes the data
// naturally changes every fingerprint and leaves stale entries to expire.
type Server struct {
	provider datasource.Provider
	logger   *observability.Logger
	metrics  *observability.Metrics

	mu          sync.RWMutex
	table       registrations.Table
	refreshedAt time.Time

	growthCache      *resultcache.Cache[[]analytics.PeriodRecord]
	compositionCache *resultcache.Cache[*analytics.Composition]
	seasonalityCache *resultcache.Cache[*analytics.SeasonalityReport]
	insightsCache    *resultcache.Cache[[]string]
}

// NewServer creates an API server backed by the given data provider.
// A nil cache config uses resultcache defaults.
func NewServer(provider datasource.Provider, cacheCfg *resultcache.Config, logger *observability.Logger, metrics *observability.Metrics) *Server {
	if cacheCfg == nil {
		cacheCfg = resultcache.DefaultConfig()
	}
	return &Server{
		provider:         provider,
		logger:           logger,
		metrics:          metrics,
		growthCache:      resultcache.New[[]analytics.PeriodRecord](cacheCfg),
		compositionCache: resultcache.New[*analytics.Composition](cacheCfg),
		seasonalityCache: resultcache.New[*analytics.SeasonalityReport](cacheCfg),
		insightsCache:    resultcache.New[[]string](cacheCfg),
	}
}

// Refresh fetches the dataset from the provider and swaps it in.
func (s *Server) Refresh(ctx context.Context) error {
	table, err := s.provider.Fetch(ctx)
	if s.metrics != nil {
		s.metrics.RecordDatasetRefresh(len(table), err)
	}
	if err != nil {
		return fmt.Errorf("refreshing dataset: %w", err)
	}

	s.ReplaceDataset(table)
	s.logger.WithField("rows", len(table)).Info("dataset refreshed")
	return nil
}

// ReplaceDataset swaps in an externally fetched table, e.g. from a file
// watcher.
func (s *Server) ReplaceDataset(table registrations.Table) {
	s.mu.Lock()
	s.table = table
	s.refreshedAt = time.Now()
	s.mu.Unlock()
}

// Dataset returns the current table snapshot and its refresh time.
func (s *Server) Dataset() (registrations.Table, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table, s.refreshedAt
}

// Probe reports dataset status for the readiness endpoint.
func (s *Server) Probe() (int, time.Time, error) {
	table, refreshedAt := s.Dataset()
	if refreshedAt.IsZero() {
		return 0, time.Time{}, fmt.Errorf("dataset not loaded yet")
	}
	return len(table), refreshedAt, nil
}

// RegisterRoutes registers the analytics API routes
func (s *Server) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/v1/analytics/overview", s.getOverview).Methods("GET")
	r.HandleFunc("/api/v1/analytics/growth", s.getGrowth).Methods("GET")
	r.HandleFunc("/api/v1/analytics/composition", s.getComposition).Methods("GET")
	r.HandleFunc("/api/v1/analytics/seasonality", s.getSeasonality).Methods("GET")
	r.HandleFunc("/api/v1/analytics/insights", s.getInsights).Methods("GET")
}

// CacheStats aggregates hit/miss counters across the per-result caches.
func (s *Server) CacheStats() resultcache.Stats {
	var out resultcache.Stats
	for _, st := range []resultcache.Stats{
		s.growthCache.Stats(),
		s.compositionCache.Stats(),
		s.seasonalityCache.Stats(),
		s.insightsCache.Stats(),
	} {
		out.Hits += st.Hits
		out.Misses += st.Misses
		out.ItemCount += st.ItemCount
	}
	if total := out.Hits + out.Misses; total > 0 {
		out.HitRate = float64(out.Hits) / float64(total)
	}
	return out
}
