package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/regipulse/regipulse/pkg/analytics"
	"github.com/regipulse/regipulse/pkg/httputil"
	"github.com/regipulse/regipulse/pkg/registrations"
	"github.com/regipulse/regipulse/pkg/resultcache"
)

// Overview is the KPI summary returned by the overview endpoint.
type Overview struct {
	TotalRegistrations int64      `json:"total_registrations"`
	AverageMonthly     float64    `json:"average_monthly"`
	From               *time.Time `json:"from,omitempty"`
	To                 *time.Time `json:"to,omitempty"`

	LeadingCategory      registrations.Category `json:"leading_category,omitempty"`
	LeadingCategoryShare float64                `json:"leading_category_share,omitempty"`
	TopManufacturer      string                 `json:"top_manufacturer,omitempty"`

	// YoYGrowth compares the latest year's total to the year before;
	// absent when fewer than two years are present.
	YoYGrowth *float64 `json:"yoy_growth,omitempty"`

	PeakMonth   string    `json:"peak_month,omitempty"`
	RefreshedAt time.Time `json:"refreshed_at"`
}

// GrowthResponse wraps aggregated period records with their dimensions.
type GrowthResponse struct {
	Dimensions []string                 `json:"dimensions"`
	Records    []analytics.PeriodRecord `json:"records"`
}

// InsightsResponse wraps the derived findings.
type InsightsResponse struct {
	Findings []string `json:"findings"`
}

// getOverview handles GET /api/v1/analytics/overview
// Returns high-level KPIs for the filtered dataset. The composition and
// seasonality sub-results are computed concurrently.
func (s *Server) getOverview(w http.ResponseWriter, r *http.Request) {
	table, refreshedAt, ok := s.filteredDataset(w, r)
	if !ok {
		return
	}

	overview := Overview{
		TotalRegistrations: table.Total(),
		RefreshedAt:        refreshedAt,
	}
	if from, to, ok := table.Span(); ok {
		overview.From, overview.To = &from, &to
		overview.AverageMonthly = float64(overview.TotalRegistrations) / float64(monthsBetween(from, to))
	}

	var (
		composition *analytics.Composition
		seasonality *analytics.SeasonalityReport
		yoy         *float64
	)

	var g errgroup.Group
	g.Go(func() error {
		var err error
		composition, err = s.cachedComposition(table, analytics.DefaultTopManufacturers)
		return err
	})
	g.Go(func() error {
		seasonality = s.cachedSeasonality(table)
		return nil
	})
	g.Go(func() error {
		yoy = yearOverYearTotal(table)
		return nil
	})
	if err := g.Wait(); err != nil {
		s.writeAnalyticsError(w, r, err)
		return
	}

	if composition != nil && len(composition.CategoryShares) > 0 {
		for category, share := range composition.CategoryShares {
			if share > overview.LeadingCategoryShare ||
				(share == overview.LeadingCategoryShare && category < overview.LeadingCategory) {
				overview.LeadingCategory = category
				overview.LeadingCategoryShare = share
			}
		}
	}
	if composition != nil && len(composition.TopManufacturers) > 0 {
		overview.TopManufacturer = composition.TopManufacturers[0].Manufacturer
	}
	overview.YoYGrowth = yoy
	overview.PeakMonth = seasonality.PeakMonth

	httputil.WriteJSONOrError(w, http.StatusOK, overview, "encoding overview")
}

// getGrowth handles GET /api/v1/analytics/growth
// Query params:
//   - dimension: comma list of category, manufacturer (default category)
func (s *Server) getGrowth(w http.ResponseWriter, r *http.Request) {
	table, _, ok := s.filteredDataset(w, r)
	if !ok {
		return
	}

	dimensions := httputil.ParseQueryList(r, "dimension")
	if len(dimensions) == 0 {
		dimensions = []string{analytics.DimensionCategory}
	}

	key := resultcache.Fingerprint(table, "growth", dimensions...)
	records, err := cached(s, s.growthCache, key, "growth", func() ([]analytics.PeriodRecord, error) {
		return analytics.AggregateGrowth(table, dimensions, analytics.ValueColumnCount)
	})
	if err != nil {
		s.writeAnalyticsError(w, r, err)
		return
	}

	httputil.WriteJSONOrError(w, http.StatusOK, GrowthResponse{
		Dimensions: dimensions,
		Records:    records,
	}, "encoding growth records")
}

// getComposition handles GET /api/v1/analytics/composition
// Query params:
//   - top: number of manufacturers to rank (default 10)
func (s *Server) getComposition(w http.ResponseWriter, r *http.Request) {
	table, _, ok := s.filteredDataset(w, r)
	if !ok {
		return
	}

	topN, err := httputil.ParseQueryInt(r, "top", analytics.DefaultTopManufacturers)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	composition, err := s.cachedComposition(table, topN)
	if err != nil {
		s.writeAnalyticsError(w, r, err)
		return
	}

	httputil.WriteJSONOrError(w, http.StatusOK, composition, "encoding composition")
}

// getSeasonality handles GET /api/v1/analytics/seasonality
func (s *Server) getSeasonality(w http.ResponseWriter, r *http.Request) {
	table, _, ok := s.filteredDataset(w, r)
	if !ok {
		return
	}

	httputil.WriteJSONOrError(w, http.StatusOK, s.cachedSeasonality(table), "encoding seasonality")
}

// getInsights handles GET /api/v1/analytics/insights
func (s *Server) getInsights(w http.ResponseWriter, r *http.Request) {
	table, _, ok := s.filteredDataset(w, r)
	if !ok {
		return
	}

	key := resultcache.Fingerprint(table, "insights")
	findings, err := cached(s, s.insightsCache, key, "insights", func() ([]string, error) {
		return analytics.DeriveInsights(table)
	})
	if err != nil {
		s.writeAnalyticsError(w, r, err)
		return
	}

	httputil.WriteJSONOrError(w, http.StatusOK, InsightsResponse{Findings: findings}, "encoding insights")
}

// filteredDataset parses the common filter params and applies them to the
// current snapshot. On a parse error it writes a 400 and returns ok=false.
func (s *Server) filteredDataset(w http.ResponseWriter, r *http.Request) (registrations.Table, time.Time, bool) {
	filter, err := parseFilter(r)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return nil, time.Time{}, false
	}

	table, refreshedAt := s.Dataset()
	if !filter.IsZero() {
		table = filter.Apply(table)
	}
	return table, refreshedAt, true
}

// parseFilter reads the from, to, categories and manufacturers query params.
func parseFilter(r *http.Request) (registrations.Filter, error) {
	var filter registrations.Filter

	var err error
	if filter.From, err = httputil.ParseQueryDate(r, "from"); err != nil {
		return registrations.Filter{}, err
	}
	if filter.To, err = httputil.ParseQueryDate(r, "to"); err != nil {
		return registrations.Filter{}, err
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.To.Before(filter.From) {
		return registrations.Filter{}, fmt.Errorf("to (%s) precedes from (%s)",
			filter.To.Format("2006-01-02"), filter.From.Format("2006-01-02"))
	}

	for _, raw := range httputil.ParseQueryList(r, "categories") {
		category, err := registrations.ParseCategory(raw)
		if err != nil {
			return registrations.Filter{}, err
		}
		filter.Categories = append(filter.Categories, category)
	}
	filter.Manufacturers = httputil.ParseQueryList(r, "manufacturers")

	return filter, nil
}

func (s *Server) cachedComposition(table registrations.Table, topN int) (*analytics.Composition, error) {
	key := resultcache.Fingerprint(table, "composition", fmt.Sprintf("top=%d", topN))
	return cached(s, s.compositionCache, key, "composition", func() (*analytics.Composition, error) {
		return analytics.MarketComposition(table, topN)
	})
}

func (s *Server) cachedSeasonality(table registrations.Table) *analytics.SeasonalityReport {
	key := resultcache.Fingerprint(table, "seasonality")
	report, _ := cached(s, s.seasonalityCache, key, "seasonality", func() (*analytics.SeasonalityReport, error) {
		return analytics.Seasonality(table), nil
	})
	return report
}

// cached looks up key in c, computing and storing on a miss. Hit/miss
// counters and computation latency are recorded when metrics are wired.
func cached[V any](s *Server, c *resultcache.Cache[V], key, operation string, compute func() (V, error)) (V, error) {
	if value, ok := c.Get(key); ok {
		if s.metrics != nil {
			s.metrics.CacheHitsTotal.Inc()
		}
		return value, nil
	}
	if s.metrics != nil {
		s.metrics.CacheMissesTotal.Inc()
	}

	start := time.Now()
	value, err := compute()
	if err != nil {
		return value, err
	}
	if s.metrics != nil {
		s.metrics.ObserveComputation(operation, time.Since(start))
	}
	c.Set(key, value)
	return value, nil
}

// writeAnalyticsError maps engine errors onto HTTP statuses.
func (s *Server) writeAnalyticsError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, analytics.ErrInvalidInput):
		httputil.WriteBadRequest(w, err.Error())
	case errors.Is(err, analytics.ErrEmptyMarket):
		httputil.WriteUnprocessableEntity(w, err.Error())
	default:
		s.logger.WithError(err).WithField("path", r.URL.Path).Error("analytics computation failed")
		httputil.WriteInternalError(w, err)
	}
}

// yearOverYearTotal compares the latest year's total registrations to the
// previous year's. Returns nil when fewer than two years are present or the
// previous year's total is zero.
func yearOverYearTotal(table registrations.Table) *float64 {
	totals := make(map[int]int64)
	for _, e := range table {
		totals[e.Date.Year()] += e.Count
	}
	years := make([]int, 0, len(totals))
	for year := range totals {
		years = append(years, year)
	}
	if len(years) < 2 {
		return nil
	}

	latest, previous := 0, 0
	for _, year := range years {
		if year > latest {
			latest = year
		}
	}
	for _, year := range years {
		if year != latest && year > previous {
			previous = year
		}
	}
	if previous != latest-1 || totals[previous] == 0 {
		return nil
	}

	growth := (float64(totals[latest]) - float64(totals[previous])) / float64(totals[previous]) * 100
	return &growth
}

// monthsBetween counts calendar months in the inclusive range [from, to].
func monthsBetween(from, to time.Time) int {
	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month()) + 1
	if months < 1 {
		return 1
	}
	return months
}
