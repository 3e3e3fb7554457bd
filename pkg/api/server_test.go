package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regipulse/regipulse/pkg/datasource"
	"github.com/regipulse/regipulse/pkg/observability"
	"github.com/regipulse/regipulse/pkg/registrations"
)

func fixtureTable() registrations.Table {
	event := func(year int, month time.Month, category registrations.Category, manufacturer string, count int64) registrations.Event {
		return registrations.Event{
			Date:         time.Date(year, month, 15, 0, 0, 0, 0, time.UTC),
			Category:     category,
			Manufacturer: manufacturer,
			Count:        count,
		}
	}
	return registrations.Table{
		event(2022, time.February, "2W", "Hero", 60),
		event(2022, time.May, "2W", "Honda", 20),
		event(2022, time.August, "4W", "Maruti", 20),
		event(2023, time.February, "2W", "Hero", 66),
		event(2023, time.May, "2W", "Honda", 22),
		event(2023, time.August, "4W", "Maruti", 22),
	}
}

func newTestServer(t *testing.T, table registrations.Table) (*Server, *mux.Router) {
	t.Helper()

	provider := datasource.ProviderFunc(func(ctx context.Context) (registrations.Table, error) {
		return table, nil
	})
	logger := observability.NewLogger(observability.ErrorLevel, io.Discard)
	server := NewServer(provider, nil, logger, nil)
	require.NoError(t, server.Refresh(context.Background()))

	r := mux.NewRouter()
	server.RegisterRoutes(r)
	return server, r
}

func doGet(t *testing.T, r *mux.Router, url string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", url, nil))
	return w
}

func TestGetOverview(t *testing.T) {
	_, r := newTestServer(t, fixtureTable())

	w := doGet(t, r, "/api/v1/analytics/overview")
	require.Equal(t, http.StatusOK, w.Code)

	var overview Overview
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &overview))

	assert.Equal(t, int64(210), overview.TotalRegistrations)
	assert.Equal(t, registrations.Category("2W"), overview.LeadingCategory)
	assert.Equal(t, "Hero", overview.TopManufacturer)
	require.NotNil(t, overview.YoYGrowth)
	assert.InDelta(t, 10.0, *overview.YoYGrowth, 1e-9)
	assert.Equal(t, "February", overview.PeakMonth)
}

func TestGetOverviewEmptyDataset(t *testing.T) {
	_, r := newTestServer(t, registrations.Table{})

	w := doGet(t, r, "/api/v1/analytics/overview")
	require.Equal(t, http.StatusOK, w.Code)

	var overview Overview
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &overview))
	assert.Zero(t, overview.TotalRegistrations)
	assert.Nil(t, overview.YoYGrowth)
}

func TestGetGrowth(t *testing.T) {
	_, r := newTestServer(t, fixtureTable())

	w := doGet(t, r, "/api/v1/analytics/growth")
	require.Equal(t, http.StatusOK, w.Code)

	var resp GrowthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"category"}, resp.Dimensions)

	// 2W appears in Q1 and Q2 of both years, 4W in Q3 of both: 6 groups.
	require.Len(t, resp.Records, 6)

	var yoySeen bool
	for _, rec := range resp.Records {
		if rec.Dimensions["category"] == "2W" && rec.Year == 2023 && rec.Quarter == 1 {
			require.NotNil(t, rec.YoYGrowth)
			assert.InDelta(t, 10.0, *rec.YoYGrowth, 1e-9)
			yoySeen = true
		}
	}
	assert.True(t, yoySeen)
}

func TestGetGrowthByManufacturer(t *testing.T) {
	_, r := newTestServer(t, fixtureTable())

	w := doGet(t, r, "/api/v1/analytics/growth?dimension=manufacturer")
	require.Equal(t, http.StatusOK, w.Code)

	var resp GrowthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"manufacturer"}, resp.Dimensions)
	require.NotEmpty(t, resp.Records)
	assert.Contains(t, resp.Records[0].Dimensions, "manufacturer")
}

func TestGetGrowthUnknownDimension(t *testing.T) {
	_, r := newTestServer(t, fixtureTable())

	w := doGet(t, r, "/api/v1/analytics/growth?dimension=region")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetComposition(t *testing.T) {
	_, r := newTestServer(t, fixtureTable())

	w := doGet(t, r, "/api/v1/analytics/composition?top=2")
	require.Equal(t, http.StatusOK, w.Code)

	var composition struct {
		TotalRegistrations int64              `json:"total_registrations"`
		CategoryShares     map[string]float64 `json:"category_shares"`
		TopManufacturers   []struct {
			Manufacturer  string `json:"manufacturer"`
			Registrations int64  `json:"registrations"`
		} `json:"top_manufacturers"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &composition))

	assert.Equal(t, int64(210), composition.TotalRegistrations)
	assert.InDelta(t, 80.0, composition.CategoryShares["2W"], 1e-9)
	require.Len(t, composition.TopManufacturers, 2)
	assert.Equal(t, "Hero", composition.TopManufacturers[0].Manufacturer)
}

func TestGetCompositionZeroTotal(t *testing.T) {
	table := registrations.Table{{
		Date:         time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC),
		Category:     "2W",
		Manufacturer: "Hero",
		Count:        0,
	}}
	_, r := newTestServer(t, table)

	w := doGet(t, r, "/api/v1/analytics/composition")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestGetSeasonality(t *testing.T) {
	_, r := newTestServer(t, fixtureTable())

	w := doGet(t, r, "/api/v1/analytics/seasonality")
	require.Equal(t, http.StatusOK, w.Code)

	var report struct {
		PeakMonth string `json:"peak_month"`
		LowMonth  string `json:"low_month"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, "February", report.PeakMonth)
	// May and August tie at 21; the earlier calendar month wins.
	assert.Equal(t, "May", report.LowMonth)
}

func TestGetInsights(t *testing.T) {
	_, r := newTestServer(t, fixtureTable())

	w := doGet(t, r, "/api/v1/analytics/insights")
	require.Equal(t, http.StatusOK, w.Code)

	var resp InsightsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Findings, 4)
	assert.Contains(t, resp.Findings[0], "2W")
}

func TestFilterParams(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantCode  int
		wantTotal int64
	}{
		{
			name:      "category filter",
			url:       "/api/v1/analytics/overview?categories=2W",
			wantCode:  http.StatusOK,
			wantTotal: 168,
		},
		{
			name:      "manufacturer filter",
			url:       "/api/v1/analytics/overview?manufacturers=Maruti",
			wantCode:  http.StatusOK,
			wantTotal: 42,
		},
		{
			name:      "date range",
			url:       "/api/v1/analytics/overview?from=2023-01-01&to=2023-12-31",
			wantCode:  http.StatusOK,
			wantTotal: 110,
		},
		{
			name:     "malformed date",
			url:      "/api/v1/analytics/overview?from=yesterday",
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "inverted range",
			url:      "/api/v1/analytics/overview?from=2023-06-01&to=2022-06-01",
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "unknown category",
			url:      "/api/v1/analytics/overview?categories=6W",
			wantCode: http.StatusBadRequest,
		},
	}

	_, r := newTestServer(t, fixtureTable())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doGet(t, r, tt.url)
			require.Equal(t, tt.wantCode, w.Code)
			if tt.wantCode != http.StatusOK {
				return
			}
			var overview Overview
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &overview))
			assert.Equal(t, tt.wantTotal, overview.TotalRegistrations)
		})
	}
}

func TestResultCaching(t *testing.T) {
	server, r := newTestServer(t, fixtureTable())

	require.Equal(t, http.StatusOK, doGet(t, r, "/api/v1/analytics/insights").Code)
	first := server.CacheStats()
	require.Equal(t, http.StatusOK, doGet(t, r, "/api/v1/analytics/insights").Code)
	second := server.CacheStats()

	assert.Greater(t, second.Hits, first.Hits)
	assert.Equal(t, first.Misses, second.Misses)
}

func TestRefreshReplacesDataset(t *testing.T) {
	server, r := newTestServer(t, fixtureTable())

	server.ReplaceDataset(registrations.Table{{
		Date:         time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Category:     "3W",
		Manufacturer: "Bajaj",
		Count:        5,
	}})

	w := doGet(t, r, "/api/v1/analytics/overview")
	require.Equal(t, http.StatusOK, w.Code)

	var overview Overview
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &overview))
	assert.Equal(t, int64(5), overview.TotalRegistrations)
	assert.Equal(t, registrations.Category("3W"), overview.LeadingCategory)
}

func TestProbe(t *testing.T) {
	server, _ := newTestServer(t, fixtureTable())

	rows, refreshedAt, err := server.Probe()
	require.NoError(t, err)
	assert.Equal(t, 6, rows)
	assert.False(t, refreshedAt.IsZero())

	unloaded := NewServer(nil, nil, observability.NewLogger(observability.ErrorLevel, io.Discard), nil)
	_, _, err = unloaded.Probe()
	assert.Error(t, err)
}
