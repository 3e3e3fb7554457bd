package analytics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regipulse/regipulse/pkg/registrations"
)

func multiYearTable() registrations.Table {
	return registrations.Table{
		event("2021-02-15", registrations.CategoryTwoWheeler, "Hero MotoCorp", 1000),
		event("2021-03-10", registrations.CategoryFourWheeler, "Maruti Suzuki", 500),
		event("2022-01-20", registrations.CategoryTwoWheeler, "Hero MotoCorp", 1100),
		event("2022-02-05", registrations.CategoryFourWheeler, "Maruti Suzuki", 400),
	}
}

func TestDeriveInsightsFixedOrder(t *testing.T) {
	findings, err := DeriveInsights(multiYearTable())
	require.NoError(t, err)
	require.Len(t, findings, 4)

	assert.True(t, strings.HasPrefix(findings[0], "Market Leadership:"), findings[0])
	assert.True(t, strings.HasPrefix(findings[1], "Growth Leader:"), findings[1])
	assert.True(t, strings.HasPrefix(findings[2], "Market Concentration:"), findings[2])
	assert.True(t, strings.HasPrefix(findings[3], "Seasonality:"), findings[3])

	// 2W grew 10% while 4W shrank 20%.
	assert.Contains(t, findings[1], "2W")
	assert.Contains(t, findings[1], "10.0%")
}

func TestDeriveInsightsGrowthLeaderOmitted(t *testing.T) {
	// Single-year data: no YoY growth is computable anywhere, so the growth
	// finding drops out and three findings remain.
	table := registrations.Table{
		event("2023-01-15", registrations.CategoryTwoWheeler, "Hero MotoCorp", 700),
		event("2023-05-15", registrations.CategoryFourWheeler, "Maruti Suzuki", 300),
	}

	findings, err := DeriveInsights(table)
	require.NoError(t, err)
	require.Len(t, findings, 3)
	assert.True(t, strings.HasPrefix(findings[0], "Market Leadership:"))
	assert.True(t, strings.HasPrefix(findings[1], "Market Concentration:"))
	assert.True(t, strings.HasPrefix(findings[2], "Seasonality:"))
}

func TestDeriveInsightsIdempotent(t *testing.T) {
	table := multiYearTable()

	first, err := DeriveInsights(table)
	require.NoError(t, err)
	second, err := DeriveInsights(table)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDeriveInsightsEmptyTable(t *testing.T) {
	findings, err := DeriveInsights(nil)
	assert.NoError(t, err)
	assert.Empty(t, findings)
}

func TestDeriveInsightsZeroMarket(t *testing.T) {
	table := registrations.Table{
		event("2023-01-15", registrations.CategoryTwoWheeler, "Hero MotoCorp", 0),
	}

	_, err := DeriveInsights(table)
	assert.ErrorIs(t, err, ErrEmptyMarket)
}
