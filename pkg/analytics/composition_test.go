package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regipulse/regipulse/pkg/registrations"
)

func TestMarketCompositionConcentration(t *testing.T) {
	table := registrations.Table{
		event("2023-01-01", registrations.CategoryTwoWheeler, "A", 100),
		event("2023-01-01", registrations.CategoryTwoWheeler, "B", 80),
		event("2023-01-01", registrations.CategoryTwoWheeler, "C", 60),
		event("2023-01-01", registrations.CategoryTwoWheeler, "D", 40),
		event("2023-01-01", registrations.CategoryTwoWheeler, "E", 20),
		event("2023-01-01", registrations.CategoryTwoWheeler, "F", 10),
	}

	comp, err := MarketComposition(table, 0)
	require.NoError(t, err)

	assert.Equal(t, int64(310), comp.TotalRegistrations)
	// (100+80+60+40+20)/310*100
	assert.InDelta(t, 96.77, comp.ConcentrationRatio, 0.01)
	require.Len(t, comp.TopManufacturers, 6)
	assert.Equal(t, "A", comp.TopManufacturers[0].Manufacturer)
}

func TestMarketCompositionSharesSumTo100(t *testing.T) {
	table := registrations.Table{
		event("2023-01-01", registrations.CategoryTwoWheeler, "Hero MotoCorp", 700),
		event("2023-02-01", registrations.CategoryThreeWheeler, "Bajaj", 150),
		event("2023-03-01", registrations.CategoryFourWheeler, "Maruti Suzuki", 150),
	}

	comp, err := MarketComposition(table, 10)
	require.NoError(t, err)

	var sum float64
	for _, share := range comp.CategoryShares {
		sum += share
	}
	assert.InDelta(t, 100.0, sum, 1e-9)
	assert.InDelta(t, 70.0, comp.CategoryShares[registrations.CategoryTwoWheeler], 1e-9)
}

func TestMarketCompositionTopNTieBreak(t *testing.T) {
	table := registrations.Table{
		event("2023-01-01", registrations.CategoryTwoWheeler, "Yamaha", 50),
		event("2023-01-01", registrations.CategoryTwoWheeler, "Bajaj", 50),
		event("2023-01-01", registrations.CategoryTwoWheeler, "TVS", 50),
	}

	comp, err := MarketComposition(table, 2)
	require.NoError(t, err)

	require.Len(t, comp.TopManufacturers, 2)
	assert.Equal(t, "Bajaj", comp.TopManufacturers[0].Manufacturer, "ties break by name ascending")
	assert.Equal(t, "TVS", comp.TopManufacturers[1].Manufacturer)
}

func TestMarketCompositionEmptyTable(t *testing.T) {
	comp, err := MarketComposition(nil, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), comp.TotalRegistrations)
	assert.Empty(t, comp.CategoryShares)
	assert.Empty(t, comp.TopManufacturers)
}

func TestMarketCompositionZeroTotal(t *testing.T) {
	table := registrations.Table{
		event("2023-01-01", registrations.CategoryTwoWheeler, "Hero MotoCorp", 0),
		event("2023-01-02", registrations.CategoryFourWheeler, "Maruti Suzuki", 0),
	}

	_, err := MarketComposition(table, 10)
	assert.ErrorIs(t, err, ErrEmptyMarket)
}
