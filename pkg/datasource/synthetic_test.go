package datasource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regipulse/regipulse/pkg/registrations"
)

func TestSyntheticDeterministic(t *testing.T) {
	ctx := context.Background()

	first, err := NewSynthetic().Fetch(ctx)
	require.NoError(t, err)
	second, err := NewSynthetic().Fetch(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second, "same seed must reproduce the same table")
}

func TestSyntheticShape(t *testing.T) {
	table, err := NewSynthetic().Fetch(context.Background())
	require.NoError(t, err)

	// 39 month-ends (2021-01 .. 2024-03) x 17 manufacturer rows.
	assert.Len(t, table, 39*17)
	assert.NoError(t, table.Validate())

	years := table.Years()
	assert.Equal(t, []int{2021, 2022, 2023, 2024}, years)

	assert.ElementsMatch(t,
		[]registrations.Category{
			registrations.CategoryTwoWheeler,
			registrations.CategoryThreeWheeler,
			registrations.CategoryFourWheeler,
		},
		table.CategorySet())
}

func TestSyntheticSeedChangesOutput(t *testing.T) {
	ctx := context.Background()

	base, err := NewSynthetic().Fetch(ctx)
	require.NoError(t, err)

	other := NewSynthetic()
	other.Seed = 7
	reseeded, err := other.Fetch(ctx)
	require.NoError(t, err)

	assert.NotEqual(t, base, reseeded)
}

func TestSyntheticRespectsRange(t *testing.T) {
	s := NewSynthetic()
	s.Start = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	s.End = time.Date(2023, 3, 31, 0, 0, 0, 0, time.UTC)

	table, err := s.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, table, 3*17)

	from, to, ok := table.Span()
	require.True(t, ok)
	assert.Equal(t, 2023, from.Year())
	assert.Equal(t, time.March, to.Month())
}
