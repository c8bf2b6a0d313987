package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"truccoanalytics/internal/dataprocessing"
	"truccoanalytics/pkg/contracts/domain"
)

func TestApplyFilter(t *testing.T) {
	sales := salesTable(
		strCol(dataprocessing.ColSeason, "V25", "I24", "V25"),
		strCol(dataprocessing.ColFamily, "CAMISETAS", "PANTALONES", "PANTALONES"),
		numCol(dataprocessing.ColQuantity, 1, 2, 3),
	)

	tests := []struct {
		name     string
		spec     domain.FilterSpec
		wantRows int
	}{
		{"zero spec returns everything", domain.FilterSpec{}, 3},
		{"single season", domain.FilterSpec{Seasons: []string{"V25"}}, 2},
		{"season and family", domain.FilterSpec{Seasons: []string{"V25"}, Families: []string{"PANTALONES"}}, 1},
		{"multiple seasons", domain.FilterSpec{Seasons: []string{"V25", "I24"}}, 3},
		{"absent season yields empty", domain.FilterSpec{Seasons: []string{"V99"}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyFilter(sales, tt.spec)
			assert.Equal(t, tt.wantRows, got.RowCount())
		})
	}

	// Source must never be mutated.
	assert.Equal(t, 3, sales.RowCount())
}

func TestApplyFilter_AbsentColumnInert(t *testing.T) {
	sales := salesTable(
		numCol(dataprocessing.ColQuantity, 1, 2, 3),
	)

	got := ApplyFilter(sales, domain.FilterSpec{Seasons: []string{"V25"}})
	assert.Equal(t, 3, got.RowCount(), "filtering on an absent column should be inert")
}

func TestFilterOptions(t *testing.T) {
	sales := salesTable(
		strCol(dataprocessing.ColSeason, "V25", "I24", "V25"),
		strCol(dataprocessing.ColFamily, "CAMISETAS", "PANTALONES", "CAMISETAS"),
	)

	opts := FilterOptions(sales)
	assert.Equal(t, []string{"I24", "V25"}, opts.Seasons)
	assert.Equal(t, []string{"CAMISETAS", "PANTALONES"}, opts.Families)
}

func TestFilterOptions_NilTable(t *testing.T) {
	opts := FilterOptions(nil)
	require.Empty(t, opts.Seasons)
	require.Empty(t, opts.Families)
}
