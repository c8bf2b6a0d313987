package analytics

import (
	"truccoanalytics/internal/dataprocessing"
	"truccoanalytics/pkg/contracts/domain"
)

// ApplyFilter returns a filtered copy of the table. Dimensions whose column
// is absent are silently inert; a selection with no matching rows yields an
// empty table, never an error. The source table is not mutated.
func ApplyFilter(table *domain.Table, spec domain.FilterSpec) *domain.Table {
	if table == nil {
		return nil
	}
	if spec.IsZero() {
		return table
	}

	seasons := table.Column(dataprocessing.ColSeason)
	families := table.Column(dataprocessing.ColFamily)

	n := table.RowCount()
	keep := make([]bool, n)
	for i := 0; i < n; i++ {
		keep[i] = true
		if seasons != nil && !spec.MatchesSeason(seasons.Cells[i].Str) {
			keep[i] = false
			continue
		}
		if families != nil && !spec.MatchesFamily(families.Cells[i].Str) {
			keep[i] = false
		}
	}

	return table.Select(keep)
}

// FilterOptions derives the available filter values from the distinct
// season and family values of the sales table.
func FilterOptions(sales *domain.Table) domain.FilterOptions {
	if sales == nil {
		return domain.FilterOptions{}
	}
	return domain.FilterOptions{
		Seasons:  sales.DistinctStrings(dataprocessing.ColSeason),
		Families: sales.DistinctStrings(dataprocessing.ColFamily),
	}
}
