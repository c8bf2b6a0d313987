package domain

// FilterSpec narrows a sales table by the season and family dimensions.
// An empty selection on a dimension means no filtering on it. The spec is
// always applied read-only against the source table.
type FilterSpec struct {
	Seasons  []string `json:"seasons,omitempty"`
	Families []string `json:"families,omitempty"`
}

// IsZero reports whether the spec selects everything.
func (f FilterSpec) IsZero() bool {
	return len(f.Seasons) == 0 && len(f.Families) == 0
}

// MatchesSeason reports whether the given season passes the filter.
func (f FilterSpec) MatchesSeason(season string) bool {
	return matches(f.Seasons, season)
}

// MatchesFamily reports whether the given family passes the filter.
func (f FilterSpec) MatchesFamily(family string) bool {
	return matches(f.Families, family)
}

func matches(selected []string, value string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, s := range selected {
		if s == value {
			return true
		}
	}
	return false
}

// FilterOptions lists the values available for each filter dimension of a
// loaded dataset, derived from the distinct values of the sales table.
type FilterOptions struct {
	Seasons  []string `json:"seasons"`
	Families []string `json:"families"`
}
