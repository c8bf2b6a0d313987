package descriptions

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"truccoanalytics/internal/dataprocessing"
	"truccoanalytics/pkg/contracts/domain"
)

// Analyzer extracts garment attributes from Spanish product descriptions:
// cleaned text is synonym-normalized and matched against the category
// vocabularies, longest phrase first.
type Analyzer struct {
	logger *slog.Logger

	// terms per category, longest first so specific phrases win over
	// their prefixes.
	terms map[string][]string

	// variant phrasings, longest first, applied before matching.
	variants []string
}

// NewAnalyzer creates a description analyzer.
func NewAnalyzer(logger *slog.Logger) *Analyzer {
	a := &Analyzer{
		logger: logger.With(slog.String("component", "descriptions")),
		terms:  make(map[string][]string, len(vocabulary)),
	}

	for category, terms := range vocabulary {
		sorted := append([]string(nil), terms...)
		sort.SliceStable(sorted, func(i, j int) bool {
			return len(sorted[i]) > len(sorted[j])
		})
		a.terms[category] = sorted
	}

	for variant := range synonyms {
		a.variants = append(a.variants, variant)
	}
	sort.SliceStable(a.variants, func(i, j int) bool {
		return len(a.variants[i]) > len(a.variants[j])
	})

	return a
}

// CleanText lowercases, strips punctuation and filler words, and collapses
// whitespace.
func (a *Analyzer) CleanText(text string) string {
	text = strings.ToLower(text)

	var b strings.Builder
	for _, r := range text {
		switch r {
		case ',', '.', ';', ':', '(', ')', '"', '\'', '¡', '!', '¿', '?':
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}

	var kept []string
	for _, word := range strings.Fields(b.String()) {
		if stopwords[word] {
			continue
		}
		kept = append(kept, word)
	}
	return strings.Join(kept, " ")
}

// normalize rewrites variant phrasings to their canonical form.
func (a *Analyzer) normalize(text string) string {
	padded := " " + text + " "
	for _, variant := range a.variants {
		padded = strings.ReplaceAll(padded, " "+variant+" ", " "+synonyms[variant]+" ")
	}
	return strings.TrimSpace(padded)
}

// Extract returns the attributes found in one description, keyed by
// category. Matched phrases are consumed so that a specific phrase hides
// its shorter prefixes. Neckline and sleeve values drop their leading
// keyword for display.
func (a *Analyzer) Extract(text string) map[string][]string {
	result := make(map[string][]string, len(Categories))
	if strings.TrimSpace(text) == "" {
		return result
	}

	padded := " " + a.normalize(a.CleanText(text)) + " "

	for _, category := range Categories {
		for _, term := range a.terms[category] {
			needle := " " + term + " "
			if !strings.Contains(padded, needle) {
				continue
			}
			padded = strings.ReplaceAll(padded, needle, " ")

			result[category] = append(result[category], displayValue(category, term))
		}
	}
	return result
}

// displayValue strips the category keyword from neckline and sleeve terms.
func displayValue(category, term string) string {
	switch category {
	case CategoryNeckline:
		return strings.TrimPrefix(term, "cuello ")
	case CategorySleeve:
		return strings.TrimPrefix(term, "manga ")
	default:
		return term
	}
}

// AttributeFrequencies tallies attribute occurrences over the distinct
// descriptions of a table and returns one value-descending series per
// category, truncated to limit entries. A table without a description
// column yields no series.
func (a *Analyzer) AttributeFrequencies(ctx context.Context, table *domain.Table, limit int) []domain.GroupedSeries {
	if table == nil {
		return nil
	}
	col := table.Column(dataprocessing.ColDescription)
	if col == nil {
		return nil
	}

	counts := make(map[string]map[string]int, len(Categories))
	for _, category := range Categories {
		counts[category] = make(map[string]int)
	}

	seen := make(map[string]struct{})
	for _, cell := range col.Cells {
		if cell.Kind != domain.CellString || cell.Str == "" {
			continue
		}
		if _, done := seen[cell.Str]; done {
			continue
		}
		seen[cell.Str] = struct{}{}

		for category, values := range a.Extract(cell.Str) {
			for _, v := range values {
				counts[category][v]++
			}
		}
	}

	var series []domain.GroupedSeries
	for _, category := range Categories {
		if len(counts[category]) == 0 {
			continue
		}
		s := domain.GroupedSeries{Name: category, Unit: "refs"}
		for value, n := range counts[category] {
			s.Points = append(s.Points, domain.SeriesPoint{Category: value, Value: float64(n)})
		}
		sort.SliceStable(s.Points, func(i, j int) bool {
			if s.Points[i].Value != s.Points[j].Value {
				return s.Points[i].Value > s.Points[j].Value
			}
			return s.Points[i].Category < s.Points[j].Category
		})
		if limit > 0 && len(s.Points) > limit {
			s.Points = s.Points[:limit]
		}
		series = append(series, s)
	}

	a.logger.DebugContext(ctx, "description attributes extracted",
		slog.Int("distinct_descriptions", len(seen)),
		slog.Int("categories", len(series)))

	return series
}
