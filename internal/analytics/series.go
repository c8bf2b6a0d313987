package analytics

import (
	"fmt"
	"sort"

	"truccoanalytics/internal/dataprocessing"
	"truccoanalytics/pkg/contracts/domain"
)

// Default top-N cuts used by the dashboard sections.
const (
	TopFamilies = 10
	TopStores   = 15
)

// priceBucket is one PVP range of the price breakdown.
type priceBucket struct {
	label string
	low   float64
	high  float64
}

// priceBuckets partition the PVP axis; the last bucket is open-ended.
var priceBuckets = []priceBucket{
	{"0-10", 0, 10},
	{"10-25", 10, 25},
	{"25-50", 25, 50},
	{"50-100", 50, 100},
	{"100+", 100, -1},
}

// MonthlyRevenueByStoreType returns one chronologically ordered series per
// sales channel, with categories formatted YYYY-MM.
func (a *Aggregator) MonthlyRevenueByStoreType(sales *domain.Table) []domain.GroupedSeries {
	if !columnUsable(sales, dataprocessing.ColProfit) {
		return nil
	}
	dates := sales.Column(dataprocessing.ColDocumentDate)
	profit := sales.Column(dataprocessing.ColProfit)
	channel := sales.Column(dataprocessing.ColOnline)
	if dates == nil {
		return nil
	}

	type key struct {
		month   string
		channel string
	}
	totals := make(map[key]float64)
	months := make(map[string]struct{})

	for i := range dates.Cells {
		t, ok := dates.Cells[i].Time()
		if !ok {
			continue
		}
		p, ok := profit.Cells[i].Number()
		if !ok {
			continue
		}
		ch := dataprocessing.StorePhysical
		if channel != nil && channel.Cells[i].Str == dataprocessing.StoreOnline {
			ch = dataprocessing.StoreOnline
		}
		month := fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
		totals[key{month, ch}] += p
		months[month] = struct{}{}
	}

	ordered := make([]string, 0, len(months))
	for m := range months {
		ordered = append(ordered, m)
	}
	sort.Strings(ordered)

	var series []domain.GroupedSeries
	for _, ch := range []string{dataprocessing.StorePhysical, dataprocessing.StoreOnline} {
		s := domain.GroupedSeries{Name: ch, Unit: "EUR"}
		for _, m := range ordered {
			s.Points = append(s.Points, domain.SeriesPoint{
				Category: m,
				Value:    totals[key{m, ch}],
			})
		}
		if len(s.Points) > 0 {
			series = append(series, s)
		}
	}
	return series
}

// UnitsBySize sums quantities per garment size, ordered by the retail size
// ladder rather than by value.
func (a *Aggregator) UnitsBySize(sales *domain.Table) domain.GroupedSeries {
	series := domain.GroupedSeries{Name: "units_by_size", Unit: "uds"}
	if !columnUsable(sales, dataprocessing.ColQuantity) || !columnUsable(sales, dataprocessing.ColSize) {
		return series
	}

	sizes := sales.Column(dataprocessing.ColSize)
	qty := sales.Column(dataprocessing.ColQuantity)

	totals := make(map[string]float64)
	for i := range sizes.Cells {
		size := sizes.Cells[i]
		if size.Kind != domain.CellString || size.Str == "" {
			continue
		}
		if q, ok := qty.Cells[i].Number(); ok {
			totals[size.Str] += q
		}
	}

	labels := make([]string, 0, len(totals))
	for s := range totals {
		labels = append(labels, s)
	}
	SortSizes(labels)

	for _, label := range labels {
		series.Points = append(series.Points, domain.SeriesPoint{Category: label, Value: totals[label]})
	}
	return series
}

// GroupSumByColumn sums a numeric column per distinct value of a string
// column, value-descending, optionally truncated to the top n groups.
// A missing grouping column yields an empty series, never a panic.
func (a *Aggregator) GroupSumByColumn(sales *domain.Table, name, groupCol, sumCol string, n int) domain.GroupedSeries {
	series := domain.GroupedSeries{Name: name, Unit: "EUR"}
	if !columnUsable(sales, sumCol) || sales.Column(groupCol) == nil {
		return series
	}

	groups := sales.Column(groupCol)
	values := sales.Column(sumCol)

	totals := make(map[string]float64)
	for i := range groups.Cells {
		g := groups.Cells[i]
		if g.Kind != domain.CellString || g.Str == "" {
			continue
		}
		if v, ok := values.Cells[i].Number(); ok {
			totals[g.Str] += v
		}
	}

	for category, value := range totals {
		series.Points = append(series.Points, domain.SeriesPoint{Category: category, Value: value})
	}
	sort.SliceStable(series.Points, func(i, j int) bool {
		if series.Points[i].Value != series.Points[j].Value {
			return series.Points[i].Value > series.Points[j].Value
		}
		return series.Points[i].Category < series.Points[j].Category
	})

	if n > 0 && len(series.Points) > n {
		series.Points = series.Points[:n]
	}
	return series
}

// TopFamiliesByProfit returns the top families by summed profit.
func (a *Aggregator) TopFamiliesByProfit(sales *domain.Table, n int) domain.GroupedSeries {
	return a.GroupSumByColumn(sales, "top_families_by_profit", dataprocessing.ColFamily, dataprocessing.ColProfit, n)
}

// TopStoresByProfit returns the top stores by summed profit.
func (a *Aggregator) TopStoresByProfit(sales *domain.Table, n int) domain.GroupedSeries {
	return a.GroupSumByColumn(sales, "top_stores_by_profit", dataprocessing.ColStore, dataprocessing.ColProfit, n)
}

// PriceBucketBreakdown returns units and profit summed per PVP price range,
// in bucket order.
func (a *Aggregator) PriceBucketBreakdown(sales *domain.Table) []domain.GroupedSeries {
	if !columnUsable(sales, dataprocessing.ColPVP) {
		return nil
	}

	pvp := sales.Column(dataprocessing.ColPVP)
	qty := sales.Column(dataprocessing.ColQuantity)
	profit := sales.Column(dataprocessing.ColProfit)

	unitTotals := make([]float64, len(priceBuckets))
	profitTotals := make([]float64, len(priceBuckets))

	for i := range pvp.Cells {
		price, ok := pvp.Cells[i].Number()
		if !ok {
			continue
		}
		b := bucketIndex(price)
		if b < 0 {
			continue
		}
		if qty != nil {
			if q, ok := qty.Cells[i].Number(); ok {
				unitTotals[b] += q
			}
		}
		if profit != nil {
			if p, ok := profit.Cells[i].Number(); ok {
				profitTotals[b] += p
			}
		}
	}

	units := domain.GroupedSeries{Name: "units_by_price_bucket", Unit: "uds"}
	revenue := domain.GroupedSeries{Name: "profit_by_price_bucket", Unit: "EUR"}
	for i, bucket := range priceBuckets {
		units.Points = append(units.Points, domain.SeriesPoint{Category: bucket.label, Value: unitTotals[i]})
		revenue.Points = append(revenue.Points, domain.SeriesPoint{Category: bucket.label, Value: profitTotals[i]})
	}

	return []domain.GroupedSeries{units, revenue}
}

// bucketIndex maps a price to its bucket; lower bounds are inclusive,
// upper exclusive. Negative prices fall outside every bucket.
func bucketIndex(price float64) int {
	if price < 0 {
		return -1
	}
	for i, b := range priceBuckets {
		if b.high < 0 || price < b.high {
			if price >= b.low {
				return i
			}
		}
	}
	return -1
}
