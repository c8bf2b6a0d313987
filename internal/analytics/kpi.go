package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"truccoanalytics/internal/dataprocessing"
	"truccoanalytics/pkg/contracts/domain"
)

// Aggregator computes the scalar KPIs and grouped series of a sales table.
// It is stateless; every call works on the table it is given, so filtered
// and unfiltered views can be aggregated independently.
type Aggregator struct {
	logger *slog.Logger
}

// NewAggregator creates an aggregator.
func NewAggregator(logger *slog.Logger) *Aggregator {
	return &Aggregator{logger: logger.With(slog.String("component", "aggregator"))}
}

// Compute produces the scalar KPI block for a (usually filtered) sales
// table. KPIs whose source columns are missing or all-null degrade to
// unavailable instead of reporting misleading zeros.
func (a *Aggregator) Compute(ctx context.Context, sales *domain.Table) *domain.KPIResult {
	result := &domain.KPIResult{
		RowCount:    0,
		GeneratedAt: time.Now(),
	}
	if sales != nil {
		result.RowCount = sales.RowCount()
	}

	result.KPIs = append(result.KPIs,
		a.totalUnits(sales),
		a.totalRevenue(sales),
		a.totalReturns(sales),
		a.averagePrice(sales),
		a.familyCount(sales),
	)
	result.KPIs = append(result.KPIs, a.storeKPIs(sales)...)

	a.logger.DebugContext(ctx, "KPIs computed",
		slog.Int("rows", result.RowCount),
		slog.Int("kpis", len(result.KPIs)))

	return result
}

func (a *Aggregator) totalUnits(sales *domain.Table) domain.KPIValue {
	sum, ok := sumColumn(sales, dataprocessing.ColQuantity)
	if !ok {
		return domain.Unavailable(domain.KPITotalUnits, reasonMissing(dataprocessing.ColQuantity))
	}
	return domain.KPIValue{
		Name:      domain.KPITotalUnits,
		Value:     sum,
		Text:      domain.FormatNumber(sum),
		Unit:      "uds",
		Available: true,
	}
}

func (a *Aggregator) totalRevenue(sales *domain.Table) domain.KPIValue {
	sum, ok := sumColumn(sales, dataprocessing.ColProfit)
	if !ok {
		return domain.Unavailable(domain.KPITotalRevenue, reasonMissing(dataprocessing.ColProfit))
	}
	return domain.KPIValue{
		Name:      domain.KPITotalRevenue,
		Value:     sum,
		Text:      domain.FormatMoney(sum),
		Unit:      "EUR",
		Available: true,
	}
}

// totalReturns is the absolute profit sum over rows with negative quantity.
func (a *Aggregator) totalReturns(sales *domain.Table) domain.KPIValue {
	if !columnUsable(sales, dataprocessing.ColQuantity) || !columnUsable(sales, dataprocessing.ColProfit) {
		return domain.Unavailable(domain.KPITotalReturns, "requires quantity and profit columns")
	}

	qty := sales.Column(dataprocessing.ColQuantity)
	profit := sales.Column(dataprocessing.ColProfit)

	var sum float64
	for i := range qty.Cells {
		q, ok := qty.Cells[i].Number()
		if !ok || q >= 0 {
			continue
		}
		if p, ok := profit.Cells[i].Number(); ok {
			sum += p
		}
	}

	value := math.Abs(sum)
	return domain.KPIValue{
		Name:      domain.KPITotalReturns,
		Value:     value,
		Text:      domain.FormatMoney(value),
		Unit:      "EUR",
		Available: true,
	}
}

func (a *Aggregator) averagePrice(sales *domain.Table) domain.KPIValue {
	if !columnUsable(sales, dataprocessing.ColPVP) {
		return domain.Unavailable(domain.KPIAveragePrice, reasonMissing(dataprocessing.ColPVP))
	}

	col := sales.Column(dataprocessing.ColPVP)
	var sum float64
	var count int
	for _, cell := range col.Cells {
		if v, ok := cell.Number(); ok {
			sum += v
			count++
		}
	}
	if count == 0 {
		return domain.Unavailable(domain.KPIAveragePrice, reasonMissing(dataprocessing.ColPVP))
	}

	avg := sum / float64(count)
	return domain.KPIValue{
		Name:      domain.KPIAveragePrice,
		Value:     avg,
		Text:      domain.FormatMoney(avg),
		Unit:      "EUR",
		Available: true,
	}
}

func (a *Aggregator) familyCount(sales *domain.Table) domain.KPIValue {
	if sales == nil || !sales.HasColumn(dataprocessing.ColFamily) {
		return domain.Unavailable(domain.KPIFamilyCount, reasonMissing(dataprocessing.ColFamily))
	}
	count := float64(len(sales.DistinctStrings(dataprocessing.ColFamily)))
	return domain.KPIValue{
		Name:      domain.KPIFamilyCount,
		Value:     count,
		Text:      domain.FormatNumber(count),
		Available: true,
	}
}

// storeKPIs yields the store counts and revenue split by channel.
func (a *Aggregator) storeKPIs(sales *domain.Table) []domain.KPIValue {
	if !columnUsable(sales, dataprocessing.ColStore) {
		reason := reasonMissing(dataprocessing.ColStore)
		return []domain.KPIValue{
			domain.Unavailable(domain.KPIStoreCount, reason),
			domain.Unavailable(domain.KPIPhysicalStores, reason),
			domain.Unavailable(domain.KPIOnlineStores, reason),
			domain.Unavailable(domain.KPIPhysicalRevenue, reason),
			domain.Unavailable(domain.KPIOnlineRevenue, reason),
		}
	}

	stores := sales.Column(dataprocessing.ColStore)
	channel := sales.Column(dataprocessing.ColOnline)
	profit := sales.Column(dataprocessing.ColProfit)

	physical := make(map[string]struct{})
	online := make(map[string]struct{})
	var physicalRevenue, onlineRevenue float64

	for i := range stores.Cells {
		store := stores.Cells[i]
		if store.Kind != domain.CellString || store.Str == "" {
			continue
		}

		isOnline := channel != nil && channel.Cells[i].Str == dataprocessing.StoreOnline
		if isOnline {
			online[store.Str] = struct{}{}
		} else {
			physical[store.Str] = struct{}{}
		}

		if profit != nil {
			if p, ok := profit.Cells[i].Number(); ok {
				if isOnline {
					onlineRevenue += p
				} else {
					physicalRevenue += p
				}
			}
		}
	}

	total := float64(len(physical) + len(online))
	kpis := []domain.KPIValue{
		{Name: domain.KPIStoreCount, Value: total, Text: domain.FormatNumber(total), Available: true},
		{Name: domain.KPIPhysicalStores, Value: float64(len(physical)), Text: domain.FormatNumber(float64(len(physical))), Available: true},
		{Name: domain.KPIOnlineStores, Value: float64(len(online)), Text: domain.FormatNumber(float64(len(online))), Available: true},
	}

	if profit != nil {
		kpis = append(kpis,
			domain.KPIValue{Name: domain.KPIPhysicalRevenue, Value: physicalRevenue, Text: domain.FormatMoney(physicalRevenue), Unit: "EUR", Available: true},
			domain.KPIValue{Name: domain.KPIOnlineRevenue, Value: onlineRevenue, Text: domain.FormatMoney(onlineRevenue), Unit: "EUR", Available: true},
		)
	} else {
		reason := reasonMissing(dataprocessing.ColProfit)
		kpis = append(kpis,
			domain.Unavailable(domain.KPIPhysicalRevenue, reason),
			domain.Unavailable(domain.KPIOnlineRevenue, reason),
		)
	}

	return kpis
}

// sumColumn sums a numeric column. The second return is false when the
// column is missing, invalid or entirely null.
func sumColumn(table *domain.Table, name string) (float64, bool) {
	if !columnUsable(table, name) {
		return 0, false
	}

	col := table.Column(name)
	var sum float64
	var count int
	for _, cell := range col.Cells {
		if v, ok := cell.Number(); ok {
			sum += v
			count++
		}
	}
	if count == 0 {
		return 0, false
	}
	return sum, true
}

// columnUsable reports whether a column exists, passed validation and the
// table has rows.
func columnUsable(table *domain.Table, name string) bool {
	return table != nil && !table.IsEmpty() && table.IsColumnValid(name)
}

func reasonMissing(column string) string {
	return fmt.Sprintf("column %q missing or empty", column)
}
