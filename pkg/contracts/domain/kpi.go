package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// KPIValue is a single named summary metric. A KPI whose source column is
// missing or entirely null is reported with Available=false instead of a
// zero value or an error.
type KPIValue struct {
	Name      string  `json:"name"`
	Value     float64 `json:"value"`
	Text      string  `json:"text,omitempty"`
	Unit      string  `json:"unit,omitempty"`
	Available bool    `json:"available"`
	Reason    string  `json:"reason,omitempty"`
}

// Unavailable returns a KPI marked unavailable with the given reason.
func Unavailable(name, reason string) KPIValue {
	return KPIValue{Name: name, Available: false, Reason: reason}
}

// SeriesPoint is one (category, value) pair of a grouped breakdown.
type SeriesPoint struct {
	Category string  `json:"category"`
	Value    float64 `json:"value"`
}

// GroupedSeries is an ordered category breakdown for chart consumption.
// Points are sorted by value descending unless the grouping is
// chronological or follows a domain ordering (months, garment sizes).
type GroupedSeries struct {
	Name   string        `json:"name"`
	Unit   string        `json:"unit,omitempty"`
	Points []SeriesPoint `json:"points"`
}

// Total returns the sum of all point values.
func (s GroupedSeries) Total() float64 {
	var sum float64
	for _, p := range s.Points {
		sum += p.Value
	}
	return sum
}

// KPIResult is the output of one aggregation pass over a filtered sales
// table: scalar KPIs in display order plus grouped series for charts.
// It is recomputed on every filter change and never cached across sessions.
type KPIResult struct {
	KPIs        []KPIValue      `json:"kpis"`
	Series      []GroupedSeries `json:"series,omitempty"`
	RowCount    int             `json:"row_count"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// KPI returns the named scalar KPI and whether it is present in the result.
func (r *KPIResult) KPI(name string) (KPIValue, bool) {
	for _, k := range r.KPIs {
		if k.Name == name {
			return k, true
		}
	}
	return KPIValue{}, false
}

// Names of the scalar KPIs produced by the aggregator.
const (
	KPITotalRevenue    = "total_net_revenue"
	KPITotalReturns    = "total_returns"
	KPITotalUnits      = "total_units"
	KPIFamilyCount     = "family_count"
	KPIStoreCount      = "store_count"
	KPIPhysicalStores  = "physical_store_count"
	KPIOnlineStores    = "online_store_count"
	KPIPhysicalRevenue = "physical_revenue"
	KPIOnlineRevenue   = "online_revenue"
	KPIAveragePrice    = "average_selling_price"
)

// FormatNumber renders a float without trailing decimal noise, matching the
// display format used by exports.
func FormatNumber(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	s := strconv.FormatFloat(f, 'f', 2, 64)
	return strings.TrimRight(strings.TrimRight(s, "0"), ".")
}

// FormatMoney renders a monetary value with two decimals.
func FormatMoney(f float64) string {
	return fmt.Sprintf("%.2f", f)
}
