// Package timeseries merges raw per-asset records into deduplicated
// histories and provides the point-in-time NAV lookups the KPI engine is
// built on.
package timeseries

import (
	"sort"

	"github.com/aristath/riskriver/internal/domain"
)

// History is one asset's merged valuation and transaction history.
// Built once by the normalizer; read-only afterward.
type History struct {
	Name          string
	Volatility    float64
	InterestRate  *float64
	PurchasePrice float64
	TotalProfit   float64
	Transactions  []domain.Transaction

	navByDate map[string]float64
	dates     []string // Sorted ascending, parallel index into navByDate
}

// Dates returns the sorted valuation dates.
func (h *History) Dates() []string {
	return h.dates
}

// ValueAt returns the NAV recorded exactly at date.
func (h *History) ValueAt(date string) (float64, bool) {
	nav, ok := h.navByDate[date]
	return nav, ok
}

// ValueAtOrBefore returns the most recent NAV at or before date. This is the
// canonical way to fill sparse valuations forward onto a dense calendar.
func (h *History) ValueAtOrBefore(date string) (float64, bool) {
	if nav, ok := h.navByDate[date]; ok {
		return nav, true
	}
	// SearchStrings returns the insertion index, so idx-1 is the closest
	// earlier date when one exists.
	idx := sort.SearchStrings(h.dates, date)
	if idx == 0 {
		return 0, false
	}
	return h.navByDate[h.dates[idx-1]], true
}

// FirstNAV returns the first chronological valuation.
func (h *History) FirstNAV() (float64, bool) {
	if len(h.dates) == 0 {
		return 0, false
	}
	return h.navByDate[h.dates[0]], true
}

// NAVSeries returns the NAVs in date order up to and including the given
// date. Used for time-weighted return chaining.
func (h *History) NAVSeries(upTo string) []float64 {
	series := make([]float64, 0, len(h.dates))
	for _, d := range h.dates {
		if d > upTo {
			break
		}
		series = append(series, h.navByDate[d])
	}
	return series
}
