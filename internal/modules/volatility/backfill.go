// Package volatility derives a measured volatility figure from an asset's
// own NAV history when the feed reports none. The upstream export regularly
// ships zero volatility for assets that do have a full valuation history.
package volatility

import (
	"math"

	"github.com/markcheno/go-talib"
	"github.com/rs/zerolog"

	"github.com/aristath/riskriver/internal/modules/timeseries"
)

// MinObservations is the minimum number of daily returns required before a
// measured figure is trusted.
const MinObservations = 20

// tradingDaysPerYear annualizes the daily return standard deviation
const tradingDaysPerYear = 252

// Backfiller fills missing volatility figures from NAV histories
type Backfiller struct {
	log zerolog.Logger
}

// NewBackfiller creates a new volatility backfiller
func NewBackfiller(log zerolog.Logger) *Backfiller {
	return &Backfiller{log: log.With().Str("component", "volatility_backfill").Logger()}
}

// Backfill sets a measured volatility on every history that has none and
// has enough valuation points. Histories keep their feed volatility when one
// is present. Returns the number of assets updated.
func (b *Backfiller) Backfill(histories []*timeseries.History) int {
	updated := 0
	for _, h := range histories {
		if h.Volatility > 0 {
			continue
		}
		measured, ok := b.Measure(h)
		if !ok {
			continue
		}
		b.log.Debug().
			Str("asset", h.Name).
			Float64("volatility", measured).
			Msg("Backfilled volatility from NAV history")
		h.Volatility = measured
		updated++
	}

	if updated > 0 {
		b.log.Info().Int("assets", updated).Msg("Volatility backfill applied")
	}
	return updated
}

// Measure computes the annualized standard deviation of daily returns over
// the full NAV history. Sub-periods with a non-positive prior NAV are
// skipped rather than producing spurious returns.
func (b *Backfiller) Measure(h *timeseries.History) (float64, bool) {
	navs := h.NAVSeries("9999-12-31")
	if len(navs) < MinObservations+1 {
		return 0, false
	}

	returns := make([]float64, 0, len(navs)-1)
	for i := 1; i < len(navs); i++ {
		if navs[i-1] <= 0 {
			continue
		}
		returns = append(returns, navs[i]/navs[i-1]-1)
	}
	if len(returns) < MinObservations {
		return 0, false
	}

	// Standard deviation over the whole return window; talib returns a
	// rolling series, the final element covers the full period.
	stddev := talib.StdDev(returns, len(returns), 1)
	daily := stddev[len(stddev)-1]
	if math.IsNaN(daily) || daily <= 0 {
		return 0, false
	}

	return daily * math.Sqrt(tradingDaysPerYear), true
}
