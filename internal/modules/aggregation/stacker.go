// Package aggregation folds the per-asset KPI grid into banded stacked
// series and per-band summary statistics.
package aggregation

import (
	"sort"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"github.com/aristath/riskriver/internal/domain"
)

// Filter selects the asset subset to aggregate over
type Filter string

const (
	FilterAll      Filter = "all"
	FilterLiquid   Filter = "liquid"
	FilterIlliquid Filter = "illiquid"
)

// ParseFilter validates a filter string, defaulting to FilterAll
func ParseFilter(s string) Filter {
	switch Filter(s) {
	case FilterLiquid:
		return FilterLiquid
	case FilterIlliquid:
		return FilterIlliquid
	default:
		return FilterAll
	}
}

// Aggregator computes stacked band series from the KPI grid
type Aggregator struct {
	log zerolog.Logger
}

// NewAggregator creates a new band aggregator
func NewAggregator(log zerolog.Logger) *Aggregator {
	return &Aggregator{log: log.With().Str("component", "band_aggregator").Logger()}
}

// Stack produces one StackedPoint per calendar date: the sum of the selected
// KPI across the filtered assets, grouped by band. Runs in O(dates x assets)
// on top of the grid's precomputed (date,asset) index.
func (a *Aggregator) Stack(assets []domain.Asset, grid *domain.KpiGrid, kind domain.KpiKind, filter Filter) []domain.StackedPoint {
	filtered := filterAssets(assets, filter)

	points := make([]domain.StackedPoint, 0, len(grid.Dates))
	for _, date := range grid.Dates {
		point := domain.StackedPoint{
			Date:  date,
			Bands: make(map[domain.Band]float64, len(domain.Bands)),
		}
		for _, band := range domain.Bands {
			point.Bands[band] = 0
		}

		for _, asset := range filtered {
			value := grid.Value(date, asset.ID, kind)
			point.Bands[asset.Band] += value
			point.Total += value
		}

		points = append(points, point)
	}

	return points
}

// BandStatsAt summarizes each band at a reference date: the aggregate
// net value (reference KPI) and the average risk score of the band's
// assets, restricted to the filtered subset. A date between calendar
// points resolves to the most recent calendar date at or before it.
func (a *Aggregator) BandStatsAt(assets []domain.Asset, grid *domain.KpiGrid, date string, filter Filter) []domain.BandStats {
	filtered := filterAssets(assets, filter)

	resolved, ok := resolveDate(grid.Dates, date)
	if !ok {
		a.log.Debug().Str("date", date).Msg("Reference date precedes the calendar, stats are zero")
	}

	stats := make([]domain.BandStats, 0, len(domain.Bands))
	for _, band := range domain.Bands {
		var value float64
		var scores []float64
		count := 0

		for _, asset := range filtered {
			if asset.Band != band {
				continue
			}
			count++
			scores = append(scores, asset.Score)
			if ok {
				value += grid.Value(resolved, asset.ID, domain.KpiNetValue)
			}
		}

		avgScore := 0.0
		if len(scores) > 0 {
			avgScore = stat.Mean(scores, nil)
		}

		stats = append(stats, domain.BandStats{
			Band:         band,
			AssetCount:   count,
			CurrentValue: value,
			AverageScore: avgScore,
		})
	}

	return stats
}

// filterAssets applies the liquidity filter
func filterAssets(assets []domain.Asset, filter Filter) []domain.Asset {
	if filter == FilterAll {
		return assets
	}
	wantLiquid := filter == FilterLiquid
	filtered := make([]domain.Asset, 0, len(assets))
	for _, asset := range assets {
		if asset.Liquid == wantLiquid {
			filtered = append(filtered, asset)
		}
	}
	return filtered
}

// resolveDate returns the most recent calendar date at or before the given
// date, falling back to false when the date precedes the whole calendar.
func resolveDate(calendar []string, date string) (string, bool) {
	if len(calendar) == 0 {
		return "", false
	}
	idx := sort.SearchStrings(calendar, date)
	if idx < len(calendar) && calendar[idx] == date {
		return date, true
	}
	if idx == 0 {
		return "", false
	}
	return calendar[idx-1], true
}
