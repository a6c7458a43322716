// Package banding computes data-driven volatility thresholds and assigns
// assets to risk bands with a normalized 0-100 score.
package banding

import (
	"sort"

	"github.com/rs/zerolog"
)

// MinPartitionSize is the smallest per-class population considered viable.
// Smaller partitions fall back to the global thresholds.
const MinPartitionSize = 5

// Thresholds holds the four ascending volatility cut points (20th, 40th,
// 60th and 80th percentile of the population).
type Thresholds struct {
	P20 float64 `json:"p20"`
	P40 float64 `json:"p40"`
	P60 float64 `json:"p60"`
	P80 float64 `json:"p80"`
}

// FallbackThresholds is used when the volatility population is empty.
// The constants correspond to 5% / 10% / 20% / 40% annualized volatility,
// a spread wide enough to keep all five bands reachable.
var FallbackThresholds = Thresholds{P20: 0.05, P40: 0.10, P60: 0.20, P80: 0.40}

// Calculator computes band thresholds from volatility populations
type Calculator struct {
	log zerolog.Logger
}

// NewCalculator creates a new threshold calculator
func NewCalculator(log zerolog.Logger) *Calculator {
	return &Calculator{log: log.With().Str("component", "band_thresholds").Logger()}
}

// ComputeGlobal computes thresholds over the full population. Non-positive
// values are ignored; an empty population yields FallbackThresholds.
func (c *Calculator) ComputeGlobal(volatilities []float64) Thresholds {
	positive := make([]float64, 0, len(volatilities))
	for _, v := range volatilities {
		if v > 0 {
			positive = append(positive, v)
		}
	}

	if len(positive) == 0 {
		c.log.Warn().Msg("Empty volatility population, using fallback thresholds")
		return FallbackThresholds
	}

	sort.Float64s(positive)

	th := Thresholds{
		P20: nearestRank(positive, 0.20),
		P40: nearestRank(positive, 0.40),
		P60: nearestRank(positive, 0.60),
		P80: nearestRank(positive, 0.80),
	}
	return clampMonotone(th)
}

// ComputeByClass computes per-class thresholds, falling back to the global
// thresholds for partitions below MinPartitionSize.
func (c *Calculator) ComputeByClass(partitions map[string][]float64, global Thresholds) map[string]Thresholds {
	result := make(map[string]Thresholds, len(partitions))
	for class, vols := range partitions {
		positive := 0
		for _, v := range vols {
			if v > 0 {
				positive++
			}
		}
		if positive < MinPartitionSize {
			c.log.Debug().
				Str("class", class).
				Int("samples", positive).
				Msg("Partition below minimum viable size, using global thresholds")
			result[class] = global
			continue
		}
		result[class] = c.ComputeGlobal(vols)
	}
	return result
}

// nearestRank returns the value at index floor(n*p) of a sorted slice
func nearestRank(sorted []float64, percentile float64) float64 {
	idx := int(float64(len(sorted)) * percentile)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// clampMonotone forces t1 <= t2 <= t3 <= t4. Ties in the population can
// otherwise produce inverted cut points.
func clampMonotone(th Thresholds) Thresholds {
	if th.P40 < th.P20 {
		th.P40 = th.P20
	}
	if th.P60 < th.P40 {
		th.P60 = th.P40
	}
	if th.P80 < th.P60 {
		th.P80 = th.P60
	}
	return th
}

// Values returns the cut points in ascending order
func (t Thresholds) Values() [4]float64 {
	return [4]float64{t.P20, t.P40, t.P60, t.P80}
}
