package banding

import (
	"math"

	"github.com/aristath/riskriver/internal/domain"
	"github.com/aristath/riskriver/internal/modules/classification"
)

// Assignment strategy: percentile-relative mapping. A volatility value is
// scored by linear interpolation inside the percentile bucket it falls into
// (p20..p40 maps onto [20,40) and so on), then soft category clamps are
// applied, and the band id is re-derived from the final score. The clamp can
// therefore move an asset into a different band than its raw percentile
// bucket implied. The fixed-global-cut-points variant is deliberately not
// implemented alongside this one.

// nearZeroVolatility is the cutoff below which an asset is treated as having
// no measured volatility and falls back to its classifier default score.
const nearZeroVolatility = 1e-9

// Category clamp bounds applied after the percentile mapping
const (
	cashScoreCeiling          = 15.0
	fixedIncomeScoreCeiling   = 40.0
	privateEquityScoreFloor   = 65.0
	topBucketSaturationFactor = 2.0 // Score saturates at 100 when vol reaches 2x the 80th percentile
)

// Assign maps a volatility value to a (band, score) pair using the given
// thresholds and the asset's classification.
func Assign(volatility float64, th Thresholds, cls classification.Classification) (domain.Band, float64) {
	var score float64
	if volatility <= nearZeroVolatility {
		// No measured volatility: seed from the classifier hint
		score = cls.DefaultScore
	} else {
		score = percentileScore(volatility, th)
	}

	score = applyCategoryClamp(score, cls.ClassKey())
	score = math.Max(0, math.Min(100, score))

	return domain.BandForScore(score), score
}

// percentileScore interpolates the volatility within its percentile bucket
func percentileScore(vol float64, th Thresholds) float64 {
	cuts := th.Values()
	switch {
	case vol < cuts[0]:
		return lerp(vol, 0, cuts[0], 0, 20)
	case vol < cuts[1]:
		return lerp(vol, cuts[0], cuts[1], 20, 40)
	case vol < cuts[2]:
		return lerp(vol, cuts[1], cuts[2], 40, 60)
	case vol < cuts[3]:
		return lerp(vol, cuts[2], cuts[3], 60, 80)
	default:
		// Open-ended top bucket: saturate at topBucketSaturationFactor x p80
		upper := cuts[3] * topBucketSaturationFactor
		if upper <= cuts[3] {
			return 80
		}
		return lerp(math.Min(vol, upper), cuts[3], upper, 80, 100)
	}
}

// lerp maps v from [lo,hi] onto [scoreLo,scoreHi], guarding zero-width buckets
func lerp(v, lo, hi, scoreLo, scoreHi float64) float64 {
	if hi <= lo {
		return scoreLo
	}
	return scoreLo + (v-lo)/(hi-lo)*(scoreHi-scoreLo)
}

// applyCategoryClamp applies the soft per-category score bounds
func applyCategoryClamp(score float64, classKey string) float64 {
	switch classKey {
	case "Cash":
		return math.Min(score, cashScoreCeiling)
	case "Fixed Income":
		return math.Min(score, fixedIncomeScoreCeiling)
	case "Private Equity":
		return math.Max(score, privateEquityScoreFloor)
	default:
		return score
	}
}
