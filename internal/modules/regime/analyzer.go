package regime

import (
	"github.com/rs/zerolog"

	"github.com/aristath/riskriver/internal/domain"
)

// riskOnThreshold is the band-share percentage above which a posture
// dominates. Both stance checks use strict '>' and the high-risk side is
// checked first, so an exact 50/50 split lands on Neutral only via the
// low-risk branch.
const riskOnThreshold = 50.0

// Analyzer classifies the stacked series against a fixed regime table
type Analyzer struct {
	regimes []Regime
	log     zerolog.Logger
}

// NewAnalyzer creates an analyzer over the default regime table
func NewAnalyzer(log zerolog.Logger) *Analyzer {
	return NewAnalyzerWithRegimes(DefaultRegimes, log)
}

// NewAnalyzerWithRegimes creates an analyzer over a custom regime table
func NewAnalyzerWithRegimes(regimes []Regime, log zerolog.Logger) *Analyzer {
	return &Analyzer{
		regimes: regimes,
		log:     log.With().Str("component", "regime_analyzer").Logger(),
	}
}

// Analyze computes per-regime band mixes and stances. The input series must
// be the net-value stacked series regardless of the KPI selected for
// display; regimes describe capital distribution, not derived returns.
func (a *Analyzer) Analyze(points []domain.StackedPoint) []domain.RegimeResult {
	results := make([]domain.RegimeResult, 0, len(a.regimes))
	for _, regime := range a.regimes {
		results = append(results, a.analyzeRegime(regime, points))
	}
	return results
}

func (a *Analyzer) analyzeRegime(regime Regime, points []domain.StackedPoint) domain.RegimeResult {
	result := domain.RegimeResult{
		Label:        regime.Label,
		StartMonth:   regime.StartMonth,
		EndMonth:     regime.EndMonth,
		BandAverages: make(map[domain.Band]float64, len(domain.Bands)),
		Stance:       domain.StanceNeutral,
	}
	for _, band := range domain.Bands {
		result.BandAverages[band] = 0
	}

	matched := 0
	sums := make(map[domain.Band]float64, len(domain.Bands))

	for _, point := range points {
		if len(point.Date) < 7 {
			continue
		}
		month := point.Date[:7]
		if month < regime.StartMonth || month > regime.EndMonth {
			continue
		}
		matched++

		// Zero totals contribute zero shares instead of dividing by zero
		denominator := point.Total
		if denominator == 0 {
			denominator = 1
		}
		for _, band := range domain.Bands {
			sums[band] += point.Bands[band] / denominator * 100
		}
	}

	if matched == 0 {
		a.log.Debug().Str("regime", regime.Label).Msg("No points in regime window")
		return result
	}

	for _, band := range domain.Bands {
		result.BandAverages[band] = sums[band] / float64(matched)
	}
	result.Stance = classifyStance(result.BandAverages)

	return result
}

// classifyStance sums the higher-risk and lower-risk band shares. High-risk
// is checked first with strict '>' on both branches.
func classifyStance(averages map[domain.Band]float64) domain.Stance {
	highRisk := averages[domain.BandWarm] + averages[domain.BandHot] + averages[domain.BandVeryHot]
	if highRisk > riskOnThreshold {
		return domain.StanceRiskOn
	}
	lowRisk := averages[domain.BandCold] + averages[domain.BandMild]
	if lowRisk > riskOnThreshold {
		return domain.StanceRiskOff
	}
	return domain.StanceNeutral
}
