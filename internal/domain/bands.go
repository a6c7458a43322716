// Package domain provides the plain data model shared by the pipeline and
// its consumers: risk bands, assets, KPI kinds and the derived series.
// Everything here is read-only after construction.
package domain

// Band represents one of the five ordered risk bands.
// Bands partition the normalized 0-100 risk score.
type Band string

const (
	BandCold    Band = "cold"
	BandMild    Band = "mild"
	BandWarm    Band = "warm"
	BandHot     Band = "hot"
	BandVeryHot Band = "very_hot"
)

// Bands lists all bands in ascending risk order.
var Bands = []Band{BandCold, BandMild, BandWarm, BandHot, BandVeryHot}

// Score cut points partitioning [0, 100] into the five bands.
// cold=[0,20) mild=[20,40) warm=[40,60) hot=[60,80) very_hot=[80,100].
const (
	ScoreCutMild    = 20.0
	ScoreCutWarm    = 40.0
	ScoreCutHot     = 60.0
	ScoreCutVeryHot = 80.0
)

// BandForScore maps a normalized 0-100 risk score to its band.
func BandForScore(score float64) Band {
	switch {
	case score < ScoreCutMild:
		return BandCold
	case score < ScoreCutWarm:
		return BandMild
	case score < ScoreCutHot:
		return BandWarm
	case score < ScoreCutVeryHot:
		return BandHot
	default:
		return BandVeryHot
	}
}

// Index returns the band's position in ascending risk order (cold=0).
func (b Band) Index() int {
	for i, band := range Bands {
		if band == b {
			return i
		}
	}
	return -1
}

// IsValid reports whether the band is one of the five known bands.
func (b Band) IsValid() bool {
	return b.Index() >= 0
}
