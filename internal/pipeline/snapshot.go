// Package pipeline orchestrates the full transformation run: normalize raw
// records, classify and band assets, compute the KPI grid, and hold the
// resulting immutable snapshot for consumers.
package pipeline

import (
	"time"

	"github.com/aristath/riskriver/internal/domain"
	"github.com/aristath/riskriver/internal/modules/banding"
)

// Snapshot is the immutable result of one pipeline run. A new data load or
// configuration change produces a fresh snapshot; nothing here is mutated
// after construction.
type Snapshot struct {
	Assets          []domain.Asset                `msgpack:"assets"`
	Grid            *domain.KpiGrid               `msgpack:"grid"`
	Thresholds      banding.Thresholds            `msgpack:"thresholds"`       // Global population thresholds
	ClassThresholds map[string]banding.Thresholds `msgpack:"class_thresholds"` // Per asset-class, with global fallback applied
	InputHash       string                        `msgpack:"input_hash"`
	GeneratedAt     time.Time                     `msgpack:"generated_at"`
}

// AssetByID returns the catalog entry with the given id.
func (s *Snapshot) AssetByID(id string) (domain.Asset, bool) {
	for _, a := range s.Assets {
		if a.ID == id {
			return a, true
		}
	}
	return domain.Asset{}, false
}
