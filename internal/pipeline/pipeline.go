package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/riskriver/internal/domain"
	"github.com/aristath/riskriver/internal/modules/banding"
	"github.com/aristath/riskriver/internal/modules/classification"
	"github.com/aristath/riskriver/internal/modules/kpi"
	"github.com/aristath/riskriver/internal/modules/timeseries"
	"github.com/aristath/riskriver/internal/modules/volatility"
)

// WindowStart is the first calendar date the pipeline accepts.
const WindowStart = "2019-01-01"

// Options configures a pipeline run
type Options struct {
	// IncludeZeroVol retains assets that still have no measured volatility
	// after backfill, seeding their band from the classifier hint. When
	// false such assets are excluded from the catalog.
	IncludeZeroVol bool
}

// Pipeline converts raw records into an immutable snapshot
type Pipeline struct {
	opts       Options
	classifier *classification.Classifier
	thresholds *banding.Calculator
	backfiller *volatility.Backfiller
	engine     *kpi.Engine
	cache      *SnapshotCache // Optional, nil disables caching
	log        zerolog.Logger
}

// New creates a pipeline with the default classifier rule table
func New(opts Options, cache *SnapshotCache, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		opts:       opts,
		classifier: classification.NewDefault(),
		thresholds: banding.NewCalculator(log),
		backfiller: volatility.NewBackfiller(log),
		engine:     kpi.NewEngine(log),
		cache:      cache,
		log:        log.With().Str("component", "pipeline").Logger(),
	}
}

// Build runs the full pipeline over the given records. The raw feed bytes
// key the snapshot cache: identical input returns the cached snapshot, new
// input invalidates it.
func (p *Pipeline) Build(raw []byte, records []domain.RawAssetRecord) *Snapshot {
	hash := hashInput(raw)

	if p.cache != nil {
		if snap, ok := p.cache.Get(hash); ok {
			p.log.Info().Str("input_hash", hash).Msg("Snapshot served from cache")
			return snap
		}
	}

	windowEnd := time.Now().Format("2006-01-02")
	normalizer := timeseries.NewNormalizer(WindowStart, windowEnd, p.log)
	histories := normalizer.Normalize(records)

	p.backfiller.Backfill(histories)

	if !p.opts.IncludeZeroVol {
		histories = dropZeroVolatility(histories, p.log)
	}

	assets, classThresholds, globalThresholds := p.buildCatalog(histories)

	calendar := timeseries.BuildCalendar(histories, WindowStart, windowEnd)

	byName := make(map[string]*timeseries.History, len(histories))
	for _, h := range histories {
		byName[h.Name] = h
	}
	grid := p.engine.Compute(assets, byName, calendar)

	snap := &Snapshot{
		Assets:          assets,
		Grid:            grid,
		Thresholds:      globalThresholds,
		ClassThresholds: classThresholds,
		InputHash:       hash,
		GeneratedAt:     time.Now(),
	}

	if p.cache != nil {
		p.cache.Put(snap)
	}

	p.log.Info().
		Int("assets", len(assets)).
		Int("dates", len(calendar)).
		Str("input_hash", hash).
		Msg("Snapshot built")

	return snap
}

// buildCatalog classifies every history, computes thresholds over the
// volatility population (per class, with global fallback) and assigns bands.
func (p *Pipeline) buildCatalog(histories []*timeseries.History) ([]domain.Asset, map[string]banding.Thresholds, banding.Thresholds) {
	type classified struct {
		history *timeseries.History
		cls     classification.Classification
	}

	classifiedAssets := make([]classified, 0, len(histories))
	var allVols []float64
	partitions := make(map[string][]float64)

	for _, h := range histories {
		cls := p.classifier.Classify(classification.Input{
			Name:            h.Name,
			Volatility:      h.Volatility,
			HasInterestRate: h.InterestRate != nil,
		})
		classifiedAssets = append(classifiedAssets, classified{history: h, cls: cls})

		if h.Volatility > 0 {
			allVols = append(allVols, h.Volatility)
			key := cls.ClassKey()
			partitions[key] = append(partitions[key], h.Volatility)
		}
	}

	global := p.thresholds.ComputeGlobal(allVols)
	perClass := p.thresholds.ComputeByClass(partitions, global)

	assets := make([]domain.Asset, 0, len(classifiedAssets))
	for _, ca := range classifiedAssets {
		th, ok := perClass[ca.cls.ClassKey()]
		if !ok {
			th = global
		}
		band, score := banding.Assign(ca.history.Volatility, th, ca.cls)

		assets = append(assets, domain.Asset{
			ID:            uuid.NewString(),
			Name:          ca.history.Name,
			CategoryPath:  ca.cls.CategoryPath,
			Liquid:        ca.cls.Liquid,
			Band:          band,
			Score:         score,
			Volatility:    ca.history.Volatility,
			InterestRate:  ca.history.InterestRate,
			PurchasePrice: ca.history.PurchasePrice,
			TotalProfit:   ca.history.TotalProfit,
			Transactions:  ca.history.Transactions,
		})
	}

	return assets, perClass, global
}

// dropZeroVolatility excludes assets that still have no measured volatility
func dropZeroVolatility(histories []*timeseries.History, log zerolog.Logger) []*timeseries.History {
	kept := make([]*timeseries.History, 0, len(histories))
	for _, h := range histories {
		if h.Volatility <= 0 {
			log.Debug().Str("asset", h.Name).Msg("Excluding asset without measured volatility")
			continue
		}
		kept = append(kept, h)
	}
	return kept
}

// hashInput produces the cache key for the raw feed bytes
func hashInput(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:16])
}
