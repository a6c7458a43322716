package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/riskriver/internal/domain"
	"github.com/aristath/riskriver/internal/modules/aggregation"
	"github.com/aristath/riskriver/internal/modules/regime"
	"github.com/aristath/riskriver/internal/pipeline"
)

// Handler serves the read API over the current pipeline snapshot
type Handler struct {
	service    *pipeline.Service
	aggregator *aggregation.Aggregator
	regimes    *regime.Analyzer
	log        zerolog.Logger
}

// NewHandler creates the API handler
func NewHandler(
	service *pipeline.Service,
	aggregator *aggregation.Aggregator,
	regimes *regime.Analyzer,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		service:    service,
		aggregator: aggregator,
		regimes:    regimes,
		log:        log.With().Str("handler", "api").Logger(),
	}
}

// RegisterRoutes registers the read API routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/assets", h.HandleGetAssets)
	r.Get("/river", h.HandleGetRiver)
	r.Get("/kpi/{assetID}", h.HandleGetAssetKpis)
	r.Get("/bands/stats", h.HandleGetBandStats)
	r.Get("/regimes", h.HandleGetRegimes)
	r.Get("/thresholds", h.HandleGetThresholds)
	r.Post("/reload", h.HandleReload)
}

// HandleGetAssets handles GET /api/assets
func (h *Handler) HandleGetAssets(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": snap.Assets,
		"metadata": map[string]interface{}{
			"generated_at": snap.GeneratedAt.Format(time.RFC3339),
			"input_hash":   snap.InputHash,
		},
	})
}

// HandleGetRiver handles GET /api/river?kpi=<kind>&filter=<all|liquid|illiquid>
func (h *Handler) HandleGetRiver(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}

	kind := domain.KpiNetValue
	if param := r.URL.Query().Get("kpi"); param != "" {
		parsed, err := domain.ParseKpiKind(param)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		kind = parsed
	}
	filter := aggregation.ParseFilter(r.URL.Query().Get("filter"))

	points := h.aggregator.Stack(snap.Assets, snap.Grid, kind, filter)

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": points,
		"metadata": map[string]interface{}{
			"kpi":    kind,
			"filter": filter,
			"dates":  len(points),
		},
	})
}

// HandleGetAssetKpis handles GET /api/kpi/{assetID}?kpi=<kind>
func (h *Handler) HandleGetAssetKpis(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}

	assetID := chi.URLParam(r, "assetID")
	asset, found := snap.AssetByID(assetID)
	if !found {
		http.Error(w, "asset not found", http.StatusNotFound)
		return
	}

	kind := domain.KpiNetValue
	if param := r.URL.Query().Get("kpi"); param != "" {
		parsed, err := domain.ParseKpiKind(param)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		kind = parsed
	}

	type seriesPoint struct {
		Date  string  `json:"date"`
		Value float64 `json:"value"`
	}
	series := make([]seriesPoint, 0, len(snap.Grid.Dates))
	for _, date := range snap.Grid.Dates {
		series = append(series, seriesPoint{
			Date:  date,
			Value: snap.Grid.Value(date, assetID, kind),
		})
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": series,
		"metadata": map[string]interface{}{
			"asset": asset.Name,
			"band":  asset.Band,
			"kpi":   kind,
		},
	})
}

// HandleGetBandStats handles GET /api/bands/stats?date=YYYY-MM-DD&filter=<all|liquid|illiquid>
func (h *Handler) HandleGetBandStats(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		if len(snap.Grid.Dates) == 0 {
			http.Error(w, "no calendar data", http.StatusNotFound)
			return
		}
		date = snap.Grid.Dates[len(snap.Grid.Dates)-1]
	}
	filter := aggregation.ParseFilter(r.URL.Query().Get("filter"))

	stats := h.aggregator.BandStatsAt(snap.Assets, snap.Grid, date, filter)

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": stats,
		"metadata": map[string]interface{}{
			"date":   date,
			"filter": filter,
		},
	})
}

// HandleGetRegimes handles GET /api/regimes. The regime analysis always
// runs against the net-value series over the full asset set, independent of
// the KPI selected for display.
func (h *Handler) HandleGetRegimes(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}

	stacked := h.aggregator.Stack(snap.Assets, snap.Grid, domain.KpiNetValue, aggregation.FilterAll)
	results := h.regimes.Analyze(stacked)

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": results,
	})
}

// HandleGetThresholds handles GET /api/thresholds
func (h *Handler) HandleGetThresholds(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"global":    snap.Thresholds,
			"per_class": snap.ClassThresholds,
		},
	})
}

// HandleReload handles POST /api/reload
func (h *Handler) HandleReload(w http.ResponseWriter, r *http.Request) {
	h.log.Info().Msg("Manual feed reload triggered")

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	if err := h.service.Refresh(ctx); err != nil {
		h.log.Error().Err(err).Msg("Manual reload failed")
		http.Error(w, "reload failed", http.StatusBadGateway)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "reloaded"})
}

// snapshot fetches the current snapshot, writing 503 when none exists yet
func (h *Handler) snapshot(w http.ResponseWriter) (*pipeline.Snapshot, bool) {
	snap := h.service.Current()
	if snap == nil {
		http.Error(w, "snapshot not ready", http.StatusServiceUnavailable)
		return nil, false
	}
	return snap, true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode response")
	}
}
