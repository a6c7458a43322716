// Package kpi computes the dense per-asset, per-date KPI grid: net value,
// profit/loss, time-weighted return, internal rate of return, quoted
// allocation and the cash-flow progress placeholder.
package kpi

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/aristath/riskriver/internal/domain"
	"github.com/aristath/riskriver/internal/modules/timeseries"
)

// Engine computes KPI grids over normalized asset histories
type Engine struct {
	log zerolog.Logger
}

// NewEngine creates a new KPI engine
func NewEngine(log zerolog.Logger) *Engine {
	return &Engine{log: log.With().Str("component", "kpi_engine").Logger()}
}

// Compute fills one KpiGrid cell set for every (asset, date) pair on the
// calendar. Every kind is written for every pair so downstream aggregation
// never needs gap handling.
func (e *Engine) Compute(assets []domain.Asset, histories map[string]*timeseries.History, calendar []string) *domain.KpiGrid {
	grid := &domain.KpiGrid{
		Dates:  calendar,
		Values: make(map[domain.KpiKind]map[string]float64, len(domain.KpiKinds)),
	}
	cells := len(calendar) * len(assets)
	for _, kind := range domain.KpiKinds {
		grid.Values[kind] = make(map[string]float64, cells)
	}

	for _, asset := range assets {
		history, ok := histories[asset.Name]
		if !ok {
			e.log.Warn().Str("asset", asset.Name).Msg("Asset has no history, KPI row stays zero")
			e.writeZeroRow(grid, asset.ID, calendar)
			continue
		}
		e.computeAsset(grid, asset, history, calendar)
	}

	e.log.Info().
		Int("assets", len(assets)).
		Int("dates", len(calendar)).
		Msg("KPI grid computed")

	return grid
}

// computeAsset walks the calendar once per asset, advancing a cursor over
// the asset's own valuation dates so the whole pass stays linear in
// (calendar + valuation points), with the IRR solver as the only per-date
// iterative step.
func (e *Engine) computeAsset(grid *domain.KpiGrid, asset domain.Asset, h *timeseries.History, calendar []string) {
	dates := h.Dates()
	navs := make([]float64, len(dates))
	for i, d := range dates {
		navs[i], _ = h.ValueAt(d)
	}

	// Prefix growth factors for time-weighted return chaining.
	// Sub-periods with non-positive prior NAV are return-neutral.
	growth := make([]float64, len(navs))
	for i := range navs {
		if i == 0 {
			growth[i] = 1
			continue
		}
		growth[i] = growth[i-1]
		if navs[i-1] > 0 {
			growth[i] *= navs[i] / navs[i-1]
		}
	}

	firstNAV, hasFirst := h.FirstNAV()
	totalDates := float64(len(calendar))

	cursor := 0   // Next valuation index to consume
	lastIdx := -1 // Most recent valuation at or before the current date

	for i, date := range calendar {
		for cursor < len(dates) && dates[cursor] <= date {
			lastIdx = cursor
			cursor++
		}

		var netValue float64
		if lastIdx >= 0 {
			netValue = math.Max(0, navs[lastIdx])
		}

		var profitLoss float64
		if hasFirst && lastIdx >= 0 {
			profitLoss = netValue - firstNAV
		}

		var twr float64
		if lastIdx >= 0 {
			twr = (growth[lastIdx] - 1) * 100
		}

		irr := InternalRateOfReturn(buildCashFlows(h.Transactions, date, netValue))

		cashFlow := h.TotalProfit * float64(i) / totalDates

		key := domain.GridKey(date, asset.ID)
		grid.Values[domain.KpiNetValue][key] = netValue
		grid.Values[domain.KpiProfitLoss][key] = profitLoss
		grid.Values[domain.KpiTimeWeighted][key] = twr
		grid.Values[domain.KpiInternalRate][key] = irr
		grid.Values[domain.KpiQuotedAllocation][key] = netValue
		grid.Values[domain.KpiCashFlow][key] = cashFlow
	}
}

// writeZeroRow keeps the grid dense for assets without history
func (e *Engine) writeZeroRow(grid *domain.KpiGrid, assetID string, calendar []string) {
	for _, date := range calendar {
		key := domain.GridKey(date, assetID)
		for _, kind := range domain.KpiKinds {
			grid.Values[kind][key] = 0
		}
	}
}

// buildCashFlows reconstructs the IRR schedule from transactions up to and
// including the given date, with the current net value as the terminal
// inflow when the asset still holds value.
func buildCashFlows(txs []domain.Transaction, date string, netValue float64) []CashFlow {
	var flows []CashFlow
	for _, tx := range txs {
		if tx.BuyDate == "" || tx.BuyDate > date {
			continue
		}
		buyAmount := tx.BuyNAV
		if buyAmount <= 0 {
			buyAmount = tx.PurchasePrice
		}
		if buyAmount > 0 {
			flows = append(flows, CashFlow{Date: tx.BuyDate, Amount: -buyAmount})
		}

		if tx.SellDate != "" && tx.SellDate <= date {
			sellAmount := tx.SellNAV
			if sellAmount <= 0 {
				sellAmount = tx.SellingPrice
			}
			if sellAmount > 0 {
				flows = append(flows, CashFlow{Date: tx.SellDate, Amount: sellAmount})
			}
		}
	}

	if netValue > 0 {
		flows = append(flows, CashFlow{Date: date, Amount: netValue})
	}

	return flows
}
