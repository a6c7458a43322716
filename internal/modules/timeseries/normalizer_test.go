package timeseries

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/riskriver/internal/domain"
)

const (
	testWindowStart = "2019-01-01"
	testWindowEnd   = "2025-12-31"
)

func newTestNormalizer() *Normalizer {
	return NewNormalizer(testWindowStart, testWindowEnd, zerolog.Nop())
}

func TestNormalize_MergesDuplicateRecords(t *testing.T) {
	n := newTestNormalizer()

	records := []domain.RawAssetRecord{
		{
			Asset:      "Fund X",
			Volatility: 0.12,
			DailyChanges: []domain.ValuationPoint{
				{Date: "2023-01-02", NAV: 100},
				{Date: "2023-01-03", NAV: 101},
			},
		},
		{
			Asset: "Fund X",
			DailyChanges: []domain.ValuationPoint{
				{Date: "2023-01-03", NAV: 999}, // later record wins
				{Date: "2023-01-04", NAV: 102},
			},
		},
	}

	histories := n.Normalize(records)
	require.Len(t, histories, 1)

	h := histories[0]
	assert.Equal(t, "Fund X", h.Name)
	assert.Equal(t, 0.12, h.Volatility, "scalar from the first record survives a zero in the second")
	assert.Equal(t, []string{"2023-01-02", "2023-01-03", "2023-01-04"}, h.Dates())

	nav, ok := h.ValueAt("2023-01-03")
	require.True(t, ok)
	assert.Equal(t, 999.0, nav, "duplicate date takes the later record's value")
}

func TestNormalize_Idempotent(t *testing.T) {
	n := newTestNormalizer()

	rec := domain.RawAssetRecord{
		Asset:         "Fund Y",
		Volatility:    0.2,
		PurchasePrice: 1000,
		TotalProfit:   50,
		DailyChanges: []domain.ValuationPoint{
			{Date: "2023-06-01", NAV: 1000},
			{Date: "2023-06-02", NAV: 1010},
		},
		Transactions: []domain.Transaction{
			{BuyDate: "2023-06-01", SellDate: "", PurchasePrice: 1000},
		},
	}

	once := n.Normalize([]domain.RawAssetRecord{rec})
	twice := n.Normalize([]domain.RawAssetRecord{rec, rec})

	require.Len(t, once, 1)
	require.Len(t, twice, 1)
	assert.Equal(t, once[0].Dates(), twice[0].Dates())
	assert.Equal(t, once[0].Transactions, twice[0].Transactions)
	assert.Equal(t, once[0].Volatility, twice[0].Volatility)
}

func TestNormalize_TransactionDedup(t *testing.T) {
	n := newTestNormalizer()

	records := []domain.RawAssetRecord{
		{
			Asset: "Fund Z",
			DailyChanges: []domain.ValuationPoint{
				{Date: "2023-01-01", NAV: 100},
			},
			Transactions: []domain.Transaction{
				{BuyDate: "2022-01-01", SellDate: "2023-01-01", Profit: 10},
				{BuyDate: "2021-01-01", SellDate: "", PurchasePrice: 50},
			},
		},
		{
			Asset: "Fund Z",
			Transactions: []domain.Transaction{
				// Same (buy, sell) key: replaces the earlier entry
				{BuyDate: "2022-01-01", SellDate: "2023-01-01", Profit: 25},
			},
		},
	}

	histories := n.Normalize(records)
	require.Len(t, histories, 1)

	txs := histories[0].Transactions
	require.Len(t, txs, 2)
	// Sorted by buy date
	assert.Equal(t, "2021-01-01", txs[0].BuyDate)
	assert.Equal(t, "2022-01-01", txs[1].BuyDate)
	assert.Equal(t, 25.0, txs[1].Profit, "later record wins on duplicate transaction keys")
}

func TestNormalize_DropsEmptyAssets(t *testing.T) {
	n := newTestNormalizer()

	records := []domain.RawAssetRecord{
		{
			// Scalars only: no valuation points and no transactions
			Asset:         "Hollow Fund",
			Volatility:    0.3,
			PurchasePrice: 1000,
		},
		{
			Asset: "Real Fund",
			DailyChanges: []domain.ValuationPoint{
				{Date: "2023-01-01", NAV: 100},
			},
		},
	}

	histories := n.Normalize(records)
	require.Len(t, histories, 1)
	assert.Equal(t, "Real Fund", histories[0].Name)
}

func TestNormalize_DropsAssetsOutsideWindow(t *testing.T) {
	n := newTestNormalizer()

	records := []domain.RawAssetRecord{
		{
			Asset: "Ancient Fund",
			DailyChanges: []domain.ValuationPoint{
				{Date: "2015-01-01", NAV: 100},
				{Date: "2016-01-01", NAV: 110},
			},
		},
		{
			Asset: "Current Fund",
			DailyChanges: []domain.ValuationPoint{
				{Date: "2023-01-01", NAV: 100},
			},
		},
		{
			// Historic valuations only, but an open position keeps it alive
			Asset: "Held Fund",
			DailyChanges: []domain.ValuationPoint{
				{Date: "2018-06-01", NAV: 100},
			},
			Transactions: []domain.Transaction{
				{BuyDate: "2018-06-01", SellDate: ""},
			},
		},
	}

	histories := n.Normalize(records)
	names := make([]string, 0, len(histories))
	for _, h := range histories {
		names = append(names, h.Name)
	}
	assert.Equal(t, []string{"Current Fund", "Held Fund"}, names)
}

func TestNormalize_SortedByName(t *testing.T) {
	n := newTestNormalizer()

	records := []domain.RawAssetRecord{
		{Asset: "Zeta", DailyChanges: []domain.ValuationPoint{{Date: "2023-01-01", NAV: 1}}},
		{Asset: "Alpha", DailyChanges: []domain.ValuationPoint{{Date: "2023-01-01", NAV: 1}}},
		{Asset: "Mid", DailyChanges: []domain.ValuationPoint{{Date: "2023-01-01", NAV: 1}}},
	}

	histories := n.Normalize(records)
	require.Len(t, histories, 3)
	assert.Equal(t, "Alpha", histories[0].Name)
	assert.Equal(t, "Mid", histories[1].Name)
	assert.Equal(t, "Zeta", histories[2].Name)
}

func TestHistory_ValueAtOrBefore(t *testing.T) {
	n := newTestNormalizer()
	histories := n.Normalize([]domain.RawAssetRecord{
		{
			Asset: "Fund A",
			DailyChanges: []domain.ValuationPoint{
				{Date: "2023-01-02", NAV: 100},
				{Date: "2023-01-05", NAV: 105},
				{Date: "2023-01-09", NAV: 103},
			},
		},
	})
	require.Len(t, histories, 1)
	h := histories[0]

	tests := []struct {
		date    string
		wantNAV float64
		wantOK  bool
	}{
		{"2023-01-01", 0, false},    // before first valuation
		{"2023-01-02", 100, true},   // exact hit
		{"2023-01-03", 100, true},   // gap fills backward
		{"2023-01-05", 105, true},   // exact hit
		{"2023-01-08", 105, true},   // gap fills backward
		{"2023-01-09", 103, true},   // exact hit
		{"2024-01-01", 103, true},   // beyond last valuation
	}
	for _, tt := range tests {
		nav, ok := h.ValueAtOrBefore(tt.date)
		assert.Equal(t, tt.wantOK, ok, "date %s", tt.date)
		assert.Equal(t, tt.wantNAV, nav, "date %s", tt.date)
	}
}

func TestHistory_NAVSeries(t *testing.T) {
	n := newTestNormalizer()
	histories := n.Normalize([]domain.RawAssetRecord{
		{
			Asset: "Fund B",
			DailyChanges: []domain.ValuationPoint{
				{Date: "2023-01-01", NAV: 100},
				{Date: "2023-01-02", NAV: 110},
				{Date: "2023-01-03", NAV: 120},
			},
		},
	})
	require.Len(t, histories, 1)
	h := histories[0]

	assert.Equal(t, []float64{100, 110}, h.NAVSeries("2023-01-02"))
	assert.Equal(t, []float64{100, 110, 120}, h.NAVSeries("2023-12-31"))
	assert.Empty(t, h.NAVSeries("2022-12-31"))

	first, ok := h.FirstNAV()
	require.True(t, ok)
	assert.Equal(t, 100.0, first)
}

func TestBuildCalendar(t *testing.T) {
	n := newTestNormalizer()
	histories := n.Normalize([]domain.RawAssetRecord{
		{
			Asset: "Fund A",
			DailyChanges: []domain.ValuationPoint{
				{Date: "2023-01-03", NAV: 1},
				{Date: "2023-01-01", NAV: 1},
			},
		},
		{
			Asset: "Fund B",
			DailyChanges: []domain.ValuationPoint{
				{Date: "2023-01-02", NAV: 1},
				{Date: "2023-01-03", NAV: 1}, // shared date appears once
				{Date: "2030-01-01", NAV: 1}, // clipped
			},
		},
	})

	calendar := BuildCalendar(histories, testWindowStart, "2025-12-31")
	assert.Equal(t, []string{"2023-01-01", "2023-01-02", "2023-01-03"}, calendar)
}
