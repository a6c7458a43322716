package pipeline

import (
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/riskriver/internal/domain"
)

func testRecords() []domain.RawAssetRecord {
	return []domain.RawAssetRecord{
		{
			Asset:      "Tagesgeld Konto",
			Volatility: 0.002,
			DailyChanges: []domain.ValuationPoint{
				{Date: "2023-01-02", NAV: 5000},
				{Date: "2023-01-09", NAV: 5001},
			},
		},
		{
			Asset:      "Tech Equity Fund",
			Volatility: 0.25,
			DailyChanges: []domain.ValuationPoint{
				{Date: "2023-01-02", NAV: 1000},
				{Date: "2023-01-09", NAV: 1100},
			},
			Transactions: []domain.Transaction{
				{BuyDate: "2023-01-02", SellDate: "", BuyNAV: 1000},
			},
		},
		{
			Asset:      "Venture Capital Fund III",
			Volatility: 0.60,
			DailyChanges: []domain.ValuationPoint{
				{Date: "2023-01-02", NAV: 20000},
			},
		},
		{
			// No measured volatility and too little history to backfill
			Asset: "Dormant Holding",
			DailyChanges: []domain.ValuationPoint{
				{Date: "2023-01-02", NAV: 100},
			},
		},
	}
}

func rawFor(t *testing.T, records []domain.RawAssetRecord) []byte {
	t.Helper()
	raw, err := json.Marshal(records)
	require.NoError(t, err)
	return raw
}

func TestBuild_CatalogAndGrid(t *testing.T) {
	p := New(Options{IncludeZeroVol: true}, nil, zerolog.Nop())

	records := testRecords()
	snap := p.Build(rawFor(t, records), records)
	require.NotNil(t, snap)
	require.Len(t, snap.Assets, 4)

	byName := make(map[string]domain.Asset)
	for _, a := range snap.Assets {
		assert.NotEmpty(t, a.ID)
		byName[a.Name] = a
	}

	assert.Equal(t, []string{"Liquid assets", "Cash"}, byName["Tagesgeld Konto"].CategoryPath)
	assert.Equal(t, []string{"Illiquid assets", "Private Equity"}, byName["Venture Capital Fund III"].CategoryPath)
	assert.False(t, byName["Venture Capital Fund III"].Liquid)

	// Every asset's band is consistent with its score
	for name, a := range byName {
		assert.Equal(t, domain.BandForScore(a.Score), a.Band, "asset %s", name)
	}

	// Calendar is the union of valuation dates
	assert.Equal(t, []string{"2023-01-02", "2023-01-09"}, snap.Grid.Dates)

	// Grid is dense: every kind has a cell for every (asset, date) pair
	for _, kind := range domain.KpiKinds {
		assert.Len(t, snap.Grid.Values[kind], len(snap.Assets)*len(snap.Grid.Dates), "kind %s", kind)
	}

	equity := byName["Tech Equity Fund"]
	assert.Equal(t, 1100.0, snap.Grid.Value("2023-01-09", equity.ID, domain.KpiNetValue))
	assert.InDelta(t, 10.0, snap.Grid.Value("2023-01-09", equity.ID, domain.KpiTimeWeighted), 1e-9)
}

func TestBuild_ZeroVolatilityToggle(t *testing.T) {
	records := testRecords()
	raw := rawFor(t, records)

	keep := New(Options{IncludeZeroVol: true}, nil, zerolog.Nop()).Build(raw, records)
	drop := New(Options{IncludeZeroVol: false}, nil, zerolog.Nop()).Build(raw, records)

	assert.Len(t, keep.Assets, 4)
	assert.Len(t, drop.Assets, 3)
	for _, a := range drop.Assets {
		assert.NotEqual(t, "Dormant Holding", a.Name)
	}

	// The included zero-volatility asset is seeded from its classifier hint
	for _, a := range keep.Assets {
		if a.Name == "Dormant Holding" {
			assert.Equal(t, 0.0, a.Volatility)
			assert.Equal(t, []string{"Illiquid assets", "Private Equity"}, a.CategoryPath)
			assert.GreaterOrEqual(t, a.Score, 65.0)
		}
	}
}

func TestBuild_ThresholdsMonotone(t *testing.T) {
	p := New(Options{IncludeZeroVol: true}, nil, zerolog.Nop())
	records := testRecords()
	snap := p.Build(rawFor(t, records), records)

	v := snap.Thresholds.Values()
	assert.LessOrEqual(t, v[0], v[1])
	assert.LessOrEqual(t, v[1], v[2])
	assert.LessOrEqual(t, v[2], v[3])

	for class, th := range snap.ClassThresholds {
		cv := th.Values()
		assert.LessOrEqual(t, cv[0], cv[3], "class %s", class)
	}
}

func TestBuild_InputHashStable(t *testing.T) {
	p := New(Options{IncludeZeroVol: true}, nil, zerolog.Nop())
	records := testRecords()
	raw := rawFor(t, records)

	a := p.Build(raw, records)
	b := p.Build(raw, records)
	assert.Equal(t, a.InputHash, b.InputHash)

	other := p.Build(append(raw, ' '), records)
	assert.NotEqual(t, a.InputHash, other.InputHash)
}

func TestBuild_ExcludesEmptyAssets(t *testing.T) {
	p := New(Options{IncludeZeroVol: true}, nil, zerolog.Nop())

	// A record with neither valuation points nor transactions never reaches
	// the catalog, even with zero-volatility assets included.
	records := append(testRecords(), domain.RawAssetRecord{
		Asset:      "Hollow Fund",
		Volatility: 0.5,
	})

	snap := p.Build(rawFor(t, records), records)
	require.Len(t, snap.Assets, 4)
	for _, a := range snap.Assets {
		assert.NotEqual(t, "Hollow Fund", a.Name)
	}
}

func TestBuild_MergedDuplicatesProduceOneAsset(t *testing.T) {
	p := New(Options{IncludeZeroVol: true}, nil, zerolog.Nop())

	records := []domain.RawAssetRecord{
		{
			Asset:      "Fund X",
			Volatility: 0.1,
			DailyChanges: []domain.ValuationPoint{
				{Date: "2023-01-02", NAV: 100},
			},
		},
		{
			Asset: "Fund X",
			DailyChanges: []domain.ValuationPoint{
				{Date: "2023-01-03", NAV: 105},
			},
		},
	}

	snap := p.Build(rawFor(t, records), records)
	require.Len(t, snap.Assets, 1)
	assert.Equal(t, 0.1, snap.Assets[0].Volatility)
	assert.Equal(t, []string{"2023-01-02", "2023-01-03"}, snap.Grid.Dates)
}

func TestSnapshot_AssetByID(t *testing.T) {
	p := New(Options{IncludeZeroVol: true}, nil, zerolog.Nop())
	records := testRecords()
	snap := p.Build(rawFor(t, records), records)

	want := snap.Assets[0]
	got, ok := snap.AssetByID(want.ID)
	require.True(t, ok)
	assert.Equal(t, want.Name, got.Name)

	_, ok = snap.AssetByID("no-such-id")
	assert.False(t, ok)
}
