package ingest

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_WellFormedFeed(t *testing.T) {
	raw := []byte(`[
		{
			"asset": "Fund A",
			"volatility": 0.15,
			"interest_rate": null,
			"purchase_price": 1000,
			"total_profit": 120.5,
			"transactions_detail": [
				{"buy_date": "2021-01-04", "sell_date": "2022-06-01", "purchase_price": 1000, "selling_price": 1120.5, "buy_nav": 1000, "sell_nav": 1120.5, "profit": 120.5}
			],
			"daily_changes": [
				{"date": "2021-01-04", "nav": 1000},
				{"date": "2021-01-05", "nav": 1003.2}
			]
		}
	]`)

	records := Parse(raw, zerolog.Nop())
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "Fund A", rec.Asset)
	assert.Equal(t, 0.15, rec.Volatility)
	assert.Nil(t, rec.InterestRate)
	assert.Equal(t, 120.5, rec.TotalProfit)
	require.Len(t, rec.Transactions, 1)
	assert.Equal(t, "2022-06-01", rec.Transactions[0].SellDate)
	require.Len(t, rec.DailyChanges, 2)
	assert.Equal(t, 1003.2, rec.DailyChanges[1].NAV)
}

func TestParse_InterestRateShapes(t *testing.T) {
	raw := []byte(`[
		{"asset": "Number", "interest_rate": 3.5, "daily_changes": []},
		{"asset": "String", "interest_rate": "3.5", "daily_changes": []},
		{"asset": "Percent", "interest_rate": "3.5%", "daily_changes": []},
		{"asset": "Sentinel", "interest_rate": "n/a", "daily_changes": []},
		{"asset": "Null", "interest_rate": null, "daily_changes": []},
		{"asset": "Missing", "daily_changes": []}
	]`)

	records := Parse(raw, zerolog.Nop())
	require.Len(t, records, 6)

	byAsset := make(map[string]*float64)
	for _, r := range records {
		byAsset[r.Asset] = r.InterestRate
	}

	require.NotNil(t, byAsset["Number"])
	assert.Equal(t, 3.5, *byAsset["Number"])
	require.NotNil(t, byAsset["String"])
	assert.Equal(t, 3.5, *byAsset["String"])
	require.NotNil(t, byAsset["Percent"])
	assert.Equal(t, 3.5, *byAsset["Percent"])
	assert.Nil(t, byAsset["Sentinel"])
	assert.Nil(t, byAsset["Null"])
	assert.Nil(t, byAsset["Missing"])
}

func TestParse_SkipsRecordsWithoutName(t *testing.T) {
	raw := []byte(`[
		{"asset": "", "daily_changes": [{"date": "2023-01-01", "nav": 1}]},
		{"asset": "   ", "daily_changes": [{"date": "2023-01-01", "nav": 1}]},
		{"asset": "Kept", "daily_changes": [{"date": "2023-01-01", "nav": 1}]}
	]`)

	records := Parse(raw, zerolog.Nop())
	require.Len(t, records, 1)
	assert.Equal(t, "Kept", records[0].Asset)
}

func TestParse_SkipsBadEntriesIndividually(t *testing.T) {
	raw := []byte(`[
		{
			"asset": "Messy Fund",
			"transactions_detail": [
				{"buy_date": "garbage", "sell_date": "2023-01-01"},
				{"buy_date": "2022-01-01", "sell_date": "garbage"},
				{"buy_date": "2022-06-01", "sell_date": "2023-06-01"}
			],
			"daily_changes": [
				{"date": "not-a-date", "nav": 100},
				{"date": "2023-01-01", "nav": "n/a"},
				{"date": "2023-01-02", "nav": 101}
			]
		}
	]`)

	records := Parse(raw, zerolog.Nop())
	require.Len(t, records, 1)
	rec := records[0]

	// Bad buy date drops the transaction; bad sell date keeps it open
	require.Len(t, rec.Transactions, 2)
	assert.Equal(t, "2022-01-01", rec.Transactions[0].BuyDate)
	assert.Equal(t, "", rec.Transactions[0].SellDate)
	assert.Equal(t, "2023-06-01", rec.Transactions[1].SellDate)

	// Bad date or NAV drops the valuation point
	require.Len(t, rec.DailyChanges, 1)
	assert.Equal(t, "2023-01-02", rec.DailyChanges[0].Date)
}

func TestParse_TimestampSuffixStripped(t *testing.T) {
	raw := []byte(`[
		{"asset": "Fund T", "daily_changes": [{"date": "2023-01-01T00:00:00Z", "nav": 5}]}
	]`)

	records := Parse(raw, zerolog.Nop())
	require.Len(t, records, 1)
	require.Len(t, records[0].DailyChanges, 1)
	assert.Equal(t, "2023-01-01", records[0].DailyChanges[0].Date)
}

func TestParse_InvalidJSON(t *testing.T) {
	assert.Nil(t, Parse([]byte("not json"), zerolog.Nop()))
	assert.Empty(t, Parse([]byte("[]"), zerolog.Nop()))
}

func TestFlexFloat(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantValue float64
		wantValid bool
	}{
		{"number", `0.25`, 0.25, true},
		{"integer", `7`, 7, true},
		{"numeric string", `"0.25"`, 0.25, true},
		{"percent string", `"12.5%"`, 12.5, true},
		{"padded string", `" 3 "`, 3, true},
		{"sentinel dash", `"-"`, 0, false},
		{"sentinel n/a", `"n/a"`, 0, false},
		{"null", `null`, 0, false},
		{"object", `{"v": 1}`, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f flexFloat
			err := f.UnmarshalJSON([]byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, f.Valid)
			assert.Equal(t, tt.wantValue, f.Value)
		})
	}
}
