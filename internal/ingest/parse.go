package ingest

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/riskriver/internal/domain"
)

// flexFloat accepts a JSON number, a numeric string, or a sentinel string
// (e.g. "n/a", "-") and records whether a usable value was present.
// The upstream export is inconsistent about how it encodes interest rates.
type flexFloat struct {
	Value float64
	Valid bool
}

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	f.Value, f.Valid = 0, false

	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == "" {
		return nil
	}

	// Plain number
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		f.Value, f.Valid = num, true
		return nil
	}

	// Numeric string, possibly with a percent suffix
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return nil // Unrecognized shape, treat as absent
	}
	str = strings.TrimSuffix(strings.TrimSpace(str), "%")
	if num, err := strconv.ParseFloat(str, 64); err == nil {
		f.Value, f.Valid = num, true
	}
	return nil
}

// rawRecord mirrors the feed's JSON shape before validation
type rawRecord struct {
	Asset         string         `json:"asset"`
	Volatility    flexFloat      `json:"volatility"`
	InterestRate  flexFloat      `json:"interest_rate"`
	PurchasePrice flexFloat      `json:"purchase_price"`
	TotalProfit   flexFloat      `json:"total_profit"`
	Transactions  []rawTxn       `json:"transactions_detail"`
	DailyChanges  []rawValuation `json:"daily_changes"`
}

type rawTxn struct {
	BuyDate       string    `json:"buy_date"`
	SellDate      string    `json:"sell_date"`
	PurchasePrice flexFloat `json:"purchase_price"`
	SellingPrice  flexFloat `json:"selling_price"`
	BuyNAV        flexFloat `json:"buy_nav"`
	SellNAV       flexFloat `json:"sell_nav"`
	Profit        flexFloat `json:"profit"`
}

type rawValuation struct {
	Date string    `json:"date"`
	NAV  flexFloat `json:"nav"`
}

// Parse decodes the feed into structured records. Records without an asset
// name are dropped; transactions and valuation points with unparseable dates
// are dropped individually. Parsing never fails on a single bad entry.
func Parse(raw []byte, log zerolog.Logger) []domain.RawAssetRecord {
	var rawRecords []rawRecord
	if err := json.Unmarshal(raw, &rawRecords); err != nil {
		log.Error().Err(err).Msg("Failed to decode feed JSON, returning no records")
		return nil
	}

	records := make([]domain.RawAssetRecord, 0, len(rawRecords))
	for i, rr := range rawRecords {
		if strings.TrimSpace(rr.Asset) == "" {
			log.Debug().Int("index", i).Msg("Skipping record without asset name")
			continue
		}

		rec := domain.RawAssetRecord{
			Asset:         strings.TrimSpace(rr.Asset),
			Volatility:    rr.Volatility.Value,
			PurchasePrice: rr.PurchasePrice.Value,
			TotalProfit:   rr.TotalProfit.Value,
		}
		if rr.InterestRate.Valid {
			rate := rr.InterestRate.Value
			rec.InterestRate = &rate
		}

		for _, tx := range rr.Transactions {
			buyDate, ok := normalizeDate(tx.BuyDate)
			if !ok {
				log.Debug().
					Str("asset", rec.Asset).
					Str("buy_date", tx.BuyDate).
					Msg("Skipping transaction with unparseable buy date")
				continue
			}
			sellDate, ok := normalizeDate(tx.SellDate)
			if !ok {
				// Open position, sell date may legitimately be absent
				sellDate = ""
			}
			rec.Transactions = append(rec.Transactions, domain.Transaction{
				BuyDate:       buyDate,
				SellDate:      sellDate,
				PurchasePrice: tx.PurchasePrice.Value,
				SellingPrice:  tx.SellingPrice.Value,
				BuyNAV:        tx.BuyNAV.Value,
				SellNAV:       tx.SellNAV.Value,
				Profit:        tx.Profit.Value,
			})
		}

		for _, vp := range rr.DailyChanges {
			date, ok := normalizeDate(vp.Date)
			if !ok || !vp.NAV.Valid {
				log.Debug().
					Str("asset", rec.Asset).
					Str("date", vp.Date).
					Msg("Skipping valuation point with missing date or NAV")
				continue
			}
			rec.DailyChanges = append(rec.DailyChanges, domain.ValuationPoint{
				Date: date,
				NAV:  vp.NAV.Value,
			})
		}

		records = append(records, rec)
	}

	return records
}

// normalizeDate accepts YYYY-MM-DD, optionally with a time suffix, and
// returns the canonical date string.
func normalizeDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if idx := strings.IndexByte(s, 'T'); idx > 0 {
		s = s[:idx]
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return "", false
	}
	return s, true
}
