package domain

// Transaction is an immutable buy/sell fact from the raw feed.
// Transactions are deduplicated by (buy date, sell date).
type Transaction struct {
	BuyDate       string  `json:"buy_date" msgpack:"buy_date"`
	SellDate      string  `json:"sell_date" msgpack:"sell_date"`
	PurchasePrice float64 `json:"purchase_price" msgpack:"purchase_price"`
	SellingPrice  float64 `json:"selling_price" msgpack:"selling_price"`
	BuyNAV        float64 `json:"buy_nav" msgpack:"buy_nav"`
	SellNAV       float64 `json:"sell_nav" msgpack:"sell_nav"`
	Profit        float64 `json:"profit" msgpack:"profit"`
}

// ValuationPoint is one daily net-asset-value observation.
type ValuationPoint struct {
	Date string  `json:"date" msgpack:"date"`
	NAV  float64 `json:"nav" msgpack:"nav"`
}

// RawAssetRecord is one ingestion unit for a single asset name. Multiple
// records for the same name may arrive from different source batches and get
// merged by the normalizer.
type RawAssetRecord struct {
	Asset         string           `json:"asset"`
	Volatility    float64          `json:"volatility"`
	InterestRate  *float64         `json:"interest_rate"` // nil when the feed carries a sentinel
	PurchasePrice float64          `json:"purchase_price"`
	TotalProfit   float64          `json:"total_profit"`
	Transactions  []Transaction    `json:"transactions_detail"`
	DailyChanges  []ValuationPoint `json:"daily_changes"`
}

// Asset is a classified, risk-banded catalog entry. Constructed once per
// pipeline run and read-only afterward.
type Asset struct {
	ID            string        `json:"id" msgpack:"id"`
	Name          string        `json:"name" msgpack:"name"`
	CategoryPath  []string      `json:"category_path" msgpack:"category_path"` // e.g. ["Illiquid assets", "Real Estate"]
	Liquid        bool          `json:"liquid" msgpack:"liquid"`
	Band          Band          `json:"band" msgpack:"band"`
	Score         float64       `json:"score" msgpack:"score"` // Normalized risk score, 0-100
	Volatility    float64       `json:"volatility" msgpack:"volatility"`
	InterestRate  *float64      `json:"interest_rate,omitempty" msgpack:"interest_rate"`
	PurchasePrice float64       `json:"purchase_price" msgpack:"purchase_price"`
	TotalProfit   float64       `json:"total_profit" msgpack:"total_profit"`
	Transactions  []Transaction `json:"transactions" msgpack:"transactions"`
}

// StackedPoint is one date of the banded aggregate series.
// Total always equals the sum of the five band values.
type StackedPoint struct {
	Date  string           `json:"date"`
	Bands map[Band]float64 `json:"bands"`
	Total float64          `json:"total"`
}

// Stance classifies a regime's dominant risk posture.
type Stance string

const (
	StanceRiskOn  Stance = "Risk-On"
	StanceRiskOff Stance = "Risk-Off"
	StanceNeutral Stance = "Neutral"
)

// RegimeResult holds the average band mix and stance for one calendar regime.
type RegimeResult struct {
	Label        string           `json:"label"`
	StartMonth   string           `json:"start_month"` // YYYY-MM inclusive
	EndMonth     string           `json:"end_month"`   // YYYY-MM inclusive
	BandAverages map[Band]float64 `json:"band_averages"`
	Stance       Stance           `json:"stance"`
}

// BandStats summarizes one band's assets at a reference date.
type BandStats struct {
	Band         Band    `json:"band"`
	AssetCount   int     `json:"asset_count"`
	CurrentValue float64 `json:"current_value"` // Sum of net_value at the reference date
	AverageScore float64 `json:"average_score"`
}
