// Package regime partitions the banded aggregate series into fixed
// interest-rate regimes and classifies each regime's dominant risk posture.
package regime

// Regime is one named calendar period with a macro rate posture. The
// boundaries are a product decision, not derived from data.
type Regime struct {
	Label      string `json:"label"`
	StartMonth string `json:"start_month"` // YYYY-MM inclusive
	EndMonth   string `json:"end_month"`   // YYYY-MM inclusive
}

// DefaultRegimes is the built-in rate-regime table
var DefaultRegimes = []Regime{
	{Label: "Rate Cuts 2019-2020", StartMonth: "2019-01", EndMonth: "2020-02"},
	{Label: "Zero Rates", StartMonth: "2020-03", EndMonth: "2022-01"},
	{Label: "Rate Hikes", StartMonth: "2022-02", EndMonth: "2023-06"},
	{Label: "Constant Rates", StartMonth: "2023-07", EndMonth: "2024-12"},
	{Label: "Rate Cuts 2024-2025", StartMonth: "2025-01", EndMonth: "2025-12"},
}
