package domain

import "fmt"

// KpiKind identifies one of the six per-asset financial KPIs.
type KpiKind string

const (
	KpiNetValue         KpiKind = "net_value"
	KpiProfitLoss       KpiKind = "profit_loss"
	KpiTimeWeighted     KpiKind = "time_weighted_return"
	KpiInternalRate     KpiKind = "internal_rate_of_return"
	KpiQuotedAllocation KpiKind = "quoted_allocation"
	KpiCashFlow         KpiKind = "cash_flow"
)

// KpiKinds lists all KPI kinds.
var KpiKinds = []KpiKind{
	KpiNetValue,
	KpiProfitLoss,
	KpiTimeWeighted,
	KpiInternalRate,
	KpiQuotedAllocation,
	KpiCashFlow,
}

// ParseKpiKind validates a KPI kind string from an external caller.
// Unrecognized kinds are rejected rather than silently coerced.
func ParseKpiKind(s string) (KpiKind, error) {
	kind := KpiKind(s)
	for _, k := range KpiKinds {
		if kind == k {
			return kind, nil
		}
	}
	return "", fmt.Errorf("unknown KPI kind: %q", s)
}

// KpiGrid is the dense (asset, date, kind) KPI series. Every asset has a
// value for every calendar date and every kind; missing data is written as
// zero at build time so consumers never need gap handling.
//
// Values are keyed "date|assetID" per kind. The flat key keeps lookups O(1)
// across all date/asset combinations in a single map access.
type KpiGrid struct {
	Dates  []string                       `json:"dates" msgpack:"dates"` // Sorted ascending, YYYY-MM-DD
	Values map[KpiKind]map[string]float64 `json:"values" msgpack:"values"`
}

// GridKey builds the "date|assetID" lookup key.
func GridKey(date, assetID string) string {
	return date + "|" + assetID
}

// Value returns the KPI value for (date, asset, kind), defaulting to 0.
func (g *KpiGrid) Value(date, assetID string, kind KpiKind) float64 {
	byKey, ok := g.Values[kind]
	if !ok {
		return 0
	}
	return byKey[GridKey(date, assetID)]
}
