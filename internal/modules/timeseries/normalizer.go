package timeseries

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/aristath/riskriver/internal/domain"
)

// Normalizer merges raw records sharing an asset name into one logical
// history per asset. Merge rules: valuation points are keyed by date with
// the later-encountered record winning; transactions are deduplicated by
// (buy date, sell date) with the later one winning; scalar fields take the
// latest non-empty value.
type Normalizer struct {
	windowStart string // Inclusive, YYYY-MM-DD
	windowEnd   string // Inclusive, YYYY-MM-DD
	log         zerolog.Logger
}

// NewNormalizer creates a normalizer for the accepted date window
func NewNormalizer(windowStart, windowEnd string, log zerolog.Logger) *Normalizer {
	return &Normalizer{
		windowStart: windowStart,
		windowEnd:   windowEnd,
		log:         log.With().Str("component", "normalizer").Logger(),
	}
}

// Normalize merges the records and drops assets with no valuation point and
// no transaction inside the accepted window. Results are sorted by name for
// deterministic downstream output.
func (n *Normalizer) Normalize(records []domain.RawAssetRecord) []*History {
	merged := make(map[string]*mergeState)
	var order []string

	for _, rec := range records {
		state, ok := merged[rec.Asset]
		if !ok {
			state = newMergeState(rec.Asset)
			merged[rec.Asset] = state
			order = append(order, rec.Asset)
		}
		state.absorb(rec)
	}

	sort.Strings(order)

	histories := make([]*History, 0, len(order))
	for _, name := range order {
		h := merged[name].build()
		if !n.inWindow(h) {
			n.log.Debug().
				Str("asset", name).
				Msg("Dropping asset with no data inside the accepted window")
			continue
		}
		histories = append(histories, h)
	}

	n.log.Info().
		Int("raw_records", len(records)).
		Int("assets", len(histories)).
		Msg("Normalized asset histories")

	return histories
}

// inWindow reports whether the history has at least one valuation point or
// transaction inside the accepted window
func (n *Normalizer) inWindow(h *History) bool {
	for _, d := range h.dates {
		if d >= n.windowStart && d <= n.windowEnd {
			return true
		}
	}
	for _, tx := range h.Transactions {
		if tx.BuyDate > n.windowEnd {
			continue
		}
		if tx.SellDate == "" || tx.SellDate >= n.windowStart {
			return true
		}
	}
	return false
}

// mergeState accumulates records for one asset name
type mergeState struct {
	name          string
	volatility    float64
	interestRate  *float64
	purchasePrice float64
	totalProfit   float64
	navByDate     map[string]float64
	txByKey       map[string]domain.Transaction
	txOrder       []string
}

func newMergeState(name string) *mergeState {
	return &mergeState{
		name:      name,
		navByDate: make(map[string]float64),
		txByKey:   make(map[string]domain.Transaction),
	}
}

func (s *mergeState) absorb(rec domain.RawAssetRecord) {
	// Later non-empty scalars win
	if rec.Volatility != 0 {
		s.volatility = rec.Volatility
	}
	if rec.InterestRate != nil {
		rate := *rec.InterestRate
		s.interestRate = &rate
	}
	if rec.PurchasePrice != 0 {
		s.purchasePrice = rec.PurchasePrice
	}
	if rec.TotalProfit != 0 {
		s.totalProfit = rec.TotalProfit
	}

	// Later record wins on duplicate valuation dates
	for _, vp := range rec.DailyChanges {
		s.navByDate[vp.Date] = vp.NAV
	}

	// Later record wins on duplicate (buy date, sell date) pairs
	for _, tx := range rec.Transactions {
		key := tx.BuyDate + "|" + tx.SellDate
		if _, seen := s.txByKey[key]; !seen {
			s.txOrder = append(s.txOrder, key)
		}
		s.txByKey[key] = tx
	}
}

func (s *mergeState) build() *History {
	dates := make([]string, 0, len(s.navByDate))
	for d := range s.navByDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	txs := make([]domain.Transaction, 0, len(s.txOrder))
	for _, key := range s.txOrder {
		txs = append(txs, s.txByKey[key])
	}
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].BuyDate < txs[j].BuyDate
	})

	return &History{
		Name:          s.name,
		Volatility:    s.volatility,
		InterestRate:  s.interestRate,
		PurchasePrice: s.purchasePrice,
		TotalProfit:   s.totalProfit,
		Transactions:  txs,
		navByDate:     s.navByDate,
		dates:         dates,
	}
}

// BuildCalendar returns the sorted union of all valuation dates across the
// given histories, clipped to [start, end].
func BuildCalendar(histories []*History, start, end string) []string {
	seen := make(map[string]struct{})
	for _, h := range histories {
		for _, d := range h.dates {
			if d >= start && d <= end {
				seen[d] = struct{}{}
			}
		}
	}

	calendar := make([]string, 0, len(seen))
	for d := range seen {
		calendar = append(calendar, d)
	}
	sort.Strings(calendar)
	return calendar
}
