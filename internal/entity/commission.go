package entity

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// CommissionSet maps a settlement-asset symbol to the exact fee owed in it.
type CommissionSet map[string]decimal.Decimal

func (c CommissionSet) Add(asset string, amount decimal.Decimal) {
	c[asset] = c[asset].Add(amount)
}

// Assets returns the settlement assets in ascending order. Map iteration
// order is random, and the output file must be identical across runs.
func (c CommissionSet) Assets() []string {
	assets := make([]string, 0, len(c))
	for asset := range c {
		assets = append(assets, asset)
	}
	sort.Strings(assets)
	return assets
}

// EnrichmentResult is the fill data resolved for one order. Results
// synthesized from the trade-history export carry zero fill times, since
// that export only declares the order's own date.
type EnrichmentResult struct {
	Commissions CommissionSet
	FirstFill   time.Time
	LastFill    time.Time
}
