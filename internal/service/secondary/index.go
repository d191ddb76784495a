package secondary

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"binrec/internal/entity"
)

// key identifies one logical order in the trade-history export. The
// export has no order ids; all raw lines sharing a key are assumed to
// belong to the same order and their fees sum.
type key struct {
	date string
	pair string
	side string
}

// Index is the fallback enrichment source built from the coarser
// trade-history export, used when the API has no data for an order.
type Index struct {
	entries map[key]entity.CommissionSet
}

// feeShape matches a fee cell after thousands separators are removed:
// a decimal amount immediately followed by the settlement asset code.
var feeShape = regexp.MustCompile(`^([0-9]+(?:\.[0-9]+)?)([A-Za-z][A-Za-z0-9]*)$`)

// Build squashes the raw rows into one commission set per key. The fee
// format is closed and fully specified, so a single unparseable fee fails
// the whole build.
func Build(rows []map[string]string) (*Index, error) {
	idx := &Index{
		entries: make(map[key]entity.CommissionSet),
	}

	for i, row := range rows {
		fee := strings.ReplaceAll(row["fee"], ",", "")
		m := feeShape.FindStringSubmatch(fee)
		if m == nil {
			return nil, fmt.Errorf("trade history row %d: unparseable fee %q", i+2, row["fee"])
		}
		amount, err := decimal.NewFromString(m[1])
		if err != nil {
			return nil, fmt.Errorf("trade history row %d: fee amount %q: %w", i+2, m[1], err)
		}

		k := key{
			date: row["date_utc"],
			pair: row["market"],
			side: row["type"],
		}
		set, ok := idx.entries[k]
		if !ok {
			set = entity.CommissionSet{}
			idx.entries[k] = set
		}
		set.Add(m[2], amount)
	}

	return idx, nil
}

// Lookup returns the aggregated commissions for (declared date, pair,
// side). The synthesized result has no fill timestamps; the export only
// declares the order's own date.
func (ix *Index) Lookup(date, pair, side string) (entity.EnrichmentResult, bool) {
	set, ok := ix.entries[key{date: date, pair: pair, side: side}]
	if !ok {
		return entity.EnrichmentResult{}, false
	}
	return entity.EnrichmentResult{Commissions: set}, true
}

// Len reports how many logical orders the index covers.
func (ix *Index) Len() int {
	return len(ix.entries)
}
