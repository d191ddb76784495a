package entity

// MarketInfo describes one tradable symbol. Fetched once per run and held
// read-only in memory.
type MarketInfo struct {
	Pair           string
	BaseAsset      string
	QuoteAsset     string
	BasePrecision  int
	QuotePrecision int
}
