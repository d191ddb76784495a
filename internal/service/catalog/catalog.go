package catalog

import (
	"context"
	"fmt"
	"strings"

	"binrec/internal/driver/binance"
	"binrec/internal/entity"
)

// fallbackQuotes is tried in order against symbols missing from the
// exchange info, typically delisted or renamed markets.
var fallbackQuotes = []string{"ETH", "BTC", "USDT", "EUR", "BNB"}

const fallbackPrecision = 8

// Catalog holds the tradable symbol set for the run, read-only.
type Catalog struct {
	markets map[string]entity.MarketInfo
}

func New(markets []entity.MarketInfo) *Catalog {
	byPair := make(map[string]entity.MarketInfo, len(markets))
	for _, m := range markets {
		byPair[m.Pair] = m
	}
	return &Catalog{markets: byPair}
}

// Load fetches the symbol set once. There is no retry: without market
// metadata no order can be derived, so a failure here ends the run.
func Load(ctx context.Context, client *binance.Client) (*Catalog, error) {
	infos, err := client.ExchangeInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("load markets: %w", err)
	}

	markets := make([]entity.MarketInfo, 0, len(infos))
	for _, info := range infos {
		markets = append(markets, entity.MarketInfo{
			Pair:           info.Symbol,
			BaseAsset:      info.BaseAsset,
			QuoteAsset:     info.QuoteAsset,
			BasePrecision:  info.BaseAssetPrecision,
			QuotePrecision: info.QuotePrecision,
		})
	}
	return New(markets), nil
}

// Lookup resolves a symbol pair, exact match first. Unknown pairs fall
// back to stripping a known quote suffix: "STORMBTC" -> STORM/BTC.
func (c *Catalog) Lookup(pair string) (entity.MarketInfo, bool) {
	if m, ok := c.markets[pair]; ok {
		return m, true
	}

	for _, quote := range fallbackQuotes {
		base, ok := strings.CutSuffix(pair, quote)
		if !ok || base == "" {
			continue
		}
		return entity.MarketInfo{
			Pair:           pair,
			BaseAsset:      base,
			QuoteAsset:     quote,
			BasePrecision:  fallbackPrecision,
			QuotePrecision: fallbackPrecision,
		}, true
	}

	return entity.MarketInfo{}, false
}
