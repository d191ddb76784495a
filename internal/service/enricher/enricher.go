package enricher

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"binrec/internal/driver/binance"
	"binrec/internal/entity"
)

// FillSource lists the fills of one order. The Binance client satisfies
// this; tests stub it.
type FillSource interface {
	MyTrades(ctx context.Context, symbol, orderID string) ([]binance.Fill, error)
}

type Enricher struct {
	source FillSource
	log    *logrus.Entry
}

func New(source FillSource, log *logrus.Entry) *Enricher {
	return &Enricher{
		source: source,
		log:    log,
	}
}

// Fetch resolves the fills of an order into aggregated commissions and
// first/last fill times. Any transport or API failure is logged and
// reported as absent; the order is not fatal to the run.
func (e *Enricher) Fetch(ctx context.Context, symbol, orderID string) (entity.EnrichmentResult, bool) {
	fills, err := e.source.MyTrades(ctx, symbol, orderID)
	if err != nil {
		e.log.WithError(err).WithFields(logrus.Fields{
			"order_id": orderID,
			"pair":     symbol,
		}).Warn("fill lookup failed")
		return entity.EnrichmentResult{}, false
	}
	if len(fills) == 0 {
		return entity.EnrichmentResult{}, false
	}

	result := entity.EnrichmentResult{
		Commissions: entity.CommissionSet{},
	}
	for _, fill := range fills {
		amount, err := decimal.NewFromString(fill.Commission)
		if err != nil {
			e.log.WithError(err).WithFields(logrus.Fields{
				"order_id":   orderID,
				"commission": fill.Commission,
			}).Warn("unparseable commission in fill")
			return entity.EnrichmentResult{}, false
		}
		result.Commissions.Add(fill.CommissionAsset, amount)

		ts := time.UnixMilli(fill.Time).UTC()
		if result.FirstFill.IsZero() || ts.Before(result.FirstFill) {
			result.FirstFill = ts
		}
		if ts.After(result.LastFill) {
			result.LastFill = ts
		}
	}

	// Data-quality signal only, processing continues.
	if result.LastFill.Sub(result.FirstFill) > 24*time.Hour {
		e.log.WithFields(logrus.Fields{
			"order_id":   orderID,
			"first_fill": result.FirstFill,
			"last_fill":  result.LastFill,
		}).Warn("fill time spread exceeds one day")
	}

	return result, true
}
