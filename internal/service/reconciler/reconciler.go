package reconciler

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"binrec/internal/entity"
	"binrec/internal/event"
	"binrec/pkg/ebus"
)

// Enrichment resolves fills via the exchange API.
type Enrichment interface {
	Fetch(ctx context.Context, symbol, orderID string) (entity.EnrichmentResult, bool)
}

// TradeIndex resolves fees from the trade-history export when the API
// cannot. May be nil when no secondary export was given.
type TradeIndex interface {
	Lookup(date, pair, side string) (entity.EnrichmentResult, bool)
}

// Markets resolves symbol metadata.
type Markets interface {
	Lookup(pair string) (entity.MarketInfo, bool)
}

// ResultStore owns the persisted output set across runs.
type ResultStore interface {
	LastResults(ctx context.Context) ([]entity.OutputRecord, error)
	Store(ctx context.Context, records []entity.OutputRecord) error
}

type Stats struct {
	Processed  int
	Emitted    int
	Duplicates int
	Unfilled   int
	Unresolved int
}

// Reconciler walks the primary order rows strictly in file order, resolves
// each through the enrichment chain and persists the grown result set
// before touching the next row. A run killed mid-way therefore leaves a
// valid, resumable output file behind.
type Reconciler struct {
	rows     []map[string]string
	store    ResultStore
	enricher Enrichment
	index    TradeIndex
	markets  Markets
	eBus     *ebus.EBus

	// mx guards results/seen/stats; the watcher reads Stats from its own
	// goroutine while the row loop runs.
	mx      sync.RWMutex
	results []entity.OutputRecord
	seen    map[string]struct{}
	stats   Stats
}

func New(rows []map[string]string, store ResultStore, enr Enrichment, index TradeIndex, markets Markets, eBus *ebus.EBus) *Reconciler {
	return &Reconciler{
		rows:     rows,
		store:    store,
		enricher: enr,
		index:    index,
		markets:  markets,
		eBus:     eBus,
		seen:     make(map[string]struct{}),
	}
}

func (r *Reconciler) Run(ctx context.Context) error {
	previous, err := r.store.LastResults(ctx)
	if err != nil {
		return fmt.Errorf("restore results: %w", err)
	}
	r.restore(previous)
	_ = r.eBus.Emit(ctx, event.StateRestored{Orders: len(previous)})

	for _, row := range r.rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.process(ctx, entity.OrderFromRow(row)); err != nil {
			return err
		}
	}

	return nil
}

func (r *Reconciler) restore(previous []entity.OutputRecord) {
	r.mx.Lock()
	defer r.mx.Unlock()

	r.results = previous
	for _, rec := range previous {
		r.seen[rec.OrderID] = struct{}{}
	}
}

func (r *Reconciler) process(ctx context.Context, order entity.OrderRecord) error {
	r.bump(func(s *Stats) { s.Processed++ })

	r.mx.RLock()
	_, dup := r.seen[order.OrderNo]
	r.mx.RUnlock()
	if dup {
		r.bump(func(s *Stats) { s.Duplicates++ })
		return nil
	}

	if !order.Status.Executed() {
		if !order.Status.Recognized() {
			_ = r.eBus.Emit(ctx, event.OrderSkipped{
				OrderID: order.OrderNo,
				Pair:    order.Pair,
				Reason:  fmt.Sprintf("unexpected status %q", order.Status),
			})
		}
		r.bump(func(s *Stats) { s.Unfilled++ })
		return nil
	}

	result, ok := r.resolve(ctx, order)
	if !ok {
		_ = r.eBus.Emit(ctx, event.OrderSkipped{
			OrderID: order.OrderNo,
			Pair:    order.Pair,
			Reason:  "no enrichment source has fill data for the order",
		})
		r.bump(func(s *Stats) { s.Unresolved++ })
		return nil
	}

	market, ok := r.markets.Lookup(order.Pair)
	if !ok {
		_ = r.eBus.Emit(ctx, event.OrderSkipped{
			OrderID: order.OrderNo,
			Pair:    order.Pair,
			Reason:  "symbol pair unknown to the market catalog",
		})
		r.bump(func(s *Stats) { s.Unresolved++ })
		return nil
	}

	record, dropped := derive(order, market, result)
	if len(dropped) > 0 {
		_ = r.eBus.Emit(ctx, event.CommissionsTruncated{
			OrderID: order.OrderNo,
			Dropped: dropped,
		})
	}

	r.mx.Lock()
	r.results = append(r.results, record)
	r.seen[order.OrderNo] = struct{}{}
	sortResults(r.results)
	r.stats.Emitted++
	snapshot := slices.Clone(r.results)
	r.mx.Unlock()

	if err := r.store.Store(ctx, snapshot); err != nil {
		return fmt.Errorf("persist results: %w", err)
	}

	_ = r.eBus.Emit(ctx, event.OrderEmitted{
		OrderID: order.OrderNo,
		Pair:    order.Pair,
	})

	return nil
}

// resolve runs the enrichment chain left to right: API first, then the
// trade-history index keyed by (declared date, pair, side).
func (r *Reconciler) resolve(ctx context.Context, order entity.OrderRecord) (entity.EnrichmentResult, bool) {
	if result, ok := r.enricher.Fetch(ctx, order.Pair, order.OrderNo); ok {
		return result, true
	}
	if r.index != nil {
		if result, ok := r.index.Lookup(order.DateUTC, order.Pair, order.Side); ok {
			return result, true
		}
	}
	return entity.EnrichmentResult{}, false
}

const fillTimeLayout = "2006-01-02 15:04:05"

// derive builds the output row. Commissions land in the two fixed column
// slots in ascending asset order; any further settlement assets are
// returned as dropped.
func derive(order entity.OrderRecord, market entity.MarketInfo, result entity.EnrichmentResult) (entity.OutputRecord, []string) {
	record := entity.OutputRecord{
		DateUTC:     order.DateUTC,
		Description: fmt.Sprintf("%s %s %s", order.Pair, strings.ToLower(order.Type), strings.ToLower(order.Side)),
		OrderID:     order.OrderNo,
		BaseAsset:   market.BaseAsset,
		QuoteAsset:  market.QuoteAsset,
		Amount:      entity.CleanAmount(order.Executed),
		Price:       entity.CleanPrice(order.AveragePrice),
	}
	if !result.FirstFill.IsZero() {
		record.FillDateUTC = result.FirstFill.Format(fillTimeLayout)
	}

	assets := result.Commissions.Assets()
	for i, asset := range assets {
		amount := result.Commissions[asset].String()
		switch i {
		case 0:
			record.Comm0Asset, record.Comm0Amount = asset, amount
		case 1:
			record.Comm1Asset, record.Comm1Amount = asset, amount
		}
	}

	if len(assets) > 2 {
		return record, assets[2:]
	}
	return record, nil
}

// sortResults keeps the set ordered by declared date descending. The
// export's timestamp format compares chronologically as a string; order id
// breaks ties so re-sorts are stable across runs.
func sortResults(records []entity.OutputRecord) {
	slices.SortFunc(records, func(a, b entity.OutputRecord) int {
		if c := strings.Compare(b.DateUTC, a.DateUTC); c != 0 {
			return c
		}
		return strings.Compare(b.OrderID, a.OrderID)
	})
}

func (r *Reconciler) bump(fn func(*Stats)) {
	r.mx.Lock()
	defer r.mx.Unlock()
	fn(&r.stats)
}

func (r *Reconciler) Stats() Stats {
	r.mx.RLock()
	defer r.mx.RUnlock()
	return r.stats
}
