package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"binrec/config"
	"binrec/internal/driver/binance"
	"binrec/internal/event"
	"binrec/internal/repository"
	"binrec/internal/service/catalog"
	"binrec/internal/service/enricher"
	"binrec/internal/service/interrupter"
	"binrec/internal/service/reconciler"
	"binrec/internal/service/secondary"
	"binrec/internal/service/watcher"
	"binrec/pkg/app"
	"binrec/pkg/ebus"
	"binrec/pkg/utils"
)

func main() {
	noResume := flag.Bool("no-resume", false, "ignore an existing output file instead of resuming from it")
	flag.Parse()

	if flag.NArg() < 1 || flag.NArg() > 2 {
		fmt.Fprintln(os.Stderr, "usage: binrec [-no-resume] <orders.csv> [trade-history.csv]")
		os.Exit(2)
	}

	logger := logrus.New().WithField("run_id", uuid.NewString())

	cfg, err := config.Build()
	if err != nil {
		logger.WithError(err).Fatal("configuration")
	}

	primary := flag.Arg(0)
	rows, err := repository.ReadTable(primary)
	if err != nil {
		logger.WithError(err).WithField("path", primary).Fatal("read orders export")
	}

	var index reconciler.TradeIndex
	if flag.NArg() == 2 {
		tradeRows, err := repository.ReadTable(flag.Arg(1))
		if err != nil {
			logger.WithError(err).WithField("path", flag.Arg(1)).Fatal("read trade-history export")
		}
		built, err := secondary.Build(tradeRows)
		if err != nil {
			logger.WithError(err).Fatal("build trade-history index")
		}
		logger.WithField("orders", built.Len()).Info("trade-history index ready")
		index = built
	}

	ctx := context.Background()
	eBus := ebus.New()

	client := binance.NewClient(cfg.Binance, logger)
	markets := utils.Must(catalog.Load(ctx, client))

	store := repository.NewResults(repository.OutputPath(primary), !*noResume)
	engine := reconciler.New(rows, store, enricher.New(client, logger), index, markets, eBus)

	watch := watcher.NewWatcher(eBus).
		EmitEvery(cfg.ProgressEvery, event.ProgressUpdated{}, func(ctx context.Context) (any, error) {
			s := engine.Stats()
			return event.ProgressUpdated{
				Processed:  s.Processed,
				Emitted:    s.Emitted,
				Duplicates: s.Duplicates,
				Unfilled:   s.Unfilled,
				Unresolved: s.Unresolved,
			}, nil
		})

	eBus.
		Subscribe(event.StateRestored{}, watcher.LogEvent(logger, logrus.InfoLevel)).
		Subscribe(event.OrderEmitted{}, watcher.LogEvent(logger, logrus.InfoLevel)).
		Subscribe(event.OrderSkipped{}, watcher.LogEvent(logger, logrus.WarnLevel)).
		Subscribe(event.CommissionsTruncated{}, watcher.LogEvent(logger, logrus.WarnLevel)).
		Subscribe(event.ProgressUpdated{}, ebus.Typed(func(ctx context.Context, p event.ProgressUpdated) error {
			logger.WithFields(logrus.Fields{
				"processed":  p.Processed,
				"emitted":    p.Emitted,
				"duplicates": p.Duplicates,
				"unfilled":   p.Unfilled,
				"unresolved": p.Unresolved,
			}).Info("progress")
			return nil
		}))

	err = app.NewApp().
		WithService(engine).
		WithService(watch).
		WithService(interrupter.Interrupter{}).
		Run(ctx)

	switch {
	case err == nil:
		s := engine.Stats()
		logger.WithFields(logrus.Fields{
			"processed":  s.Processed,
			"emitted":    s.Emitted,
			"duplicates": s.Duplicates,
			"unfilled":   s.Unfilled,
			"unresolved": s.Unresolved,
			"output":     store.Path(),
		}).Info("reconciliation finished")
	case errors.Is(err, interrupter.ErrInterrupted):
		logger.WithError(err).Warn("interrupted, output file remains resumable")
		os.Exit(1)
	default:
		logger.WithError(err).Fatal("reconciliation failed")
	}
}
