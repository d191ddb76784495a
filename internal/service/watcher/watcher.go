package watcher

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"binrec/pkg/ebus"
)

type watch struct {
	frame   time.Duration
	getter  func(ctx context.Context) (any, error)
	emitter any
}

// Watcher periodically turns polled state into bus events, e.g. the
// engine's progress counters.
type Watcher struct {
	eBus *ebus.EBus
	subs []watch
	mx   sync.Mutex
}

func NewWatcher(eBus *ebus.EBus) *Watcher {
	return &Watcher{
		eBus: eBus,
	}
}

func (w *Watcher) EmitEvery(frame time.Duration, emitter any, getter func(ctx context.Context) (any, error)) *Watcher {
	w.mx.Lock()
	defer w.mx.Unlock()

	w.subs = append(w.subs, watch{frame: frame, getter: getter, emitter: emitter})
	return w
}

func (w *Watcher) Run(ctx context.Context) error {
	w.mx.Lock()
	defer w.mx.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errs := make(chan error)

	for i := range w.subs {
		go func(i int) {
			sub := w.subs[i]

			ticker := time.NewTicker(sub.frame)
			defer ticker.Stop()

			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					ins, err := sub.getter(ctx)
					if err != nil {
						select {
						case errs <- err:
						case <-ctx.Done():
						}
						return
					}
					_ = w.eBus.Emit(ctx, ins)
				}
			}
		}(i)
	}

	select {
	case err := <-errs:
		return fmt.Errorf("watcher: %w", err)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LogEvent adapts a bus event into one structured log line: the event's
// type name as the message, its exported fields as log fields. The logger
// writes to stderr, keeping stdout free for other tooling.
func LogEvent(log *logrus.Entry, level logrus.Level) ebus.Listener {
	return func(ctx context.Context, ev any) error {
		js, err := json.Marshal(ev)
		if err != nil {
			return err
		}
		fields := logrus.Fields{}
		if err := json.Unmarshal(js, &fields); err != nil {
			return err
		}
		log.WithFields(fields).Log(level, reflect.TypeOf(ev).Name())

		return nil
	}
}
