package app

import (
	"context"
)

// Service is a long- or finite-running unit of the app. A batch service
// returning nil ends the whole group cleanly.
type Service interface {
	Run(ctx context.Context) error
}

func actor(ctx context.Context, service Service) (func() error, func(err error)) {
	ctx, cancel := context.WithCancelCause(ctx)

	return func() error {
			return service.Run(ctx)
		}, func(err error) {
			cancel(err)
		}
}
