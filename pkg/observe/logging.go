package observe

import (
	"context"
	"log/slog"
	"time"

	fberrors "github.com/vango-dev/formbind/internal/errors"
	"github.com/vango-dev/formbind/pkg/reactive"
)

// Logging returns middleware that logs every action execution. A nil
// logger uses slog.Default().
func Logging(logger *slog.Logger) reactive.Middleware {
	if logger == nil {
		logger = slog.Default()
	}

	return func(ctx context.Context, name string, next func(context.Context) error) error {
		start := time.Now()
		logger.Debug("action started", slog.String("action", name))

		err := next(ctx)

		elapsed := time.Since(start)
		if err != nil {
			logger.Warn("action failed",
				slog.String("action", name),
				slog.Duration("duration", elapsed),
				slog.String("code", fberrors.CodeOf(err)),
				slog.String("error", err.Error()))
			return err
		}
		logger.Info("action completed",
			slog.String("action", name),
			slog.Duration("duration", elapsed))
		return nil
	}
}
