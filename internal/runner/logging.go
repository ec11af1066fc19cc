package runner

import (
	"context"
	"log/slog"
	"time"
)

// Logging returns middleware that logs the start and end of each document,
// including duration and error status.
func Logging(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next Handler) Handler {
		return func(ctx context.Context, doc string) (*Report, error) {
			start := time.Now()

			logger.DebugContext(ctx, "document started",
				slog.String("document", doc),
			)

			rep, err := next(ctx, doc)
			duration := time.Since(start)

			if err != nil {
				logger.ErrorContext(ctx, "document failed",
					slog.String("document", doc),
					slog.Duration("duration", duration),
					slog.Any("error", err),
				)
			} else if rep != nil {
				logger.InfoContext(ctx, "document completed",
					slog.String("document", doc),
					slog.String("api", rep.APIName),
					slog.Int("files", len(rep.Files)),
					slog.Int("types", rep.TypesGenerated),
					slog.Duration("duration", duration),
				)
			}

			return rep, err
		}
	}
}
