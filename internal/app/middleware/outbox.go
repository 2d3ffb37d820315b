package middleware

import (
	"context"
	"log/slog"

	"staybook/internal/app/commands"
	"staybook/internal/app/outbox"
)

// OutboxFlush asks the outbox to hand freshly committed events to the
// publisher once a command has finished. A flush failure is logged and
// swallowed: the worker will pick the rows up on its next poll anyway.
func OutboxFlush(box outbox.Outbox, logger *slog.Logger) CommandMiddleware {
	return func(next commands.Bus) commands.Bus {
		nextFn := wrapCommand(next)
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			res, err := nextFn(ctx, cmd)
			if err != nil {
				return nil, err
			}
			if box != nil {
				if flushErr := box.Flush(ctx); flushErr != nil && logger != nil {
					logger.Warn("outbox flush failed", "command", cmd.Key(), "error", flushErr)
				}
			}
			return res, nil
		})
	}
}
