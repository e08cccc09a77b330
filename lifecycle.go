package shelf

import (
	"context"

	"github.com/agentstation/shelf/pkg/constants"
)

// Close stops auto-reload, makes any in-flight fetch unable to change state
// and closes the write queue. Actions still queued are delivered until ctx
// ends; with no deadline on ctx, constants.ShutdownTimeout applies.
// Close is idempotent.
func (c *client) Close(ctx context.Context) error {
	var err error
	c.closeOnce.Do(func() {
		_ = c.AutoReloadOff()
		c.tracker.Close()
		c.drag.Cancel()

		if c.queue == nil {
			return
		}
		if _, ok := ctx.Deadline(); !ok {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, constants.ShutdownTimeout)
			defer cancel()
		}
		err = c.queue.Close(ctx)

		stats := c.queue.Stats()
		c.logger.Debug().
			Int64("delivered", stats.Delivered).
			Int64("dropped", stats.Dropped).
			Msg("Write queue closed")
	})
	return err
}
