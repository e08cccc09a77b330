package shelf

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/agentstation/shelf/pkg/errors"
	"github.com/agentstation/shelf/pkg/logging"
)

// Compile-time interface check to ensure proper implementation.
var _ AutoReloader = (*client)(nil)

// AutoReloader provides controls for periodic catalog reloads.
type AutoReloader interface {
	// AutoReloadOn starts reloading on the configured interval
	AutoReloadOn() error

	// AutoReloadOff stops periodic reloads and waits for the loop to exit
	AutoReloadOff() error
}

// AutoReloadOn implements AutoReloader. The first reload runs immediately.
func (c *client) AutoReloadOn() error {
	interval := c.options.autoReloadInterval
	if interval <= 0 {
		return errors.NewValidationError("autoReloadInterval", interval, "reload interval must be positive")
	}
	if c.tracker.Closed() {
		return errors.ErrClosed
	}

	// Stop any existing loop to prevent leaks
	if err := c.AutoReloadOff(); err != nil {
		return err
	}

	c.autoMu.Lock()
	defer c.autoMu.Unlock()

	ctx, cancel := context.WithCancel(logging.WithLogger(context.Background(), c.logger))
	done := make(chan struct{})
	c.reloadCancel = cancel
	c.reloadDone = done

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			reloadCtx, reloadCancel := context.WithTimeout(ctx, c.options.reloadTimeout)
			_, err := c.Reload(reloadCtx)
			reloadCancel()

			if err != nil {
				if ctx.Err() != nil || stderrors.Is(err, errors.ErrClosed) {
					return
				}
				if !stderrors.Is(err, errors.ErrStale) {
					c.logger.Warn().Err(err).Msg("Auto-reload failed")
				}
			}

			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()

	c.logger.Debug().Dur("interval", interval).Msg("Auto-reload started")
	return nil
}

// AutoReloadOff implements AutoReloader.
func (c *client) AutoReloadOff() error {
	c.autoMu.Lock()
	cancel, done := c.reloadCancel, c.reloadDone
	c.reloadCancel, c.reloadDone = nil, nil
	c.autoMu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	<-done
	c.logger.Debug().Msg("Auto-reload stopped")
	return nil
}
