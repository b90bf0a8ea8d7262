package sensor

import (
	"context"
	"time"

	"codeberg.org/mutker/sensord/internal/errors"
	"github.com/benbjohnson/clock"
)

// Wait blocks for d on clk, returning early with ErrCanceled if ctx is done.
func Wait(ctx context.Context, clk clock.Clock, d time.Duration) error {
	errFactory := errors.New()

	if d <= 0 {
		if err := ctx.Err(); err != nil {
			return errFactory.Wrap(errors.ErrCanceled, err)
		}
		return nil
	}

	t := clk.Timer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return errFactory.Wrap(errors.ErrCanceled, ctx.Err())
	case <-t.C:
		return nil
	}
}

func orRealClock(clk clock.Clock) clock.Clock {
	if clk == nil {
		return clock.New()
	}
	return clk
}
