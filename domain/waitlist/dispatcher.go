package waitlist

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/akeren/waitlist-foundry/internal/log"
)

// Dispatcher runs best-effort side effects after the response is written. Tasks are
// detached from request cancellation but keep its values, so the correlated logger and
// trace context survive. Drain waits for in-flight tasks during shutdown.
type Dispatcher struct {
	wg      sync.WaitGroup
	timeout time.Duration
	logger  *log.Logger
}

// NewDispatcher bounds each task by timeout; zero means no bound.
func NewDispatcher(logger *log.Logger, timeout time.Duration) *Dispatcher {
	return &Dispatcher{logger: logger, timeout: timeout}
}

func (d *Dispatcher) Go(ctx context.Context, task string, fn func(context.Context) error) {
	detached := context.WithoutCancel(ctx)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		logger := log.GetLoggerInstanceFromContext(detached, d.logger)
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Background task panicked", "task", task, "panic", fmt.Sprint(r))
			}
		}()

		taskCtx := detached
		if d.timeout > 0 {
			var cancel context.CancelFunc
			taskCtx, cancel = context.WithTimeout(detached, d.timeout)
			defer cancel()
		}

		if err := fn(taskCtx); err != nil {
			logger.Warn("Background task failed", "task", task, "error", err)
		}
	}()
}

// Drain blocks until every dispatched task has returned or ctx is done.
func (d *Dispatcher) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
