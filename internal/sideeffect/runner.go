package sideeffect

import (
	"context"
	"fmt"
	"time"

	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/config"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/logger"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/sentry"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
)

// Runner executes best-effort work after a primary state change has committed.
// Failures and panics are logged and reported, never returned.
type Runner struct {
	wg      conc.WaitGroup
	timeout time.Duration
	log     *logger.Logger
	sentry  *sentry.Service
}

func NewRunner(cfg *config.Configuration, log *logger.Logger, sentrySvc *sentry.Service) *Runner {
	return &Runner{
		timeout: cfg.SideEffects.Timeout,
		log:     log,
		sentry:  sentrySvc,
	}
}

// Go runs fn on its own goroutine with a context that survives the caller's
// cancellation but keeps its values, bounded by the side effect timeout
func (r *Runner) Go(ctx context.Context, name string, fn func(ctx context.Context) error) {
	detached := context.WithoutCancel(ctx)

	r.wg.Go(func() {
		runCtx, cancel := context.WithTimeout(detached, r.timeout)
		defer cancel()

		log := r.log.WithContext(runCtx)
		start := time.Now()

		var pc panics.Catcher
		var err error
		pc.Try(func() { err = fn(runCtx) })

		if recovered := pc.Recovered(); recovered != nil {
			err = fmt.Errorf("side effect %s panicked: %w", name, recovered.AsError())
			log.Errorw("side effect panicked", "side_effect", name, "panic", recovered.Value, "stack", string(recovered.Stack))
		}

		if err != nil {
			log.Errorw("side effect failed", "side_effect", name, "error", err, "elapsed", time.Since(start))
			r.sentry.CaptureException(err, map[string]string{"side_effect": name})
			return
		}
		log.Debugw("side effect completed", "side_effect", name, "elapsed", time.Since(start))
	})
}

// Wait blocks until every started side effect finished
func (r *Runner) Wait() {
	r.wg.Wait()
}
