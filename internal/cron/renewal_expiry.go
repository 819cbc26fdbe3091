package cron

import (
	"context"
	"sync"
	"time"

	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/config"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/logger"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/service"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/types"
	"go.uber.org/fx"
)

// RenewalExpiryScheduler runs the renewal expiry sweep on a fixed interval
type RenewalExpiryScheduler struct {
	sweeper  service.RenewalExpiryService
	logger   *logger.Logger
	enabled  bool
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewRenewalExpiryScheduler creates a new renewal expiry scheduler
func NewRenewalExpiryScheduler(
	cfg *config.Configuration,
	sweeper service.RenewalExpiryService,
	logger *logger.Logger,
) *RenewalExpiryScheduler {
	return &RenewalExpiryScheduler{
		sweeper:  sweeper,
		logger:   logger,
		enabled:  cfg.Sweeper.Enabled,
		interval: cfg.Sweeper.Interval,
	}
}

// RegisterRenewalExpiryScheduler ties the scheduler to the application lifecycle
func RegisterRenewalExpiryScheduler(lc fx.Lifecycle, s *RenewalExpiryScheduler) {
	lc.Append(fx.Hook{
		OnStart: s.Start,
		OnStop:  s.Stop,
	})
}

// Start launches the sweep loop. The first sweep runs immediately.
func (s *RenewalExpiryScheduler) Start(_ context.Context) error {
	if !s.enabled {
		s.logger.Infow("renewal expiry scheduler disabled")
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	s.logger.Infow("starting renewal expiry scheduler", "interval", s.interval.String())
	go s.loop(ctx, s.done)
	return nil
}

// Stop ends the loop and waits for a running sweep, bounded by ctx
func (s *RenewalExpiryScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()

	select {
	case <-done:
		s.logger.Infow("stopped renewal expiry scheduler")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *RenewalExpiryScheduler) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.sweep(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *RenewalExpiryScheduler) sweep(ctx context.Context) {
	runCtx := types.SetRequestID(ctx, types.GenerateUUID())
	start := time.Now()

	expired, err := s.sweeper.Run(runCtx)
	if err != nil {
		// the next tick retries
		s.logger.Errorw("renewal expiry sweep failed", "error", err)
		return
	}
	s.logger.Debugw("renewal expiry sweep completed", "expired", expired, "elapsed", time.Since(start))
}
