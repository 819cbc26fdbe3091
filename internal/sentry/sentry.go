package sentry

import (
	"time"

	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/config"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/logger"
	"github.com/getsentry/sentry-go"
)

// Service reports failures that are not returned to any caller
type Service struct {
	enabled bool
	log     *logger.Logger
}

// NewSentryService initializes the sentry SDK when enabled in config
func NewSentryService(cfg *config.Configuration, log *logger.Logger) (*Service, error) {
	if !cfg.Sentry.Enabled || cfg.Sentry.DSN == "" {
		log.Debugw("sentry disabled")
		return &Service{enabled: false, log: log}, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.Sentry.DSN,
		Environment:      cfg.Sentry.Environment,
		SampleRate:       cfg.Sentry.SampleRate,
		AttachStacktrace: true,
	})
	if err != nil {
		return nil, err
	}

	log.Infow("sentry initialized", "environment", cfg.Sentry.Environment)
	return &Service{enabled: true, log: log}, nil
}

// NewNoopService returns a disabled service
func NewNoopService(log *logger.Logger) *Service {
	return &Service{log: log}
}

func (s *Service) IsEnabled() bool {
	return s != nil && s.enabled
}

// CaptureException sends err to sentry with optional tags
func (s *Service) CaptureException(err error, tags ...map[string]string) {
	if !s.IsEnabled() || err == nil {
		return
	}

	sentry.WithScope(func(scope *sentry.Scope) {
		for _, t := range tags {
			scope.SetTags(t)
		}
		sentry.CaptureException(err)
	})
}

// Flush waits for buffered events to be sent
func (s *Service) Flush(timeout time.Duration) bool {
	if !s.IsEnabled() {
		return true
	}
	return sentry.Flush(timeout)
}
