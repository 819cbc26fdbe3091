package types

import (
	ierr "github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/errors"
)

type RunMode string

const (
	RunModeWorker RunMode = "worker"
	RunModeLocal  RunMode = "local"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// NotificationBackend selects where lease notifications are published
type NotificationBackend string

const (
	NotificationBackendGoChannel NotificationBackend = "gochannel"
	NotificationBackendKafka     NotificationBackend = "kafka"
	NotificationBackendNoop      NotificationBackend = "noop"
)

func (b NotificationBackend) Validate() error {
	switch b {
	case NotificationBackendGoChannel, NotificationBackendKafka, NotificationBackendNoop:
		return nil
	}
	return ierr.NewErrorf("unsupported notification backend %q", string(b)).
		WithHint("Notification backend must be one of gochannel, kafka or noop").
		Mark(ierr.ErrValidation)
}
