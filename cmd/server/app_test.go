package main

import (
	"testing"

	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/config"
	ierr "github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/errors"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/logger"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/notification"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvidePubSub(t *testing.T) {
	log := logger.NewNopLogger()

	t.Run("noop backend creates no broker", func(t *testing.T) {
		cfg := config.GetDefaultConfig()
		cfg.Notification.Backend = types.NotificationBackendNoop

		ps, err := providePubSub(cfg, log)
		require.NoError(t, err)
		assert.Nil(t, ps)

		dispatcher := provideDispatcher(cfg, ps, log)
		assert.Equal(t, notification.NoopDispatcher{}, dispatcher)
	})

	t.Run("gochannel backend publishes in process", func(t *testing.T) {
		cfg := config.GetDefaultConfig()

		ps, err := providePubSub(cfg, log)
		require.NoError(t, err)
		require.NotNil(t, ps)
		defer ps.Close()

		dispatcher := provideDispatcher(cfg, ps, log)
		assert.NotEqual(t, notification.NoopDispatcher{}, dispatcher)
	})

	t.Run("unknown backend is rejected", func(t *testing.T) {
		cfg := config.GetDefaultConfig()
		cfg.Notification.Backend = "smtp"

		_, err := providePubSub(cfg, log)
		require.Error(t, err)
		assert.True(t, ierr.IsValidation(err))
	})
}
