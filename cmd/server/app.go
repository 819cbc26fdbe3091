package main

import (
	"context"
	"time"

	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/cache"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/config"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/contract"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/cron"
	ierr "github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/errors"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/logger"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/notification"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/postgres"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/pubsub"
	kafkapubsub "github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/pubsub/kafka"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/pubsub/memory"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/repository/pg"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/sentry"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/service"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/sideeffect"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/types"
	"go.uber.org/fx"
)

const shutdownFlushTimeout = 5 * time.Second

func newApp() *fx.App {
	return fx.New(
		fx.Provide(
			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Monitoring
			sentry.NewSentryService,

			// DB
			postgres.NewClient,
			func(c *postgres.Client) postgres.IClient { return c },

			// Cache
			cache.NewCache,

			// Clock
			types.NewSystemClock,

			// Repositories
			pg.NewLeaseRepository,
			pg.NewUnitRepository,
			pg.NewRenewalRepository,
			pg.NewPartyRepository,
			pg.NewPolicyRepository,

			// Side effects
			providePubSub,
			provideDispatcher,
			contract.NewGenerator,
			sideeffect.NewRunner,

			// Services
			service.NewServiceParams,
			service.NewAuthorizationService,
			service.NewTerminationPolicyService,
			service.NewLeaseLifecycleService,
			service.NewRenewalService,
			service.NewRenewalExpiryService,

			// Cron
			cron.NewRenewalExpiryScheduler,
		),
		fx.Invoke(
			registerMigration,
			registerShutdown,
			cron.RegisterRenewalExpiryScheduler,
			// the request facing services have no transport in this binary;
			// resolving them fails startup on wiring errors
			func(service.RenewalService, service.LeaseLifecycleService, service.TerminationPolicyService) {},
		),
	)
}

// providePubSub selects the notification broker. The noop backend has none.
func providePubSub(cfg *config.Configuration, log *logger.Logger) (pubsub.PubSub, error) {
	switch cfg.Notification.Backend {
	case types.NotificationBackendKafka:
		return kafkapubsub.NewPubSubFromConfig(cfg, log, cfg.Kafka.ClientID)
	case types.NotificationBackendGoChannel:
		return memory.NewPubSub(log), nil
	case types.NotificationBackendNoop:
		return nil, nil
	default:
		return nil, ierr.NewErrorf("unknown notification backend %q", cfg.Notification.Backend).
			WithHint("Use gochannel, kafka or noop as notification backend").
			Mark(ierr.ErrValidation)
	}
}

func provideDispatcher(cfg *config.Configuration, ps pubsub.PubSub, log *logger.Logger) notification.Dispatcher {
	if cfg.Notification.Backend == types.NotificationBackendNoop || ps == nil {
		return notification.NoopDispatcher{}
	}
	return notification.NewPublisherDispatcher(cfg, ps, log)
}

func registerMigration(lc fx.Lifecycle, cfg *config.Configuration, client *postgres.Client, log *logger.Logger) {
	if !cfg.Postgres.AutoMigrate {
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return migrate(ctx, client, log)
		},
	})
}

// registerShutdown drains side effects before the broker and the pool go away
func registerShutdown(
	lc fx.Lifecycle,
	client *postgres.Client,
	ps pubsub.PubSub,
	runner *sideeffect.Runner,
	sentrySvc *sentry.Service,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			runner.Wait()
			if ps != nil {
				if err := ps.Close(); err != nil {
					log.Errorw("failed to close notification broker", "error", err)
				}
			}
			sentrySvc.Flush(shutdownFlushTimeout)
			_ = log.Sync()
			return client.Close()
		},
	})
}

func migrate(ctx context.Context, client *postgres.Client, log *logger.Logger) error {
	return pg.Migrate(ctx, client.DB(), log)
}

// bootstrap builds the pieces shared by the one-shot commands
func bootstrap() (*config.Configuration, *logger.Logger, *postgres.Client, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, nil, nil, err
	}

	log, err := logger.NewLogger(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	client, err := postgres.NewClient(cfg, log)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, log, client, nil
}

func newSweeper(cfg *config.Configuration, log *logger.Logger, client *postgres.Client) service.RenewalExpiryService {
	return service.NewRenewalExpiryService(service.ServiceParams{
		Logger:      log,
		Config:      cfg,
		DB:          client,
		Clock:       types.NewSystemClock(),
		RenewalRepo: pg.NewRenewalRepository(client, log),
	})
}
