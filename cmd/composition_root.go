package cmd

import (
	"fmt"

	httpin "truckbot/internal/adapters/in/http"
	telegramin "truckbot/internal/adapters/in/telegram"
	"truckbot/internal/adapters/out/postgres"
	"truckbot/internal/adapters/out/telegram"
	"truckbot/internal/core/application/dispatch"
	"truckbot/internal/core/application/usecases/commands"
	"truckbot/internal/core/application/usecases/queries"
	"truckbot/internal/core/ports"
	"truckbot/internal/jobs"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	bot        *tele.Bot
	notifier   ports.Notifier
	facade     *dispatch.Facade
	logger     *zap.Logger
}

// NewCompositionRoot connects the bot when Telegram is enabled and wires the
// façade. Handlers are created on demand.
func NewCompositionRoot(cfg Config, gormDB *gorm.DB, logger *zap.Logger) (*CompositionRoot, error) {
	c := &CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:     logger,
	}

	if cfg.TelegramEnabled {
		bot, err := tele.NewBot(tele.Settings{
			Token:  cfg.TelegramToken,
			Poller: &tele.LongPoller{Timeout: cfg.TelegramPollTimeout},
			OnError: func(err error, tc tele.Context) {
				fields := []zap.Field{zap.Error(err)}
				if tc != nil && tc.Sender() != nil {
					fields = append(fields, zap.Int64("user_id", tc.Sender().ID))
				}
				logger.Error("telegram handler failed", fields...)
			},
		})
		if err != nil {
			return nil, fmt.Errorf("connect telegram bot: %w", err)
		}
		c.bot = bot
		c.notifier = telegram.NewNotifier(bot, logger)
	} else {
		c.notifier = telegram.NewLogNotifier(logger)
	}

	c.facade = dispatch.NewFacade(dispatch.Config{
		ChannelID:      cfg.TelegramChannelID,
		ReservationTTL: cfg.ReservationTTL,
		SweepBatchSize: cfg.SweepBatchSize,
	}, c.createDispatchHandlers(), c.uowFactory, c.notifier, commands.UTCNow, logger)

	return c, nil
}

// Bot returns the Telegram bot, nil when Telegram is disabled.
func (c *CompositionRoot) Bot() *tele.Bot {
	return c.bot
}

func (c *CompositionRoot) Facade() *dispatch.Facade {
	return c.facade
}

func (c *CompositionRoot) createDispatchHandlers() dispatch.Handlers {
	return dispatch.Handlers{
		Post:    commands.NewPostOrderCommandHandler(c.ledgerUoWFactory(), commands.UTCNow),
		Claim:   commands.NewClaimOrderCommandHandler(c.ledgerUoWFactory(), commands.UTCNow),
		Confirm: commands.NewConfirmOrderCommandHandler(c.ledgerUoWFactory(), commands.UTCNow),
		Release: commands.NewReleaseOrderCommandHandler(c.ledgerUoWFactory(), commands.UTCNow),
		Cancel:  commands.NewCancelOrderCommandHandler(c.orderUoWFactory(), commands.UTCNow),
		Expire:  commands.NewExpireReservationsCommandHandler(c.ledgerUoWFactory()),
		Attach:  commands.NewAttachBroadcastCommandHandler(c.orderUoWFactory(), commands.UTCNow),
		Queue: commands.NewQueueNotificationCommandHandler(
			c.notificationUoWFactory(), c.cfg.RetryBackoff, commands.UTCNow,
		),
	}
}

func (c *CompositionRoot) CreateRegisterUserCommandHandler() commands.RegisterUserCommandHandler {
	return commands.NewRegisterUserCommandHandler(c.userUoWFactory(), commands.UTCNow)
}

func (c *CompositionRoot) CreateDeliverNotificationsCommandHandler() commands.DeliverNotificationsCommandHandler {
	return commands.NewDeliverNotificationsCommandHandler(c.notificationUoWFactory(), c.facade, c.cfg.RetryBackoff)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOpenOrdersQueryHandler() queries.GetOpenOrdersQueryHandler {
	return queries.NewGetOpenOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetDriverStatusQueryHandler() queries.GetDriverStatusQueryHandler {
	return queries.NewGetDriverStatusQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(
		c.facade,
		c.CreateRegisterUserCommandHandler(),
		c.CreateGetOrderQueryHandler(),
		c.CreateGetOpenOrdersQueryHandler(),
		c.CreateGetDriverStatusQueryHandler(),
		c.logger,
	)
}

func (c *CompositionRoot) CreateTelegramRouter() *telegramin.Router {
	return telegramin.NewRouter(
		c.facade,
		c.CreateRegisterUserCommandHandler(),
		c.CreateGetOrderQueryHandler(),
		c.CreateGetDriverStatusQueryHandler(),
		c.cfg.RequestTimeout,
		c.logger,
	)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.facade, c.CreateDeliverNotificationsCommandHandler(), jobs.Config{
		SweepInterval: c.cfg.SweepInterval,
		RetryInterval: c.cfg.RetryInterval,
		RetryBatch:    c.cfg.RetryBatchSize,
		MaxAttempts:   c.cfg.RetryMaxAttempts,
	}, c.logger)
}

func (c *CompositionRoot) ledgerUoWFactory() commands.LedgerUoWFactory {
	return FuncLedgerUoWFactory(func() commands.LedgerUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) userUoWFactory() commands.UserUoWFactory {
	return FuncUserUoWFactory(func() commands.UserUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) notificationUoWFactory() commands.NotificationUoWFactory {
	return FuncNotificationUoWFactory(func() commands.NotificationUoW {
		return c.uowFactory.Create()
	})
}

type FuncLedgerUoWFactory func() commands.LedgerUoW

func (f FuncLedgerUoWFactory) Create() commands.LedgerUoW {
	return f()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUserUoWFactory func() commands.UserUoW

func (f FuncUserUoWFactory) Create() commands.UserUoW {
	return f()
}

type FuncNotificationUoWFactory func() commands.NotificationUoW

func (f FuncNotificationUoWFactory) Create() commands.NotificationUoW {
	return f()
}
