package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"truckbot/cmd"
	"truckbot/internal/adapters/out/postgres"
	"truckbot/internal/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	gommonlog "github.com/labstack/gommon/log"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configs, err := cmd.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(1)
	}

	log, err := logger.New(configs.ServiceName, logger.Options{
		Level: configs.LogLevel,
		File:  configs.LogFile,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err = run(configs, log); err != nil {
		log.Error("service stopped with error", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(configs cmd.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := postgres.Migrate(configs.DSN(), log); err != nil {
		return err
	}

	db, err := postgres.Open(ctx, configs.DSN(), postgres.Options{
		MaxOpenConns:    configs.DBMaxOpenConns,
		MaxIdleConns:    configs.DBMaxOpenConns,
		ConnMaxLifetime: 30 * time.Minute,
		SlowThreshold:   200 * time.Millisecond,
	}, log)
	if err != nil {
		return err
	}
	if sqlDB, dbErr := db.DB(); dbErr == nil {
		defer func() { _ = sqlDB.Close() }()
	}

	app, err := cmd.NewCompositionRoot(configs, db, log)
	if err != nil {
		return err
	}

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	if bot := app.Bot(); bot != nil {
		app.CreateTelegramRouter().Register(bot)
		go bot.Start()
		defer bot.Stop()
		log.Info("telegram bot started", zap.String("username", bot.Me.Username))
	}

	return startWebServer(ctx, app, configs.HTTPPort, log)
}

func startWebServer(ctx context.Context, app *cmd.CompositionRoot, port string, log *zap.Logger) error {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	// requests are logged through zap below
	e.Logger.SetLevel(gommonlog.OFF)
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.Error(v.Error),
			)
			return nil
		},
	}))

	if err := app.CreateHTTPServer().RegisterRoutes(e); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server started", zap.String("port", port))
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
