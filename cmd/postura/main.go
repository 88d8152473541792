package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/terraincognita07/postura/internal/api"
	"github.com/terraincognita07/postura/internal/cli"
	"github.com/terraincognita07/postura/internal/config"
	"github.com/terraincognita07/postura/internal/db"
	"github.com/terraincognita07/postura/internal/i18n"
	"github.com/terraincognita07/postura/internal/logging"
	"github.com/terraincognita07/postura/internal/metrics"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	if len(args) > 0 {
		switch args[0] {
		case "reset-password":
			if len(args) != 2 {
				return errors.New("usage: postura reset-password <email>")
			}
			return cli.RunResetPasswordCommand(cfg.DBPath, args[1], os.Stdout, logger)
		case "serve":
		default:
			return fmt.Errorf("unknown command %q", args[0])
		}
	}

	return serve(cfg, logger)
}

func serve(cfg *config.Config, logger *zap.Logger) error {
	time.Local = cfg.Location

	database, err := db.OpenSQLite(cfg.DBPath, logger)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	defer db.Close(database)

	i18nManager, err := i18n.NewDefaultManager(cfg.DefaultLanguage)
	if err != nil {
		return fmt.Errorf("i18n init failed: %w", err)
	}

	handler, err := api.NewHandler(database, cfg.SecretKey, cfg.Location, i18nManager, logger)
	if err != nil {
		return fmt.Errorf("handler init failed: %w", err)
	}
	handler.WithAuthRateLimit(cfg.AuthRatePerSecond, cfg.AuthRateBurst)

	app := newApp(cfg, handler, logger)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Warn("server shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("postura listening",
		zap.String("addr", "0.0.0.0:"+cfg.Port),
		zap.String("db", cfg.DBPath),
		zap.String("tz", cfg.Location.String()),
	)
	if err := app.Listen(":" + cfg.Port); err != nil {
		return fmt.Errorf("server exited: %w", err)
	}
	return nil
}

func newApp(cfg *config.Config, handler *api.Handler, logger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Postura",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${ip} ${method} ${path} ${status} ${latency}\n",
		Output: logging.StdLogger(logger.Named("http"), zapcore.InfoLevel).Writer(),
	}))
	app.Use(compress.New())
	app.Use(cors.New(corsConfig(cfg.CORSAllowOrigins)))
	app.Use(metrics.Middleware())

	api.RegisterRoutes(app, handler)
	return app
}

func corsConfig(allowOrigins string) cors.Config {
	return cors.Config{
		AllowOrigins: allowOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Accept-Language, Authorization, Sec-CH-UA-Platform",
	}
}
