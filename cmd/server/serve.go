package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"volunteer-connect/internal/adapters/http/middleware"
	"volunteer-connect/internal/adapters/http/routes"
	"volunteer-connect/internal/adapters/persistence/repositories"
	"volunteer-connect/internal/config"
	"volunteer-connect/internal/core/services"
	"volunteer-connect/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "Start the HTTP server",
	Action: serve,
}

func serve(c *cli.Context) error {
	cfg, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer config.CloseDatabase()

	if cfg.Cron.Enabled {
		cronService := services.NewCronService(
			repositories.NewMissionRepository(db),
			repositories.NewRefreshTokenRepository(db),
			cfg.Cron.CompleteAfterHours,
		)
		if err := cronService.Start(); err != nil {
			return fmt.Errorf("failed to start cron: %w", err)
		}
		defer cronService.Stop()
	}

	app := fiber.New(fiber.Config{
		AppName:      "Volunteer Connect API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	middleware.Setup(app, cfg)
	routes.Setup(app, db, cfg)

	go gracefulShutdown(app)

	logger.Log.WithFields(logrus.Fields{
		"port": cfg.Port,
		"mode": cfg.AppMode,
	}).Info("server starting")

	if err := app.Listen(":" + cfg.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// gracefulShutdown stops the server on SIGINT or SIGTERM, which makes
// Listen return so deferred cleanup runs.
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		logger.Log.WithError(err).Error("error during shutdown")
	}
	logger.Log.Info("server stopped gracefully")
}
