package main

import (
	"os"

	"volunteer-connect/internal/pkg/logger"

	"github.com/urfave/cli/v2"

	_ "volunteer-connect/docs" // Swagger docs
)

// @title Volunteer Connect API
// @version 1.0
// @description Matches volunteers with missions published by NGOs.

// @contact.name API Support
// @contact.email support@volunteerconnect.org

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	app := &cli.App{
		Name:  "volunteer-connect",
		Usage: "Volunteer to NGO matching API",
		Commands: []*cli.Command{
			serveCommand,
			migrateCommand,
			seedCommand,
		},
		// serve is the default so a bare binary still starts the API
		DefaultCommand: serveCommand.Name,
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.WithError(err).Fatal("application failed")
	}
}
