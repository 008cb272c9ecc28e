package main

import (
	"fmt"

	"volunteer-connect/internal/config"
	"volunteer-connect/internal/pkg/logger"

	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the admin account and optional demo data",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "demo",
			Usage: "Also create a demo NGO, volunteer and mission",
		},
	},
	Action: func(c *cli.Context) error {
		cfg, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer config.CloseDatabase()

		if err := config.NewSeeder(db, cfg).Run(c.Bool("demo")); err != nil {
			return fmt.Errorf("failed to seed database: %w", err)
		}

		logger.Log.Info("database seeding completed")
		return nil
	},
}
