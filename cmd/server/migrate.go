package main

import (
	"volunteer-connect/internal/config"

	"github.com/urfave/cli/v2"
)

var migrateCommand = &cli.Command{
	Name:  "migrate",
	Usage: "Create or update database tables and exit",
	Action: func(c *cli.Context) error {
		if _, _, err := bootstrap(); err != nil {
			return err
		}
		return config.CloseDatabase()
	},
}
