// Command stockboard is the operator CLI: refresh and inspect the dataset,
// export reports, seed simulation fixtures and sync remote sources, all
// without a running server.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/maishenyun/stockboard/pkg/logger"
)

func newDataDirFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "data-dir",
		Usage:   "Directory holding the source CSV tables",
		Value:   "./data",
		EnvVars: []string{"APP_DATA_DIR"},
	}
}

func newUsageDirFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "usage-dir",
		Usage:   "Directory holding the monthly usage files (defaults to <data-dir>/usage)",
		EnvVars: []string{"APP_USAGE_DIR"},
	}
}

func main() {
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load(".env")

	app := &cli.App{
		Name:  "stockboard",
		Usage: "Restaurant inventory dashboard toolkit",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (trace, debug, info, warn, error)",
				Value:   "info",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			logger.SetLevel(c.String("log-level"))
			return nil
		},
		Commands: []*cli.Command{
			refreshCommand(),
			exportCommand(),
			simulateCommand(),
			syncCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("command failed")
	}
}
