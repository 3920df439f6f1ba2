package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/maishenyun/stockboard/internal/cache"
	"github.com/maishenyun/stockboard/internal/config"
	"github.com/maishenyun/stockboard/internal/export"
	"github.com/maishenyun/stockboard/internal/ingest"
	"github.com/maishenyun/stockboard/internal/metrics"
	"github.com/maishenyun/stockboard/internal/service"
	"github.com/maishenyun/stockboard/internal/snapshot"
)

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Write dashboard reports as CSV files",
		Flags: []cli.Flag{
			newDataDirFlag(),
			newUsageDirFlag(),
			&cli.StringFlag{
				Name:  "report",
				Usage: fmt.Sprintf("Report to export (%s) or \"all\"", strings.Join(export.Reports(), ", ")),
				Value: "all",
			},
			&cli.StringFlag{
				Name:    "out",
				Usage:   "Output directory",
				Value:   "./data/exports",
				EnvVars: []string{"APP_EXPORT_DIR"},
			},
		},
		Action: runExport,
	}
}

func runExport(c *cli.Context) error {
	cfg := config.Load()
	loader := ingest.NewLoader(c.String("data-dir"), c.String("usage-dir"))
	svc := service.NewDashboardService(loader, snapshot.NewStore(0), cache.NewNoopResponseCache(), metrics.New(), cfg)

	data, err := svc.ExportData(c.Context)
	if err != nil {
		return err
	}

	reports := export.Reports()
	if r := strings.ToLower(strings.TrimSpace(c.String("report"))); r != "all" {
		reports = []string{r}
	}

	for _, report := range reports {
		path, err := export.WriteFile(c.String("out"), report, data)
		if err != nil {
			return fmt.Errorf("export %s: %w", report, err)
		}
		fmt.Println(path)
	}
	return nil
}
