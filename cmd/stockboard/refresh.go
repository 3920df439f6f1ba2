package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/maishenyun/stockboard/internal/ingest"
)

func refreshCommand() *cli.Command {
	return &cli.Command{
		Name:  "refresh",
		Usage: "Load the source files and print the dataset summary",
		Flags: []cli.Flag{
			newDataDirFlag(),
			newUsageDirFlag(),
			&cli.BoolFlag{
				Name:  "warnings",
				Usage: "Print every quarantined row, not just the count",
			},
		},
		Action: runRefresh,
	}
}

func runRefresh(c *cli.Context) error {
	loader := ingest.NewLoader(c.String("data-dir"), c.String("usage-dir"))
	ds, err := loader.Load(c.Context)
	if err != nil {
		return err
	}

	s := ds.Summary()
	fmt.Printf("ingredients:   %d\n", s.Ingredients)
	fmt.Printf("dishes:        %d\n", s.Dishes)
	fmt.Printf("usage periods: %d\n", s.UsagePeriods)
	if s.FirstPeriod != nil && s.LastPeriod != nil {
		fmt.Printf("period range:  %s .. %s\n",
			s.FirstPeriod.Format("2006-01"), s.LastPeriod.Format("2006-01"))
	}
	fmt.Printf("warnings:      %d\n", s.Warnings)
	fmt.Printf("fingerprint:   %s\n", s.Fingerprint)

	if c.Bool("warnings") {
		for _, w := range ds.Warnings {
			fmt.Printf("  %s row %d [%s]: %s\n", w.File, w.Row, w.Field, w.Message)
		}
	}
	return nil
}
