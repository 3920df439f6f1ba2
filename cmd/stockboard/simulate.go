package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/maishenyun/stockboard/internal/ingest"
	"github.com/maishenyun/stockboard/internal/sim"
)

func simulateCommand() *cli.Command {
	return &cli.Command{
		Name:  "simulate",
		Usage: "Generate simulated stock level and unit cost fixtures from the shipment table",
		Flags: []cli.Flag{
			newDataDirFlag(),
			newUsageDirFlag(),
			&cli.Int64Flag{
				Name:    "seed",
				Usage:   "Random seed, so fixtures are reproducible",
				Value:   42,
				EnvVars: []string{"SIM_SEED"},
			},
		},
		Action: runSimulate,
	}
}

func runSimulate(c *cli.Context) error {
	dataDir := c.String("data-dir")

	loader := ingest.NewLoader(dataDir, c.String("usage-dir"))
	ds, err := loader.Load(c.Context)
	if err != nil {
		return err
	}
	if len(ds.Ingredients) == 0 {
		return fmt.Errorf("no ingredients in %s, nothing to simulate", dataDir)
	}

	if err := sim.WriteFixtures(dataDir, ds.Ingredients, c.Int64("seed")); err != nil {
		return err
	}

	fmt.Printf("wrote simulated fixtures for %d ingredients to %s\n", len(ds.Ingredients), dataDir)
	return nil
}
