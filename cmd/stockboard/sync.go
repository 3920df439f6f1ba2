package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/maishenyun/stockboard/internal/source"
)

func syncCommand() *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Mirror remote source files into the local data directory",
		Flags: []cli.Flag{
			newDataDirFlag(),
			newUsageDirFlag(),
			&cli.StringFlag{
				Name:    "endpoint",
				Usage:   "S3-compatible endpoint",
				EnvVars: []string{"SOURCE_ENDPOINT"},
			},
			&cli.StringFlag{
				Name:    "access-key",
				EnvVars: []string{"SOURCE_ACCESS_KEY"},
			},
			&cli.StringFlag{
				Name:    "secret-key",
				EnvVars: []string{"SOURCE_SECRET_KEY"},
			},
			&cli.StringFlag{
				Name:    "bucket",
				EnvVars: []string{"SOURCE_BUCKET"},
			},
			&cli.StringFlag{
				Name:    "region",
				EnvVars: []string{"SOURCE_REGION"},
			},
			&cli.BoolFlag{
				Name:    "use-ssl",
				Value:   true,
				EnvVars: []string{"SOURCE_USE_SSL"},
			},
			&cli.StringFlag{
				Name:    "prefix",
				Usage:   "Remote key prefix (or Drive file-name prefix) to mirror",
				EnvVars: []string{"SOURCE_PREFIX"},
			},
			&cli.StringFlag{
				Name:    "drive-credentials-json",
				Usage:   "Google service-account credentials JSON, for Drive-hosted sources",
				EnvVars: []string{"SOURCE_DRIVE_CREDENTIALS_JSON"},
			},
			&cli.StringFlag{
				Name:    "drive-folder-id",
				EnvVars: []string{"SOURCE_DRIVE_FOLDER_ID"},
			},
			&cli.IntFlag{
				Name:    "concurrency",
				Usage:   "Parallel downloads",
				Value:   4,
				EnvVars: []string{"SOURCE_SYNC_CONCURRENCY"},
			},
		},
		Action: runSync,
	}
}

func runSync(c *cli.Context) error {
	var (
		store source.ObjectStore
		err   error
	)

	switch {
	case c.String("endpoint") != "" && c.String("bucket") != "":
		store, err = source.NewObjectStore(source.BucketConfig{
			Endpoint:  c.String("endpoint"),
			AccessKey: c.String("access-key"),
			SecretKey: c.String("secret-key"),
			Bucket:    c.String("bucket"),
			Region:    c.String("region"),
			UseSSL:    c.Bool("use-ssl"),
		})
		if err != nil {
			return err
		}
	case c.String("drive-credentials-json") != "" && c.String("drive-folder-id") != "":
		client, err := source.NewDriveClient(c.Context, c.String("drive-credentials-json"))
		if err != nil {
			return err
		}
		store = source.NewDriveStore(client, c.String("drive-folder-id"))
	default:
		return fmt.Errorf("no remote source configured: set --endpoint/--bucket or the drive flags")
	}

	p := source.NewPuller(store, c.String("prefix"), c.String("data-dir"), c.String("usage-dir"), c.Int("concurrency"))
	n, err := p.Pull(c.Context)
	if err != nil {
		return err
	}

	fmt.Printf("pulled %d files\n", n)
	return nil
}
