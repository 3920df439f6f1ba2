package source

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/maishenyun/stockboard/pkg/logger"
)

// tableStems are the canonical table file names (without extension) that
// belong in the data directory. Anything else goes to the usage directory,
// where the loader decides per-file whether it is a monthly matrix.
var tableStems = map[string]struct{}{
	"shipments":    {},
	"recipes":      {},
	"stock_levels": {},
	"unit_costs":   {},
}

// Puller mirrors a remote source into the local data and usage directories.
type Puller struct {
	store       ObjectStore
	prefix      string
	dataDir     string
	usageDir    string
	concurrency int
}

// NewPuller builds a puller. Concurrency below 1 is clamped to 1.
func NewPuller(store ObjectStore, prefix, dataDir, usageDir string, concurrency int) *Puller {
	if concurrency < 1 {
		concurrency = 1
	}
	if usageDir == "" {
		usageDir = filepath.Join(dataDir, "usage")
	}
	return &Puller{
		store:       store,
		prefix:      prefix,
		dataDir:     dataDir,
		usageDir:    usageDir,
		concurrency: concurrency,
	}
}

// Pull lists the remote source and downloads every recognized file, a few at
// a time. Canonical tables that arrive as XLSX are converted to CSV in place;
// usage workbooks are kept as-is since the loader reads both formats. It
// returns the number of files written locally.
func (p *Puller) Pull(ctx context.Context) (int, error) {
	objects, err := p.store.List(ctx, p.prefix)
	if err != nil {
		return 0, err
	}

	var downloaded atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for _, obj := range objects {
		dest, convert, ok := p.route(obj.Key)
		if !ok {
			logger.Log.Debug().Str("key", obj.Key).Msg("source: skipping unrecognized object")
			continue
		}

		key := obj.Key
		g.Go(func() error {
			if err := p.fetch(ctx, key, dest, convert); err != nil {
				return err
			}
			downloaded.Add(1)
			logger.Log.Debug().Str("key", key).Str("dest", dest).Msg("source: pulled")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return int(downloaded.Load()), err
	}

	logger.Log.Info().Int64("files", downloaded.Load()).Msg("source: pull complete")
	return int(downloaded.Load()), nil
}

// route maps a remote key to its local destination. The second return is
// true when the file must be converted from XLSX to CSV after download.
func (p *Puller) route(key string) (dest string, convert bool, ok bool) {
	base := path.Base(key)
	ext := strings.ToLower(path.Ext(base))
	if ext != ".csv" && ext != ".xlsx" {
		return "", false, false
	}

	stem := strings.ToLower(strings.TrimSuffix(base, path.Ext(base)))
	if _, isTable := tableStems[stem]; isTable {
		return filepath.Join(p.dataDir, stem+".csv"), ext == ".xlsx", true
	}
	return filepath.Join(p.usageDir, base), false, true
}

func (p *Puller) fetch(ctx context.Context, key, dest string, convert bool) error {
	if !convert {
		return p.store.Download(ctx, key, dest)
	}

	tmp := dest + ".download.xlsx"
	if err := p.store.Download(ctx, key, tmp); err != nil {
		return err
	}
	defer os.Remove(tmp)

	return convertXLSXToCSV(tmp, dest)
}
