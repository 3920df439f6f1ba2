package sim

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/maishenyun/stockboard/internal/domain"
	"github.com/maishenyun/stockboard/pkg/logger"
)

// WriteFixtures writes stock_levels.csv and unit_costs.csv under dir, each
// row carrying the simulation source marker the loader understands. The CLI
// simulate command uses this to seed demo data directories.
func WriteFixtures(dir string, ingredients []domain.Ingredient, seed int64) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create fixture dir: %w", err)
	}

	g := New(seed)

	stocks := g.StockLevels(ingredients)
	stockRows := make([][]string, 0, len(stocks))
	for _, s := range stocks {
		stockRows = append(stockRows, []string{
			s.Ingredient,
			strconv.FormatFloat(s.Quantity, 'f', 2, 64),
			string(s.Source),
		})
	}
	if err := writeCSV(filepath.Join(dir, "stock_levels.csv"),
		[]string{"ingredient", "quantity", "source"}, stockRows); err != nil {
		return err
	}

	costs := g.UnitCosts(ingredients)
	names := make([]string, 0, len(costs))
	for name := range costs {
		names = append(names, name)
	}
	sort.Strings(names)
	costRows := make([][]string, 0, len(names))
	for _, name := range names {
		costRows = append(costRows, []string{
			name,
			strconv.FormatFloat(costs[name], 'f', 2, 64),
			string(domain.StockSourceSimulation),
		})
	}
	if err := writeCSV(filepath.Join(dir, "unit_costs.csv"),
		[]string{"ingredient", "unit_cost", "source"}, costRows); err != nil {
		return err
	}

	logger.Log.Info().Str("dir", dir).Int64("seed", seed).
		Int("ingredients", len(ingredients)).Msg("simulation fixtures written")
	return nil
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}
