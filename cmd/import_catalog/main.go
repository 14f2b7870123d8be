package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"mitsypos/internal/config"
	"mitsypos/internal/costing"
	"mitsypos/internal/db"
	applog "mitsypos/internal/log"
	"mitsypos/internal/store"
)

// catalogRow is one ingredient line of the import file.
type catalogRow struct {
	Line     int
	Name     string
	Unit     string
	UnitCost float64
	Stock    float64
}

type importSummary struct {
	Created int
	Updated int
	Skipped int
}

var requiredColumns = []string{"name", "unit", "unit_cost", "stock"}

func main() {
	csvPath := "ingredients.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}

	if err := run(context.Background(), csvPath); err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, csvPath string) error {
	if strings.TrimSpace(csvPath) == "" {
		return fmt.Errorf("csv path must not be empty")
	}

	file, err := os.Open(csvPath)
	if err != nil {
		return fmt.Errorf("open csv: %w", err)
	}
	defer file.Close()

	rows, err := readCatalog(file)
	if err != nil {
		return fmt.Errorf("read csv: %w", err)
	}

	if err := config.LoadEnvFile(".env"); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := applog.SetLevel(cfg.Logging.Level); err != nil {
		return fmt.Errorf("set log level: %w", err)
	}

	database, err := db.Configure(cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close(database)

	summary, err := importCatalog(ctx, costing.New(store.New(database)), rows)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Imported %s: %d created, %d updated, %d skipped\n",
		filepath.Base(csvPath), summary.Created, summary.Updated, summary.Skipped)
	return nil
}

// readCatalog parses a CSV with a header row naming at least name, unit, unit_cost and
// stock, in any order and case.
func readCatalog(r io.Reader) ([]catalogRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("csv is empty")
	}

	columns := make(map[string]int, len(records[0]))
	for idx, key := range records[0] {
		columns[strings.ToLower(strings.TrimSpace(key))] = idx
	}
	for _, key := range requiredColumns {
		if _, ok := columns[key]; !ok {
			return nil, fmt.Errorf("missing column %q", key)
		}
	}

	field := func(record []string, key string) string {
		idx := columns[key]
		if idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	rows := make([]catalogRow, 0, len(records)-1)
	for i, record := range records[1:] {
		line := i + 2
		row := catalogRow{
			Line: line,
			Name: field(record, "name"),
			Unit: field(record, "unit"),
		}
		if row.UnitCost, err = parseNumber(field(record, "unit_cost")); err != nil {
			return nil, fmt.Errorf("line %d: unit_cost: %w", line, err)
		}
		if row.Stock, err = parseNumber(field(record, "stock")); err != nil {
			return nil, fmt.Errorf("line %d: stock: %w", line, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// parseNumber accepts plain decimals with an optional currency sign. Blank is zero.
func parseNumber(value string) (float64, error) {
	value = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(value), "$"))
	if value == "" {
		return 0, nil
	}
	return strconv.ParseFloat(value, 64)
}

// importCatalog creates unknown ingredients and updates known ones, matched by normalized
// name. Stock of an existing ingredient is replaced through the engine so dependent
// estimates follow.
func importCatalog(ctx context.Context, engine *costing.Engine, rows []catalogRow) (importSummary, error) {
	var summary importSummary
	s := engine.Store()

	for _, row := range rows {
		if row.Name == "" {
			applog.Warn(ctx, "skipping catalog row without name", "line", row.Line)
			summary.Skipped++
			continue
		}

		existing, err := s.FindIngredientByName(ctx, row.Name)
		if err != nil {
			return summary, fmt.Errorf("line %d (%s): %w", row.Line, row.Name, err)
		}

		if existing == nil {
			if _, err := s.CreateIngredient(ctx, store.NewIngredient{
				Name:        row.Name,
				Unit:        row.Unit,
				UnitCost:    row.UnitCost,
				Stock:       row.Stock,
				ManageStock: true,
			}); err != nil {
				return summary, fmt.Errorf("line %d (%s): %w", row.Line, row.Name, err)
			}
			summary.Created++
			continue
		}

		update := store.IngredientUpdate{UnitCost: &row.UnitCost, Stock: &row.Stock}
		if row.Unit != "" {
			update.Unit = &row.Unit
		}
		if _, err := engine.UpdateIngredient(ctx, existing.ID, update); err != nil {
			return summary, fmt.Errorf("line %d (%s): %w", row.Line, row.Name, err)
		}
		summary.Updated++
	}

	applog.Info(ctx, "catalog imported", "created", summary.Created, "updated", summary.Updated, "skipped", summary.Skipped)
	return summary, nil
}
