// Command import loads a Bikram Sambat almanac into the SQLite database.
//
// Usage:
//
//	go run ./cmd/import -json data/almanac.json -db data/patro.db
//	go run ./cmd/import -embedded -db data/patro.db
//	go run ./cmd/import -export out.json -db data/patro.db
//
// The JSON form is an object keyed by year, each value an array of twelve
// month lengths. This tool:
// 1. Reads and validates the almanac (contiguous years, 29-32 day months)
// 2. Creates/opens the SQLite database and runs migrations
// 3. Replaces the stored almanac in a single transaction
// 4. Prints a summary of the import
//
// Imports replace rather than merge, so running it twice is safe.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/zapponejosh/patro-api/internal/calendar"
	"github.com/zapponejosh/patro-api/internal/database"
)

func main() {
	// Parse command line flags
	jsonPath := flag.String("json", "", "Path to almanac JSON file")
	embedded := flag.Bool("embedded", false, "Import the almanac compiled into the binary")
	exportPath := flag.String("export", "", "Write the stored almanac to this JSON file instead of importing")
	dbPath := flag.String("db", "data/patro.db", "Path to SQLite database")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	// Setup logger
	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))

	var err error
	switch {
	case *exportPath != "":
		err = export(*exportPath, *dbPath, logger)
	case *jsonPath != "" || *embedded:
		err = run(*jsonPath, *embedded, *dbPath, logger)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		logger.Error("import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("done")
}

func run(jsonPath string, embedded bool, dbPath string, logger *slog.Logger) error {
	ctx := context.Background()
	startTime := time.Now()

	// =========================================================================
	// Step 1: Read and validate the almanac
	// =========================================================================
	table, source, err := readAlmanac(jsonPath, embedded, logger)
	if err != nil {
		return err
	}

	logger.Info("parsed almanac",
		slog.String("source", source),
		slog.Int("min_year", table.MinYear()),
		slog.Int("max_year", table.MaxYear()),
	)

	// =========================================================================
	// Step 2: Open database and run migrations
	// =========================================================================
	db, err := openDB(ctx, dbPath, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	// =========================================================================
	// Step 3: Replace the almanac in a transaction
	// =========================================================================
	years := make(map[int][12]int, table.MaxYear()-table.MinYear()+1)
	for _, y := range table.Years() {
		years[y], _ = table.Months(y)
		logger.Debug("year", slog.Int("year", y), slog.Any("months", years[y]))
	}

	imp, err := db.ReplaceAlmanac(ctx, years, source)
	if err != nil {
		return fmt.Errorf("import almanac: %w", err)
	}

	// =========================================================================
	// Step 4: Verify import
	// =========================================================================
	stored, err := db.LoadTable(ctx)
	if err != nil {
		return fmt.Errorf("verify import: %w", err)
	}
	if stored.MaxOrdinal() != table.MaxOrdinal() {
		return fmt.Errorf("verify import: stored almanac has %d days, want %d", stored.MaxOrdinal(), table.MaxOrdinal())
	}

	elapsed := time.Since(startTime)

	// Print summary
	fmt.Println()
	fmt.Println("=== Import Summary ===")
	fmt.Printf("Import ID:      %s\n", imp.ID)
	fmt.Printf("Source:         %s\n", imp.Source)
	fmt.Printf("Years:          %d (%d-%d)\n", imp.Years, imp.MinYear, imp.MaxYear)
	fmt.Printf("Total days:     %d\n", stored.MaxOrdinal())
	fmt.Printf("Time elapsed:   %v\n", elapsed.Round(time.Millisecond))

	return nil
}

func readAlmanac(jsonPath string, embedded bool, logger *slog.Logger) (*calendar.Table, string, error) {
	if embedded {
		table, err := calendar.EmbeddedTable()
		if err != nil {
			return nil, "", fmt.Errorf("load embedded almanac: %w", err)
		}
		return table, "embedded", nil
	}

	logger.Info("reading JSON file", slog.String("path", jsonPath))

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, "", fmt.Errorf("read JSON file: %w", err)
	}
	table, err := calendar.ParseTable(data)
	if err != nil {
		return nil, "", fmt.Errorf("parse almanac: %w", err)
	}
	return table, filepath.Base(jsonPath), nil
}

func openDB(ctx context.Context, dbPath string, logger *slog.Logger) (*database.DB, error) {
	logger.Info("opening database", slog.String("path", dbPath))

	db, err := database.Open(ctx, database.DefaultConfig(dbPath), logger)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	migrated, err := db.Migrate(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("migrations complete", slog.Int("applied", migrated))
	return db, nil
}

// export writes the stored almanac in the same JSON form -json accepts.
func export(path, dbPath string, logger *slog.Logger) error {
	ctx := context.Background()

	db, err := openDB(ctx, dbPath, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	table, err := db.LoadTable(ctx)
	if err != nil {
		return fmt.Errorf("load almanac: %w", err)
	}
	data, err := table.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode almanac: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	logger.Info("almanac exported",
		slog.String("path", path),
		slog.Int("min_year", table.MinYear()),
		slog.Int("max_year", table.MaxYear()),
	)
	return nil
}
