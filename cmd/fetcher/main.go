package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"atlas-fetcher/internal/application"
	"atlas-fetcher/internal/bootstrap"
	"atlas-fetcher/internal/config"
	"atlas-fetcher/internal/infrastructure/csvsource"
	"atlas-fetcher/internal/infrastructure/logx"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func init() { _ = godotenv.Load() }

func main() { os.Exit(run()) }

func run() int {
	log := logx.L()
	cfg := config.Load()

	workers := cfg.Workers
	csvFile := cfg.CSVFile
	flag.IntVar(&workers, "workers", workers, "number of parallel fetch workers")
	flag.IntVar(&workers, "w", workers, "shorthand for -workers")
	flag.StringVar(&csvFile, "csv-file", csvFile, "CSV export with an ID column")
	flag.StringVar(&csvFile, "f", csvFile, "shorthand for -csv-file")
	flag.Parse()

	noAuth := cfg.AuthToken == "" && cfg.Cookie == ""
	if noAuth {
		fmt.Println("WARNING: No authentication provided. You may get 401 errors.")
		fmt.Println("Please set URBANPIPER_AUTH_TOKEN or URBANPIPER_COOKIE environment variables.")
	}

	if _, err := os.Stat(csvFile); err != nil {
		fmt.Printf("Error: CSV file '%s' not found!\n", csvFile)
		fmt.Println("Please make sure the CSV file is in the current directory.")
		return 0
	}

	if noAuth {
		printCredentialsHelp()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ids, err := csvsource.LoadOrderIDs(csvFile)
	if err != nil {
		log.Error("load csv", zap.Error(err))
		fmt.Printf("Error: %v\n", err)
		return 1
	}

	stores, cleanup, err := bootstrap.BuildStores(ctx, cfg)
	if err != nil {
		log.Error("bootstrap stores", zap.Error(err))
		fmt.Printf("Error: %v\n", err)
		return 1
	}
	defer cleanup()

	fmt.Printf("Found %d order IDs in CSV file\n", len(ids))
	fmt.Printf("Using %d parallel workers\n", workers)

	orch := application.NewOrchestrator(bootstrap.BuildProvider(cfg), stores.Records,
		application.WithWorkers(workers),
		application.WithPace(cfg.FetchPace),
		application.WithLogger(log),
	)
	tally := orch.Run(ctx, ids)

	fmt.Println()
	fmt.Println(strings.Repeat("=", 50))
	fmt.Println("Finished fetching orders!")
	fmt.Printf("Successful: %d\n", tally.Succeeded)
	fmt.Printf("Failed: %d\n", tally.Failed)
	fmt.Printf("Skipped (already exist): %d\n", tally.Skipped)
	fmt.Printf("Total: %d\n", tally.Total)
	fmt.Printf("Orders saved to: %s\n", stores.Desc)

	if tally.Failed > 0 {
		return 1
	}
	return 0
}

func printCredentialsHelp() {
	fmt.Println("\nTo get authentication credentials:")
	fmt.Println("1. Login to https://atlas.urbanpiper.com")
	fmt.Println("2. Open browser developer tools (F12)")
	fmt.Println("3. Go to Network tab")
	fmt.Println("4. Navigate to any order or make a request")
	fmt.Println("5. Find a request to the API and copy the Authorization header or Cookie")
	fmt.Println("6. Set environment variable:")
	fmt.Println("   export URBANPIPER_AUTH_TOKEN='your_token_here'")
	fmt.Println("   OR")
	fmt.Println("   export URBANPIPER_COOKIE='your_cookie_here'")
	fmt.Println("\nContinuing without authentication (may fail)...")
}
