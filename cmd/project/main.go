package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"tokenomics-lab/internal/config"
	"tokenomics-lab/internal/domain"
	"tokenomics-lab/internal/projection"
	"tokenomics-lab/internal/reporting"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "config.yaml", "Path to YAML config file")
	horizon := flag.Int("horizon", 0, "Projection horizon in months (overrides config)")
	scenario := flag.String("scenario", "", "Growth scenario: conservative, base, aggressive (overrides config)")
	cycle := flag.String("cycle", "", "Market cycle: bear, neutral, bull (overrides config)")
	outputDir := flag.String("output-dir", "", "Output directory for report files (overrides config)")
	outputJSON := flag.Bool("json", false, "Print full run result as JSON instead of writing report files")
	verbose := flag.Bool("verbose", false, "Enable verbose logging")
	flag.Parse()

	// Setup logger
	logger := log.New(os.Stderr, "[project] ", log.LstdFlags)

	// Load config and apply flag overrides
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if *horizon > 0 {
		cfg.Run.HorizonMonths = *horizon
	}
	if *scenario != "" {
		cfg.Parameters.GrowthScenario = *scenario
	}
	if *cycle != "" {
		cfg.Parameters.MarketCycle = *cycle
	}
	if *outputDir != "" {
		cfg.Run.OutputDir = *outputDir
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid config: %v", err)
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		cancel()
	}()

	runner := projection.NewRunner(projection.Options{
		Params:        cfg.Parameters,
		HorizonMonths: cfg.Run.HorizonMonths,
		Logger:        logger,
		Verbose:       *verbose,
	})

	logger.Printf("Running projection: scenario=%s cycle=%s horizon=%d",
		cfg.Parameters.GrowthScenario, cfg.Parameters.MarketCycle, cfg.Run.HorizonMonths)

	result, err := runner.Run(ctx)
	if err != nil {
		logger.Fatalf("projection failed: %v", err)
	}

	// Output result
	if *outputJSON {
		output, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(output))
		return
	}

	if err := writeReportFiles(cfg.Run.OutputDir, result, cfg.Parameters); err != nil {
		logger.Fatalf("write report: %v", err)
	}

	printRunSummary(result)
	fmt.Println()
	fmt.Println("Projection report generated successfully:")
	fmt.Printf("  - %s/PROJECTION_REPORT.md\n", cfg.Run.OutputDir)
	fmt.Printf("  - %s/MONTHLY_STATES.csv\n", cfg.Run.OutputDir)
}

// writeReportFiles renders the markdown report and monthly CSV into outputDir.
func writeReportFiles(outputDir string, result *domain.RunResult, params domain.Parameters) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	report := reporting.NewGenerator().FromRunResult(result, params)

	mdPath := filepath.Join(outputDir, "PROJECTION_REPORT.md")
	if err := os.WriteFile(mdPath, []byte(reporting.RenderMarkdown(report)), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", mdPath, err)
	}

	csvPath := filepath.Join(outputDir, "MONTHLY_STATES.csv")
	if err := os.WriteFile(csvPath, []byte(reporting.RenderMonthlyCSV(result.Months)), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", csvPath, err)
	}

	return nil
}

// printRunSummary outputs a human-readable run summary.
func printRunSummary(r *domain.RunResult) {
	s := r.Summary

	peakUsers, peakMonth := 0, 0
	totalRecaptured := 0.0
	for i := range r.Months {
		m := &r.Months[i]
		if m.ActiveUsers > peakUsers {
			peakUsers = m.ActiveUsers
			peakMonth = m.Month
		}
		totalRecaptured += m.Recapture.RecapturedTokens
	}

	fmt.Println()
	fmt.Println("=== Projection Result ===")
	fmt.Printf("Scenario:            %s\n", r.ScenarioID)
	fmt.Printf("Market Cycle:        %s\n", r.CycleID)
	fmt.Printf("Horizon:             %d months\n", s.HorizonMonths)
	fmt.Println()

	fmt.Println("Users:")
	fmt.Printf("  Final Active:      %d\n", s.FinalUsers)
	fmt.Printf("  Peak Active:       %d (month %d)\n", peakUsers, peakMonth)
	fmt.Println()

	fmt.Println("Economics:")
	fmt.Printf("  Total Revenue:     $%.2f\n", s.TotalRevenue)
	fmt.Printf("  Total Costs:       $%.2f\n", s.TotalCosts)
	fmt.Printf("  Total Profit:      $%.2f\n", s.TotalProfit)
	fmt.Println()

	fmt.Println("Token:")
	fmt.Printf("  Final Price:       $%.6f\n", s.FinalTokenPrice)
	fmt.Printf("  Final Circulating: %.0f\n", s.FinalCirculatingSupply)
	fmt.Printf("  Total Recaptured:  %.0f tokens\n", totalRecaptured)
	fmt.Printf("  Avg Recapture:     %.2f%%\n", s.AvgRecaptureRate*100)
}
