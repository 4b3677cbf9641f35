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
	"runtime"
	"syscall"

	"tokenomics-lab/internal/config"
	"tokenomics-lab/internal/domain"
	"tokenomics-lab/internal/montecarlo"
	"tokenomics-lab/internal/reporting"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "config.yaml", "Path to YAML config file")
	iterations := flag.Int("iterations", 0, "Number of Monte Carlo trials (0 = use config value)")
	seed := flag.Int64("seed", 0, "Base RNG seed (0 = use config value)")
	horizon := flag.Int("horizon", 0, "Projection horizon in months (overrides config)")
	workers := flag.Int("workers", 0, "Concurrent trial workers (0 = NumCPU)")
	scenario := flag.String("scenario", "", "Growth scenario: conservative, base, aggressive (overrides config)")
	cycle := flag.String("cycle", "", "Market cycle: bear, neutral, bull (overrides config)")
	outputDir := flag.String("output-dir", "", "Output directory for report files (overrides config)")
	outputJSON := flag.Bool("json", false, "Print full ensemble as JSON instead of writing report files")
	verbose := flag.Bool("verbose", false, "Enable verbose logging")
	flag.Parse()

	// Setup logger
	logger := log.New(os.Stderr, "[montecarlo] ", log.LstdFlags)

	// Load config and apply flag overrides
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if *iterations > 0 {
		cfg.Parameters.MonteCarlo.Iterations = *iterations
	}
	if *seed != 0 {
		cfg.Parameters.MonteCarlo.Seed = *seed
	}
	if *horizon > 0 {
		cfg.Run.HorizonMonths = *horizon
	}
	if *workers > 0 {
		cfg.Run.Workers = *workers
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
	if cfg.Run.Workers == 0 {
		cfg.Run.Workers = runtime.NumCPU()
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

	runner := montecarlo.NewRunner(montecarlo.Options{
		Params:        cfg.Parameters,
		HorizonMonths: cfg.Run.HorizonMonths,
		Workers:       cfg.Run.Workers,
		Sink:          &logSink{logger: logger},
		Logger:        logger,
		Verbose:       *verbose,
	})

	logger.Printf("Running Monte Carlo: iterations=%d seed=%d horizon=%d workers=%d",
		cfg.Parameters.MonteCarlo.Iterations, cfg.Parameters.MonteCarlo.Seed,
		cfg.Run.HorizonMonths, cfg.Run.Workers)

	ensemble, err := runner.Run(ctx)
	if err != nil {
		logger.Fatalf("monte carlo failed: %v", err)
	}

	// Output result
	if *outputJSON {
		output, _ := json.MarshalIndent(ensemble, "", "  ")
		fmt.Println(string(output))
		return
	}

	if err := writeReportFiles(cfg.Run.OutputDir, ensemble, cfg.Parameters); err != nil {
		logger.Fatalf("write report: %v", err)
	}

	printEnsembleSummary(ensemble)
	fmt.Println()
	fmt.Println("Monte Carlo report generated successfully:")
	fmt.Printf("  - %s/MONTECARLO_REPORT.md\n", cfg.Run.OutputDir)
	fmt.Printf("  - %s/MONTECARLO_P50_STATES.csv\n", cfg.Run.OutputDir)
}

// logSink logs coarse progress so long runs stay observable from a terminal.
// OnComplete and OnError are no-ops: main handles the returned value.
type logSink struct {
	logger     *log.Logger
	lastBucket int
}

func (s *logSink) OnProgress(percentage float64) {
	bucket := int(percentage) / 10
	if bucket > s.lastBucket {
		s.lastBucket = bucket
		s.logger.Printf("progress: %.0f%%", percentage)
	}
}

func (s *logSink) OnComplete(interface{}) {}
func (s *logSink) OnError(string)         {}

// writeReportFiles renders the markdown report and the P50 composite CSV.
func writeReportFiles(outputDir string, ens *domain.MonteCarloEnsemble, params domain.Parameters) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	report := reporting.NewGenerator().FromEnsemble(ens, params)

	mdPath := filepath.Join(outputDir, "MONTECARLO_REPORT.md")
	if err := os.WriteFile(mdPath, []byte(reporting.RenderMarkdown(report)), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", mdPath, err)
	}

	csvPath := filepath.Join(outputDir, "MONTECARLO_P50_STATES.csv")
	if err := os.WriteFile(csvPath, []byte(reporting.RenderMonthlyCSV(ens.P50.Months)), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", csvPath, err)
	}

	return nil
}

// printEnsembleSummary outputs a human-readable ensemble summary.
func printEnsembleSummary(ens *domain.MonteCarloEnsemble) {
	fmt.Println()
	fmt.Println("=== Monte Carlo Result ===")
	fmt.Printf("Scenario:            %s\n", ens.ScenarioID)
	fmt.Printf("Market Cycle:        %s\n", ens.CycleID)
	fmt.Printf("Iterations:          %d\n", ens.Iterations)
	fmt.Printf("Seed:                %d\n", ens.Seed)
	fmt.Println()

	fmt.Println("Total Revenue:")
	fmt.Printf("  P5:                $%.2f\n", ens.P5.Summary.TotalRevenue)
	fmt.Printf("  P50:               $%.2f\n", ens.P50.Summary.TotalRevenue)
	fmt.Printf("  P95:               $%.2f\n", ens.P95.Summary.TotalRevenue)
	fmt.Printf("  Mean:              $%.2f (stddev %.2f)\n", ens.Summary.RevenueMean, ens.Summary.RevenueStddev)
	fmt.Println()

	fmt.Println("Total Profit:")
	fmt.Printf("  P5:                $%.2f\n", ens.P5.Summary.TotalProfit)
	fmt.Printf("  P50:               $%.2f\n", ens.P50.Summary.TotalProfit)
	fmt.Printf("  P95:               $%.2f\n", ens.P95.Summary.TotalProfit)
	fmt.Printf("  Mean:              $%.2f (stddev %.2f)\n", ens.Summary.ProfitMean, ens.Summary.ProfitStddev)
	fmt.Println()

	fmt.Println("Recapture Rate:")
	fmt.Printf("  Mean:              %.2f%% (stddev %.2f%%)\n",
		ens.Summary.RecaptureRateMean*100, ens.Summary.RecaptureRateStddev*100)
	fmt.Println()

	fmt.Println("P50 Final State:")
	fmt.Printf("  Users:             %d\n", ens.P50.Summary.FinalUsers)
	fmt.Printf("  Token Price:       $%.6f\n", ens.P50.Summary.FinalTokenPrice)
	fmt.Printf("  Circulating:       %.0f\n", ens.P50.Summary.FinalCirculatingSupply)
}
