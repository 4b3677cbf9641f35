package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"tokenomics-lab/internal/agentsim"
	"tokenomics-lab/internal/config"
	"tokenomics-lab/internal/domain"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "config.yaml", "Path to YAML config file")
	agents := flag.Int("agents", 1000, "Number of agents to simulate")
	months := flag.Int("months", 24, "Number of months to simulate")
	seed := flag.Int64("seed", 1, "RNG seed for population spawn and behavior")
	outputJSON := flag.Bool("json", false, "Output as JSON")
	verbose := flag.Bool("verbose", false, "Enable verbose logging")
	flag.Parse()

	// Setup logger
	logger := log.New(os.Stderr, "[agentsim] ", log.LstdFlags)

	// Validate flags
	if *agents <= 0 {
		logger.Fatal("--agents must be positive")
	}
	if *months <= 0 {
		logger.Fatal("--months must be positive")
	}

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
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

	runner := agentsim.NewRunner(agentsim.Options{
		Params:     cfg.Parameters,
		AgentCount: *agents,
		Months:     *months,
		Seed:       *seed,
		Logger:     logger,
		Verbose:    *verbose,
	})

	logger.Printf("Running agent simulation: agents=%d months=%d seed=%d", *agents, *months, *seed)

	result, err := runner.Run(ctx)
	if err != nil {
		logger.Fatalf("agent simulation failed: %v", err)
	}

	// Output result
	if *outputJSON {
		output, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(output))
	} else {
		printPopulationResult(result)
	}
}

// printPopulationResult outputs a human-readable population summary.
func printPopulationResult(r *domain.AgentPopulationResult) {
	fmt.Println()
	fmt.Println("=== Agent Simulation Result ===")
	fmt.Printf("Agents:              %d\n", r.AgentCount)
	fmt.Printf("Months:              %d\n", r.Months)
	fmt.Printf("Seed:                %d\n", r.Seed)
	fmt.Println()

	fmt.Println("Population:")
	for _, at := range domain.AgentTypes {
		stats, ok := r.TypeStats[at]
		if !ok {
			continue
		}
		fmt.Printf("  %-9s count=%-6d earned=%-14.0f sold=%-14.0f staked=%-14.0f holding=%.0f\n",
			string(at)+":", stats.Count, stats.TotalEarnedTokens, stats.TotalSoldTokens,
			stats.TotalStakedTokens, stats.EndHoldingsTokens)
	}
	fmt.Println()

	fmt.Println("Bot Detection:")
	fmt.Printf("  Flagged:           %d\n", r.FlaggedBots)
	fmt.Printf("  Actual:            %d\n", r.ActualBots)
	fmt.Println()

	if last := lastMonth(r); last != nil {
		fmt.Println("Final Month:")
		fmt.Printf("  Rewards Paid:      %.0f tokens\n", last.RewardsDistributedTokens)
		fmt.Printf("  Buy Pressure:      $%.2f\n", last.BuyPressureUsd)
		fmt.Printf("  Sell Pressure:     $%.2f\n", last.SellPressureUsd)
		fmt.Printf("  Net Pressure:      $%.2f\n", last.NetPressureUsd)
		fmt.Printf("  Staked:            %.0f tokens\n", last.StakedTokens)
		fmt.Println()
	}

	fmt.Printf("Final Estimated Price: $%.6f\n", r.FinalEstimatedPrice)
}

func lastMonth(r *domain.AgentPopulationResult) *domain.AgentMonthlyAggregate {
	if len(r.Monthly) == 0 {
		return nil
	}
	return &r.Monthly[len(r.Monthly)-1]
}
