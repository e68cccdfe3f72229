// ====================================
// File: cmd/simulator/main.go
// ====================================
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/degenlabs/launchpad/internal/config"
	"github.com/degenlabs/launchpad/internal/curve"
	"github.com/degenlabs/launchpad/internal/export"
	"github.com/degenlabs/launchpad/internal/logger"
	"github.com/degenlabs/launchpad/internal/registry"
	"github.com/degenlabs/launchpad/internal/scenario"
)

func main() {
	configPath := flag.String("config", "", "launch configuration file (optional; scenario overrides apply otherwise)")
	logFile := flag.String("log-file", "", "rotating log file (empty logs to console only)")
	debug := flag.Bool("debug", false, "enable debug logging")
	exportDir := flag.String("export-dir", "", "write per-scenario trade history into this directory")
	exportFormat := flag.String("export-format", "csv", "trade history format: csv or json")
	flag.Parse()

	scenarioPaths := flag.Args()
	if len(scenarioPaths) == 0 {
		fmt.Fprintln(os.Stderr, "usage: simulator [flags] scenario.yaml [scenario.yaml ...]")
		os.Exit(1)
	}

	var cfg *config.Config
	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	logCfg := logger.DefaultConfig()
	logCfg.LogFile = *logFile
	logCfg.Development = *debug
	if cfg != nil {
		if cfg.LogFile != "" && *logFile == "" {
			logCfg.LogFile = cfg.LogFile
		}
		logCfg.Development = logCfg.Development || cfg.DebugLogging
	}

	log, err := logger.New(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting launchpad simulator", zap.Int("scenarios", len(scenarioPaths)))

	manager := scenario.NewManager(log)
	runner := scenario.NewRunner(log)
	curves := registry.New(log)
	exporter := export.NewTradeExporter(log)
	baseTime := time.Now().Unix()

	// Each scenario gets its own mint and curve; distinct curves trade
	// concurrently.
	g := new(errgroup.Group)
	for _, path := range scenarioPaths {
		sc, err := manager.Load(path)
		if err != nil {
			log.Fatal("Failed to load scenario", zap.String("path", path), zap.Error(err))
		}

		base := curve.DefaultParams()
		if cfg != nil {
			base = cfg.ToParams()
		}
		params, err := sc.ApplyOverrides(base)
		if err != nil {
			log.Fatal("Invalid scenario parameters", zap.String("scenario", sc.Name), zap.Error(err))
		}

		mint := solana.NewWallet().PublicKey()
		engine, err := curves.Create(mint, params, baseTime)
		if err != nil {
			log.Fatal("Failed to create curve", zap.String("scenario", sc.Name), zap.Error(err))
		}

		g.Go(func() error {
			summary, err := runner.Run(engine, sc, baseTime)
			if err != nil {
				return fmt.Errorf("scenario %q: %w", sc.Name, err)
			}
			reportSummary(log, mint, summary)

			if *exportDir != "" {
				_, err := exporter.ExportTrades(sc.Name, engine.History(), export.Options{
					Format:    export.Format(*exportFormat),
					OutputDir: *exportDir,
				})
				if err != nil {
					return fmt.Errorf("export scenario %q: %w", sc.Name, err)
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Fatal("Simulation failed", zap.Error(err))
	}

	log.Info("All scenarios completed", zap.Int("curves", curves.Count()))
}

func reportSummary(log *zap.Logger, mint solana.PublicKey, summary *scenario.Summary) {
	fields := []zap.Field{
		zap.String("scenario", summary.Scenario),
		zap.String("mint", mint.String()),
		zap.Int("accepted", summary.Accepted),
		zap.Int("rejected", summary.Rejected),
		zap.Uint64("final_price", summary.FinalState.CurrentPrice),
		zap.Uint64("final_supply", summary.FinalState.TotalSupply),
		zap.Uint64("treasury", summary.FinalState.TreasuryBalance),
		zap.Uint64("market_cap", summary.FinalState.MarketCap),
		zap.String("graduation_progress_pct", summary.FinalState.GraduationProgressPct.String()),
	}
	for reason, count := range summary.RejectedByReason {
		fields = append(fields, zap.Int("rejected_"+string(reason), count))
	}
	log.Info("Scenario summary", fields...)

	if summary.Graduation != nil {
		event := summary.Graduation
		log.Info("Curve graduated to external pool",
			zap.String("scenario", summary.Scenario),
			zap.Uint64("market_cap", event.MarketCapAtGraduation),
			zap.Uint64("liquidity_value", event.LiquidityValue),
			zap.Uint64("liquidity_tokens", event.LiquidityTokenAmount),
			zap.Uint64("platform_share", event.PlatformShareValue),
			zap.Uint64("creator_bonus", event.CreatorBonusValue),
			zap.Uint64("pool_initial_price", event.PoolInitialPrice),
			zap.Uint64("lp_token_estimate", event.LPTokenEstimate))
	}
}
