package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	json "github.com/bytedance/sonic"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rxtech-lab/papertrade/internal/config"
	"github.com/rxtech-lab/papertrade/internal/executor"
	"github.com/rxtech-lab/papertrade/internal/indicator"
	"github.com/rxtech-lab/papertrade/internal/ledger"
	"github.com/rxtech-lab/papertrade/internal/ledger/store"
	"github.com/rxtech-lab/papertrade/internal/logger"
	"github.com/rxtech-lab/papertrade/internal/marketdata"
	"github.com/rxtech-lab/papertrade/internal/types"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func main() {
	log, err := logger.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	app := &cli.Command{
		Name:  "papertrade",
		Usage: "Paper trading engine: indicators, leveraged position ledger and trade stats",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML config file (defaults apply when omitted)",
			},
		},
		Commands: []*cli.Command{
			snapshotCommand(log),
			executeCommand(log),
			portfolioCommand(log),
			statsCommand(log),
			resetCommand(log),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Error("Command failed", zap.Error(err))
		os.Exit(1)
	}
}

func loadConfig(cmd *cli.Command) (config.Config, error) {
	path := cmd.String("config")
	if path == "" {
		return config.Default(), nil
	}

	return config.Load(path)
}

// openLedger wires the store and ledger for a command. The caller must close
// the returned store.
func openLedger(cfg config.Config, log *logger.Logger) (*ledger.PositionLedger, *store.DuckDBStore, error) {
	st, err := store.NewDuckDBStore(cfg.DatabasePath, log)
	if err != nil {
		return nil, nil, err
	}

	lg, err := ledger.NewPositionLedger(st, log, ledger.Config{
		PortfolioID:    cfg.PortfolioID,
		InitialBalance: cfg.InitialBalance,
	})
	if err != nil {
		st.Close()
		return nil, nil, err
	}

	return lg, st, nil
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(out))

	return nil
}

func snapshotCommand(log *logger.Logger) *cli.Command {
	return &cli.Command{
		Name:  "snapshot",
		Usage: "Fetch price history and print indicator snapshots for the watched symbols",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			provider, err := marketdata.NewProvider(cfg.MarketData.Provider, cfg.MarketData.APIKey)
			if err != nil {
				return err
			}

			snapshots := make([]types.IndicatorSnapshot, 0, len(cfg.Symbols))

			for _, symbol := range cfg.Symbols {
				points, err := provider.FetchPriceHistory(ctx, symbol, cfg.HistoryDays)
				if err != nil {
					log.Warn("Failed to fetch price history", zap.String("symbol", symbol), zap.Error(err))
					snapshots = append(snapshots, indicator.Unavailable(symbol, err.Error()))

					continue
				}

				snapshots = append(snapshots, indicator.Snapshot(symbol, points))
			}

			return printJSON(snapshots)
		},
	}
}

func executeCommand(log *logger.Logger) *cli.Command {
	return &cli.Command{
		Name:  "execute",
		Usage: "Execute a recommendations file against live quotes and mark open positions to market",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "recommendations",
				Aliases:  []string{"r"},
				Usage:    "Path to the advisory recommendations JSON file",
				Required: true,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if cfg.MetricsListen != "" {
				go serveMetrics(cfg.MetricsListen, log)
			}

			provider, err := marketdata.NewProvider(cfg.MarketData.Provider, cfg.MarketData.APIKey)
			if err != nil {
				return err
			}

			payload, err := os.ReadFile(cmd.String("recommendations"))
			if err != nil {
				return err
			}

			set, err := executor.DecodeRecommendations(string(payload))
			if err != nil {
				// The decoder already degraded to the safe empty set.
				log.Warn("Recommendations unparseable, holding off this cycle", zap.Error(err))
			}

			// All network I/O happens before the ledger is touched.
			prices, err := provider.FetchQuotes(ctx, cfg.Symbols)
			if err != nil {
				return err
			}

			lg, st, err := openLedger(cfg, log)
			if err != nil {
				return err
			}
			defer st.Close()

			coordinator := executor.NewCoordinator(lg, log).WithSizingPercent(cfg.SizingPercent)
			opened := coordinator.AutoExecute(set, prices)

			closed, err := lg.MarkToMarket(prices)
			if err != nil {
				return err
			}

			return printJSON(map[string]any{
				"opened":    opened,
				"closed":    closed,
				"portfolio": lg.GetPortfolio(),
			})
		},
	}
}

func portfolioCommand(log *logger.Logger) *cli.Command {
	return &cli.Command{
		Name:  "portfolio",
		Usage: "Print the portfolio with open positions and trade history",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			lg, st, err := openLedger(cfg, log)
			if err != nil {
				return err
			}
			defer st.Close()

			return printJSON(lg.GetPortfolio())
		},
	}
}

func statsCommand(log *logger.Logger) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Print performance stats, per-symbol trade stats and the advisory performance context",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			lg, st, err := openLedger(cfg, log)
			if err != nil {
				return err
			}
			defer st.Close()

			symbolStats, err := st.SymbolTradeStats(cfg.PortfolioID)
			if err != nil {
				return err
			}

			return printJSON(map[string]any{
				"performance":         lg.GetPerformanceStats(),
				"per_symbol":          symbolStats,
				"performance_context": lg.GetPerformanceContext(),
			})
		},
	}
}

func resetCommand(log *logger.Logger) *cli.Command {
	return &cli.Command{
		Name:  "reset",
		Usage: "Wipe positions and history and restore the starting balance",
		Flags: []cli.Flag{
			&cli.FloatFlag{
				Name:  "balance",
				Usage: "Starting balance after the reset (defaults to the configured initial balance)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			balance := cmd.Float("balance")
			if balance <= 0 {
				balance = cfg.InitialBalance
			}

			lg, st, err := openLedger(cfg, log)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := lg.Reset(balance); err != nil {
				return err
			}

			return printJSON(lg.GetPortfolio())
		},
	}
}

func serveMetrics(addr string, log *logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	log.Info("Serving metrics", zap.String("addr", addr))

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Warn("Metrics server stopped", zap.Error(err))
	}
}
