package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/cyclebot/broker"
	"github.com/rustyeddy/cyclebot/broker/alpaca"
	"github.com/rustyeddy/cyclebot/broker/sim"
	"github.com/rustyeddy/cyclebot/config"
	"github.com/rustyeddy/cyclebot/journal"
	"github.com/rustyeddy/cyclebot/market"
)

var rootCmd = &cobra.Command{
	Use:   "cyclebot",
	Short: "An accumulate/DCA cycle bot for a single instrument",
	Long: `Cyclebot alternates between buying one share at market and buying a fixed
dollar amount once the price drops below that share's purchase price.

It keeps a durable position ledger, journals every confirmed fill, and
respects a hard cap of two trades per day.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

var cfgPath string

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "f", "cyclebot.yaml", "path to config file (YAML)")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFromFile(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	setupLogger(cfg.Log)
	return cfg, nil
}

func setupLogger(lc config.LogConfig) {
	var level slog.Level
	switch lc.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if lc.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func buildBroker(cfg *config.Config) (broker.Broker, error) {
	switch cfg.Broker.Mode {
	case "alpaca":
		return alpaca.NewFromEnv(cfg.Broker.BaseURL, cfg.Broker.DataURL)
	case "sim":
		b := sim.New(cfg.Broker.SimBalance)
		b.SetQuote(market.Quote{
			Symbol: cfg.Bot.Symbol,
			Bid:    cfg.Broker.SimPrice * 0.999,
			Ask:    cfg.Broker.SimPrice,
		})
		return b, nil
	default:
		return nil, fmt.Errorf("unknown broker mode %q", cfg.Broker.Mode)
	}
}

func openJournal(cfg *config.Config) (journal.Journal, error) {
	switch cfg.Journal.Type {
	case "csv":
		return journal.NewCSV(cfg.Journal.FillsFile)
	case "sqlite":
		return journal.NewSQLite(cfg.Journal.DBPath)
	default:
		return journal.Nop{}, nil
	}
}
