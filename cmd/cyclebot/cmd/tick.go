package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/cyclebot/cycle"
	"github.com/rustyeddy/cyclebot/ledger"
)

var tickCmd = &cobra.Command{
	Use:   "tick",
	Short: "Evaluate the cycle exactly once and exit",
	Long: `Tick runs a single evaluation against fresh price and balance data,
prints the outcome and the updated position, then exits. Useful under cron
or for a dry look at what the bot would do right now.`,
	RunE: runTick,
}

func init() {
	rootCmd.AddCommand(tickCmd)
}

func runTick(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	b, err := buildBroker(cfg)
	if err != nil {
		return fmt.Errorf("create broker: %w", err)
	}

	store := ledger.NewFileStore(cfg.State.Path)
	led, err := store.Load()
	if errors.Is(err, ledger.ErrCorrupt) {
		slog.Warn("state file corrupt, starting from a zero position", "path", cfg.State.Path, "err", err)
	} else if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}

	jrnl, err := openJournal(cfg)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer jrnl.Close()

	engine := cycle.NewEngine(cfg.Bot.Symbol, cfg.Bot.DCAAmount, b, store)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	next, err := tickOnce(ctx, cfg, b, engine, jrnl, led)
	if err != nil {
		return err
	}

	quote, err := b.GetLatestQuote(ctx, cfg.Bot.Symbol)
	price := 0.0
	if err == nil {
		price = quote.Price()
	}
	printSummary(cycle.Summarize(next, cfg.Bot.Symbol, price))
	return nil
}
