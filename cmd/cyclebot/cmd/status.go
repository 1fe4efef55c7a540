package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/cyclebot/cycle"
	"github.com/rustyeddy/cyclebot/ledger"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current position and next expected action",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store := ledger.NewFileStore(cfg.State.Path)
	led, err := store.Load()
	if errors.Is(err, ledger.ErrCorrupt) {
		slog.Warn("state file corrupt, showing a zero position", "path", cfg.State.Path, "err", err)
	} else if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}

	// Mark to market if we can get a quote; the summary still renders without.
	price := 0.0
	if b, err := buildBroker(cfg); err == nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if quote, err := b.GetLatestQuote(ctx, cfg.Bot.Symbol); err == nil {
			price = quote.Price()
		} else {
			slog.Warn("quote unavailable, skipping mark-to-market", "err", err)
		}
	}

	printSummary(cycle.Summarize(led, cfg.Bot.Symbol, price))
	return nil
}

func printSummary(s cycle.Summary) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Field", "Value")

	ref := "-"
	if s.ReferencePrice != nil {
		ref = fmt.Sprintf("$%.2f", *s.ReferencePrice)
	}

	table.Append("Symbol", s.Symbol)
	table.Append("Phase", string(s.Phase))
	table.Append("Reference Price", ref)
	table.Append("Shares", fmt.Sprintf("%.4f", s.TotalShares))
	table.Append("Invested", fmt.Sprintf("$%.2f", s.TotalInvested))
	table.Append("Avg Cost", fmt.Sprintf("$%.2f", s.AvgCost))
	if s.MarketValue > 0 {
		table.Append("Market Value", fmt.Sprintf("$%.2f", s.MarketValue))
		table.Append("Unrealized P&L", fmt.Sprintf("$%.2f (%+.1f%%)", s.UnrealizedPL, s.UnrealizedPLPct))
	}
	table.Append("Next Action", s.NextAction)

	table.Render()
}
