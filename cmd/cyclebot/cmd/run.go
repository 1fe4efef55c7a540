package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/cyclebot/broker"
	"github.com/rustyeddy/cyclebot/config"
	"github.com/rustyeddy/cyclebot/cycle"
	"github.com/rustyeddy/cyclebot/journal"
	"github.com/rustyeddy/cyclebot/ledger"
	"github.com/rustyeddy/cyclebot/pkg/id"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the cycle continuously",
	Long: `Run evaluates the cycle once per configured interval until interrupted.

Quote, balance and broker failures are logged and retried on the next tick.
The only error that stops the loop is the state file becoming unwritable,
because the bot cannot safely trade without durable state.

Example:
  cyclebot run -f cyclebot.yaml`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("cyclebot starting",
		"symbol", cfg.Bot.Symbol,
		"dca_amount", cfg.Bot.DCAAmount,
		"interval", cfg.Interval(),
		"broker", cfg.Broker.Mode,
		"state", cfg.State.Path,
	)

	ticker := time.NewTicker(cfg.Interval())
	defer ticker.Stop()

	for {
		led, err = tickOnce(ctx, cfg, b, engine, jrnl, led)
		if err != nil {
			slog.Error("stopping: cannot persist state", "err", err)
			return err
		}

		select {
		case <-ctx.Done():
			slog.Info("cyclebot stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// tickOnce gathers fresh inputs, runs one engine tick and journals any fill.
// Collaborator failures are logged and swallowed so the loop retries next
// interval; only a persistence failure propagates.
func tickOnce(ctx context.Context, cfg *config.Config, b broker.Broker, engine *cycle.Engine, jrnl journal.Journal, led ledger.Ledger) (ledger.Ledger, error) {
	if cfg.Bot.SkipWhenClosed {
		open, err := b.IsMarketOpen(ctx)
		if err != nil {
			slog.Warn("market clock unavailable", "err", err)
		} else if !open {
			slog.Debug("market closed, skipping tick")
			return led, nil
		}
	}

	balance, err := b.GetBuyingPower(ctx)
	if err != nil {
		slog.Warn("balance unavailable, skipping tick", "err", err)
		return led, nil
	}

	quote, err := b.GetLatestQuote(ctx, cfg.Bot.Symbol)
	if err != nil {
		slog.Warn("quote unavailable, skipping tick", "symbol", cfg.Bot.Symbol, "err", err)
		return led, nil
	}

	next, res, err := engine.Tick(ctx, led, cycle.Input{
		Price:   quote.Price(),
		Balance: balance,
		Now:     time.Now(),
	})
	if err != nil {
		return led, err
	}

	logResult(res, balance)

	if res.Outcome == cycle.Executed {
		fill := journal.Fill{
			ID:     id.New(),
			Time:   time.Now().UTC(),
			Symbol: cfg.Bot.Symbol,
			Kind:   journal.KindUnit,
			Units:  res.Shares,
			Price:  res.Price,
			Cost:   res.Shares * res.Price,
		}
		if res.Action == cycle.DcaBuy {
			fill.Kind = journal.KindDca
		}
		if err := jrnl.RecordFill(fill); err != nil {
			slog.Warn("journal write failed", "err", err)
		}

		s := cycle.Summarize(next, cfg.Bot.Symbol, quote.Price())
		slog.Info("position",
			"shares", fmt.Sprintf("%.4f", s.TotalShares),
			"invested", fmt.Sprintf("%.2f", s.TotalInvested),
			"avg_cost", fmt.Sprintf("%.2f", s.AvgCost),
			"value", fmt.Sprintf("%.2f", s.MarketValue),
			"pl", fmt.Sprintf("%.2f", s.UnrealizedPL),
			"pl_pct", fmt.Sprintf("%.1f", s.UnrealizedPLPct),
			"next", s.NextAction,
		)
	}

	return next, nil
}

func logResult(res cycle.Result, balance float64) {
	switch res.Outcome {
	case cycle.Executed:
		slog.Info("trade executed", "action", string(res.Action), "price", res.Price, "shares", res.Shares)
	case cycle.Failed:
		slog.Error("order failed", "action", string(res.Action), "price", res.Price, "err", res.Err)
	default:
		slog.Info("no action", "reason", string(res.Reason), "price", res.Price, "balance", balance)
	}
}
