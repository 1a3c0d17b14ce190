package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"crypto_table/internal/app/di"
	"crypto_table/internal/feature/market/domain/entity"
	"crypto_table/internal/feature/market/transport/http/dto"
	"crypto_table/internal/feature/market/usecase"
	trackedadapters "crypto_table/internal/feature/trackedcoins/adapters"
	trackedentity "crypto_table/internal/feature/trackedcoins/domain/entity"
)

// options holds the flags of the snapshot command.
type options struct {
	Coins     string
	Sort      string
	Direction string
	Timeout   time.Duration
	Format    string // "text" | "json"
}

// newRootCommand creates the snapshot command: fetch once, print the sorted table.
func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:          "snapshot",
		Short:        "Fetch the tracked coins once and print the market table",
		SilenceUsage: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.Format != "text" && opts.Format != "json" {
				return fmt.Errorf("invalid format %q: must be text or json", opts.Format)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(".env"); err != nil {
				slog.Debug(".env not found; using system environment variables")
			}
			d, err := parseDirective(opts.Sort, opts.Direction)
			if err != nil {
				return err
			}
			ids, err := trackedIDs(opts.Coins)
			if err != nil {
				return err
			}

			engine, err := usecase.NewSyncEngine(di.NewMarketFeed(), ids, usecase.SyncConfig{FetchTimeout: opts.Timeout})
			if err != nil {
				return err
			}
			return runSnapshot(cmd.Context(), engine, d, opts.Format, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.Coins, "coins", "", "tracked coins as SYMBOL=coin-id,... (default: TRACKED_COINS or built-in list)")
	cmd.Flags().StringVar(&opts.Sort, "sort", "", "column to sort by (name|current_price|market_cap|market_cap_change_percentage_24h|price_change_percentage_24h)")
	cmd.Flags().StringVar(&opts.Direction, "direction", "", "sort direction (ascending|descending)")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", usecase.DefaultFetchTimeout, "fetch timeout")
	cmd.Flags().StringVar(&opts.Format, "format", "text", "output format (text|json)")

	return cmd
}

// snapshotSource is the part of SyncEngine the command needs.
type snapshotSource interface {
	usecase.CollectionSource
	Sync(ctx context.Context) error
	Status() usecase.SyncStatus
}

func runSnapshot(ctx context.Context, src snapshotSource, d entity.SortDirective, format string, w io.Writer) error {
	if err := src.Sync(ctx); err != nil {
		return fmt.Errorf("fetch snapshot: %w", err)
	}

	rows := usecase.Sort(src.Current().Values(), d)
	table := dto.NewTable(false, src.Status().Version, d, rows)

	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(table)
	}
	return writeText(w, table)
}

func writeText(w io.Writer, table dto.TableResponse) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	header := ""
	for i, col := range table.Columns {
		if i > 0 {
			header += "\t"
		}
		header += col.Label + iconMark(col.Icon)
	}
	fmt.Fprintln(tw, header)
	for _, r := range table.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			r.Name, r.CurrentPriceDisplay, r.MarketCapDisplay,
			r.MarketCapChangePct24hDisplay, r.PriceChangePct24hDisplay)
	}
	return tw.Flush()
}

func iconMark(icon string) string {
	switch entity.SortIcon(icon) {
	case entity.SortIconAscending:
		return " ▲"
	case entity.SortIconDescending:
		return " ▼"
	}
	return ""
}

func parseDirective(sort, direction string) (entity.SortDirective, error) {
	key, err := entity.ParseSortKey(sort)
	if err != nil {
		return entity.SortDirective{}, err
	}
	dir, err := entity.ParseDirection(direction)
	if err != nil {
		return entity.SortDirective{}, err
	}
	return entity.NewSortDirective(key, dir), nil
}

func trackedIDs(flag string) ([]string, error) {
	var (
		coins []trackedentity.TrackedCoin
		err   error
	)
	if flag != "" {
		coins, err = trackedadapters.ParseTrackedCoins(flag)
	} else {
		coins, err = di.LoadTrackedCoins()
	}
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(coins))
	for _, c := range coins {
		ids = append(ids, c.CoinID)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no coins in %q (example: %s)", flag, trackedadapters.DefaultTrackedCoins)
	}
	return ids, nil
}
