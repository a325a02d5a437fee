package main

import (
	"context"
	"fmt"
	"strings"

	"cryptorates-service/internal/application"
	"cryptorates-service/internal/bootstrap"
	"cryptorates-service/internal/domain"

	"github.com/spf13/cobra"
)

// --- Migrate ---

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		// migrations run while the store is opened
		return withCLI(cmd, func(context.Context, *bootstrap.CLI) error {
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		})
	},
}

// --- Seed ---

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert or refresh the tracked currencies",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withCLI(cmd, func(ctx context.Context, cli *bootstrap.CLI) error {
			res, err := cli.Seeder.Seed(ctx, domain.SeedCurrencies())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %d, updated %d\n", res.Created, res.Updated)
			return nil
		})
	},
}

// --- Sync ---

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Pull current market data from the price feed",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withCLI(cmd, func(ctx context.Context, cli *bootstrap.CLI) error {
			rep, err := cli.Sync.Sync(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "updated: %s\n", joinSymbols(rep.Updated))
			for _, s := range rep.Skipped {
				fmt.Fprintf(out, "skipped %s (%s): %s\n", s.Symbol, s.FeedID, s.Reason)
			}
			return nil
		})
	},
}

// --- Convert ---

var convertCmd = &cobra.Command{
	Use:   "convert [from] [to] [amount]",
	Short: "Convert an amount between two currencies",
	Long:  "Convert an amount at stored prices. With --user the conversion is recorded in that user's history.",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, _ := cmd.Flags().GetString("user")
		return withCLI(cmd, func(ctx context.Context, cli *bootstrap.CLI) error {
			c, err := cli.Service.Convert(ctx, domain.PrincipalID(user), application.ConvertRequest{
				From: args[0], To: args[1], Amount: args[2],
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s = %s %s (rate %s)\n",
				c.Amount, c.From, c.Converted.StringFixed(domain.ConversionScale), c.To,
				c.Rate.StringFixed(domain.ConversionScale))
			return nil
		})
	},
}

func init() {
	convertCmd.Flags().String("user", "", "record the conversion for this user id")
}

// --- APR ---

var aprCmd = &cobra.Command{
	Use:   "apr [symbol] [principal] [rate] [years]",
	Short: "Project simple interest on a holding",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCLI(cmd, func(ctx context.Context, cli *bootstrap.CLI) error {
			r, err := cli.Service.CalculateAPR(ctx, application.APRRequest{
				Symbol: args[0], Principal: args[1], Rate: args[2], Years: args[3],
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "principal: %s %s (%s USD)\n", r.Principal, r.Symbol, r.PrincipalUSD.StringFixed(2))
			fmt.Fprintf(out, "rate: %s%% for %s years\n", r.RatePercent.StringFixed(2), r.Years.StringFixed(2))
			fmt.Fprintf(out, "total: %s %s (%s USD)\n", r.TotalInCurrency.StringFixed(4), r.Symbol, r.TotalUSD.StringFixed(2))
			fmt.Fprintf(out, "interest: %s %s (%s USD)\n", r.InterestInCurrency.StringFixed(4), r.Symbol, r.InterestUSD.StringFixed(2))
			return nil
		})
	},
}

func joinSymbols(syms []domain.Symbol) string {
	if len(syms) == 0 {
		return "-"
	}
	parts := make([]string, len(syms))
	for i, s := range syms {
		parts[i] = string(s)
	}
	return strings.Join(parts, ",")
}
