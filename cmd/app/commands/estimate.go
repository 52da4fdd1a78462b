package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"minecalc/internal/api"
	"minecalc/internal/domain"
	"minecalc/internal/infra"
	"minecalc/internal/service"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// estimateCmd represents the estimate command
var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate mining profitability for one rig",
	Long: `Estimate daily, monthly and yearly cost, revenue and profit for a rig.

Network statistics are fetched live unless --price, --difficulty and
--block-reward are all given, in which case no request is made.`,
	Example: `  minecalc estimate --hash-rate 100 --power 1000 --electricity-cost 0.1 --investment 10000
  minecalc estimate --hash-rate 100 --power 1000 --electricity-cost 0.1 --investment 10000 \
    --price 50000 --difficulty 1e13 --block-reward 3.125 --format json`,
	RunE: runEstimate,
}

func init() {
	rootCmd.AddCommand(estimateCmd)

	estimateCmd.Flags().Float64("hash-rate", 0, "hash rate in TH/s")
	estimateCmd.Flags().Float64("power", 0, "power consumption in watts")
	estimateCmd.Flags().Float64("electricity-cost", 0, "electricity cost in USD per kWh")
	estimateCmd.Flags().Float64("investment", 0, "initial hardware investment in USD")

	estimateCmd.Flags().Float64("price", 0, "BTC price in USD (offline mode)")
	estimateCmd.Flags().Float64("difficulty", 0, "network difficulty (offline mode)")
	estimateCmd.Flags().Float64("block-reward", 0, "block reward in BTC (offline mode)")

	estimateCmd.Flags().String("format", "table", "Output format (table, json)")

	for _, name := range []string{"hash-rate", "power", "electricity-cost", "investment"} {
		_ = estimateCmd.MarkFlagRequired(name)
	}
}

func runEstimate(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if format != "table" && format != "json" {
		return fmt.Errorf("unsupported format %q", format)
	}

	slog.SetDefault(cliLogger())

	in := domain.MiningInputs{}
	in.HashRateTHs, _ = cmd.Flags().GetFloat64("hash-rate")
	in.PowerConsumptionW, _ = cmd.Flags().GetFloat64("power")
	in.ElectricityCostUSDPerKWh, _ = cmd.Flags().GetFloat64("electricity-cost")
	in.InitialInvestmentUSD, _ = cmd.Flags().GetFloat64("investment")

	cfg, err := infra.LoadConfig(cfgFile)
	if err != nil {
		return err
	}
	svc := service.NewProfitabilityService(infra.NewNetworkStatsClient(cfg, nil), nil)

	var est service.Estimate
	if snap, ok := offlineSnapshot(cmd); ok {
		if err := snap.Validate(); err != nil {
			return err
		}
		est, err = svc.CalculateWith(cmd.Context(), in, snap)
	} else {
		est, err = svc.Calculate(cmd.Context(), in)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		return displayJSON(out, api.NewCalculateResponse(est))
	}
	displayTable(out, in, est)
	return nil
}

// offlineSnapshot builds a snapshot from flags when all three network values are set.
func offlineSnapshot(cmd *cobra.Command) (domain.NetworkSnapshot, bool) {
	flags := cmd.Flags()
	if !flags.Changed("price") || !flags.Changed("difficulty") || !flags.Changed("block-reward") {
		return domain.NetworkSnapshot{}, false
	}

	snap := domain.NetworkSnapshot{FetchedAt: time.Now().UTC()}
	snap.PriceUSD, _ = flags.GetFloat64("price")
	snap.Difficulty, _ = flags.GetFloat64("difficulty")
	snap.BlockReward, _ = flags.GetFloat64("block-reward")
	return snap, true
}

func displayJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func displayTable(w io.Writer, in domain.MiningInputs, est service.Estimate) {
	r := est.Result
	snap := est.Snapshot

	fmt.Fprintln(w, "Rig")
	fmt.Fprintf(w, "  Hash Rate        : %s\n", humanize.SIWithDigits(in.HashRateTHs*1e12, 2, "H/s"))
	fmt.Fprintf(w, "  Power            : %s\n", humanize.SIWithDigits(in.PowerConsumptionW, 2, "W"))
	fmt.Fprintf(w, "  Electricity      : $%s/kWh\n", humanize.FormatFloat("#,###.####", in.ElectricityCostUSDPerKWh))
	fmt.Fprintf(w, "  Investment       : %s\n", usd(in.InitialInvestmentUSD))

	fmt.Fprintln(w, "\nNetwork")
	fmt.Fprintf(w, "  BTC Price        : %s\n", usd(snap.PriceUSD))
	fmt.Fprintf(w, "  Difficulty       : %s\n", humanize.SIWithDigits(snap.Difficulty, 2, ""))
	fmt.Fprintf(w, "  Block Reward     : %s BTC\n", btc(snap.BlockReward))

	fmt.Fprintln(w, "\nProfitability")
	fmt.Fprintf(w, "  %-8s %14s %14s %16s %14s\n", "", "Cost", "Revenue", "Revenue (BTC)", "Profit")
	rows := []struct {
		label                   string
		cost, rev, coin, profit float64
	}{
		{"Daily", r.DailyCostUSD, r.DailyRevenueUSD, r.DailyRevenueCoin, r.DailyProfitUSD},
		{"Monthly", r.MonthlyCostUSD, r.MonthlyRevenueUSD, r.MonthlyRevenueCoin, r.MonthlyProfitUSD},
		{"Yearly", r.YearlyCostUSD, r.YearlyRevenueUSD, r.YearlyRevenueCoin, r.YearlyProfitUSD},
	}
	for _, row := range rows {
		fmt.Fprintf(w, "  %-8s %14s %14s %16s %14s\n", row.label, usd(row.cost), usd(row.rev), btc(row.coin), usd(row.profit))
	}

	fmt.Fprintln(w)
	if r.Breakeven.Reachable() {
		fmt.Fprintf(w, "  Breakeven        : %d months\n", r.Breakeven.Months)
	} else {
		fmt.Fprintln(w, "  Breakeven        : never (mining runs at a loss)")
	}
	fmt.Fprintf(w, "  Cost to Mine     : %s\n", usd(r.CostToMineCoinUSD))
}

func usd(v float64) string {
	return "$" + humanize.FormatFloat("#,###.##", v)
}

func btc(v float64) string {
	return humanize.FormatFloat("#,###.########", v)
}
