package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"lsbacktest/api"
	"lsbacktest/cmd"
	"lsbacktest/internal/app"
	"lsbacktest/internal/calculator"
	"lsbacktest/internal/domain"
	"lsbacktest/internal/logger"
	"lsbacktest/internal/repository"
	l2_service "lsbacktest/internal/service/l2"
	"lsbacktest/internal/util"

	"github.com/spf13/cobra"
)

type cliFlags struct {
	strategies []string
	start      string
	end        string
	aggregate  bool
	fundName   string

	signalName string
	expression string
	lookback   int
	universe   string
	topN       int

	file     string
	out      string
	aum      float64
	leverage float64
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lg := logger.New()
	defer lg.Sync()
	ctx = logger.NewContext(ctx, lg)

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		lg.Error(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &cliFlags{}
	var handler *api.ApiHandler

	root := &cobra.Command{
		Use:           "backtest",
		Short:         "Long-short equity backtests over stored alpha weights",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(c *cobra.Command, args []string) error {
			h, err := cmd.InitializeDependencies()
			if err != nil {
				return err
			}
			handler = h
			return nil
		},
		PersistentPostRun: func(c *cobra.Command, args []string) {
			if handler != nil {
				cmd.CloseDependencies(handler)
			}
		},
	}

	deps := func() *api.ApiHandler { return handler }
	root.AddCommand(
		newRunCmd(flags, deps),
		newAggregateCmd(flags, deps),
		newSignalsCmd(flags, deps),
		newAumCmd(flags, deps),
		newPricesCmd(flags, deps),
		newTradesCmd(flags, deps),
		newSummaryCmd(flags, deps),
	)
	return root
}

func addRangeFlags(c *cobra.Command, flags *cliFlags) {
	c.Flags().StringVar(&flags.start, "start", "", "first date, YYYY-MM-DD")
	c.Flags().StringVar(&flags.end, "end", "", "last date, YYYY-MM-DD")
}

func parseRange(flags *cliFlags) (time.Time, time.Time, error) {
	start, err := util.ParseDate(flags.start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --start: %w", err)
	}
	end, err := util.ParseDate(flags.end)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --end: %w", err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, domain.ErrInvalidDateRange
	}
	return start, end, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newRunCmd(flags *cliFlags, deps func() *api.ApiHandler) *cobra.Command {
	c := &cobra.Command{
		Use:   "run",
		Short: "Backtest strategies and record each run",
		RunE: func(c *cobra.Command, args []string) error {
			start, end, err := parseRange(flags)
			if err != nil {
				return err
			}
			result, err := deps().BacktestRunner.Run(c.Context(), app.RunBacktestsInput{
				Strategies: flags.strategies,
				Start:      start,
				End:        end,
				Aggregate:  flags.aggregate,
				FundName:   flags.fundName,
			})
			if err != nil {
				return err
			}
			return printJSON(c.OutOrStdout(), result)
		},
	}
	c.Flags().StringSliceVar(&flags.strategies, "strategy", nil, "strategies to run; all scored strategies when empty")
	c.Flags().BoolVar(&flags.aggregate, "aggregate", false, "rebuild the aggregated fund afterwards")
	c.Flags().StringVar(&flags.fundName, "fund", "", "aggregated fund name")
	addRangeFlags(c, flags)
	return c
}

func newAggregateCmd(flags *cliFlags, deps func() *api.ApiHandler) *cobra.Command {
	c := &cobra.Command{
		Use:   "aggregate",
		Short: "Rebuild the aggregated fund from every strategy's trades",
		RunE: func(c *cobra.Command, args []string) error {
			result, err := deps().FundService.Aggregate(c.Context(), flags.fundName)
			if err != nil {
				return err
			}
			return printJSON(c.OutOrStdout(), result)
		},
	}
	c.Flags().StringVar(&flags.fundName, "fund", "", "aggregated fund name")
	return c
}

func readUniverse(s string) ([]string, error) {
	if path, ok := strings.CutPrefix(s, "@"); ok {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read universe file: %w", err)
		}
		s = strings.ReplaceAll(string(b), "\n", ",")
	}
	out := []string{}
	for _, symbol := range strings.Split(s, ",") {
		if symbol = strings.TrimSpace(symbol); symbol != "" {
			out = append(out, symbol)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("universe is empty")
	}
	return out, nil
}

func newSignalsCmd(flags *cliFlags, deps func() *api.ApiHandler) *cobra.Command {
	signals := &cobra.Command{
		Use:   "signals",
		Short: "Alpha signal generation",
	}
	build := &cobra.Command{
		Use:   "build",
		Short: "Score a universe and store weekly long/short weights",
		RunE: func(c *cobra.Command, args []string) error {
			start, end, err := parseRange(flags)
			if err != nil {
				return err
			}
			universe, err := readUniverse(flags.universe)
			if err != nil {
				return err
			}
			h := deps()
			generator, err := l2_service.NewSignalGenerator(l2_service.SignalConfig{
				Name:         flags.signalName,
				Benchmark:    h.Config.BenchmarkSymbol,
				Expression:   flags.expression,
				LookbackDays: flags.lookback,
			})
			if err != nil {
				return err
			}
			topN := flags.topN
			if topN <= 0 {
				topN = h.Config.TopN
			}
			result, err := h.SignalService.BuildAndStore(c.Context(), l2_service.BuildSignalInput{
				Generator: generator,
				Universe:  universe,
				Start:     start,
				End:       end,
				TopN:      topN,
			})
			if err != nil {
				return err
			}
			return printJSON(c.OutOrStdout(), result)
		},
	}
	build.Flags().StringVar(&flags.signalName, "name", l2_service.MomentumSignalName, "signal name")
	build.Flags().StringVar(&flags.expression, "expression", "", "expression for custom signals")
	build.Flags().IntVar(&flags.lookback, "lookback", 0, "days of price history an expression needs")
	build.Flags().StringVar(&flags.universe, "universe", "", "comma separated symbols, or @file with one per line")
	build.Flags().IntVar(&flags.topN, "top-n", 0, "names per side")
	addRangeFlags(build, flags)
	signals.AddCommand(build)
	return signals
}

func newAumCmd(flags *cliFlags, deps func() *api.ApiHandler) *cobra.Command {
	aum := &cobra.Command{
		Use:   "aum",
		Short: "AUM and leverage schedules",
	}
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Load a date,strategy_name,aum,target_leverage CSV",
		RunE: func(c *cobra.Command, args []string) error {
			f, err := os.Open(flags.file)
			if err != nil {
				return err
			}
			defer f.Close()

			records, err := app.ReadAumSchedule(f)
			if err != nil {
				return err
			}
			if err := deps().AumLeverageRepository.Add(nil, records); err != nil {
				return err
			}
			logger.FromContext(c.Context()).Infof("imported %d aum rows", len(records))
			return nil
		},
	}
	importCmd.Flags().StringVar(&flags.file, "file", "", "csv file")
	importCmd.MarkFlagRequired("file")

	generate := &cobra.Command{
		Use:   "generate",
		Short: "Store a weekly schedule with constant AUM and leverage",
		RunE: func(c *cobra.Command, args []string) error {
			start, end, err := parseRange(flags)
			if err != nil {
				return err
			}
			if len(flags.strategies) != 1 {
				return fmt.Errorf("generate takes exactly one --strategy")
			}
			records, err := app.GenerateSchedule(flags.strategies[0], start, end, flags.aum, flags.leverage)
			if err != nil {
				return err
			}
			if err := deps().AumLeverageRepository.Add(nil, records); err != nil {
				return err
			}
			logger.FromContext(c.Context()).Infof("generated %d aum rows", len(records))
			return nil
		},
	}
	generate.Flags().StringSliceVar(&flags.strategies, "strategy", nil, "strategy name")
	generate.Flags().Float64Var(&flags.aum, "aum", 100_000_000, "assets under management")
	generate.Flags().Float64Var(&flags.leverage, "leverage", 2, "target leverage")
	addRangeFlags(generate, flags)

	aum.AddCommand(importCmd, generate)
	return aum
}

func newPricesCmd(flags *cliFlags, deps func() *api.ApiHandler) *cobra.Command {
	prices := &cobra.Command{
		Use:   "prices",
		Short: "Adjusted close prices",
	}
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Load a date,ticker,value CSV",
		RunE: func(c *cobra.Command, args []string) error {
			f, err := os.Open(flags.file)
			if err != nil {
				return err
			}
			defer f.Close()

			quotes, err := app.ReadPrices(f)
			if err != nil {
				return err
			}
			if err := deps().PriceRepository.Add(nil, quotes); err != nil {
				return err
			}
			logger.FromContext(c.Context()).Infof("imported %d prices", len(quotes))
			return nil
		},
	}
	importCmd.Flags().StringVar(&flags.file, "file", "", "csv file")
	importCmd.MarkFlagRequired("file")
	prices.AddCommand(importCmd)
	return prices
}

func tradeFilter(flags *cliFlags) (repository.TradeBookingListFilter, error) {
	filter := repository.TradeBookingListFilter{}
	if len(flags.strategies) > 0 {
		filter.StrategyName = &flags.strategies[0]
	}
	if flags.start != "" {
		d, err := util.ParseDate(flags.start)
		if err != nil {
			return filter, fmt.Errorf("invalid --start: %w", err)
		}
		filter.StartDate = &d
	}
	if flags.end != "" {
		d, err := util.ParseDate(flags.end)
		if err != nil {
			return filter, fmt.Errorf("invalid --end: %w", err)
		}
		filter.EndDate = &d
	}
	return filter, nil
}

func newTradesCmd(flags *cliFlags, deps func() *api.ApiHandler) *cobra.Command {
	trades := &cobra.Command{
		Use:   "trades",
		Short: "Trade ledger",
	}
	export := &cobra.Command{
		Use:   "export",
		Short: "Write the trade ledger as CSV",
		RunE: func(c *cobra.Command, args []string) error {
			filter, err := tradeFilter(flags)
			if err != nil {
				return err
			}
			rows, err := deps().TradeBookingRepository.List(nil, filter)
			if err != nil {
				return err
			}

			w := c.OutOrStdout()
			if flags.out != "" {
				f, err := os.Create(flags.out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return app.WriteTrades(w, rows)
		},
	}
	export.Flags().StringSliceVar(&flags.strategies, "strategy", nil, "strategy name")
	export.Flags().StringVar(&flags.out, "out", "", "output file, stdout when empty")
	addRangeFlags(export, flags)
	trades.AddCommand(export)
	return trades
}

func newSummaryCmd(flags *cliFlags, deps func() *api.ApiHandler) *cobra.Command {
	c := &cobra.Command{
		Use:   "summary",
		Short: "Exposure and returns per rebalance period",
		RunE: func(c *cobra.Command, args []string) error {
			if len(flags.strategies) != 1 {
				return fmt.Errorf("summary takes exactly one --strategy")
			}
			filter, err := tradeFilter(flags)
			if err != nil {
				return err
			}
			rows, err := deps().TradeBookingRepository.List(nil, filter)
			if err != nil {
				return err
			}
			result, err := calculator.SummarizeTrades(flags.strategies[0], rows)
			if err != nil {
				return err
			}
			return printJSON(c.OutOrStdout(), result)
		},
	}
	c.Flags().StringSliceVar(&flags.strategies, "strategy", nil, "strategy name")
	addRangeFlags(c, flags)
	return c
}
