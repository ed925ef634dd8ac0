package l2_service

import (
	"context"
	"fmt"
	"math"

	l1_service "lsbacktest/internal/service/l1"
)

const MinVolatilitySignalName = "MinVol"

// MinVolatilitySignal prefers stocks that are calm relative to the
// benchmark: the score is minus the ratio of the stock's 10 day return
// volatility to the benchmark's.
type MinVolatilitySignal struct {
	Benchmark string
}

func NewMinVolatilitySignal(benchmark string) SignalGenerator {
	return MinVolatilitySignal{Benchmark: benchmark}
}

func (s MinVolatilitySignal) Name() string {
	return MinVolatilitySignalName
}

func (s MinVolatilitySignal) LookbackDays() int {
	return 21
}

func (s MinVolatilitySignal) Symbols(universe []string) []string {
	out := append([]string{}, universe...)
	for _, symbol := range universe {
		if symbol == s.Benchmark {
			return out
		}
	}
	return append(out, s.Benchmark)
}

func (s MinVolatilitySignal) Scores(ctx context.Context, series *l1_service.PriceSeries, universe []string) (ScoresByDate, error) {
	benchmarkPrices, ok := series.Prices[s.Benchmark]
	if !ok {
		return nil, fmt.Errorf("no prices for benchmark %s", s.Benchmark)
	}
	benchmarkVol := rollingStdev(pctChange(benchmarkPrices, 1), 10)

	out := ScoresByDate{}
	for _, symbol := range universe {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if symbol == s.Benchmark {
			continue
		}
		prices, ok := series.Prices[symbol]
		if !ok {
			continue
		}
		vol := rollingStdev(pctChange(prices, 1), 10)
		for i, day := range series.Days {
			if benchmarkVol[i] == 0 {
				setScore(out, day, symbol, math.NaN())
				continue
			}
			setScore(out, day, symbol, -(vol[i] / benchmarkVol[i]))
		}
	}
	return out, nil
}
