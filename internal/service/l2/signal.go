package l2_service

import (
	"context"
	"fmt"
	"math"
	"time"

	"lsbacktest/internal/domain"
	l1_service "lsbacktest/internal/service/l1"
	"lsbacktest/internal/util"

	"github.com/montanaflynn/stats"
)

// ScoresByDate maps a date to each symbol's raw score on that date. A nil
// score means the symbol could not be scored.
type ScoresByDate map[time.Time]map[string]*float64

// SignalGenerator produces cross-sectional scores from prices.
type SignalGenerator interface {
	Name() string
	// LookbackDays is how many calendar days of history before the first
	// scored date the generator needs.
	LookbackDays() int
	// Symbols lists every symbol whose prices must be loaded to score the
	// universe.
	Symbols(universe []string) []string
	Scores(ctx context.Context, series *l1_service.PriceSeries, universe []string) (ScoresByDate, error)
}

// pctChange mirrors a periods-back percent change; the first periods
// values and any division involving NaN are NaN.
func pctChange(values []float64, periods int) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		if i < periods || values[i-periods] == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = values[i]/values[i-periods] - 1
	}
	return out
}

// rollingMean averages the non-NaN values of each trailing window and
// needs at least minPeriods of them.
func rollingMean(values []float64, window, minPeriods int) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		data := finiteWindow(values, i, window)
		if len(data) < minPeriods || len(data) == 0 {
			out[i] = math.NaN()
			continue
		}
		mean, err := stats.Mean(data)
		if err != nil {
			out[i] = math.NaN()
			continue
		}
		out[i] = mean
	}
	return out
}

// rollingStdev is the sample standard deviation of each full trailing
// window; windows containing NaN are NaN.
func rollingStdev(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		data := finiteWindow(values, i, window)
		if len(data) < window {
			out[i] = math.NaN()
			continue
		}
		stdev, err := stats.StandardDeviationSample(data)
		if err != nil {
			out[i] = math.NaN()
			continue
		}
		out[i] = stdev
	}
	return out
}

func finiteWindow(values []float64, end, window int) []float64 {
	start := max(0, end-window+1)
	data := make([]float64, 0, window)
	for _, v := range values[start : end+1] {
		if util.IsFinite(v) {
			data = append(data, v)
		}
	}
	return data
}

// weeklyLast resamples a business day series to week-ending Fridays,
// keeping the last non-NaN value of each week.
func weeklyLast(days []time.Time, values []float64) ([]time.Time, []float64) {
	weeks := []time.Time{}
	out := []float64{}
	for i, d := range days {
		week := util.WeekEndingFriday(d)
		if len(weeks) == 0 || !weeks[len(weeks)-1].Equal(week) {
			weeks = append(weeks, week)
			out = append(out, math.NaN())
		}
		if !math.IsNaN(values[i]) {
			out[len(out)-1] = values[i]
		}
	}
	return weeks, out
}

func setScore(out ScoresByDate, date time.Time, symbol string, value float64) {
	if _, ok := out[date]; !ok {
		out[date] = map[string]*float64{}
	}
	if !util.IsFinite(value) {
		out[date][symbol] = nil
		return
	}
	v := value
	out[date][symbol] = &v
}

type SignalConfig struct {
	Name string
	// Benchmark is only read by the min-volatility signal.
	Benchmark    string
	Expression   string
	LookbackDays int
}

// NewSignalGenerator resolves a generator by name. Any name other than the
// built-in signals needs an expression and is evaluated as one.
func NewSignalGenerator(cfg SignalConfig) (SignalGenerator, error) {
	switch cfg.Name {
	case MomentumSignalName:
		return NewMomentumSignal(), nil
	case MinVolatilitySignalName:
		if cfg.Benchmark == "" {
			return nil, fmt.Errorf("%s needs a benchmark: %w", cfg.Name, domain.ErrUnknownSignal)
		}
		return NewMinVolatilitySignal(cfg.Benchmark), nil
	}
	if cfg.Expression == "" {
		return nil, fmt.Errorf("%q: %w", cfg.Name, domain.ErrUnknownSignal)
	}
	return NewExpressionSignal(cfg.Name, cfg.Expression, cfg.LookbackDays), nil
}
