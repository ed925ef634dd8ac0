package calculator

import (
	"fmt"
	"math"
	"sort"
	"time"

	"lsbacktest/internal/domain"

	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
)

// TradeSummaryRow aggregates every trade opened on one rebalance date.
// Short exposure is negative. Trades that are still open count towards
// exposure but not PnL.
type TradeSummaryRow struct {
	Date          time.Time `json:"date"`
	LongExposure  float64   `json:"longExposure"`
	ShortExposure float64   `json:"shortExposure"`
	TotalExposure float64   `json:"totalExposure"`
	NetExposure   float64   `json:"netExposure"`
	LongPnl       float64   `json:"longPnl"`
	ShortPnl      float64   `json:"shortPnl"`
	TotalPnl      float64   `json:"totalPnl"`

	LongReturn  float64 `json:"longReturn"`
	ShortReturn float64 `json:"shortReturn"`
	TotalReturn float64 `json:"totalReturn"`

	CumulativeLongPnl     float64 `json:"cumulativeLongPnl"`
	CumulativeShortPnl    float64 `json:"cumulativeShortPnl"`
	CumulativeTotalPnl    float64 `json:"cumulativeTotalPnl"`
	CumulativeLongReturn  float64 `json:"cumulativeLongReturn"`
	CumulativeShortReturn float64 `json:"cumulativeShortReturn"`
	CumulativeTotalReturn float64 `json:"cumulativeTotalReturn"`
}

type TradeSummaryStats struct {
	NumPeriods       int     `json:"numPeriods"`
	TotalPnl         float64 `json:"totalPnl"`
	TotalReturn      float64 `json:"totalReturn"`
	MeanReturn       float64 `json:"meanReturn"`
	AnnualizedStdev  float64 `json:"annualizedStdev"`
	AnnualizedReturn float64 `json:"annualizedReturn"`
	SharpeRatio      float64 `json:"sharpeRatio"`
	MaxDrawdown      float64 `json:"maxDrawdown"`
}

type TradeSummary struct {
	Strategy string            `json:"strategy"`
	Rows     []TradeSummaryRow `json:"rows"`
	Stats    TradeSummaryStats `json:"stats"`
}

type summaryAccumulator struct {
	longExposure, shortExposure decimal.Decimal
	longPnl, shortPnl           decimal.Decimal
}

// SummarizeTrades groups one strategy's trades by open date and compounds
// the per period returns. Returns are PnL over absolute exposure.
func SummarizeTrades(strategy string, trades []domain.Trade) (*TradeSummary, error) {
	byDate := map[time.Time]*summaryAccumulator{}
	for _, t := range trades {
		if t.Strategy != strategy {
			continue
		}
		acc, ok := byDate[t.TradeOpenDate]
		if !ok {
			acc = &summaryAccumulator{}
			byDate[t.TradeOpenDate] = acc
		}

		shares := decimal.NewFromFloat(t.Shares)
		exposure := shares.Mul(decimal.NewFromFloat(t.TradeOpenPrice))
		pnl := decimal.Zero
		if t.TradeClosePrice != nil {
			pnl = shares.Mul(decimal.NewFromFloat(*t.TradeClosePrice).Sub(decimal.NewFromFloat(t.TradeOpenPrice)))
		}

		switch {
		case t.Shares > 0:
			acc.longExposure = acc.longExposure.Add(exposure)
			acc.longPnl = acc.longPnl.Add(pnl)
		case t.Shares < 0:
			acc.shortExposure = acc.shortExposure.Add(exposure)
			acc.shortPnl = acc.shortPnl.Add(pnl)
		}
	}

	dates := make([]time.Time, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool {
		return dates[i].Before(dates[j])
	})

	out := &TradeSummary{
		Strategy: strategy,
		Rows:     make([]TradeSummaryRow, 0, len(dates)),
	}

	cumLongPnl, cumShortPnl := decimal.Zero, decimal.Zero
	growthLong, growthShort, growthTotal := 1.0, 1.0, 1.0
	for _, d := range dates {
		acc := byDate[d]
		total := acc.longExposure.Add(acc.shortExposure.Abs())
		totalPnl := acc.longPnl.Add(acc.shortPnl)
		cumLongPnl = cumLongPnl.Add(acc.longPnl)
		cumShortPnl = cumShortPnl.Add(acc.shortPnl)

		row := TradeSummaryRow{
			Date:          d,
			LongExposure:  acc.longExposure.InexactFloat64(),
			ShortExposure: acc.shortExposure.InexactFloat64(),
			TotalExposure: total.InexactFloat64(),
			NetExposure:   acc.longExposure.Add(acc.shortExposure).InexactFloat64(),
			LongPnl:       acc.longPnl.InexactFloat64(),
			ShortPnl:      acc.shortPnl.InexactFloat64(),
			TotalPnl:      totalPnl.InexactFloat64(),
			LongReturn:    ratio(acc.longPnl, acc.longExposure),
			ShortReturn:   ratio(acc.shortPnl, acc.shortExposure.Abs()),
			TotalReturn:   ratio(totalPnl, total),
		}

		growthLong *= 1 + row.LongReturn
		growthShort *= 1 + row.ShortReturn
		growthTotal *= 1 + row.TotalReturn

		row.CumulativeLongPnl = cumLongPnl.InexactFloat64()
		row.CumulativeShortPnl = cumShortPnl.InexactFloat64()
		row.CumulativeTotalPnl = cumLongPnl.Add(cumShortPnl).InexactFloat64()
		row.CumulativeLongReturn = growthLong - 1
		row.CumulativeShortReturn = growthShort - 1
		row.CumulativeTotalReturn = growthTotal - 1

		out.Rows = append(out.Rows, row)
	}

	summaryStats, err := summarizeReturns(out.Rows)
	if err != nil {
		return nil, fmt.Errorf("failed to compute summary stats for %s: %w", strategy, err)
	}
	out.Stats = *summaryStats

	return out, nil
}

func ratio(num, denom decimal.Decimal) float64 {
	if denom.IsZero() {
		return 0
	}
	return num.Div(denom).InexactFloat64()
}

// periodsPerYear infers the rebalance frequency from the spacing of the
// first two periods, defaulting to daily.
func periodsPerYear(rows []TradeSummaryRow) float64 {
	if len(rows) < 2 {
		return 252
	}
	days := rows[1].Date.Sub(rows[0].Date).Hours() / 24
	switch {
	case days >= 6 && days <= 8:
		return 52
	case days >= 28 && days <= 31:
		return 12
	case days >= 89 && days <= 92:
		return 4
	}
	return 252
}

func summarizeReturns(rows []TradeSummaryRow) (*TradeSummaryStats, error) {
	out := &TradeSummaryStats{NumPeriods: len(rows)}
	if len(rows) == 0 {
		return out, nil
	}

	last := rows[len(rows)-1]
	out.TotalPnl = last.CumulativeTotalPnl
	out.TotalReturn = last.CumulativeTotalReturn

	returns := make([]float64, len(rows))
	peak := 1.0
	for i, r := range rows {
		returns[i] = r.TotalReturn
		growth := 1 + r.CumulativeTotalReturn
		peak = math.Max(peak, growth)
		if dd := (peak - growth) / peak; dd > out.MaxDrawdown {
			out.MaxDrawdown = dd
		}
	}

	mean, err := stats.Mean(returns)
	if err != nil {
		return nil, err
	}
	out.MeanReturn = mean

	factor := periodsPerYear(rows)
	out.AnnualizedReturn = math.Pow(1+out.TotalReturn, factor/float64(len(rows))) - 1

	if len(returns) < 2 {
		return out, nil
	}
	stdev, err := stats.StandardDeviationSample(returns)
	if err != nil {
		return nil, err
	}
	out.AnnualizedStdev = stdev * math.Sqrt(factor)
	if stdev > 0 {
		out.SharpeRatio = mean / stdev * math.Sqrt(factor)
	}

	return out, nil
}
