package l2_service

import (
	"context"

	l1_service "lsbacktest/internal/service/l1"
)

const MomentumSignalName = "Mom_RoC"

// MomentumSignal scores momentum acceleration: the one week rate of change
// of the 5 day smoothed weekly close minus the average weekly rate of
// change over three weeks.
type MomentumSignal struct{}

func NewMomentumSignal() SignalGenerator {
	return MomentumSignal{}
}

func (s MomentumSignal) Name() string {
	return MomentumSignalName
}

func (s MomentumSignal) LookbackDays() int {
	// three full weeks plus the smoothing window and a buffer for holidays
	return 35
}

func (s MomentumSignal) Symbols(universe []string) []string {
	return universe
}

func (s MomentumSignal) Scores(ctx context.Context, series *l1_service.PriceSeries, universe []string) (ScoresByDate, error) {
	out := ScoresByDate{}
	for _, symbol := range universe {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		prices, ok := series.Prices[symbol]
		if !ok {
			continue
		}

		smoothed := rollingMean(prices, 5, 1)
		weeks, weekly := weeklyLast(series.Days, smoothed)
		roc1w := pctChange(weekly, 1)
		roc3w := pctChange(weekly, 3)

		for i, week := range weeks {
			setScore(out, week, symbol, roc1w[i]-roc3w[i]/3)
		}
	}
	return out, nil
}
