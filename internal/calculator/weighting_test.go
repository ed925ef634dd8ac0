package calculator

import (
	"math"
	"testing"

	"lsbacktest/internal/domain"
	"lsbacktest/internal/util"

	"github.com/stretchr/testify/require"
)

func floatPtr(f float64) *float64 {
	return &f
}

func sumByDirection(rows []domain.AlphaScore) map[domain.TradeDirection]float64 {
	out := map[domain.TradeDirection]float64{}
	for _, r := range rows {
		out[r.Direction] += r.Weight
	}
	return out
}

func weightsFor(rows []domain.AlphaScore, direction domain.TradeDirection) map[string]float64 {
	out := map[string]float64{}
	for _, r := range rows {
		if r.Direction == direction {
			out[r.Ticker] = r.Weight
		}
	}
	return out
}

func TestBuildTargetWeights(t *testing.T) {
	date := util.NewDate(2024, 1, 5)

	t.Run("single valid score is a full long", func(t *testing.T) {
		rows := BuildTargetWeights(BuildTargetWeightsInput{
			Date: date,
			ScoresBySymbol: map[string]*float64{
				"AAPL": floatPtr(-0.3),
				"MSFT": nil,
				"GOOG": floatPtr(math.NaN()),
			},
			TopN: 5,
		})
		require.Len(t, rows, 1)
		require.Equal(t, "AAPL", rows[0].Ticker)
		require.Equal(t, domain.TradeDirection_Long, rows[0].Direction)
		require.Equal(t, 1.0, rows[0].Weight)
	})

	t.Run("no valid scores", func(t *testing.T) {
		rows := BuildTargetWeights(BuildTargetWeightsInput{
			Date:           date,
			ScoresBySymbol: map[string]*float64{"AAPL": nil},
			TopN:           2,
		})
		require.Empty(t, rows)
	})

	t.Run("fewer scores than topN skips the date", func(t *testing.T) {
		rows := BuildTargetWeights(BuildTargetWeightsInput{
			Date: date,
			ScoresBySymbol: map[string]*float64{
				"AAPL": floatPtr(0.1),
				"MSFT": floatPtr(0.2),
				"GOOG": floatPtr(0.3),
			},
			TopN: 4,
		})
		require.Empty(t, rows)
	})

	t.Run("all zero scores produce nothing", func(t *testing.T) {
		rows := BuildTargetWeights(BuildTargetWeightsInput{
			Date: date,
			ScoresBySymbol: map[string]*float64{
				"AAPL": floatPtr(0),
				"MSFT": floatPtr(0),
				"GOOG": floatPtr(0),
				"AMZN": floatPtr(0),
			},
			TopN: 2,
		})
		require.Empty(t, rows)
	})

	t.Run("zero total side is left out", func(t *testing.T) {
		rows := BuildTargetWeights(BuildTargetWeightsInput{
			Date: date,
			ScoresBySymbol: map[string]*float64{
				"AAPL": floatPtr(3),
				"MSFT": floatPtr(1),
				"GOOG": floatPtr(0),
				"AMZN": floatPtr(0),
			},
			TopN: 2,
		})
		require.Equal(t, map[domain.TradeDirection]float64{domain.TradeDirection_Long: 1}, sumByDirection(rows))
		require.Equal(t, map[string]float64{"AAPL": 0.75, "MSFT": 0.25}, weightsFor(rows, domain.TradeDirection_Long))
		require.Empty(t, weightsFor(rows, domain.TradeDirection_Short))
	})

	t.Run("high magnitude goes long and weights sum to one per side", func(t *testing.T) {
		rows := BuildTargetWeights(BuildTargetWeightsInput{
			Date: date,
			ScoresBySymbol: map[string]*float64{
				"AAPL": floatPtr(0.9),
				"MSFT": floatPtr(-0.6),
				"GOOG": floatPtr(0.3),
				"AMZN": floatPtr(0.1),
				"META": floatPtr(0.05),
			},
			TopN: 2,
		})
		require.Len(t, rows, 4)

		long := weightsFor(rows, domain.TradeDirection_Long)
		short := weightsFor(rows, domain.TradeDirection_Short)
		require.InDelta(t, 0.9/1.5, long["AAPL"], 1e-12)
		require.InDelta(t, 0.6/1.5, long["MSFT"], 1e-12)
		require.InDelta(t, 0.1/0.15, short["AMZN"], 1e-12)
		require.InDelta(t, 0.05/0.15, short["META"], 1e-12)

		for _, sum := range sumByDirection(rows) {
			require.InDelta(t, 1.0, sum, 1e-9)
		}
	})

	t.Run("all negative scores invert the sides", func(t *testing.T) {
		rows := BuildTargetWeights(BuildTargetWeightsInput{
			Date: date,
			ScoresBySymbol: map[string]*float64{
				"AAPL": floatPtr(-0.9),
				"MSFT": floatPtr(-0.5),
				"GOOG": floatPtr(-0.2),
				"AMZN": floatPtr(-0.1),
			},
			TopN: 1,
		})
		require.Len(t, rows, 2)
		require.Equal(t, map[string]float64{"AMZN": 1}, weightsFor(rows, domain.TradeDirection_Long))
		require.Equal(t, map[string]float64{"AAPL": 1}, weightsFor(rows, domain.TradeDirection_Short))
	})

	t.Run("n is capped at half the universe", func(t *testing.T) {
		rows := BuildTargetWeights(BuildTargetWeightsInput{
			Date: date,
			ScoresBySymbol: map[string]*float64{
				"AAPL": floatPtr(0.4),
				"MSFT": floatPtr(0.3),
				"GOOG": floatPtr(0.2),
			},
			TopN: 2,
		})
		require.Len(t, weightsFor(rows, domain.TradeDirection_Long), 1)
		require.Len(t, weightsFor(rows, domain.TradeDirection_Short), 1)
		require.Equal(t, 1.0, weightsFor(rows, domain.TradeDirection_Long)["AAPL"])
		require.Equal(t, 1.0, weightsFor(rows, domain.TradeDirection_Short)["GOOG"])
	})
}
