package calculator

import (
	"math"
	"sort"
	"time"

	"lsbacktest/internal/domain"
)

type BuildTargetWeightsInput struct {
	Date           time.Time
	Strategy       string
	ScoresBySymbol map[string]*float64
	TopN           int
}

type rankedScore struct {
	symbol string
	score  float64
}

// BuildTargetWeights turns one date's cross-sectional scores into a Long
// group and a Short group whose weights each sum to 1. Scores are ranked
// by magnitude: the n largest form one side and the n smallest the other,
// with n = min(TopN, count/2). When every score is negative the sides are
// inverted. A date without enough scores produces no rows.
func BuildTargetWeights(in BuildTargetWeightsInput) []domain.AlphaScore {
	ranked := []rankedScore{}
	for symbol, s := range in.ScoresBySymbol {
		if s == nil || math.IsNaN(*s) || math.IsInf(*s, 0) {
			continue
		}
		ranked = append(ranked, rankedScore{symbol: symbol, score: *s})
	}

	if len(ranked) == 0 {
		return []domain.AlphaScore{}
	}
	if len(ranked) == 1 {
		return []domain.AlphaScore{{
			Date:      in.Date,
			Strategy:  in.Strategy,
			Ticker:    ranked[0].symbol,
			Direction: domain.TradeDirection_Long,
			Weight:    1.0,
			Score:     ranked[0].score,
		}}
	}
	if len(ranked) < max(2, in.TopN) {
		return []domain.AlphaScore{}
	}

	sort.Slice(ranked, func(i, j int) bool {
		ai, aj := math.Abs(ranked[i].score), math.Abs(ranked[j].score)
		if ai != aj {
			return ai > aj
		}
		return ranked[i].symbol < ranked[j].symbol
	})

	n := min(in.TopN, len(ranked)/2)
	if n <= 0 {
		return []domain.AlphaScore{}
	}
	high := ranked[:n]
	low := ranked[len(ranked)-n:]

	allNegative := true
	for _, r := range ranked {
		if r.score >= 0 {
			allNegative = false
			break
		}
	}

	longSide, shortSide := high, low
	if allNegative {
		longSide, shortSide = low, high
	}

	out := []domain.AlphaScore{}
	out = append(out, weightSide(in, longSide, domain.TradeDirection_Long)...)
	out = append(out, weightSide(in, shortSide, domain.TradeDirection_Short)...)
	return out
}

// weightSide normalizes |score| within a side. A side whose scores are all
// zero has no meaningful weights and is left out rather than emitted at
// weight 0, so every emitted direction sums to 1 and the date trades only
// the other direction.
func weightSide(in BuildTargetWeightsInput, side []rankedScore, direction domain.TradeDirection) []domain.AlphaScore {
	total := 0.0
	for _, r := range side {
		total += math.Abs(r.score)
	}
	if total == 0 {
		return nil
	}

	out := make([]domain.AlphaScore, 0, len(side))
	for _, r := range side {
		out = append(out, domain.AlphaScore{
			Date:      in.Date,
			Strategy:  in.Strategy,
			Ticker:    r.symbol,
			Direction: direction,
			Weight:    math.Abs(r.score) / total,
			Score:     r.score,
		})
	}
	return out
}

// GroupByDirection splits one date's rows into per-direction baskets,
// keeping the input order within each direction.
func GroupByDirection(scores []domain.AlphaScore) map[domain.TradeDirection][]domain.AlphaScore {
	out := map[domain.TradeDirection][]domain.AlphaScore{}
	for _, s := range scores {
		out[s.Direction] = append(out[s.Direction], s)
	}
	return out
}
