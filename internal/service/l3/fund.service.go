package l3_service

import (
	"context"
	"fmt"
	"time"

	"lsbacktest/internal/domain"
	"lsbacktest/internal/logger"
	"lsbacktest/internal/repository"
	"lsbacktest/internal/util"
)

const AggregatedFundName = "AggregatedFund"

type AggregateResult struct {
	Fund       string         `json:"fund"`
	NumTrades  int            `json:"numTrades"`
	Strategies map[string]int `json:"strategies"`
}

// FundService rebuilds the combined fund, whose ledger is the union of
// every other strategy's trades under the fund's name.
type FundService interface {
	Aggregate(ctx context.Context, fundName string) (*AggregateResult, error)
}

type fundServiceHandler struct {
	TradeBookingRepository repository.TradeBookingRepository
}

func NewFundService(tradeBookingRepository repository.TradeBookingRepository) FundService {
	return fundServiceHandler{
		TradeBookingRepository: tradeBookingRepository,
	}
}

func (h fundServiceHandler) Aggregate(ctx context.Context, fundName string) (*AggregateResult, error) {
	if fundName == "" {
		fundName = AggregatedFundName
	}

	trades, err := h.TradeBookingRepository.List(nil, repository.TradeBookingListFilter{
		ExcludeStrategyName: &fundName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list trades to aggregate: %w", err)
	}

	out := &AggregateResult{
		Fund:       fundName,
		Strategies: map[string]int{},
	}
	lg := logger.FromContext(ctx)

	// positions in the same ticker and direction opened on the same date
	// share a natural key in the fund, so their shares are summed. The
	// merged position closes when the last of them does.
	fundTrades := make([]domain.Trade, 0, len(trades))
	byKey := map[domain.TradeKey]int{}
	for _, t := range trades {
		out.Strategies[t.Strategy]++
		t.Strategy = fundName
		if i, ok := byKey[t.Key()]; ok {
			merged := &fundTrades[i]
			merged.Shares += t.Shares
			if !sameCloseDate(merged.TradeCloseDate, t.TradeCloseDate) {
				lg.Warnw(
					"merged trades close on different dates, keeping the later close",
					"ticker", t.Ticker,
					"direction", t.Direction,
					"openDate", t.TradeOpenDate.Format(util.DateLayout),
				)
				if closesLater(merged.TradeCloseDate, t.TradeCloseDate) {
					merged.TradeCloseDate = t.TradeCloseDate
					merged.TradeClosePrice = t.TradeClosePrice
				}
			} else if merged.TradeClosePrice == nil {
				merged.TradeClosePrice = t.TradeClosePrice
			}
			continue
		}
		byKey[t.Key()] = len(fundTrades)
		fundTrades = append(fundTrades, t)
	}
	out.NumTrades = len(fundTrades)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	err = h.TradeBookingRepository.ReplaceStrategy(nil, fundName, fundTrades)
	if err != nil {
		return nil, fmt.Errorf("failed to replace %s trades: %w", fundName, err)
	}

	lg.Infof("aggregated %d trades from %d strategies into %s", out.NumTrades, len(out.Strategies), fundName)

	return out, nil
}

func sameCloseDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

// closesLater reports whether a trade closing at b stays open longer than
// one closing at a. An open trade outlasts any closed one.
func closesLater(a, b *time.Time) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	return b.After(*a)
}
