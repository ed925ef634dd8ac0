package l1_service

import (
	"math"
	"sort"
	"time"

	"lsbacktest/internal/domain"
	"lsbacktest/internal/util"
)

type CloseResult struct {
	Closed []domain.Trade
	// MissingPrices lists tickers closed without a price, sorted.
	MissingPrices []string
}

// TradeLifecycleService closes a period's open trades. It never touches
// the open side of a trade and never reopens a closed one.
type TradeLifecycleService interface {
	Close(openTrades []domain.Trade, closingPrices domain.PriceBatch, asOf time.Time) CloseResult
	ClosingValue(closed []domain.Trade) float64
}

type tradeLifecycleServiceHandler struct{}

func NewTradeLifecycleService() TradeLifecycleService {
	return tradeLifecycleServiceHandler{}
}

func (h tradeLifecycleServiceHandler) Close(openTrades []domain.Trade, closingPrices domain.PriceBatch, asOf time.Time) CloseResult {
	out := CloseResult{
		Closed:        []domain.Trade{},
		MissingPrices: []string{},
	}
	missing := map[string]struct{}{}

	for _, t := range openTrades {
		if !t.IsOpen() {
			continue
		}
		closed := t
		closed.TradeCloseDate = util.TimePointer(asOf)
		closed.TradeClosePrice = nil

		price, ok := closingPrices[t.Ticker]
		if ok && util.IsFinite(price) {
			closed.TradeClosePrice = util.FloatPointer(price)
		} else {
			missing[t.Ticker] = struct{}{}
		}

		out.Closed = append(out.Closed, closed)
	}

	for ticker := range missing {
		out.MissingPrices = append(out.MissingPrices, ticker)
	}
	sort.Strings(out.MissingPrices)

	return out
}

// ClosingValue is the gross value realized by a closed batch. Trades that
// closed without a price contribute nothing.
func (h tradeLifecycleServiceHandler) ClosingValue(closed []domain.Trade) float64 {
	values := make([]float64, 0, len(closed))
	for _, t := range closed {
		if t.TradeClosePrice == nil {
			continue
		}
		values = append(values, math.Abs(t.Shares)*(*t.TradeClosePrice))
	}
	return util.NanSum(values)
}
