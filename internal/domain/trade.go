package domain

import (
	"fmt"
	"time"
)

type TradeDirection string

const (
	TradeDirection_Long  TradeDirection = "Long"
	TradeDirection_Short TradeDirection = "Short"
)

func (d TradeDirection) String() string {
	return string(d)
}

func ParseTradeDirection(s string) (TradeDirection, error) {
	switch TradeDirection(s) {
	case TradeDirection_Long:
		return TradeDirection_Long, nil
	case TradeDirection_Short:
		return TradeDirection_Short, nil
	}
	return "", fmt.Errorf("unknown trade direction %q", s)
}

// Trade is one position in the ledger. Shares are signed: positive for
// Long and negative for Short. The close fields stay nil until the next
// rebalance closes the position.
type Trade struct {
	Strategy        string
	Ticker          string
	Shares          float64
	Direction       TradeDirection
	TradeOpenDate   time.Time
	TradeOpenPrice  float64
	TradeCloseDate  *time.Time
	TradeClosePrice *float64
}

func (t Trade) IsOpen() bool {
	return t.TradeCloseDate == nil
}

// TradeKey is the natural key of a ledger row.
type TradeKey struct {
	Strategy      string
	TradeOpenDate time.Time
	Ticker        string
	Direction     TradeDirection
}

func (t Trade) Key() TradeKey {
	return TradeKey{
		Strategy:      t.Strategy,
		TradeOpenDate: t.TradeOpenDate,
		Ticker:        t.Ticker,
		Direction:     t.Direction,
	}
}

type AlphaScore struct {
	Date      time.Time
	Strategy  string
	Ticker    string
	Direction TradeDirection
	Weight    float64
	Score     float64
}

type AumLeverageRecord struct {
	Date           time.Time
	Strategy       string
	Aum            float64
	TargetLeverage float64
	InOutFlows     float64
	LeverageChange float64
}
