package domain

import (
	"time"

	"github.com/google/uuid"
)

type BacktestPhase string

const (
	BacktestPhase_NotStarted BacktestPhase = "NotStarted"
	BacktestPhase_Running    BacktestPhase = "Running"
	BacktestPhase_Closing    BacktestPhase = "Closing"
	BacktestPhase_Done       BacktestPhase = "Done"
	BacktestPhase_Aborted    BacktestPhase = "Aborted"
)

// RebalanceState is the state carried from one rebalance date to the next.
// It lives only for the duration of a run.
type RebalanceState struct {
	Phase              BacktestPhase
	CurrentNotional    float64
	PreviousOpenTrades []Trade
	CurrentDate        *time.Time
	// IdleCash is notional that could not be deployed on the last date
	// because no tradable prices were available.
	IdleCash float64
}

type RebalanceSummary struct {
	Date               time.Time                     `json:"date"`
	ClosingValue       float64                       `json:"closingValue"`
	Notional           float64                       `json:"notional"`
	NumClosed          int                           `json:"numClosed"`
	NumOpened          int                           `json:"numOpened"`
	IdleCash           float64                       `json:"idleCash"`
	Allocations        map[TradeDirection]Allocation `json:"allocations,omitempty"`
	CapitalByDirection map[TradeDirection]float64    `json:"capitalByDirection,omitempty"`
}

type BacktestResult struct {
	RunID      uuid.UUID          `json:"runID"`
	Strategy   string             `json:"strategy"`
	Phase      BacktestPhase      `json:"phase"`
	Start      time.Time          `json:"start"`
	End        time.Time          `json:"end"`
	Rebalances []RebalanceSummary `json:"rebalances"`
	Events     []QualityEvent     `json:"events"`
	Profile    *Profile           `json:"profile,omitempty"`
}
