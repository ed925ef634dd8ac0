package calculator

import (
	"context"
	"fmt"
	"math"
	"time"

	"lsbacktest/internal/domain"
)

const (
	SolverBranchAndBound = "branch-and-bound"
	SolverGreedy         = "greedy"
)

type BasketItem struct {
	Ticker       string
	Price        float64
	TargetWeight float64
}

type ShareAllocatorOptions struct {
	SolveTimeout time.Duration
	MaxNodes     int
	RefineGreedy bool
}

// ShareAllocator sizes one direction's basket in whole, non-negative
// shares without spending more than the capital it is given.
type ShareAllocator interface {
	Allocate(ctx context.Context, basket []BasketItem, capital float64) (*domain.Allocation, error)
}

type shareAllocatorHandler struct {
	Options ShareAllocatorOptions
}

func NewShareAllocator(opts ShareAllocatorOptions) ShareAllocator {
	if opts.SolveTimeout <= 0 {
		opts.SolveTimeout = 2 * time.Second
	}
	if opts.MaxNodes <= 0 {
		opts.MaxNodes = 1000000
	}
	return shareAllocatorHandler{Options: opts}
}

// Allocate solves the integer program for the basket and falls back to the
// greedy allocation when the solve errors or runs out of budget. Only a
// cancelled ctx is returned as an error, in which case nothing was
// allocated.
func (h shareAllocatorHandler) Allocate(ctx context.Context, basket []BasketItem, capital float64) (*domain.Allocation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tradable, zeroPriced := redistributeZeroPriced(basket)
	out := &domain.Allocation{
		Status:           domain.AllocationStatus_Optimal,
		Solver:           SolverBranchAndBound,
		ZeroPriceTickers: zeroPriced,
	}

	if len(tradable) == 0 || capital <= 0 || math.IsNaN(capital) || math.IsInf(capital, 0) {
		out.Rows = mergeRows(basket, nil)
		return out, nil
	}

	greedy := GreedyAllocate(tradable, capital, h.Options.RefineGreedy)

	prices := make([]float64, len(tradable))
	targets := make([]float64, len(tradable))
	incumbent := make([]float64, len(tradable))
	for i, item := range tradable {
		prices[i] = item.Price / capital
		targets[i] = item.TargetWeight
		incumbent[i] = greedy[i].Shares
	}

	solveCtx, cancel := context.WithTimeout(ctx, h.Options.SolveTimeout)
	defer cancel()

	shares, status, err := integerProgram{prices: prices, targets: targets}.solve(solveCtx, h.Options.MaxNodes, incumbent)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	switch {
	case err != nil:
		out.Status = domain.AllocationStatus_Degraded
		out.Reason = fmt.Sprintf("solver failed: %v", err)
	case status != solveOptimal:
		out.Status = domain.AllocationStatus_Degraded
		out.Reason = string(status)
	}

	if out.Status == domain.AllocationStatus_Degraded {
		out.Solver = SolverGreedy
		out.Rows = mergeRows(basket, greedy)
		return out, nil
	}

	out.Rows = mergeRows(basket, allocationRows(tradable, shares))
	return out, nil
}

// redistributeZeroPriced drops tickers that cannot be bought and spreads
// their target weight over the rest, which are renormalized to sum to 1.
func redistributeZeroPriced(basket []BasketItem) ([]BasketItem, []string) {
	tradable := []BasketItem{}
	zeroPriced := []string{}
	removed, kept := 0.0, 0.0
	for _, item := range basket {
		if item.Price <= 0 || math.IsNaN(item.Price) || math.IsInf(item.Price, 0) {
			zeroPriced = append(zeroPriced, item.Ticker)
			removed += item.TargetWeight
			continue
		}
		tradable = append(tradable, item)
		kept += item.TargetWeight
	}

	if kept <= 0 {
		return []BasketItem{}, zeroPriced
	}

	scale := 1.0
	if removed > 0 {
		scale = (1 + removed) / kept
	}
	total := 0.0
	for i := range tradable {
		tradable[i].TargetWeight *= scale
		total += tradable[i].TargetWeight
	}
	for i := range tradable {
		tradable[i].TargetWeight /= total
	}

	return tradable, zeroPriced
}

// mergeRows lays the solved rows back over the full basket, keeping input
// order. Tickers that were not solved get zero shares.
func mergeRows(basket []BasketItem, solved []domain.AllocationRow) []domain.AllocationRow {
	byTicker := map[string]domain.AllocationRow{}
	for _, r := range solved {
		byTicker[r.Ticker] = r
	}

	out := make([]domain.AllocationRow, 0, len(basket))
	for _, item := range basket {
		if r, ok := byTicker[item.Ticker]; ok {
			out = append(out, r)
			continue
		}
		out = append(out, domain.AllocationRow{
			Ticker:       item.Ticker,
			Price:        item.Price,
			TargetWeight: item.TargetWeight,
		})
	}
	return out
}
