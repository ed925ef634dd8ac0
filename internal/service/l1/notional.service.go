package l1_service

import (
	"lsbacktest/internal/domain"
	"lsbacktest/internal/util"
)

type NotionalResult struct {
	Notional float64
	// Guarded is set when the leverage in effect for the previous period
	// came out as zero and the prior value was carried instead.
	Guarded bool
}

// NotionalService turns the AUM and leverage schedule into the gross
// notional deployed at each rebalance.
type NotionalService interface {
	NewNotional(row *domain.AumLeverageRecord, currentPortfolioValue float64, isInitial bool) NotionalResult
}

type notionalServiceHandler struct{}

func NewNotionalService() NotionalService {
	return notionalServiceHandler{}
}

// NewNotional computes the next notional. On a subsequent rebalance the
// unlevered base is backed out with the previous leverage
// (target_leverage - leverage_change) and then grossed up, together with
// any net flows, by the new target leverage.
func (h notionalServiceHandler) NewNotional(row *domain.AumLeverageRecord, currentPortfolioValue float64, isInitial bool) NotionalResult {
	if row == nil {
		return NotionalResult{Notional: currentPortfolioValue}
	}

	if isInitial {
		return NotionalResult{Notional: row.Aum * row.TargetLeverage}
	}

	previousLeverage := row.TargetLeverage - row.LeverageChange
	if previousLeverage == 0 || !util.IsFinite(previousLeverage) {
		return NotionalResult{
			Notional: currentPortfolioValue,
			Guarded:  true,
		}
	}

	base := currentPortfolioValue / previousLeverage
	return NotionalResult{
		Notional: row.TargetLeverage*base + row.TargetLeverage*row.InOutFlows,
	}
}
