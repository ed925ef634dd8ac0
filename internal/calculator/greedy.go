package calculator

import (
	"math"
	"sort"

	"lsbacktest/internal/domain"
)

// floorEpsilon keeps exact dollar targets such as 30000/300 from losing a
// share to floating point error.
const floorEpsilon = 1e-9

func floorShares(amount, price float64) float64 {
	if price <= 0 || amount <= 0 {
		return 0
	}
	return math.Floor(amount/price + floorEpsilon)
}

// GreedyAllocate sizes the basket in descending target weight order, each
// ticker taking whole shares up to its dollar target out of the capital
// still unspent. With refine set, leftover capital is then spent on the
// most underweight tickers first, one full affordable block at a time.
func GreedyAllocate(basket []BasketItem, capital float64, refine bool) []domain.AllocationRow {
	order := make([]int, len(basket))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return basket[order[a]].TargetWeight > basket[order[b]].TargetWeight
	})

	shares := make([]float64, len(basket))
	remaining := capital
	for _, i := range order {
		item := basket[i]
		if item.Price <= 0 {
			continue
		}
		target := capital * item.TargetWeight
		shares[i] = floorShares(math.Min(target, remaining), item.Price)
		remaining -= shares[i] * item.Price
	}

	if refine && remaining > 0 {
		invested := capital - remaining
		weightError := make([]float64, len(basket))
		for i, item := range basket {
			actual := 0.0
			if invested > 0 {
				actual = shares[i] * item.Price / invested
			}
			weightError[i] = item.TargetWeight - actual
		}
		sort.SliceStable(order, func(a, b int) bool {
			return weightError[order[a]] > weightError[order[b]]
		})
		for _, i := range order {
			price := basket[i].Price
			if price <= 0 || remaining < price {
				continue
			}
			extra := floorShares(remaining, price)
			shares[i] += extra
			remaining -= extra * price
		}
	}

	return allocationRows(basket, shares)
}

// allocationRows prices the share vector and fills in actual weights.
func allocationRows(basket []BasketItem, shares []float64) []domain.AllocationRow {
	rows := make([]domain.AllocationRow, len(basket))
	invested := 0.0
	for i, item := range basket {
		value := shares[i] * item.Price
		if item.Price <= 0 {
			value = 0
		}
		rows[i] = domain.AllocationRow{
			Ticker:       item.Ticker,
			Shares:       shares[i],
			Price:        item.Price,
			Value:        value,
			TargetWeight: item.TargetWeight,
		}
		invested += value
	}
	if invested > 0 {
		for i := range rows {
			rows[i].ActualWeight = rows[i].Value / invested
		}
	}
	return rows
}
