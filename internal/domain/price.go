package domain

import "time"

type PriceQuote struct {
	Ticker string
	Price  float64
	Date   time.Time
}

// PriceBatch maps ticker to price for a single date. A ticker that is
// absent has no quote on that date.
type PriceBatch map[string]float64

// Tradable reports whether at least one of the given tickers has a
// positive price.
func (b PriceBatch) Tradable(tickers []string) bool {
	for _, t := range tickers {
		if p, ok := b[t]; ok && p > 0 {
			return true
		}
	}
	return false
}
