package l1_service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"lsbacktest/internal/domain"
	"lsbacktest/internal/logger"
	"lsbacktest/internal/repository"
	"lsbacktest/internal/util"
)

type PriceService interface {
	GetBatch(ctx context.Context, symbols []string, date time.Time) (domain.PriceBatch, error)
	LoadPriceSeries(ctx context.Context, symbols []string, start, end time.Time) (*PriceSeries, error)
	TradingDays(ctx context.Context, start, end time.Time) ([]time.Time, error)
}

type priceServiceHandler struct {
	AdjPriceRepository repository.AdjustedPriceRepository
}

func NewPriceService(adjPriceRepository repository.AdjustedPriceRepository) PriceService {
	return priceServiceHandler{
		AdjPriceRepository: adjPriceRepository,
	}
}

// PriceSeries holds prices on a business day grid. Gaps are forward
// filled from the most recent quote; days before a symbol's first quote
// are NaN.
type PriceSeries struct {
	Days   []time.Time
	Prices map[string][]float64

	index map[time.Time]int
}

func (s PriceSeries) Symbols() []string {
	out := make([]string, 0, len(s.Prices))
	for symbol := range s.Prices {
		out = append(out, symbol)
	}
	sort.Strings(out)
	return out
}

// Get returns the filled price for symbol on a business day in the grid.
func (s PriceSeries) Get(symbol string, date time.Time) (float64, error) {
	values, ok := s.Prices[symbol]
	if !ok {
		return 0, fmt.Errorf("price series miss %s", symbol)
	}
	i, ok := s.index[util.TruncateDate(date)]
	if !ok || math.IsNaN(values[i]) {
		return 0, fmt.Errorf("price series miss %s %s", symbol, date.Format(util.DateLayout))
	}
	return values[i], nil
}

func (h priceServiceHandler) GetBatch(ctx context.Context, symbols []string, date time.Time) (domain.PriceBatch, error) {
	prices, err := h.AdjPriceRepository.GetMany(nil, symbols, date)
	if err != nil {
		return nil, err
	}
	return prices, nil
}

// TradingDays lists the dates in [start, end] that have at least one quote.
func (h priceServiceHandler) TradingDays(ctx context.Context, start, end time.Time) ([]time.Time, error) {
	if end.Before(start) {
		return []time.Time{}, nil
	}
	days, err := h.AdjPriceRepository.ListTradingDays(nil, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list trading days: %w", err)
	}
	return days, nil
}

// LoadPriceSeries loads every quote in [start, end] and lays it over the
// business days of the range.
func (h priceServiceHandler) LoadPriceSeries(ctx context.Context, symbols []string, start, end time.Time) (*PriceSeries, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("failed to load price series: %w", domain.ErrInvalidDateRange)
	}

	profile := domain.ProfileFromContext(ctx)
	_, endSpan := profile.StartSpan("list price range")
	quotes, err := h.AdjPriceRepository.ListRange(nil, symbols, start, end)
	endSpan()
	if err != nil {
		return nil, fmt.Errorf("failed to load price series: %w", err)
	}

	_, endSpan = profile.StartSpan("fill price series")
	defer endSpan()

	series := NewPriceSeries(symbols, util.BusinessDays(start, end), quotes)

	missing := 0
	for _, symbol := range symbols {
		if _, ok := series.Prices[symbol]; !ok {
			missing++
		}
	}
	if missing > 0 {
		logger.FromContext(ctx).Warnf("%d of %d symbols have no prices between %s and %s", missing, len(symbols), start.Format(util.DateLayout), end.Format(util.DateLayout))
	}

	return series, nil
}

// NewPriceSeries lays quotes over days, forward filling gaps.
func NewPriceSeries(symbols []string, days []time.Time, quotes []domain.PriceQuote) *PriceSeries {
	index := make(map[time.Time]int, len(days))
	for i, d := range days {
		index[d] = i
	}

	raw := map[string]map[time.Time]float64{}
	for _, q := range quotes {
		if _, ok := raw[q.Ticker]; !ok {
			raw[q.Ticker] = map[time.Time]float64{}
		}
		raw[q.Ticker][util.TruncateDate(q.Date)] = q.Price
	}

	out := &PriceSeries{
		Days:   days,
		Prices: map[string][]float64{},
		index:  index,
	}
	for _, symbol := range symbols {
		byDate, ok := raw[symbol]
		if !ok {
			continue
		}
		if _, ok := out.Prices[symbol]; ok {
			continue
		}
		values := make([]float64, len(days))
		last := math.NaN()
		for i, d := range days {
			if p, ok := byDate[d]; ok {
				last = p
			}
			values[i] = last
		}
		out.Prices[symbol] = values
	}

	return out
}
