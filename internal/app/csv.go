package app

import (
	"fmt"
	"io"
	"time"

	"lsbacktest/internal/domain"
	"lsbacktest/internal/util"

	"github.com/gocarina/gocsv"
)

type aumScheduleRow struct {
	Date           string  `csv:"date"`
	StrategyName   string  `csv:"strategy_name"`
	Aum            float64 `csv:"aum"`
	TargetLeverage float64 `csv:"target_leverage"`
}

type priceRow struct {
	Date   string  `csv:"date"`
	Ticker string  `csv:"ticker"`
	Value  float64 `csv:"value"`
}

type tradeRow struct {
	StrategyName    string   `csv:"strategy_name"`
	Ticker          string   `csv:"ticker"`
	Shares          float64  `csv:"shares"`
	TradeDirection  string   `csv:"trade_direction"`
	TradeOpenDate   string   `csv:"trade_open_date"`
	TradeOpenPrice  float64  `csv:"trade_open_price"`
	TradeCloseDate  string   `csv:"trade_close_date"`
	TradeClosePrice *float64 `csv:"trade_close_price"`
}

// ReadAumSchedule parses date,strategy_name,aum,target_leverage rows.
// Flows and leverage changes are derived when the schedule is read back.
func ReadAumSchedule(r io.Reader) ([]domain.AumLeverageRecord, error) {
	rows := []aumScheduleRow{}
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse aum schedule: %w", err)
	}

	out := make([]domain.AumLeverageRecord, 0, len(rows))
	for i, row := range rows {
		date, err := util.ParseDate(row.Date)
		if err != nil {
			return nil, fmt.Errorf("failed to parse date on row %d: %w", i+1, err)
		}
		if row.StrategyName == "" {
			return nil, fmt.Errorf("row %d has no strategy_name", i+1)
		}
		out = append(out, domain.AumLeverageRecord{
			Date:           date,
			Strategy:       row.StrategyName,
			Aum:            row.Aum,
			TargetLeverage: row.TargetLeverage,
		})
	}
	return out, nil
}

// ReadPrices parses date,ticker,value rows.
func ReadPrices(r io.Reader) ([]domain.PriceQuote, error) {
	rows := []priceRow{}
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse prices: %w", err)
	}

	out := make([]domain.PriceQuote, 0, len(rows))
	for i, row := range rows {
		date, err := util.ParseDate(row.Date)
		if err != nil {
			return nil, fmt.Errorf("failed to parse date on row %d: %w", i+1, err)
		}
		out = append(out, domain.PriceQuote{
			Ticker: row.Ticker,
			Date:   date,
			Price:  row.Value,
		})
	}
	return out, nil
}

func WriteTrades(w io.Writer, trades []domain.Trade) error {
	rows := make([]tradeRow, 0, len(trades))
	for _, t := range trades {
		row := tradeRow{
			StrategyName:    t.Strategy,
			Ticker:          t.Ticker,
			Shares:          t.Shares,
			TradeDirection:  t.Direction.String(),
			TradeOpenDate:   t.TradeOpenDate.Format(util.DateLayout),
			TradeOpenPrice:  t.TradeOpenPrice,
			TradeClosePrice: t.TradeClosePrice,
		}
		if t.TradeCloseDate != nil {
			row.TradeCloseDate = t.TradeCloseDate.Format(util.DateLayout)
		}
		rows = append(rows, row)
	}
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("failed to write trades: %w", err)
	}
	return nil
}

// GenerateSchedule builds a weekly schedule with constant AUM and
// leverage, one row per Friday in [start, end].
func GenerateSchedule(strategy string, start, end time.Time, aum, leverage float64) ([]domain.AumLeverageRecord, error) {
	if end.Before(start) {
		return nil, domain.ErrInvalidDateRange
	}
	out := []domain.AumLeverageRecord{}
	for _, d := range util.Fridays(start, end) {
		out = append(out, domain.AumLeverageRecord{
			Date:           d,
			Strategy:       strategy,
			Aum:            aum,
			TargetLeverage: leverage,
		})
	}
	return out, nil
}
