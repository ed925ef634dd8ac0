package repository

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"lsbacktest/internal/db/models/postgres/public/model"
	. "lsbacktest/internal/db/models/postgres/public/table"
	"lsbacktest/internal/domain"
	"lsbacktest/internal/util"

	. "github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"
)

type PriceCache map[string]map[time.Time]float64

type AdjustedPriceRepository interface {
	Add(*sql.Tx, []domain.PriceQuote) error
	GetMany(tx *sql.Tx, symbols []string, date time.Time) (domain.PriceBatch, error)
	List(tx *sql.Tx, symbol string, start, end time.Time) ([]domain.PriceQuote, error)
	ListRange(tx *sql.Tx, symbols []string, start, end time.Time) ([]domain.PriceQuote, error)
	ListTradingDays(tx *sql.Tx, start, end time.Time) ([]time.Time, error)
}

type adjustedPriceRepositoryHandler struct {
	Db        *sql.DB
	Cache     PriceCache
	ReadMutex *sync.RWMutex
}

func NewAdjustedPriceRepository(db *sql.DB) AdjustedPriceRepository {
	return adjustedPriceRepositoryHandler{
		Db:        db,
		Cache:     make(PriceCache),
		ReadMutex: &sync.RWMutex{},
	}
}

func (h adjustedPriceRepositoryHandler) getFromCache(symbol string, date time.Time) (float64, bool) {
	h.ReadMutex.RLock()
	defer h.ReadMutex.RUnlock()
	if prices, ok := h.Cache[symbol]; ok {
		price, ok := prices[date]
		return price, ok
	}
	return 0, false
}

func (h adjustedPriceRepositoryHandler) addToCache(symbol string, date time.Time, price float64) {
	h.ReadMutex.Lock()
	defer h.ReadMutex.Unlock()
	if _, ok := h.Cache[symbol]; !ok {
		h.Cache[symbol] = map[time.Time]float64{}
	}
	h.Cache[symbol][date] = price
}

func (h adjustedPriceRepositoryHandler) Add(tx *sql.Tx, quotes []domain.PriceQuote) error {
	if len(quotes) == 0 {
		return nil
	}
	now := time.Now().UTC()
	adjPrices := make([]model.AdjustedPrice, 0, len(quotes))
	for _, q := range quotes {
		adjPrices = append(adjPrices, model.AdjustedPrice{
			Symbol:    q.Ticker,
			Date:      util.TruncateDate(q.Date),
			Price:     q.Price,
			CreatedAt: now,
		})
	}

	query := AdjustedPrice.
		INSERT(AdjustedPrice.MutableColumns).
		MODELS(adjPrices).
		ON_CONFLICT(
			AdjustedPrice.Symbol, AdjustedPrice.Date,
		).DO_UPDATE(
		SET(
			AdjustedPrice.Price.SET(AdjustedPrice.EXCLUDED.Price),
		),
	)

	var db qrm.Executable = h.Db
	if tx != nil {
		db = tx
	}
	_, err := query.Exec(db)
	if err != nil {
		return fmt.Errorf("failed to add adjusted prices to db: %w", err)
	}

	h.ReadMutex.Lock()
	for _, p := range adjPrices {
		delete(h.Cache[p.Symbol], p.Date)
	}
	h.ReadMutex.Unlock()

	return nil
}

// GetMany returns the prices quoted exactly on date. Symbols without a
// quote are left out of the batch.
func (h adjustedPriceRepositoryHandler) GetMany(tx *sql.Tx, symbols []string, date time.Time) (domain.PriceBatch, error) {
	out := domain.PriceBatch{}
	symbolSet := map[string]bool{}
	postgresStr := []Expression{}

	for _, s := range symbols {
		if symbolSet[s] {
			continue
		}
		symbolSet[s] = true
		if cachedPrice, ok := h.getFromCache(s, date); ok {
			out[s] = cachedPrice
		} else {
			postgresStr = append(postgresStr, String(s))
		}
	}

	if len(postgresStr) == 0 {
		return out, nil
	}

	query := AdjustedPrice.
		SELECT(AdjustedPrice.AllColumns).
		WHERE(
			AND(
				AdjustedPrice.Symbol.IN(postgresStr...),
				AdjustedPrice.Date.EQ(DateT(date)),
			),
		)

	var db qrm.Queryable = h.Db
	if tx != nil {
		db = tx
	}

	res := []model.AdjustedPrice{}
	err := query.Query(db, &res)
	if err != nil {
		return nil, fmt.Errorf("failed to get prices on %s: %w", date.Format(util.DateLayout), err)
	}

	for _, r := range res {
		out[r.Symbol] = r.Price
		h.addToCache(r.Symbol, date, r.Price)
	}

	return out, nil
}

func (h adjustedPriceRepositoryHandler) List(tx *sql.Tx, symbol string, start, end time.Time) ([]domain.PriceQuote, error) {
	return h.ListRange(tx, []string{symbol}, start, end)
}

func (h adjustedPriceRepositoryHandler) ListRange(tx *sql.Tx, symbols []string, start, end time.Time) ([]domain.PriceQuote, error) {
	if len(symbols) == 0 {
		return []domain.PriceQuote{}, nil
	}
	postgresStr := make([]Expression, 0, len(symbols))
	for _, s := range symbols {
		postgresStr = append(postgresStr, String(s))
	}

	query := AdjustedPrice.
		SELECT(AdjustedPrice.AllColumns).
		WHERE(
			AND(
				AdjustedPrice.Symbol.IN(postgresStr...),
				AdjustedPrice.Date.BETWEEN(DateT(start), DateT(end)),
			),
		).
		ORDER_BY(AdjustedPrice.Date.ASC(), AdjustedPrice.Symbol.ASC())

	var db qrm.Queryable = h.Db
	if tx != nil {
		db = tx
	}

	result := []model.AdjustedPrice{}
	err := query.Query(db, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to list prices for %d symbols: %w", len(symbols), err)
	}

	out := make([]domain.PriceQuote, 0, len(result))
	for _, p := range result {
		out = append(out, domain.PriceQuote{
			Ticker: p.Symbol,
			Date:   p.Date,
			Price:  p.Price,
		})
	}

	return out, nil
}

func (h adjustedPriceRepositoryHandler) ListTradingDays(tx *sql.Tx, start, end time.Time) ([]time.Time, error) {
	query := AdjustedPrice.
		SELECT(AdjustedPrice.Date).
		WHERE(
			AdjustedPrice.Date.BETWEEN(DateT(start), DateT(end)),
		).
		GROUP_BY(AdjustedPrice.Date).
		ORDER_BY(AdjustedPrice.Date.ASC())

	var db rowQuerier = h.Db
	if tx != nil {
		db = tx
	}

	q, args := query.Sql()
	rows, err := db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list trading days: %w", err)
	}
	defer rows.Close()

	out := []time.Time{}
	for rows.Next() {
		var d time.Time
		err := rows.Scan(&d)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		out = append(out, util.TruncateDate(d))
	}

	return out, rows.Err()
}
