package repository

import (
	"database/sql"
	"fmt"
	"time"

	"lsbacktest/internal/db/models/postgres/public/model"
	"lsbacktest/internal/db/models/postgres/public/table"
	"lsbacktest/internal/domain"

	"github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"
)

// replaceChunkSize bounds the number of natural keys in one DELETE.
const replaceChunkSize = 200

type TradeBookingListFilter struct {
	StrategyName        *string
	ExcludeStrategyName *string
	StartDate           *time.Time
	EndDate             *time.Time
}

type TradeBookingRepository interface {
	GetOpenTrades(tx *sql.Tx, strategyName string, before time.Time) ([]domain.Trade, error)
	Replace(tx *sql.Tx, trades []domain.Trade) error
	ReplaceStrategy(tx *sql.Tx, strategyName string, trades []domain.Trade) error
	List(tx *sql.Tx, filter TradeBookingListFilter) ([]domain.Trade, error)
}

type tradeBookingRepositoryHandler struct {
	Db *sql.DB
}

func NewTradeBookingRepository(db *sql.DB) TradeBookingRepository {
	return tradeBookingRepositoryHandler{Db: db}
}

// GetOpenTrades returns the batch opened on the latest trade_open_date
// strictly before the given date.
func (h tradeBookingRepositoryHandler) GetOpenTrades(tx *sql.Tx, strategyName string, before time.Time) ([]domain.Trade, error) {
	var db qrm.Queryable = h.Db
	if tx != nil {
		db = tx
	}

	latestQuery := table.TradeBooking.
		SELECT(table.TradeBooking.AllColumns).
		WHERE(
			postgres.AND(
				table.TradeBooking.StrategyName.EQ(postgres.String(strategyName)),
				table.TradeBooking.TradeOpenDate.LT(postgres.DateT(before)),
			),
		).
		ORDER_BY(table.TradeBooking.TradeOpenDate.DESC()).
		LIMIT(1)

	latest := []model.TradeBooking{}
	err := latestQuery.Query(db, &latest)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest open date for %s: %w", strategyName, err)
	}
	if len(latest) == 0 {
		return []domain.Trade{}, nil
	}

	query := table.TradeBooking.
		SELECT(table.TradeBooking.AllColumns).
		WHERE(
			postgres.AND(
				table.TradeBooking.StrategyName.EQ(postgres.String(strategyName)),
				table.TradeBooking.TradeOpenDate.EQ(postgres.DateT(latest[0].TradeOpenDate)),
			),
		).
		ORDER_BY(table.TradeBooking.TradeDirection.ASC(), table.TradeBooking.Ticker.ASC())

	result := []model.TradeBooking{}
	err = query.Query(db, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to get open trades for %s before %s: %w", strategyName, before.Format(time.DateOnly), err)
	}

	return tradeBookingsToDomain(result)
}

// Replace deletes every row matching a trade's natural key and inserts the
// trades. When tx is nil the delete and insert run in their own
// transaction.
func (h tradeBookingRepositoryHandler) Replace(tx *sql.Tx, trades []domain.Trade) error {
	if len(trades) == 0 {
		return nil
	}
	return h.withTx(tx, func(tx *sql.Tx) error {
		for start := 0; start < len(trades); start += replaceChunkSize {
			end := min(start+replaceChunkSize, len(trades))
			chunk := trades[start:end]

			keys := []postgres.BoolExpression{}
			for _, t := range chunk {
				keys = append(keys, postgres.AND(
					table.TradeBooking.StrategyName.EQ(postgres.String(t.Strategy)),
					table.TradeBooking.TradeOpenDate.EQ(postgres.DateT(t.TradeOpenDate)),
					table.TradeBooking.Ticker.EQ(postgres.String(t.Ticker)),
					table.TradeBooking.TradeDirection.EQ(postgres.String(t.Direction.String())),
				))
			}

			_, err := table.TradeBooking.
				DELETE().
				WHERE(postgres.OR(keys...)).
				Exec(tx)
			if err != nil {
				return fmt.Errorf("failed to delete existing trades: %w", err)
			}

			err = insertTradeBookings(tx, chunk)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// ReplaceStrategy swaps every row of a strategy for the given trades,
// rewriting their strategy name.
func (h tradeBookingRepositoryHandler) ReplaceStrategy(tx *sql.Tx, strategyName string, trades []domain.Trade) error {
	return h.withTx(tx, func(tx *sql.Tx) error {
		_, err := table.TradeBooking.
			DELETE().
			WHERE(table.TradeBooking.StrategyName.EQ(postgres.String(strategyName))).
			Exec(tx)
		if err != nil {
			return fmt.Errorf("failed to delete trades for %s: %w", strategyName, err)
		}

		renamed := make([]domain.Trade, 0, len(trades))
		for _, t := range trades {
			t.Strategy = strategyName
			renamed = append(renamed, t)
		}
		for start := 0; start < len(renamed); start += replaceChunkSize {
			end := min(start+replaceChunkSize, len(renamed))
			if err := insertTradeBookings(tx, renamed[start:end]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (h tradeBookingRepositoryHandler) List(tx *sql.Tx, filter TradeBookingListFilter) ([]domain.Trade, error) {
	var db qrm.Queryable = h.Db
	if tx != nil {
		db = tx
	}

	conditions := []postgres.BoolExpression{}
	if filter.StrategyName != nil {
		conditions = append(conditions, table.TradeBooking.StrategyName.EQ(postgres.String(*filter.StrategyName)))
	}
	if filter.ExcludeStrategyName != nil {
		conditions = append(conditions, table.TradeBooking.StrategyName.NOT_EQ(postgres.String(*filter.ExcludeStrategyName)))
	}
	if filter.StartDate != nil {
		conditions = append(conditions, table.TradeBooking.TradeOpenDate.GT_EQ(postgres.DateT(*filter.StartDate)))
	}
	if filter.EndDate != nil {
		conditions = append(conditions, table.TradeBooking.TradeOpenDate.LT_EQ(postgres.DateT(*filter.EndDate)))
	}

	query := table.TradeBooking.SELECT(table.TradeBooking.AllColumns)
	if len(conditions) > 0 {
		query = query.WHERE(postgres.AND(conditions...))
	}
	query = query.ORDER_BY(
		table.TradeBooking.StrategyName.ASC(),
		table.TradeBooking.TradeOpenDate.ASC(),
		table.TradeBooking.TradeDirection.ASC(),
		table.TradeBooking.Ticker.ASC(),
	)

	result := []model.TradeBooking{}
	err := query.Query(db, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to list trades: %w", err)
	}

	return tradeBookingsToDomain(result)
}

func (h tradeBookingRepositoryHandler) withTx(tx *sql.Tx, fn func(tx *sql.Tx) error) error {
	if tx != nil {
		return fn(tx)
	}

	tx, err := h.Db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit trades: %w", err)
	}
	return nil
}

func insertTradeBookings(tx *sql.Tx, trades []domain.Trade) error {
	if len(trades) == 0 {
		return nil
	}
	now := time.Now().UTC()
	models := make([]model.TradeBooking, 0, len(trades))
	for _, t := range trades {
		models = append(models, model.TradeBooking{
			StrategyName:    t.Strategy,
			Ticker:          t.Ticker,
			Shares:          t.Shares,
			TradeDirection:  t.Direction.String(),
			TradeOpenDate:   t.TradeOpenDate,
			TradeOpenPrice:  t.TradeOpenPrice,
			TradeCloseDate:  t.TradeCloseDate,
			TradeClosePrice: t.TradeClosePrice,
			CreatedAt:       now,
		})
	}

	_, err := table.TradeBooking.
		INSERT(table.TradeBooking.MutableColumns).
		MODELS(models).
		Exec(tx)
	if err != nil {
		return fmt.Errorf("failed to insert %d trades: %w", len(models), err)
	}
	return nil
}

func tradeBookingsToDomain(in []model.TradeBooking) ([]domain.Trade, error) {
	out := make([]domain.Trade, 0, len(in))
	for _, m := range in {
		direction, err := domain.ParseTradeDirection(m.TradeDirection)
		if err != nil {
			return nil, fmt.Errorf("invalid trade booking %s: %w", m.TradeBookingID, err)
		}
		out = append(out, domain.Trade{
			Strategy:        m.StrategyName,
			Ticker:          m.Ticker,
			Shares:          m.Shares,
			Direction:       direction,
			TradeOpenDate:   m.TradeOpenDate,
			TradeOpenPrice:  m.TradeOpenPrice,
			TradeCloseDate:  m.TradeCloseDate,
			TradeClosePrice: m.TradeClosePrice,
		})
	}
	return out, nil
}
