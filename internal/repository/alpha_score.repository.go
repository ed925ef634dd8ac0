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

type AlphaScoreRepository interface {
	List(tx *sql.Tx, strategyName string, start, end time.Time) ([]domain.AlphaScore, error)
	ReplaceRange(tx *sql.Tx, strategyName string, start, end time.Time, scores []domain.AlphaScore) error
	ListStrategies(tx *sql.Tx) ([]string, error)
}

type alphaScoreRepositoryHandler struct {
	Db *sql.DB
}

func NewAlphaScoreRepository(db *sql.DB) AlphaScoreRepository {
	return alphaScoreRepositoryHandler{Db: db}
}

func (h alphaScoreRepositoryHandler) List(tx *sql.Tx, strategyName string, start, end time.Time) ([]domain.AlphaScore, error) {
	var db qrm.Queryable = h.Db
	if tx != nil {
		db = tx
	}

	query := table.AlphaScore.
		SELECT(table.AlphaScore.AllColumns).
		WHERE(
			postgres.AND(
				table.AlphaScore.StrategyName.EQ(postgres.String(strategyName)),
				table.AlphaScore.Date.BETWEEN(postgres.DateT(start), postgres.DateT(end)),
			),
		).
		ORDER_BY(
			table.AlphaScore.Date.ASC(),
			table.AlphaScore.TradeDirection.ASC(),
			table.AlphaScore.Ticker.ASC(),
		)

	result := []model.AlphaScore{}
	err := query.Query(db, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to list alpha scores for %s: %w", strategyName, err)
	}

	out := make([]domain.AlphaScore, 0, len(result))
	for _, r := range result {
		direction, err := domain.ParseTradeDirection(r.TradeDirection)
		if err != nil {
			return nil, fmt.Errorf("invalid alpha score %s: %w", r.AlphaScoreID, err)
		}
		out = append(out, domain.AlphaScore{
			Date:      r.Date,
			Strategy:  r.StrategyName,
			Ticker:    r.Ticker,
			Direction: direction,
			Weight:    r.Weight,
			Score:     r.AlphaScore,
		})
	}

	return out, nil
}

// ReplaceRange removes the strategy's scores dated within [start, end] and
// inserts the given scores in the same transaction.
func (h alphaScoreRepositoryHandler) ReplaceRange(tx *sql.Tx, strategyName string, start, end time.Time, scores []domain.AlphaScore) error {
	if tx == nil {
		newTx, err := h.Db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer newTx.Rollback()
		if err := h.ReplaceRange(newTx, strategyName, start, end, scores); err != nil {
			return err
		}
		return newTx.Commit()
	}

	_, err := table.AlphaScore.
		DELETE().
		WHERE(
			postgres.AND(
				table.AlphaScore.StrategyName.EQ(postgres.String(strategyName)),
				table.AlphaScore.Date.BETWEEN(postgres.DateT(start), postgres.DateT(end)),
			),
		).
		Exec(tx)
	if err != nil {
		return fmt.Errorf("failed to delete alpha scores for %s: %w", strategyName, err)
	}

	if len(scores) == 0 {
		return nil
	}

	models := make([]model.AlphaScore, 0, len(scores))
	for _, s := range scores {
		models = append(models, model.AlphaScore{
			Date:           s.Date,
			StrategyName:   strategyName,
			Ticker:         s.Ticker,
			TradeDirection: s.Direction.String(),
			AlphaScore:     s.Score,
			Weight:         s.Weight,
		})
	}

	_, err = table.AlphaScore.
		INSERT(table.AlphaScore.MutableColumns).
		MODELS(models).
		Exec(tx)
	if err != nil {
		return fmt.Errorf("failed to insert alpha scores for %s: %w", strategyName, err)
	}

	return nil
}

func (h alphaScoreRepositoryHandler) ListStrategies(tx *sql.Tx) ([]string, error) {
	var db rowQuerier = h.Db
	if tx != nil {
		db = tx
	}

	query := table.AlphaScore.
		SELECT(table.AlphaScore.StrategyName).
		DISTINCT().
		ORDER_BY(table.AlphaScore.StrategyName.ASC())

	q, args := query.Sql()
	rows, err := db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list strategies: %w", err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan strategy name: %w", err)
		}
		out = append(out, s)
	}

	return out, rows.Err()
}

// rowQuerier is satisfied by both *sql.DB and *sql.Tx.
type rowQuerier interface {
	Query(query string, args ...interface{}) (*sql.Rows, error)
}
