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
	"github.com/google/uuid"
)

type BacktestEventRepository interface {
	AddMany(tx *sql.Tx, runID uuid.UUID, events []domain.QualityEvent) error
	List(runID uuid.UUID) ([]domain.QualityEvent, error)
}

type backtestEventRepositoryHandler struct {
	Db *sql.DB
}

func NewBacktestEventRepository(db *sql.DB) BacktestEventRepository {
	return backtestEventRepositoryHandler{Db: db}
}

func (h backtestEventRepositoryHandler) AddMany(tx *sql.Tx, runID uuid.UUID, events []domain.QualityEvent) error {
	if len(events) == 0 {
		return nil
	}
	now := time.Now().UTC()
	models := make([]model.BacktestEvent, 0, len(events))
	for _, e := range events {
		models = append(models, model.BacktestEvent{
			BacktestRunID: runID,
			StrategyName:  e.Strategy,
			Date:          e.Date,
			Kind:          string(e.Kind),
			Ticker:        e.Ticker,
			Detail:        e.Detail,
			CreatedAt:     now,
		})
	}

	var db qrm.Executable = h.Db
	if tx != nil {
		db = tx
	}

	_, err := table.BacktestEvent.
		INSERT(table.BacktestEvent.MutableColumns).
		MODELS(models).
		Exec(db)
	if err != nil {
		return fmt.Errorf("failed to add %d backtest events: %w", len(models), err)
	}

	return nil
}

func (h backtestEventRepositoryHandler) List(runID uuid.UUID) ([]domain.QualityEvent, error) {
	query := table.BacktestEvent.
		SELECT(table.BacktestEvent.AllColumns).
		WHERE(table.BacktestEvent.BacktestRunID.EQ(postgres.UUID(runID))).
		ORDER_BY(table.BacktestEvent.Date.ASC(), table.BacktestEvent.CreatedAt.ASC())

	result := []model.BacktestEvent{}
	err := query.Query(h.Db, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to list events for run %s: %w", runID, err)
	}

	out := make([]domain.QualityEvent, 0, len(result))
	for _, r := range result {
		out = append(out, domain.QualityEvent{
			Kind:     domain.QualityEventKind(r.Kind),
			Strategy: r.StrategyName,
			Date:     r.Date,
			Ticker:   r.Ticker,
			Detail:   r.Detail,
		})
	}

	return out, nil
}
