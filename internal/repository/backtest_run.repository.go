package repository

import (
	"database/sql"
	"fmt"
	"time"

	"lsbacktest/internal/db/models/postgres/public/model"
	"lsbacktest/internal/db/models/postgres/public/table"

	"github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"
	"github.com/google/uuid"
)

const BacktestRunStatus_Failed = "Failed"

type BacktestRunRepository interface {
	Add(tx *sql.Tx, br model.BacktestRun) (*model.BacktestRun, error)
	Get(id uuid.UUID) (*model.BacktestRun, error)
	List(strategyName *string) ([]model.BacktestRun, error)
	Update(tx *sql.Tx, br *model.BacktestRun, columns postgres.ColumnList) (*model.BacktestRun, error)
}

type backtestRunRepositoryHandler struct {
	Db *sql.DB
}

func NewBacktestRunRepository(db *sql.DB) BacktestRunRepository {
	return backtestRunRepositoryHandler{Db: db}
}

func (h backtestRunRepositoryHandler) Add(tx *sql.Tx, br model.BacktestRun) (*model.BacktestRun, error) {
	br.CreatedAt = time.Now().UTC()
	br.ModifiedAt = time.Now().UTC()

	columns := table.BacktestRun.MutableColumns
	if br.BacktestRunID != uuid.Nil {
		columns = table.BacktestRun.AllColumns
	}

	query := table.BacktestRun.
		INSERT(columns).
		MODEL(br).
		RETURNING(table.BacktestRun.AllColumns)

	var db qrm.Queryable = h.Db
	if tx != nil {
		db = tx
	}

	out := model.BacktestRun{}
	err := query.Query(db, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to insert backtest run: %w", err)
	}

	return &out, nil
}

func (h backtestRunRepositoryHandler) Update(tx *sql.Tx, br *model.BacktestRun, columns postgres.ColumnList) (*model.BacktestRun, error) {
	br.ModifiedAt = time.Now().UTC()
	if br.BacktestRunID == uuid.Nil {
		return nil, fmt.Errorf("failed to update backtest run - id not provided in inputted model")
	}
	query := table.BacktestRun.
		UPDATE(append(columns, table.BacktestRun.ModifiedAt)).
		MODEL(br).
		WHERE(table.BacktestRun.BacktestRunID.EQ(
			postgres.UUID(br.BacktestRunID),
		)).
		RETURNING(table.BacktestRun.AllColumns)

	var db qrm.Queryable = h.Db
	if tx != nil {
		db = tx
	}

	out := model.BacktestRun{}
	err := query.Query(db, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to update backtest run %s: %w", br.BacktestRunID.String(), err)
	}

	return &out, nil
}

func (h backtestRunRepositoryHandler) Get(id uuid.UUID) (*model.BacktestRun, error) {
	query := table.BacktestRun.
		SELECT(table.BacktestRun.AllColumns).
		WHERE(table.BacktestRun.BacktestRunID.EQ(postgres.UUID(id)))

	result := model.BacktestRun{}
	err := query.Query(h.Db, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to get backtest run: %w", err)
	}

	return &result, nil
}

func (h backtestRunRepositoryHandler) List(strategyName *string) ([]model.BacktestRun, error) {
	query := table.BacktestRun.SELECT(table.BacktestRun.AllColumns)
	if strategyName != nil {
		query = query.WHERE(table.BacktestRun.StrategyName.EQ(postgres.String(*strategyName)))
	}
	query = query.ORDER_BY(table.BacktestRun.CreatedAt.DESC())

	result := []model.BacktestRun{}
	err := query.Query(h.Db, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to list backtest runs: %w", err)
	}

	return result, nil
}
