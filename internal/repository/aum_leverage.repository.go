package repository

import (
	"database/sql"
	"fmt"
	"time"

	"lsbacktest/internal/db/models/postgres/public/model"
	"lsbacktest/internal/db/models/postgres/public/table"
	"lsbacktest/internal/domain"
	"lsbacktest/internal/util"

	"github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"
)

type AumLeverageRepository interface {
	Add(tx *sql.Tx, records []domain.AumLeverageRecord) error
	List(tx *sql.Tx, strategyName string, start, end time.Time) ([]domain.AumLeverageRecord, error)
}

type aumLeverageRepositoryHandler struct {
	Db *sql.DB
}

func NewAumLeverageRepository(db *sql.DB) AumLeverageRepository {
	return aumLeverageRepositoryHandler{Db: db}
}

func (h aumLeverageRepositoryHandler) Add(tx *sql.Tx, records []domain.AumLeverageRecord) error {
	if len(records) == 0 {
		return nil
	}
	models := make([]model.AumLeverage, 0, len(records))
	for _, r := range records {
		models = append(models, model.AumLeverage{
			Date:           util.TruncateDate(r.Date),
			StrategyName:   r.Strategy,
			Aum:            r.Aum,
			TargetLeverage: r.TargetLeverage,
		})
	}

	query := table.AumLeverage.
		INSERT(table.AumLeverage.MutableColumns).
		MODELS(models).
		ON_CONFLICT(table.AumLeverage.StrategyName, table.AumLeverage.Date).
		DO_UPDATE(
			postgres.SET(
				table.AumLeverage.Aum.SET(table.AumLeverage.EXCLUDED.Aum),
				table.AumLeverage.TargetLeverage.SET(table.AumLeverage.EXCLUDED.TargetLeverage),
			),
		)

	var db qrm.Executable = h.Db
	if tx != nil {
		db = tx
	}
	_, err := query.Exec(db)
	if err != nil {
		return fmt.Errorf("failed to add aum leverage records: %w", err)
	}

	return nil
}

// List returns the schedule ordered by date with InOutFlows and
// LeverageChange computed against the previous row in the range. The
// first row carries zero deltas.
func (h aumLeverageRepositoryHandler) List(tx *sql.Tx, strategyName string, start, end time.Time) ([]domain.AumLeverageRecord, error) {
	var db qrm.Queryable = h.Db
	if tx != nil {
		db = tx
	}

	query := table.AumLeverage.
		SELECT(table.AumLeverage.AllColumns).
		WHERE(
			postgres.AND(
				table.AumLeverage.StrategyName.EQ(postgres.String(strategyName)),
				table.AumLeverage.Date.BETWEEN(postgres.DateT(start), postgres.DateT(end)),
			),
		).
		ORDER_BY(table.AumLeverage.Date.ASC())

	result := []model.AumLeverage{}
	err := query.Query(db, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to list aum leverage for %s: %w", strategyName, err)
	}

	return withDeltas(result), nil
}

func withDeltas(rows []model.AumLeverage) []domain.AumLeverageRecord {
	out := make([]domain.AumLeverageRecord, 0, len(rows))
	for i, r := range rows {
		record := domain.AumLeverageRecord{
			Date:           r.Date,
			Strategy:       r.StrategyName,
			Aum:            r.Aum,
			TargetLeverage: r.TargetLeverage,
		}
		if i > 0 {
			record.InOutFlows = r.Aum - rows[i-1].Aum
			record.LeverageChange = r.TargetLeverage - rows[i-1].TargetLeverage
		}
		out = append(out, record)
	}
	return out
}
