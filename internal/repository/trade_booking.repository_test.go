package repository

import (
	"database/sql"
	"testing"

	"lsbacktest/internal/domain"
	"lsbacktest/internal/util"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func newTestTx(t *testing.T) (*sql.DB, *sql.Tx) {
	db, err := util.NewTestDb()
	require.NoError(t, err)
	if err := db.Ping(); err != nil {
		t.Skipf("test db unavailable: %v", err)
	}
	tx, err := db.Begin()
	require.NoError(t, err)
	t.Cleanup(func() {
		tx.Rollback()
		db.Close()
	})
	return db, tx
}

func TestTradeBookingRepository_Replace(t *testing.T) {
	db, tx := newTestTx(t)
	repo := NewTradeBookingRepository(db)

	d1 := util.NewDate(2024, 1, 5)
	d2 := util.NewDate(2024, 1, 12)
	batch := []domain.Trade{
		{Strategy: "test_strategy", Ticker: "AAPL", Shares: 100, Direction: domain.TradeDirection_Long, TradeOpenDate: d1, TradeOpenPrice: 150},
		{Strategy: "test_strategy", Ticker: "XOM", Shares: -40, Direction: domain.TradeDirection_Short, TradeOpenDate: d1, TradeOpenPrice: 110},
	}

	t.Run("replace twice leaves one row per key", func(t *testing.T) {
		require.NoError(t, repo.Replace(tx, batch))
		require.NoError(t, repo.Replace(tx, batch))

		got, err := repo.List(tx, TradeBookingListFilter{StrategyName: util.StringPointer("test_strategy")})
		require.NoError(t, err)
		require.Equal(t, "", cmp.Diff(batch, got, cmpopts.SortSlices(func(a, b domain.Trade) bool {
			return a.Ticker < b.Ticker
		}), cmpopts.EquateApproxTime(0)))
	})

	t.Run("closing overwrites the open row", func(t *testing.T) {
		closed := batch[0]
		closed.TradeCloseDate = util.TimePointer(d2)
		closed.TradeClosePrice = util.FloatPointer(160)
		require.NoError(t, repo.Replace(tx, []domain.Trade{closed}))

		open, err := repo.GetOpenTrades(tx, "test_strategy", d2)
		require.NoError(t, err)
		require.Len(t, open, 2)
		for _, o := range open {
			if o.Ticker == "AAPL" {
				require.Equal(t, 160.0, *o.TradeClosePrice)
				require.True(t, o.TradeCloseDate.Equal(d2))
			}
		}
	})

	t.Run("nothing before the first batch", func(t *testing.T) {
		open, err := repo.GetOpenTrades(tx, "test_strategy", d1)
		require.NoError(t, err)
		require.Empty(t, open)
	})
}
