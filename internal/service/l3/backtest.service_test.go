package l3_service

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"testing"
	"time"

	"lsbacktest/internal/calculator"
	"lsbacktest/internal/domain"
	mock_repository "lsbacktest/internal/repository/mocks"
	l1_service "lsbacktest/internal/service/l1"
	"lsbacktest/internal/util"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type backtestMocks struct {
	alphaScores  *mock_repository.MockAlphaScoreRepository
	aumLeverage  *mock_repository.MockAumLeverageRepository
	tradeBooking *mock_repository.MockTradeBookingRepository
	adjPrices    *mock_repository.MockAdjustedPriceRepository
}

func newTestBacktestService(t *testing.T) (backtestServiceHandler, backtestMocks) {
	ctrl := gomock.NewController(t)
	m := backtestMocks{
		alphaScores:  mock_repository.NewMockAlphaScoreRepository(ctrl),
		aumLeverage:  mock_repository.NewMockAumLeverageRepository(ctrl),
		tradeBooking: mock_repository.NewMockTradeBookingRepository(ctrl),
		adjPrices:    mock_repository.NewMockAdjustedPriceRepository(ctrl),
	}
	h := backtestServiceHandler{
		AlphaScoreRepository:   m.alphaScores,
		AumLeverageRepository:  m.aumLeverage,
		TradeBookingRepository: m.tradeBooking,
		PriceService:           l1_service.NewPriceService(m.adjPrices),
		NotionalService:        l1_service.NewNotionalService(),
		TradeLifecycleService:  l1_service.NewTradeLifecycleService(),
		ShareAllocator: calculator.NewShareAllocator(calculator.ShareAllocatorOptions{
			SolveTimeout: 5 * time.Second,
			RefineGreedy: true,
		}),
	}
	return h, m
}

func longShortScores(strategy string, dates ...time.Time) []domain.AlphaScore {
	out := []domain.AlphaScore{}
	for _, d := range dates {
		out = append(out,
			domain.AlphaScore{Date: d, Strategy: strategy, Ticker: "AAPL", Direction: domain.TradeDirection_Long, Weight: 1, Score: 2},
			domain.AlphaScore{Date: d, Strategy: strategy, Ticker: "MSFT", Direction: domain.TradeDirection_Short, Weight: 1, Score: 1},
		)
	}
	return out
}

func openTrade(ticker string, shares float64, direction domain.TradeDirection, date time.Time, price float64) domain.Trade {
	return domain.Trade{
		Strategy:       "Momentum",
		Ticker:         ticker,
		Shares:         shares,
		Direction:      direction,
		TradeOpenDate:  date,
		TradeOpenPrice: price,
	}
}

func closedTrade(t domain.Trade, date time.Time, price *float64) domain.Trade {
	t.TradeCloseDate = util.TimePointer(date)
	t.TradeClosePrice = price
	return t
}

func TestBacktestService_Run(t *testing.T) {
	d1 := util.NewDate(2024, 1, 5)
	d2 := util.NewDate(2024, 1, 12)
	end := util.NewDate(2024, 1, 19)
	terminal := util.NewDate(2024, 1, 18)
	tickers := []string{"AAPL", "MSFT"}

	t.Run("rebalances, carries value and closes at the end", func(t *testing.T) {
		h, m := newTestBacktestService(t)

		m.alphaScores.EXPECT().List(gomock.Nil(), "Momentum", d1, end).Return(longShortScores("Momentum", d1, d2), nil)
		m.aumLeverage.EXPECT().List(gomock.Nil(), "Momentum", d1, end).Return([]domain.AumLeverageRecord{
			{Date: d1, Strategy: "Momentum", Aum: 100_000, TargetLeverage: 2},
			{Date: d2, Strategy: "Momentum", Aum: 100_000, TargetLeverage: 2},
		}, nil)
		m.tradeBooking.EXPECT().GetOpenTrades(gomock.Nil(), "Momentum", d1).Return([]domain.Trade{}, nil)

		aapl1 := openTrade("AAPL", 1000, domain.TradeDirection_Long, d1, 100)
		msft1 := openTrade("MSFT", -500, domain.TradeDirection_Short, d1, 200)
		aapl2 := openTrade("AAPL", 931, domain.TradeDirection_Long, d2, 110)
		msft2 := openTrade("MSFT", -539, domain.TradeDirection_Short, d2, 190)

		gomock.InOrder(
			m.adjPrices.EXPECT().GetMany(gomock.Nil(), tickers, d1).Return(domain.PriceBatch{"AAPL": 100, "MSFT": 200}, nil),
			m.tradeBooking.EXPECT().Replace(gomock.Nil(), []domain.Trade{aapl1, msft1}).Return(nil),
			m.adjPrices.EXPECT().GetMany(gomock.Nil(), tickers, d2).Return(domain.PriceBatch{"AAPL": 110, "MSFT": 190}, nil),
			m.tradeBooking.EXPECT().Replace(gomock.Nil(), []domain.Trade{
				closedTrade(aapl1, d2, util.FloatPointer(110)),
				closedTrade(msft1, d2, util.FloatPointer(190)),
				aapl2,
				msft2,
			}).Return(nil),
			m.adjPrices.EXPECT().ListTradingDays(gomock.Nil(), util.NewDate(2024, 1, 13), end).
				Return([]time.Time{util.NewDate(2024, 1, 16), util.NewDate(2024, 1, 17), terminal}, nil),
			m.adjPrices.EXPECT().GetMany(gomock.Nil(), tickers, terminal).Return(domain.PriceBatch{"AAPL": 120}, nil),
			m.tradeBooking.EXPECT().Replace(gomock.Nil(), []domain.Trade{
				closedTrade(aapl2, terminal, util.FloatPointer(120)),
				closedTrade(msft2, terminal, nil),
			}).Return(nil),
		)

		result, err := h.Run(context.Background(), RunBacktestInput{
			RunID:    uuid.New(),
			Strategy: "Momentum",
			Start:    d1,
			End:      end,
		})
		require.NoError(t, err)
		require.Equal(t, domain.BacktestPhase_Done, result.Phase)
		require.Len(t, result.Rebalances, 3)

		require.Equal(t, 200_000.0, result.Rebalances[0].Notional)
		require.Equal(t, 100_000.0, result.Rebalances[0].CapitalByDirection[domain.TradeDirection_Long])
		require.Equal(t, 205_000.0, result.Rebalances[1].ClosingValue)
		require.Equal(t, 205_000.0, result.Rebalances[1].Notional)
		require.Equal(t, 2, result.Rebalances[1].NumClosed)
		require.Equal(t, 2, result.Rebalances[1].NumOpened)
		require.Equal(t, terminal, result.Rebalances[2].Date)

		require.Len(t, result.Events, 1)
		require.Equal(t, domain.QualityEventKind_MissingClosePrice, result.Events[0].Kind)
		require.Equal(t, "MSFT", *result.Events[0].Ticker)
	})

	t.Run("no alpha scores aborts without writing", func(t *testing.T) {
		h, m := newTestBacktestService(t)
		m.alphaScores.EXPECT().List(gomock.Nil(), "Momentum", d1, end).Return([]domain.AlphaScore{}, nil)

		result, err := h.Run(context.Background(), RunBacktestInput{Strategy: "Momentum", Start: d1, End: end})
		require.ErrorIs(t, err, domain.ErrNoAlphaScores)
		require.Equal(t, domain.BacktestPhase_Aborted, result.Phase)
		require.Len(t, result.Events, 1)
		require.Equal(t, domain.QualityEventKind_DataUnavailable, result.Events[0].Kind)
	})

	t.Run("cancellation during a rebalance writes nothing", func(t *testing.T) {
		h, m := newTestBacktestService(t)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		m.alphaScores.EXPECT().List(gomock.Nil(), "Momentum", d1, end).Return(longShortScores("Momentum", d1, d2), nil)
		m.aumLeverage.EXPECT().List(gomock.Nil(), "Momentum", d1, end).Return([]domain.AumLeverageRecord{
			{Date: d1, Strategy: "Momentum", Aum: 100_000, TargetLeverage: 2},
		}, nil)
		m.tradeBooking.EXPECT().GetOpenTrades(gomock.Nil(), "Momentum", d1).Return([]domain.Trade{}, nil)
		m.adjPrices.EXPECT().GetMany(gomock.Nil(), tickers, d1).
			DoAndReturn(func(_ *sql.Tx, _ []string, _ time.Time) (domain.PriceBatch, error) {
				cancel()
				return domain.PriceBatch{"AAPL": 100, "MSFT": 200}, nil
			})

		result, err := h.Run(ctx, RunBacktestInput{Strategy: "Momentum", Start: d1, End: end})
		require.True(t, errors.Is(err, context.Canceled))
		require.Equal(t, domain.BacktestPhase_Aborted, result.Phase)
		require.Empty(t, result.Rebalances)
	})

	t.Run("unpriced date holds the notional as idle cash", func(t *testing.T) {
		h, m := newTestBacktestService(t)

		m.alphaScores.EXPECT().List(gomock.Nil(), "Momentum", d1, end).Return(longShortScores("Momentum", d1, d2), nil)
		m.aumLeverage.EXPECT().List(gomock.Nil(), "Momentum", d1, end).Return([]domain.AumLeverageRecord{
			{Date: d1, Strategy: "Momentum", Aum: 100_000, TargetLeverage: 2},
			{Date: d2, Strategy: "Momentum", Aum: 100_000, TargetLeverage: 2},
		}, nil)
		m.tradeBooking.EXPECT().GetOpenTrades(gomock.Nil(), "Momentum", d1).Return([]domain.Trade{}, nil)

		gomock.InOrder(
			m.adjPrices.EXPECT().GetMany(gomock.Nil(), tickers, d1).Return(domain.PriceBatch{"AAPL": 0}, nil),
			m.adjPrices.EXPECT().GetMany(gomock.Nil(), tickers, d2).Return(domain.PriceBatch{"AAPL": 100, "MSFT": 200}, nil),
			m.tradeBooking.EXPECT().Replace(gomock.Nil(), []domain.Trade{
				openTrade("AAPL", 1000, domain.TradeDirection_Long, d2, 100),
				openTrade("MSFT", -500, domain.TradeDirection_Short, d2, 200),
			}).Return(nil),
			m.adjPrices.EXPECT().ListTradingDays(gomock.Nil(), util.NewDate(2024, 1, 13), end).Return([]time.Time{}, nil),
			m.adjPrices.EXPECT().GetMany(gomock.Nil(), tickers, d2).Return(domain.PriceBatch{"AAPL": 100, "MSFT": 200}, nil),
			m.tradeBooking.EXPECT().Replace(gomock.Nil(), gomock.Len(2)).Return(nil),
		)

		result, err := h.Run(context.Background(), RunBacktestInput{Strategy: "Momentum", Start: d1, End: end})
		require.NoError(t, err)
		require.Equal(t, 200_000.0, result.Rebalances[0].IdleCash)
		require.Equal(t, 200_000.0, result.Rebalances[1].Notional)
		require.Equal(t, 0.0, result.Rebalances[1].IdleCash)

		kinds := []domain.QualityEventKind{}
		for _, e := range result.Events {
			kinds = append(kinds, e.Kind)
		}
		require.Equal(t, []domain.QualityEventKind{
			domain.QualityEventKind_DataUnavailable,
			domain.QualityEventKind_IdleCash,
			domain.QualityEventKind_TerminalCloseSameDay,
		}, kinds)
	})

	t.Run("closes on the last rebalance date when no later trading day exists", func(t *testing.T) {
		h, m := newTestBacktestService(t)

		m.alphaScores.EXPECT().List(gomock.Nil(), "Momentum", d1, end).Return(longShortScores("Momentum", d1), nil)
		m.aumLeverage.EXPECT().List(gomock.Nil(), "Momentum", d1, end).Return([]domain.AumLeverageRecord{
			{Date: d1, Strategy: "Momentum", Aum: 100_000, TargetLeverage: 2},
		}, nil)
		m.tradeBooking.EXPECT().GetOpenTrades(gomock.Nil(), "Momentum", d1).Return([]domain.Trade{}, nil)

		aapl := openTrade("AAPL", 1000, domain.TradeDirection_Long, d1, 100)
		msft := openTrade("MSFT", -500, domain.TradeDirection_Short, d1, 200)

		gomock.InOrder(
			m.adjPrices.EXPECT().GetMany(gomock.Nil(), tickers, d1).Return(domain.PriceBatch{"AAPL": 100, "MSFT": 200}, nil),
			m.tradeBooking.EXPECT().Replace(gomock.Nil(), []domain.Trade{aapl, msft}).Return(nil),
			m.adjPrices.EXPECT().ListTradingDays(gomock.Nil(), util.NewDate(2024, 1, 6), end).Return([]time.Time{}, nil),
			m.adjPrices.EXPECT().GetMany(gomock.Nil(), tickers, d1).Return(domain.PriceBatch{"AAPL": 100, "MSFT": 200}, nil),
			m.tradeBooking.EXPECT().Replace(gomock.Nil(), []domain.Trade{
				closedTrade(aapl, d1, util.FloatPointer(100)),
				closedTrade(msft, d1, util.FloatPointer(200)),
			}).Return(nil),
		)

		result, err := h.Run(context.Background(), RunBacktestInput{Strategy: "Momentum", Start: d1, End: end})
		require.NoError(t, err)
		require.Equal(t, domain.BacktestPhase_Done, result.Phase)
		require.Len(t, result.Rebalances, 2)
		require.Equal(t, d1, result.Rebalances[1].Date)
		require.Equal(t, 200_000.0, result.Rebalances[1].ClosingValue)

		require.Len(t, result.Events, 1)
		require.Equal(t, domain.QualityEventKind_TerminalCloseSameDay, result.Events[0].Kind)
		require.Equal(t, d1, result.Events[0].Date)
	})

	t.Run("nothing open at the end emits no same day close", func(t *testing.T) {
		h, m := newTestBacktestService(t)

		m.alphaScores.EXPECT().List(gomock.Nil(), "Momentum", d1, end).Return(longShortScores("Momentum", d1), nil)
		m.aumLeverage.EXPECT().List(gomock.Nil(), "Momentum", d1, end).Return([]domain.AumLeverageRecord{
			{Date: d1, Strategy: "Momentum", Aum: 100_000, TargetLeverage: 2},
		}, nil)
		m.tradeBooking.EXPECT().GetOpenTrades(gomock.Nil(), "Momentum", d1).Return([]domain.Trade{}, nil)

		gomock.InOrder(
			m.adjPrices.EXPECT().GetMany(gomock.Nil(), tickers, d1).Return(domain.PriceBatch{}, nil),
			m.adjPrices.EXPECT().ListTradingDays(gomock.Nil(), util.NewDate(2024, 1, 6), end).Return([]time.Time{}, nil),
			m.adjPrices.EXPECT().GetMany(gomock.Nil(), []string{}, d1).Return(domain.PriceBatch{}, nil),
		)

		result, err := h.Run(context.Background(), RunBacktestInput{Strategy: "Momentum", Start: d1, End: end})
		require.NoError(t, err)
		require.Equal(t, domain.BacktestPhase_Done, result.Phase)
		require.Equal(t, 200_000.0, result.Rebalances[1].IdleCash)

		for _, e := range result.Events {
			require.NotEqual(t, domain.QualityEventKind_TerminalCloseSameDay, e.Kind)
		}
		require.Len(t, result.Events, 2)
	})

	t.Run("inverted range", func(t *testing.T) {
		h, _ := newTestBacktestService(t)
		_, err := h.Run(context.Background(), RunBacktestInput{Strategy: "Momentum", Start: end, End: d1})
		require.ErrorIs(t, err, domain.ErrInvalidDateRange)
	})
}

func TestBacktestService_step(t *testing.T) {
	d1 := util.NewDate(2024, 1, 5)
	d2 := util.NewDate(2024, 1, 12)
	h, _ := newTestBacktestService(t)

	t.Run("zero previous leverage carries the value", func(t *testing.T) {
		state := domain.RebalanceState{
			Phase: domain.BacktestPhase_Running,
			PreviousOpenTrades: []domain.Trade{
				openTrade("AAPL", 10, domain.TradeDirection_Long, d1, 100),
			},
		}
		result, newState, err := h.step(context.Background(), state, RebalanceInput{
			Strategy:      "Momentum",
			Date:          d2,
			AumRow:        &domain.AumLeverageRecord{Date: d2, TargetLeverage: 1, LeverageChange: 1},
			TargetWeights: longShortScores("Momentum", d2),
			Prices:        domain.PriceBatch{"AAPL": 100, "MSFT": 50},
		})
		require.NoError(t, err)
		require.Equal(t, 1000.0, newState.CurrentNotional)
		require.Equal(t, domain.QualityEventKind_ArithmeticGuard, result.Events[0].Kind)

		// 500 per side
		require.Len(t, result.Opened, 2)
		require.Equal(t, 5.0, result.Opened[0].Shares)
		require.Equal(t, -10.0, result.Opened[1].Shares)
		require.Equal(t, newState.PreviousOpenTrades, result.Opened)
	})

	t.Run("long shares are positive, short shares negative and capital is respected", func(t *testing.T) {
		weights := []domain.AlphaScore{
			{Date: d1, Ticker: "AAPL", Direction: domain.TradeDirection_Long, Weight: 0.6},
			{Date: d1, Ticker: "GOOGL", Direction: domain.TradeDirection_Long, Weight: 0.4},
			{Date: d1, Ticker: "MSFT", Direction: domain.TradeDirection_Short, Weight: 0.5},
			{Date: d1, Ticker: "AMZN", Direction: domain.TradeDirection_Short, Weight: 0.5},
		}
		prices := domain.PriceBatch{"AAPL": 187.3, "GOOGL": 141.2, "MSFT": 371.9, "AMZN": 0}

		result, _, err := h.step(context.Background(), domain.RebalanceState{}, RebalanceInput{
			Strategy:      "Momentum",
			Date:          d1,
			IsInitial:     true,
			AumRow:        &domain.AumLeverageRecord{Date: d1, Aum: 50_000, TargetLeverage: 1.5},
			TargetWeights: weights,
			Prices:        prices,
		})
		require.NoError(t, err)

		spent := map[domain.TradeDirection]float64{}
		for _, trade := range result.Opened {
			if trade.Direction == domain.TradeDirection_Long {
				require.Greater(t, trade.Shares, 0.0)
			} else {
				require.Less(t, trade.Shares, 0.0)
			}
			require.NotEqual(t, "AMZN", trade.Ticker)
			spent[trade.Direction] += math.Abs(trade.Shares) * trade.TradeOpenPrice
		}
		for direction, capital := range result.Summary.CapitalByDirection {
			require.Equal(t, 37_500.0, capital)
			require.LessOrEqual(t, spent[direction], capital+1e-6)
		}

		require.Equal(t, domain.QualityEventKind_ZeroPriceAsset, result.Events[0].Kind)
		require.Equal(t, "AMZN", *result.Events[0].Ticker)
	})
	t.Run("unpriced direction keeps its capital as idle cash", func(t *testing.T) {
		result, newState, err := h.step(context.Background(), domain.RebalanceState{}, RebalanceInput{
			Strategy:      "Momentum",
			Date:          d1,
			IsInitial:     true,
			AumRow:        &domain.AumLeverageRecord{Date: d1, Aum: 100_000, TargetLeverage: 1},
			TargetWeights: longShortScores("Momentum", d1),
			Prices:        domain.PriceBatch{"AAPL": 100, "MSFT": 0},
		})
		require.NoError(t, err)

		require.Len(t, result.Opened, 1)
		require.Equal(t, "AAPL", result.Opened[0].Ticker)
		require.Equal(t, 500.0, result.Opened[0].Shares)

		require.Equal(t, 50_000.0, newState.IdleCash)
		require.Equal(t, 50_000.0, result.Summary.IdleCash)
		require.Equal(t, domain.QualityEventKind_ZeroPriceAsset, result.Events[0].Kind)
		require.Equal(t, domain.QualityEventKind_IdleCash, result.Events[1].Kind)
		require.Len(t, result.Events, 2)

		// the idle half is part of the next period's value
		next, nextState, err := h.step(context.Background(), newState, RebalanceInput{
			Strategy:      "Momentum",
			Date:          d2,
			TargetWeights: longShortScores("Momentum", d2),
			Prices:        domain.PriceBatch{"AAPL": 100, "MSFT": 100},
		})
		require.NoError(t, err)
		require.Equal(t, 50_000.0, next.Summary.ClosingValue)
		require.Equal(t, 100_000.0, nextState.CurrentNotional)
		require.Equal(t, 0.0, nextState.IdleCash)
	})

	t.Run("basket too expensive for its capital keeps the capital", func(t *testing.T) {
		result, newState, err := h.step(context.Background(), domain.RebalanceState{}, RebalanceInput{
			Strategy:      "Momentum",
			Date:          d1,
			IsInitial:     true,
			AumRow:        &domain.AumLeverageRecord{Date: d1, Aum: 1_000, TargetLeverage: 1},
			TargetWeights: longShortScores("Momentum", d1),
			Prices:        domain.PriceBatch{"AAPL": 100, "MSFT": 900},
		})
		require.NoError(t, err)
		require.Len(t, result.Opened, 1)
		require.Equal(t, 5.0, result.Opened[0].Shares)
		require.Equal(t, 500.0, newState.IdleCash)
		require.Len(t, result.Events, 1)
		require.Equal(t, domain.QualityEventKind_IdleCash, result.Events[0].Kind)
	})

	t.Run("degraded solve books greedy rows with signs and reports it", func(t *testing.T) {
		degraded, _ := newTestBacktestService(t)
		degraded.ShareAllocator = calculator.NewShareAllocator(calculator.ShareAllocatorOptions{
			SolveTimeout: 5 * time.Second,
			MaxNodes:     1,
			RefineGreedy: true,
		})
		weights := []domain.AlphaScore{
			{Date: d1, Ticker: "AAPL", Direction: domain.TradeDirection_Long, Weight: 0.4},
			{Date: d1, Ticker: "MSFT", Direction: domain.TradeDirection_Long, Weight: 0.3},
			{Date: d1, Ticker: "GOOGL", Direction: domain.TradeDirection_Long, Weight: 0.3},
			{Date: d1, Ticker: "AMZN", Direction: domain.TradeDirection_Short, Weight: 0.4},
			{Date: d1, Ticker: "NVDA", Direction: domain.TradeDirection_Short, Weight: 0.3},
			{Date: d1, Ticker: "META", Direction: domain.TradeDirection_Short, Weight: 0.3},
		}
		prices := domain.PriceBatch{"AAPL": 150, "MSFT": 300, "GOOGL": 100, "AMZN": 150, "NVDA": 300, "META": 100}

		result, _, err := degraded.step(context.Background(), domain.RebalanceState{}, RebalanceInput{
			Strategy:      "Momentum",
			Date:          d1,
			IsInitial:     true,
			AumRow:        &domain.AumLeverageRecord{Date: d1, Aum: 100_000, TargetLeverage: 2},
			TargetWeights: weights,
			Prices:        prices,
		})
		require.NoError(t, err)

		shares := map[string]float64{}
		for _, trade := range result.Opened {
			shares[trade.Ticker] = trade.Shares
		}
		require.Equal(t, map[string]float64{
			"AAPL": 266, "MSFT": 100, "GOOGL": 300,
			"AMZN": -266, "NVDA": -100, "META": -300,
		}, shares)

		require.Len(t, result.Events, 2)
		for _, e := range result.Events {
			require.Equal(t, domain.QualityEventKind_OptimizationDegraded, e.Kind)
		}
		for _, direction := range []domain.TradeDirection{domain.TradeDirection_Long, domain.TradeDirection_Short} {
			alloc := result.Summary.Allocations[direction]
			require.Equal(t, domain.AllocationStatus_Degraded, alloc.Status)
			require.Equal(t, calculator.SolverGreedy, alloc.Solver)
		}
	})
}
