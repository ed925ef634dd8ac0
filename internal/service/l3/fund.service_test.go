package l3_service

import (
	"context"
	"testing"

	"lsbacktest/internal/domain"
	"lsbacktest/internal/repository"
	mock_repository "lsbacktest/internal/repository/mocks"
	"lsbacktest/internal/util"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestFundService_Aggregate(t *testing.T) {
	ctrl := gomock.NewController(t)
	tradeBookingRepository := mock_repository.NewMockTradeBookingRepository(ctrl)
	svc := NewFundService(tradeBookingRepository)

	d1 := util.NewDate(2024, 1, 5)
	d2 := util.NewDate(2024, 1, 12)
	trades := []domain.Trade{
		{Strategy: "Mom_RoC", Ticker: "AAPL", Shares: 10, Direction: domain.TradeDirection_Long, TradeOpenDate: d1, TradeOpenPrice: 100, TradeCloseDate: &d2, TradeClosePrice: util.FloatPointer(110)},
		{Strategy: "MinVol", Ticker: "AAPL", Shares: 5, Direction: domain.TradeDirection_Long, TradeOpenDate: d1, TradeOpenPrice: 100, TradeCloseDate: &d2, TradeClosePrice: util.FloatPointer(110)},
		{Strategy: "MinVol", Ticker: "MSFT", Shares: -3, Direction: domain.TradeDirection_Short, TradeOpenDate: d1, TradeOpenPrice: 300},
	}

	fund := AggregatedFundName
	tradeBookingRepository.EXPECT().
		List(gomock.Nil(), repository.TradeBookingListFilter{ExcludeStrategyName: &fund}).
		Return(trades, nil)
	tradeBookingRepository.EXPECT().
		ReplaceStrategy(gomock.Nil(), AggregatedFundName, []domain.Trade{
			{Strategy: AggregatedFundName, Ticker: "AAPL", Shares: 15, Direction: domain.TradeDirection_Long, TradeOpenDate: d1, TradeOpenPrice: 100, TradeCloseDate: &d2, TradeClosePrice: util.FloatPointer(110)},
			{Strategy: AggregatedFundName, Ticker: "MSFT", Shares: -3, Direction: domain.TradeDirection_Short, TradeOpenDate: d1, TradeOpenPrice: 300},
		}).
		Return(nil)

	result, err := svc.Aggregate(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, 2, result.NumTrades)
	require.Equal(t, map[string]int{"Mom_RoC": 1, "MinVol": 2}, result.Strategies)

	// source trades are untouched
	require.Equal(t, "Mom_RoC", trades[0].Strategy)
	require.Equal(t, 10.0, trades[0].Shares)
}

func TestFundService_Aggregate_differentCloseDates(t *testing.T) {
	ctrl := gomock.NewController(t)
	tradeBookingRepository := mock_repository.NewMockTradeBookingRepository(ctrl)
	svc := NewFundService(tradeBookingRepository)

	d1 := util.NewDate(2024, 1, 5)
	d2 := util.NewDate(2024, 1, 12)
	d3 := util.NewDate(2024, 1, 19)
	trades := []domain.Trade{
		{Strategy: "Mom_RoC", Ticker: "AAPL", Shares: 10, Direction: domain.TradeDirection_Long, TradeOpenDate: d1, TradeOpenPrice: 100, TradeCloseDate: &d3, TradeClosePrice: util.FloatPointer(120)},
		{Strategy: "MinVol", Ticker: "AAPL", Shares: 5, Direction: domain.TradeDirection_Long, TradeOpenDate: d1, TradeOpenPrice: 100, TradeCloseDate: &d2, TradeClosePrice: util.FloatPointer(110)},
		{Strategy: "Mom_RoC", Ticker: "MSFT", Shares: -3, Direction: domain.TradeDirection_Short, TradeOpenDate: d1, TradeOpenPrice: 300, TradeCloseDate: &d2, TradeClosePrice: util.FloatPointer(290)},
		{Strategy: "MinVol", Ticker: "MSFT", Shares: -2, Direction: domain.TradeDirection_Short, TradeOpenDate: d1, TradeOpenPrice: 300},
	}

	fund := AggregatedFundName
	tradeBookingRepository.EXPECT().
		List(gomock.Nil(), repository.TradeBookingListFilter{ExcludeStrategyName: &fund}).
		Return(trades, nil)
	tradeBookingRepository.EXPECT().
		ReplaceStrategy(gomock.Nil(), AggregatedFundName, []domain.Trade{
			{Strategy: AggregatedFundName, Ticker: "AAPL", Shares: 15, Direction: domain.TradeDirection_Long, TradeOpenDate: d1, TradeOpenPrice: 100, TradeCloseDate: &d3, TradeClosePrice: util.FloatPointer(120)},
			{Strategy: AggregatedFundName, Ticker: "MSFT", Shares: -5, Direction: domain.TradeDirection_Short, TradeOpenDate: d1, TradeOpenPrice: 300},
		}).
		Return(nil)

	result, err := svc.Aggregate(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, 2, result.NumTrades)

	require.Equal(t, d2, *trades[1].TradeCloseDate)
	require.Equal(t, 110.0, *trades[1].TradeClosePrice)
}
