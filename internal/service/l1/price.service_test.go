package l1_service

import (
	"context"
	"math"
	"testing"
	"time"

	"lsbacktest/internal/domain"
	mock_repository "lsbacktest/internal/repository/mocks"
	"lsbacktest/internal/util"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func Test_NewPriceSeries(t *testing.T) {
	// Thu 2024-01-04 through Tue 2024-01-09
	days := util.BusinessDays(util.NewDate(2024, 1, 4), util.NewDate(2024, 1, 9))
	require.Len(t, days, 4)

	quotes := []domain.PriceQuote{
		{Ticker: "AAPL", Date: util.NewDate(2024, 1, 4), Price: 100},
		{Ticker: "AAPL", Date: util.NewDate(2024, 1, 8), Price: 104},
		{Ticker: "MSFT", Date: util.NewDate(2024, 1, 5), Price: 300},
	}

	series := NewPriceSeries([]string{"AAPL", "MSFT", "GOOGL"}, days, quotes)

	require.Equal(t, []float64{100, 100, 104, 104}, series.Prices["AAPL"])
	require.True(t, math.IsNaN(series.Prices["MSFT"][0]))
	require.Equal(t, []float64{300, 300, 300}, series.Prices["MSFT"][1:])
	require.Equal(t, []string{"AAPL", "MSFT"}, series.Symbols())

	price, err := series.Get("AAPL", time.Date(2024, 1, 5, 15, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Equal(t, 100.0, price)

	_, err = series.Get("MSFT", util.NewDate(2024, 1, 4))
	require.Error(t, err)
	_, err = series.Get("GOOGL", util.NewDate(2024, 1, 4))
	require.Error(t, err)
}

func TestPriceService_LoadPriceSeries(t *testing.T) {
	ctrl := gomock.NewController(t)
	adjPriceRepository := mock_repository.NewMockAdjustedPriceRepository(ctrl)
	svc := NewPriceService(adjPriceRepository)

	start := util.NewDate(2024, 1, 1)
	end := util.NewDate(2024, 1, 5)

	t.Run("loads and fills", func(t *testing.T) {
		adjPriceRepository.EXPECT().
			ListRange(gomock.Nil(), []string{"AAPL"}, start, end).
			Return([]domain.PriceQuote{{Ticker: "AAPL", Date: start, Price: 10}}, nil)

		series, err := svc.LoadPriceSeries(context.Background(), []string{"AAPL"}, start, end)
		require.NoError(t, err)
		require.Equal(t, []float64{10, 10, 10, 10, 10}, series.Prices["AAPL"])
	})

	t.Run("rejects inverted range", func(t *testing.T) {
		_, err := svc.LoadPriceSeries(context.Background(), []string{"AAPL"}, end, start)
		require.ErrorIs(t, err, domain.ErrInvalidDateRange)
	})
}
