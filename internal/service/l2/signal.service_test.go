package l2_service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"lsbacktest/internal/domain"
	mock_repository "lsbacktest/internal/repository/mocks"
	l1_service "lsbacktest/internal/service/l1"
	"lsbacktest/internal/util"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestSignalService_BuildAndStore(t *testing.T) {
	start := util.NewDate(2024, 1, 8)
	end := util.NewDate(2024, 1, 12)
	friday := util.NewDate(2024, 1, 12)

	t.Run("stores friday weights", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		adjPriceRepository := mock_repository.NewMockAdjustedPriceRepository(ctrl)
		alphaScoreRepository := mock_repository.NewMockAlphaScoreRepository(ctrl)
		svc := NewSignalService(l1_service.NewPriceService(adjPriceRepository), alphaScoreRepository)

		adjPriceRepository.EXPECT().
			ListRange(gomock.Nil(), []string{"AAPL", "MSFT", "GOOGL"}, util.NewDate(2023, 12, 29), end).
			Return([]domain.PriceQuote{
				{Ticker: "AAPL", Date: friday, Price: 100},
				{Ticker: "MSFT", Date: friday, Price: 300},
				{Ticker: "GOOGL", Date: friday, Price: 50},
			}, nil)

		expected := []domain.AlphaScore{
			{Date: friday, Strategy: "PriceLevel", Ticker: "MSFT", Direction: domain.TradeDirection_Long, Weight: 1, Score: 300},
			{Date: friday, Strategy: "PriceLevel", Ticker: "GOOGL", Direction: domain.TradeDirection_Short, Weight: 1, Score: 50},
		}
		alphaScoreRepository.EXPECT().
			ReplaceRange(gomock.Nil(), "PriceLevel", start, end, gomock.Any()).
			DoAndReturn(func(_ *sql.Tx, _ string, _, _ time.Time, rows []domain.AlphaScore) error {
				require.Equal(t, "", cmp.Diff(expected, rows))
				return nil
			})

		result, err := svc.BuildAndStore(context.Background(), BuildSignalInput{
			Generator: NewExpressionSignal("PriceLevel", "price(currentDate)", 10),
			Universe:  []string{"AAPL", "MSFT", "GOOGL"},
			Start:     start,
			End:       end,
			TopN:      1,
		})
		require.NoError(t, err)
		require.Equal(t, 1, result.NumDates)
		require.Equal(t, 2, result.NumScores)
		require.Empty(t, result.SkippedDates)
	})

	t.Run("invalid range", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := NewSignalService(
			l1_service.NewPriceService(mock_repository.NewMockAdjustedPriceRepository(ctrl)),
			mock_repository.NewMockAlphaScoreRepository(ctrl),
		)
		_, err := svc.BuildAndStore(context.Background(), BuildSignalInput{
			Generator: NewMomentumSignal(),
			Start:     end,
			End:       start,
		})
		require.ErrorIs(t, err, domain.ErrInvalidDateRange)
	})
}
