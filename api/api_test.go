package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lsbacktest/internal/domain"
	"lsbacktest/internal/repository"
	mock_repository "lsbacktest/internal/repository/mocks"
	"lsbacktest/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/go-jet/jet/v2/qrm"
	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestApiHandler(t *testing.T) (ApiHandler, *mock_repository.MockTradeBookingRepository, *mock_repository.MockBacktestRunRepository) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	tradeBookingRepository := mock_repository.NewMockTradeBookingRepository(ctrl)
	backtestRunRepository := mock_repository.NewMockBacktestRunRepository(ctrl)
	return ApiHandler{
		TradeBookingRepository: tradeBookingRepository,
		BacktestRunRepository:  backtestRunRepository,
		JwtDecodeToken:         testSecret,
	}, tradeBookingRepository, backtestRunRepository
}

func testTrades() []domain.Trade {
	closeDate := util.NewDate(2024, 1, 12)
	return []domain.Trade{
		{Strategy: "Mom_RoC", Ticker: "AAPL", Shares: 10, Direction: domain.TradeDirection_Long, TradeOpenDate: util.NewDate(2024, 1, 5), TradeOpenPrice: 100, TradeCloseDate: &closeDate, TradeClosePrice: util.FloatPointer(110)},
		{Strategy: "Mom_RoC", Ticker: "MSFT", Shares: -5, Direction: domain.TradeDirection_Short, TradeOpenDate: util.NewDate(2024, 1, 5), TradeOpenPrice: 200, TradeCloseDate: &closeDate, TradeClosePrice: util.FloatPointer(190)},
	}
}

func TestApiHandler_listTrades(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		h, tradeBookingRepository, _ := newTestApiHandler(t)
		strategy := "Mom_RoC"
		start := util.NewDate(2024, 1, 1)
		tradeBookingRepository.EXPECT().
			List(gomock.Nil(), repository.TradeBookingListFilter{StrategyName: &strategy, StartDate: &start}).
			Return(testTrades(), nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/trades?strategy=Mom_RoC&start=2024-01-01", nil)
		h.InitializeRouterEngine().ServeHTTP(w, req)

		require.Equal(t, 200, w.Code)
		require.JSONEq(t, `[
			{"strategy":"Mom_RoC","ticker":"AAPL","shares":10,"direction":"Long","tradeOpenDate":"2024-01-05","tradeOpenPrice":100,"tradeCloseDate":"2024-01-12","tradeClosePrice":110},
			{"strategy":"Mom_RoC","ticker":"MSFT","shares":-5,"direction":"Short","tradeOpenDate":"2024-01-05","tradeOpenPrice":200,"tradeCloseDate":"2024-01-12","tradeClosePrice":190}
		]`, w.Body.String())
	})

	t.Run("csv", func(t *testing.T) {
		h, tradeBookingRepository, _ := newTestApiHandler(t)
		tradeBookingRepository.EXPECT().
			List(gomock.Nil(), repository.TradeBookingListFilter{}).
			Return(testTrades()[:1], nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/trades?format=csv", nil)
		h.InitializeRouterEngine().ServeHTTP(w, req)

		require.Equal(t, 200, w.Code)
		require.Equal(t, "text/csv", w.Header().Get("Content-Type"))
		lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
		require.Len(t, lines, 2)
		require.Equal(t, "Mom_RoC,AAPL,10,Long,2024-01-05,100,2024-01-12,110", lines[1])
	})

	t.Run("bad date", func(t *testing.T) {
		h, _, _ := newTestApiHandler(t)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/trades?start=01-05-2024", nil)
		h.InitializeRouterEngine().ServeHTTP(w, req)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestApiHandler_summary(t *testing.T) {
	h, tradeBookingRepository, _ := newTestApiHandler(t)
	strategy := "Mom_RoC"
	tradeBookingRepository.EXPECT().
		List(gomock.Nil(), repository.TradeBookingListFilter{StrategyName: &strategy}).
		Return(testTrades(), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/summary?strategy=Mom_RoC", nil)
	h.InitializeRouterEngine().ServeHTTP(w, req)

	require.Equal(t, 200, w.Code)
	require.Contains(t, w.Body.String(), `"strategy":"Mom_RoC"`)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/summary", nil)
	h.InitializeRouterEngine().ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestApiHandler_getRun(t *testing.T) {
	h, _, backtestRunRepository := newTestApiHandler(t)
	id := uuid.New()
	backtestRunRepository.EXPECT().
		Get(id).
		Return(nil, qrm.ErrNoRows)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/runs/"+id.String(), nil)
	h.InitializeRouterEngine().ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/runs/not-a-uuid", nil)
	h.InitializeRouterEngine().ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestApiHandler_backtestRequiresAuth(t *testing.T) {
	h, _, _ := newTestApiHandler(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/backtest", strings.NewReader(`{"start":"2024-01-05","end":"2024-02-01"}`))
	h.InitializeRouterEngine().ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	token := signToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/backtest", strings.NewReader(`{"start":"2024-02-01","end":"2024-01-05"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	h.InitializeRouterEngine().ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
