package api

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"lsbacktest/internal/app"
	"lsbacktest/internal/logger"
	"lsbacktest/internal/repository"
	l2_service "lsbacktest/internal/service/l2"
	l3_service "lsbacktest/internal/service/l3"
	"lsbacktest/internal/util"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type ApiHandler struct {
	Db                     *sql.DB
	BacktestRunner         app.BacktestRunner
	SignalService          l2_service.SignalService
	FundService            l3_service.FundService
	TradeBookingRepository repository.TradeBookingRepository
	BacktestRunRepository  repository.BacktestRunRepository
	AumLeverageRepository  repository.AumLeverageRepository
	PriceRepository        repository.AdjustedPriceRepository
	Config                 util.BacktestConfig
	// JwtDecodeToken signs tokens for the mutating routes. Leaving it
	// empty turns auth off, which is only meant for local runs.
	JwtDecodeToken         string
}

func (m ApiHandler) InitializeRouterEngine() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.Default())
	router.Use(logRequestMiddleware)

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(200, map[string]string{"message": "welcome to lsbacktest"})
	})
	router.GET("/runs", m.listRuns)
	router.GET("/runs/:id", m.getRun)
	router.GET("/trades", m.listTrades)
	router.GET("/summary", m.summary)

	authed := router.Group("/")
	authed.Use(authMiddleware(m.JwtDecodeToken))
	authed.POST("/backtest", m.backtest)
	authed.POST("/aggregate", m.aggregate)
	authed.POST("/signals", m.buildSignals)
	authed.POST("/aum", m.importAum)
	authed.POST("/prices", m.importPrices)

	return router
}

func (m ApiHandler) StartApi(port int) error {
	return m.InitializeRouterEngine().Run(fmt.Sprintf(":%d", port))
}

func returnErrorJson(err error, c *gin.Context) {
	returnErrorJsonCode(err, c, http.StatusInternalServerError)
}

func returnErrorJsonCode(err error, c *gin.Context, code int) {
	logger.FromContext(c.Request.Context()).Errorw(err.Error(), "status", code)
	c.AbortWithStatusJSON(code, gin.H{
		"error": err.Error(),
	})
}

func logRequestMiddleware(c *gin.Context) {
	start := time.Now()
	ctx := logger.WithFields(
		c.Request.Context(),
		"method", c.Request.Method,
		"route", c.Request.URL.Path,
	)
	c.Request = c.Request.WithContext(ctx)

	c.Next()

	logger.FromContext(ctx).Infow(
		"handled request",
		"status", c.Writer.Status(),
		"durationMs", time.Since(start).Milliseconds(),
	)
}

// parseDateParam reads an optional YYYY-MM-DD value.
func parseDateParam(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := util.ParseDate(s)
	if err != nil {
		return nil, fmt.Errorf("failed to parse date %q: %w", s, err)
	}
	return &d, nil
}
