package api

import (
	"fmt"
	"net/http"

	"lsbacktest/internal/app"
	"lsbacktest/internal/calculator"
	"lsbacktest/internal/domain"
	"lsbacktest/internal/repository"

	"github.com/gin-gonic/gin"
)

type tradeResponse struct {
	Strategy        string   `json:"strategy"`
	Ticker          string   `json:"ticker"`
	Shares          float64  `json:"shares"`
	Direction       string   `json:"direction"`
	TradeOpenDate   string   `json:"tradeOpenDate"`
	TradeOpenPrice  float64  `json:"tradeOpenPrice"`
	TradeCloseDate  *string  `json:"tradeCloseDate"`
	TradeClosePrice *float64 `json:"tradeClosePrice"`
}

func (m ApiHandler) listTradesForRequest(c *gin.Context) ([]domain.Trade, error) {
	filter := repository.TradeBookingListFilter{}
	if s := c.Query("strategy"); s != "" {
		filter.StrategyName = &s
	}

	start, err := parseDateParam(c.Query("start"))
	if err != nil {
		return nil, err
	}
	end, err := parseDateParam(c.Query("end"))
	if err != nil {
		return nil, err
	}
	filter.StartDate = start
	filter.EndDate = end

	return m.TradeBookingRepository.List(nil, filter)
}

// listTrades serves the ledger as JSON, or as CSV with format=csv.
func (m ApiHandler) listTrades(c *gin.Context) {
	trades, err := m.listTradesForRequest(c)
	if err != nil {
		returnErrorJsonCode(err, c, http.StatusBadRequest)
		return
	}

	if c.Query("format") == "csv" {
		c.Header("Content-Type", "text/csv")
		c.Status(200)
		if err := app.WriteTrades(c.Writer, trades); err != nil {
			returnErrorJson(err, c)
		}
		return
	}

	out := make([]tradeResponse, 0, len(trades))
	for _, t := range trades {
		r := tradeResponse{
			Strategy:        t.Strategy,
			Ticker:          t.Ticker,
			Shares:          t.Shares,
			Direction:       t.Direction.String(),
			TradeOpenDate:   t.TradeOpenDate.Format("2006-01-02"),
			TradeOpenPrice:  t.TradeOpenPrice,
			TradeClosePrice: t.TradeClosePrice,
		}
		if t.TradeCloseDate != nil {
			d := t.TradeCloseDate.Format("2006-01-02")
			r.TradeCloseDate = &d
		}
		out = append(out, r)
	}

	c.JSON(200, out)
}

func (m ApiHandler) summary(c *gin.Context) {
	strategy := c.Query("strategy")
	if strategy == "" {
		returnErrorJsonCode(fmt.Errorf("strategy is required"), c, http.StatusBadRequest)
		return
	}

	trades, err := m.listTradesForRequest(c)
	if err != nil {
		returnErrorJsonCode(err, c, http.StatusBadRequest)
		return
	}

	result, err := calculator.SummarizeTrades(strategy, trades)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, result)
}
