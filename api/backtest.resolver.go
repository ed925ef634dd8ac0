package api

import (
	"fmt"
	"net/http"

	"lsbacktest/internal/app"
	"lsbacktest/internal/util"

	"github.com/gin-gonic/gin"
)

type backtestRequest struct {
	Strategies []string `json:"strategies"`
	Start      string   `json:"start" binding:"required"`
	End        string   `json:"end" binding:"required"`
	Aggregate  bool     `json:"aggregate"`
	FundName   string   `json:"fundName"`
}

func (m ApiHandler) backtest(c *gin.Context) {
	var requestBody backtestRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(fmt.Errorf("failed to read request body: %w", err), c, http.StatusBadRequest)
		return
	}

	start, err := util.ParseDate(requestBody.Start)
	if err != nil {
		returnErrorJsonCode(err, c, http.StatusBadRequest)
		return
	}
	end, err := util.ParseDate(requestBody.End)
	if err != nil {
		returnErrorJsonCode(err, c, http.StatusBadRequest)
		return
	}
	if end.Before(start) {
		returnErrorJsonCode(fmt.Errorf("end %s is before start %s", requestBody.End, requestBody.Start), c, http.StatusBadRequest)
		return
	}

	result, err := m.BacktestRunner.Run(c.Request.Context(), app.RunBacktestsInput{
		Strategies: requestBody.Strategies,
		Start:      start,
		End:        end,
		Aggregate:  requestBody.Aggregate,
		FundName:   requestBody.FundName,
	})
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, result)
}

type aggregateRequest struct {
	FundName string `json:"fundName"`
}

func (m ApiHandler) aggregate(c *gin.Context) {
	var requestBody aggregateRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(fmt.Errorf("failed to read request body: %w", err), c, http.StatusBadRequest)
		return
	}

	result, err := m.FundService.Aggregate(c.Request.Context(), requestBody.FundName)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, result)
}
