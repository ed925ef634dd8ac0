package api

import (
	"errors"
	"fmt"
	"net/http"

	"lsbacktest/internal/app"
	"lsbacktest/internal/domain"
	l2_service "lsbacktest/internal/service/l2"
	"lsbacktest/internal/util"

	"github.com/gin-gonic/gin"
)

type buildSignalsRequest struct {
	Name         string   `json:"name" binding:"required"`
	Expression   string   `json:"expression"`
	LookbackDays int      `json:"lookbackDays"`
	Universe     []string `json:"universe" binding:"required"`
	Start        string   `json:"start" binding:"required"`
	End          string   `json:"end" binding:"required"`
	TopN         *int     `json:"topN"`
}

func (m ApiHandler) buildSignals(c *gin.Context) {
	var requestBody buildSignalsRequest
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

	generator, err := l2_service.NewSignalGenerator(l2_service.SignalConfig{
		Name:         requestBody.Name,
		Benchmark:    m.Config.BenchmarkSymbol,
		Expression:   requestBody.Expression,
		LookbackDays: requestBody.LookbackDays,
	})
	if err != nil {
		returnErrorJsonCode(err, c, http.StatusBadRequest)
		return
	}

	topN := m.Config.TopN
	if requestBody.TopN != nil {
		topN = *requestBody.TopN
	}

	result, err := m.SignalService.BuildAndStore(c.Request.Context(), l2_service.BuildSignalInput{
		Generator: generator,
		Universe:  requestBody.Universe,
		Start:     start,
		End:       end,
		TopN:      topN,
	})
	if errors.Is(err, domain.ErrInvalidDateRange) {
		returnErrorJsonCode(err, c, http.StatusBadRequest)
		return
	} else if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, result)
}

// importAum takes an AUM schedule as a CSV request body.
func (m ApiHandler) importAum(c *gin.Context) {
	records, err := app.ReadAumSchedule(c.Request.Body)
	if err != nil {
		returnErrorJsonCode(err, c, http.StatusBadRequest)
		return
	}

	if err := m.AumLeverageRepository.Add(nil, records); err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, gin.H{"numRecords": len(records)})
}

// importPrices takes date,ticker,value rows as a CSV request body.
func (m ApiHandler) importPrices(c *gin.Context) {
	quotes, err := app.ReadPrices(c.Request.Body)
	if err != nil {
		returnErrorJsonCode(err, c, http.StatusBadRequest)
		return
	}

	if err := m.PriceRepository.Add(nil, quotes); err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, gin.H{"numPrices": len(quotes)})
}
