package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-jet/jet/v2/qrm"
	"github.com/google/uuid"
)

func (m ApiHandler) listRuns(c *gin.Context) {
	var strategy *string
	if s := c.Query("strategy"); s != "" {
		strategy = &s
	}

	runs, err := m.BacktestRunRepository.List(strategy)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, runs)
}

func (m ApiHandler) getRun(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		returnErrorJsonCode(fmt.Errorf("invalid run id: %w", err), c, http.StatusBadRequest)
		return
	}

	run, err := m.BacktestRunRepository.Get(id)
	if errors.Is(err, qrm.ErrNoRows) {
		returnErrorJsonCode(fmt.Errorf("run %s not found", id), c, http.StatusNotFound)
		return
	} else if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, run)
}
