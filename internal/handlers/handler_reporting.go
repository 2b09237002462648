package handlers

import (
	"net/http"

	portssvc "github.com/zayyadi/paroll-sub000/internal/core/ports/services"
	"github.com/zayyadi/paroll-sub000/internal/dto"

	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests for ledger reports.
type reportingHandler struct {
	reportingService portssvc.ReportingSvc
}

// newReportingHandler creates a new reportingHandler.
func newReportingHandler(rs portssvc.ReportingSvc) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// registerReportingRoutes registers routes related to ledger reports.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvc) {
	h := newReportingHandler(reportingService)

	reports := rg.Group("/reports")
	{
		reports.GET("/trial-balance", h.getTrialBalance)
		reports.GET("/general-ledger/:account_id", h.getGeneralLedger)
	}
}

// getTrialBalance godoc
// @Summary Get the trial balance
// @Description Reports per-account debit and credit totals from posted entries for a period, an as-of date, or all time
// @Tags reports
// @Produce  json
// @Param   periodID query string false "Limit to one accounting period"
// @Param   asOf query string false "Cutoff date (YYYY-MM-DD), exclusive with periodID"
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 400 {object} ErrorResponse "Both periodID and asOf supplied"
// @Failure 404 {object} ErrorResponse "Period not found"
// @Failure 500 {object} ErrorResponse "Failed to build trial balance"
// @Security BearerAuth
// @Router /reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	var params dto.TrialBalanceParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	trialBalance, err := h.reportingService.GetTrialBalance(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, err, "Failed to build trial balance")
		return
	}

	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(trialBalance))
}

// getGeneralLedger godoc
// @Summary Get an account's general ledger
// @Description Lists an account's posted entries chronologically with opening, running, and closing balances
// @Tags reports
// @Produce  json
// @Param   account_id path string true "Account ID"
// @Param   periodID query string false "Limit to one accounting period"
// @Param   from query string false "Start date (YYYY-MM-DD)"
// @Param   to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} dto.GeneralLedgerResponse
// @Failure 400 {object} ErrorResponse "Invalid window"
// @Failure 404 {object} ErrorResponse "Account not found"
// @Failure 500 {object} ErrorResponse "Failed to build general ledger"
// @Security BearerAuth
// @Router /reports/general-ledger/{account_id} [get]
func (h *reportingHandler) getGeneralLedger(c *gin.Context) {
	accountID := c.Param("account_id")

	var params dto.GeneralLedgerParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	ledger, err := h.reportingService.GetGeneralLedger(c.Request.Context(), accountID, params)
	if err != nil {
		respondServiceError(c, err, "Failed to build general ledger")
		return
	}

	c.JSON(http.StatusOK, dto.ToGeneralLedgerResponse(ledger))
}
