package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	portssvc "github.com/zayyadi/paroll-sub000/internal/core/ports/services"
	"github.com/zayyadi/paroll-sub000/internal/dto"
	"github.com/zayyadi/paroll-sub000/internal/middleware"

	"github.com/gin-gonic/gin"
)

// fiscalHandler handles HTTP requests for fiscal years and accounting periods.
type fiscalHandler struct {
	fiscalService portssvc.FiscalSvcFacade
}

// newFiscalHandler creates a new fiscalHandler.
func newFiscalHandler(fs portssvc.FiscalSvcFacade) *fiscalHandler {
	return &fiscalHandler{
		fiscalService: fs,
	}
}

// registerFiscalRoutes registers routes for the fiscal calendar.
func registerFiscalRoutes(rg *gin.RouterGroup, fiscalService portssvc.FiscalSvcFacade) {
	h := newFiscalHandler(fiscalService)

	years := rg.Group("/fiscal-years")
	{
		years.POST("", h.createFiscalYear)
		years.GET("", h.listFiscalYears)
		years.GET("/:fiscal_year_id", h.getFiscalYear)
		years.POST("/:fiscal_year_id/close", h.closeFiscalYear)
		years.GET("/:fiscal_year_id/periods", h.listPeriods)
		years.POST("/:fiscal_year_id/periods", h.createPeriod)
		years.POST("/:fiscal_year_id/periods/generate", h.generateMonthlyPeriods)
	}

	periods := rg.Group("/periods")
	{
		periods.GET("/:period_id", h.getPeriod)
		periods.POST("/:period_id/close", h.closePeriod)
		periods.POST("/:period_id/reopen", h.reopenPeriod)
	}
}

// createFiscalYear godoc
// @Summary Create a fiscal year
// @Description Creates a fiscal year; re-submitting an identical range for an existing year returns that year
// @Tags fiscal
// @Accept  json
// @Produce  json
// @Param   fiscalYear body dto.CreateFiscalYearRequest true "Fiscal year details"
// @Success 201 {object} dto.FiscalYearResponse
// @Failure 400 {object} ErrorResponse "Invalid or overlapping date range"
// @Failure 409 {object} ErrorResponse "Year exists with a different range"
// @Failure 500 {object} ErrorResponse "Failed to create fiscal year"
// @Security BearerAuth
// @Router /fiscal-years [post]
func (h *fiscalHandler) createFiscalYear(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateFiscalYearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for create fiscal year request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	actx := middleware.ActionContextFromRequest(c)
	logger.Info("Received request to create fiscal year", slog.Int("year", req.Year))

	fiscalYear, err := h.fiscalService.CreateFiscalYear(c.Request.Context(), actx, req)
	if err != nil {
		respondServiceError(c, err, "Failed to create fiscal year")
		return
	}

	c.JSON(http.StatusCreated, dto.ToFiscalYearResponse(fiscalYear))
}

// listFiscalYears godoc
// @Summary List fiscal years
// @Description Retrieves all fiscal years ordered by year
// @Tags fiscal
// @Produce  json
// @Success 200 {array} dto.FiscalYearResponse
// @Failure 500 {object} ErrorResponse "Failed to list fiscal years"
// @Security BearerAuth
// @Router /fiscal-years [get]
func (h *fiscalHandler) listFiscalYears(c *gin.Context) {
	years, err := h.fiscalService.ListFiscalYears(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to list fiscal years")
		return
	}

	c.JSON(http.StatusOK, dto.ToFiscalYearResponses(years))
}

// getFiscalYear godoc
// @Summary Get fiscal year by ID
// @Description Retrieves details for a specific fiscal year
// @Tags fiscal
// @Produce  json
// @Param   fiscal_year_id path string true "Fiscal Year ID"
// @Success 200 {object} dto.FiscalYearResponse
// @Failure 404 {object} ErrorResponse "Fiscal year not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve fiscal year"
// @Security BearerAuth
// @Router /fiscal-years/{fiscal_year_id} [get]
func (h *fiscalHandler) getFiscalYear(c *gin.Context) {
	fiscalYearID := c.Param("fiscal_year_id")

	fiscalYear, err := h.fiscalService.GetFiscalYearByID(c.Request.Context(), fiscalYearID)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve fiscal year")
		return
	}

	c.JSON(http.StatusOK, dto.ToFiscalYearResponse(fiscalYear))
}

// closeFiscalYear godoc
// @Summary Close a fiscal year
// @Description Closes a fiscal year once all of its periods are closed
// @Tags fiscal
// @Accept  json
// @Produce  json
// @Param   fiscal_year_id path string true "Fiscal Year ID"
// @Param   close body dto.CloseRequest false "Optional close reason"
// @Success 200 {object} dto.FiscalYearResponse
// @Failure 400 {object} ErrorResponse "Open periods remain"
// @Failure 403 {object} ErrorResponse "Caller may not close fiscal years"
// @Failure 404 {object} ErrorResponse "Fiscal year not found"
// @Failure 409 {object} ErrorResponse "Fiscal year already closed"
// @Failure 500 {object} ErrorResponse "Failed to close fiscal year"
// @Security BearerAuth
// @Router /fiscal-years/{fiscal_year_id}/close [post]
func (h *fiscalHandler) closeFiscalYear(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fiscalYearID := c.Param("fiscal_year_id")

	var req dto.CloseRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	actx := middleware.ActionContextFromRequest(c)
	logger.Info("Received request to close fiscal year", slog.String("fiscal_year_id", fiscalYearID))

	fiscalYear, err := h.fiscalService.CloseFiscalYear(c.Request.Context(), actx, fiscalYearID, req.Reason)
	if err != nil {
		respondServiceError(c, err, "Failed to close fiscal year")
		return
	}

	c.JSON(http.StatusOK, dto.ToFiscalYearResponse(fiscalYear))
}

// listPeriods godoc
// @Summary List accounting periods
// @Description Retrieves a fiscal year's periods ordered by period number
// @Tags fiscal
// @Produce  json
// @Param   fiscal_year_id path string true "Fiscal Year ID"
// @Success 200 {array} dto.PeriodResponse
// @Failure 404 {object} ErrorResponse "Fiscal year not found"
// @Failure 500 {object} ErrorResponse "Failed to list periods"
// @Security BearerAuth
// @Router /fiscal-years/{fiscal_year_id}/periods [get]
func (h *fiscalHandler) listPeriods(c *gin.Context) {
	fiscalYearID := c.Param("fiscal_year_id")

	periods, err := h.fiscalService.ListPeriods(c.Request.Context(), fiscalYearID)
	if err != nil {
		respondServiceError(c, err, "Failed to list periods")
		return
	}

	c.JSON(http.StatusOK, dto.ToPeriodResponses(periods))
}

// createPeriod godoc
// @Summary Create an accounting period
// @Description Creates a period inside a fiscal year; an identical re-submission returns the existing period
// @Tags fiscal
// @Accept  json
// @Produce  json
// @Param   fiscal_year_id path string true "Fiscal Year ID"
// @Param   period body dto.CreatePeriodRequest true "Period details"
// @Success 201 {object} dto.PeriodResponse
// @Failure 400 {object} ErrorResponse "Range outside year or overlapping a sibling"
// @Failure 404 {object} ErrorResponse "Fiscal year not found"
// @Failure 409 {object} ErrorResponse "Period number exists with a different range"
// @Failure 500 {object} ErrorResponse "Failed to create period"
// @Security BearerAuth
// @Router /fiscal-years/{fiscal_year_id}/periods [post]
func (h *fiscalHandler) createPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fiscalYearID := c.Param("fiscal_year_id")

	var req dto.CreatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for create period request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	actx := middleware.ActionContextFromRequest(c)
	logger.Info("Received request to create period",
		slog.String("fiscal_year_id", fiscalYearID),
		slog.Int("period_number", req.PeriodNumber),
	)

	period, err := h.fiscalService.CreatePeriod(c.Request.Context(), actx, fiscalYearID, req)
	if err != nil {
		respondServiceError(c, err, "Failed to create period")
		return
	}

	c.JSON(http.StatusCreated, dto.ToPeriodResponse(period))
}

// generateMonthlyPeriods godoc
// @Summary Generate monthly periods
// @Description Creates calendar-month periods covering the fiscal year, skipping months that already exist
// @Tags fiscal
// @Produce  json
// @Param   fiscal_year_id path string true "Fiscal Year ID"
// @Success 201 {array} dto.PeriodResponse
// @Failure 404 {object} ErrorResponse "Fiscal year not found"
// @Failure 409 {object} ErrorResponse "Fiscal year closed"
// @Failure 500 {object} ErrorResponse "Failed to generate periods"
// @Security BearerAuth
// @Router /fiscal-years/{fiscal_year_id}/periods/generate [post]
func (h *fiscalHandler) generateMonthlyPeriods(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fiscalYearID := c.Param("fiscal_year_id")

	actx := middleware.ActionContextFromRequest(c)
	logger.Info("Received request to generate monthly periods", slog.String("fiscal_year_id", fiscalYearID))

	periods, err := h.fiscalService.GenerateMonthlyPeriods(c.Request.Context(), actx, fiscalYearID)
	if err != nil {
		respondServiceError(c, err, "Failed to generate periods")
		return
	}

	c.JSON(http.StatusCreated, dto.ToPeriodResponses(periods))
}

// getPeriod godoc
// @Summary Get period by ID
// @Description Retrieves details for a specific accounting period
// @Tags fiscal
// @Produce  json
// @Param   period_id path string true "Period ID"
// @Success 200 {object} dto.PeriodResponse
// @Failure 404 {object} ErrorResponse "Period not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve period"
// @Security BearerAuth
// @Router /periods/{period_id} [get]
func (h *fiscalHandler) getPeriod(c *gin.Context) {
	periodID := c.Param("period_id")

	period, err := h.fiscalService.GetPeriodByID(c.Request.Context(), periodID)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve period")
		return
	}

	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

// closePeriod godoc
// @Summary Close an accounting period
// @Description Closes a period so it rejects further journal creation and posting
// @Tags fiscal
// @Accept  json
// @Produce  json
// @Param   period_id path string true "Period ID"
// @Param   close body dto.CloseRequest false "Optional close reason"
// @Success 200 {object} dto.PeriodResponse
// @Failure 403 {object} ErrorResponse "Caller may not close periods"
// @Failure 404 {object} ErrorResponse "Period not found"
// @Failure 409 {object} ErrorResponse "Period already closed"
// @Failure 500 {object} ErrorResponse "Failed to close period"
// @Security BearerAuth
// @Router /periods/{period_id}/close [post]
func (h *fiscalHandler) closePeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	periodID := c.Param("period_id")

	var req dto.CloseRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	actx := middleware.ActionContextFromRequest(c)
	logger.Info("Received request to close period", slog.String("period_id", periodID))

	period, err := h.fiscalService.ClosePeriod(c.Request.Context(), actx, periodID, req.Reason)
	if err != nil {
		respondServiceError(c, err, "Failed to close period")
		return
	}

	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

// reopenPeriod godoc
// @Summary Reopen an accounting period
// @Description Clears a period's closure while the parent fiscal year is still open
// @Tags fiscal
// @Accept  json
// @Produce  json
// @Param   period_id path string true "Period ID"
// @Param   reopen body dto.CloseRequest false "Optional reopen reason"
// @Success 200 {object} dto.PeriodResponse
// @Failure 403 {object} ErrorResponse "Caller may not reopen periods"
// @Failure 404 {object} ErrorResponse "Period not found"
// @Failure 409 {object} ErrorResponse "Parent fiscal year closed"
// @Failure 500 {object} ErrorResponse "Failed to reopen period"
// @Security BearerAuth
// @Router /periods/{period_id}/reopen [post]
func (h *fiscalHandler) reopenPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	periodID := c.Param("period_id")

	var req dto.CloseRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	actx := middleware.ActionContextFromRequest(c)
	logger.Info("Received request to reopen period", slog.String("period_id", periodID))

	period, err := h.fiscalService.ReopenPeriod(c.Request.Context(), actx, periodID, req.Reason)
	if err != nil {
		respondServiceError(c, err, "Failed to reopen period")
		return
	}

	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}
