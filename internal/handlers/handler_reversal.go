package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	portssvc "github.com/zayyadi/paroll-sub000/internal/core/ports/services"
	"github.com/zayyadi/paroll-sub000/internal/core/services"
	"github.com/zayyadi/paroll-sub000/internal/dto"
	"github.com/zayyadi/paroll-sub000/internal/middleware"

	"github.com/gin-gonic/gin"
)

// reversalHandler handles HTTP requests that offset posted journals.
type reversalHandler struct {
	reversalService portssvc.ReversalSvc
}

// newReversalHandler creates a new reversalHandler.
func newReversalHandler(rs portssvc.ReversalSvc) *reversalHandler {
	return &reversalHandler{
		reversalService: rs,
	}
}

// registerReversalRoutes registers the reversal routes under /journals.
func registerReversalRoutes(rg *gin.RouterGroup, reversalService portssvc.ReversalSvc) {
	h := newReversalHandler(reversalService)

	journals := rg.Group("/journals")
	{
		journals.POST("/batch-reverse", h.batchReverse)
		journals.POST("/:journal_id/reverse", h.reverseJournal)
		journals.POST("/:journal_id/reverse-partial", h.reversePartial)
		journals.POST("/:journal_id/reverse-correct", h.reverseWithCorrection)
	}
}

// reverseJournal godoc
// @Summary Reverse a posted journal
// @Description Creates and posts a new journal with every entry flipped, marking the original REVERSED with links in both directions
// @Tags reversals
// @Accept  json
// @Produce  json
// @Param   journal_id path string true "Journal ID"
// @Param   reversal body dto.ReverseJournalRequest true "Reversal reason and optional date"
// @Success 201 {object} dto.JournalResponse
// @Failure 400 {object} ErrorResponse "Reversal date falls in a closed period"
// @Failure 403 {object} ErrorResponse "Caller may not reverse journals"
// @Failure 404 {object} ErrorResponse "Journal not found"
// @Failure 409 {object} ErrorResponse "Journal is not POSTED or already reversed"
// @Failure 500 {object} ErrorResponse "Failed to reverse journal"
// @Security BearerAuth
// @Router /journals/{journal_id}/reverse [post]
func (h *reversalHandler) reverseJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalID := c.Param("journal_id")

	var req dto.ReverseJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	actx := middleware.ActionContextFromRequest(c)
	logger.Info("Received request to reverse journal", slog.String("journal_id", journalID))

	reversal, err := h.reversalService.ReverseJournal(c.Request.Context(), actx, journalID, req)
	if err != nil {
		respondServiceError(c, err, "Failed to reverse journal")
		return
	}

	c.JSON(http.StatusCreated, dto.ToJournalResponse(reversal))
}

// reversePartial godoc
// @Summary Partially reverse a posted journal
// @Description Offsets a subset of a posted journal's entries at full or reduced amounts; the original stays POSTED
// @Tags reversals
// @Accept  json
// @Produce  json
// @Param   journal_id path string true "Journal ID"
// @Param   reversal body dto.PartialReversalRequest true "Entry selection, reason, and optional date"
// @Success 201 {object} dto.JournalResponse
// @Failure 400 {object} ErrorResponse "Unknown entry, amount above the original, or closed period"
// @Failure 403 {object} ErrorResponse "Caller may not reverse journals"
// @Failure 404 {object} ErrorResponse "Journal not found"
// @Failure 409 {object} ErrorResponse "Journal is not POSTED"
// @Failure 500 {object} ErrorResponse "Failed to reverse journal"
// @Security BearerAuth
// @Router /journals/{journal_id}/reverse-partial [post]
func (h *reversalHandler) reversePartial(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalID := c.Param("journal_id")

	var req dto.PartialReversalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	actx := middleware.ActionContextFromRequest(c)
	logger.Info("Received request to partially reverse journal",
		slog.String("journal_id", journalID),
		slog.Int("entry_id_count", len(req.EntryIDs)),
		slog.Int("amount_count", len(req.Amounts)),
	)

	reversal, err := h.reversalService.ReverseJournalPartial(c.Request.Context(), actx, journalID, req)
	if err != nil {
		respondServiceError(c, err, "Failed to reverse journal")
		return
	}

	c.JSON(http.StatusCreated, dto.ToJournalResponse(reversal))
}

// reverseWithCorrection godoc
// @Summary Reverse a posted journal and post a correction
// @Description Fully reverses the journal, then posts an independent correction journal built from the supplied entries
// @Tags reversals
// @Accept  json
// @Produce  json
// @Param   journal_id path string true "Journal ID"
// @Param   reversal body dto.ReverseWithCorrectionRequest true "Reason, optional date, and correction entries"
// @Success 201 {object} dto.ReverseWithCorrectionResponse
// @Failure 400 {object} ErrorResponse "Correction entries do not balance or period closed"
// @Failure 403 {object} ErrorResponse "Caller may not reverse journals"
// @Failure 404 {object} ErrorResponse "Journal not found"
// @Failure 409 {object} ErrorResponse "Journal is not POSTED or already reversed"
// @Failure 500 {object} ErrorResponse "Failed to reverse journal"
// @Security BearerAuth
// @Router /journals/{journal_id}/reverse-correct [post]
func (h *reversalHandler) reverseWithCorrection(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalID := c.Param("journal_id")

	var req dto.ReverseWithCorrectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	actx := middleware.ActionContextFromRequest(c)
	logger.Info("Received request to reverse journal with correction",
		slog.String("journal_id", journalID),
		slog.Int("correction_entry_count", len(req.CorrectionEntries)),
	)

	reversal, correction, err := h.reversalService.ReverseJournalWithCorrection(c.Request.Context(), actx, journalID, req)
	if err != nil {
		// The reversal may have completed before the correction failed.
		// The caller has to inspect the original journal to find out.
		respondServiceError(c, err, "Failed to reverse journal with correction")
		return
	}

	c.JSON(http.StatusCreated, dto.ReverseWithCorrectionResponse{
		Reversal:   dto.ToJournalResponse(reversal),
		Correction: dto.ToJournalResponse(correction),
	})
}

// batchReverse godoc
// @Summary Reverse a batch of posted journals
// @Description Attempts a full reversal of every listed journal independently; failures never abort the batch. A mixed outcome returns 207 with both lists.
// @Tags reversals
// @Accept  json
// @Produce  json
// @Param   batch body dto.BatchReverseRequest true "Journal IDs and shared reason"
// @Success 200 {object} dto.BatchReverseResponse "All journals reversed"
// @Success 207 {object} dto.BatchReverseResponse "Some journals could not be reversed"
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 500 {object} ErrorResponse "Failed to run batch reversal"
// @Security BearerAuth
// @Router /journals/batch-reverse [post]
func (h *reversalHandler) batchReverse(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.BatchReverseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	actx := middleware.ActionContextFromRequest(c)
	logger.Info("Received request to batch reverse journals", slog.Int("journal_count", len(req.JournalIDs)))

	result, err := h.reversalService.BatchReverseJournals(c.Request.Context(), actx, req)
	if err != nil {
		var batchErr *services.BatchReversalError
		if errors.As(err, &batchErr) && result != nil {
			logger.Warn("Batch reversal completed with failures",
				slog.Int("succeeded", len(result.Succeeded)),
				slog.Int("failed", len(result.Failed)),
			)
			c.JSON(http.StatusMultiStatus, dto.ToBatchReverseResponse(result))
			return
		}
		respondServiceError(c, err, "Failed to run batch reversal")
		return
	}

	c.JSON(http.StatusOK, dto.ToBatchReverseResponse(result))
}
