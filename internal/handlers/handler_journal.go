package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/zayyadi/paroll-sub000/internal/core/ports/services"
	"github.com/zayyadi/paroll-sub000/internal/dto"
	"github.com/zayyadi/paroll-sub000/internal/middleware"

	"github.com/gin-gonic/gin"
)

// journalHandler handles HTTP requests for the journal lifecycle.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(js portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{
		journalService: js,
	}
}

// registerJournalRoutes registers routes for creating and moving journals
// through their lifecycle.
func registerJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	journals := rg.Group("/journals")
	{
		journals.POST("", h.createJournal)
		journals.GET("", h.listJournals)
		journals.GET("/:journal_id", h.getJournal)
		journals.POST("/:journal_id/entries", h.addEntry)
		journals.POST("/:journal_id/submit", h.submitJournal)
		journals.POST("/:journal_id/approve", h.approveJournal)
		journals.POST("/:journal_id/reject", h.rejectJournal)
		journals.POST("/:journal_id/post", h.postJournal)
	}
}

// createJournal godoc
// @Summary Create a journal
// @Description Creates a balanced journal in DRAFT, assigning its transaction number and resolving the owning period from the date when not given. Set autoPost to run submit, approve, and post in one call.
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   journal body dto.CreateJournalRequest true "Journal details"
// @Success 201 {object} dto.JournalResponse
// @Failure 400 {object} ErrorResponse "Unbalanced entries, unknown account, or closed period"
// @Failure 500 {object} ErrorResponse "Failed to create journal"
// @Security BearerAuth
// @Router /journals [post]
func (h *journalHandler) createJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for create journal request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	actx := middleware.ActionContextFromRequest(c)
	logger.Info("Received request to create journal",
		slog.Int("entry_count", len(req.Entries)),
		slog.Bool("auto_post", req.AutoPost),
	)

	journal, err := h.journalService.CreateJournal(c.Request.Context(), actx, req)
	if err != nil {
		respondServiceError(c, err, "Failed to create journal")
		return
	}

	c.JSON(http.StatusCreated, dto.ToJournalResponse(journal))
}

// listJournals godoc
// @Summary List journals
// @Description Retrieves a filtered, token-paginated list of journals
// @Tags journals
// @Produce  json
// @Param   status query string false "Filter by status"
// @Param   periodID query string false "Filter by accounting period"
// @Param   sourceKind query string false "Filter by source kind"
// @Param   sourceID query string false "Filter by source ID"
// @Param   includeEntries query bool false "Hydrate entries on each journal"
// @Param   limit query int false "Max number of journals to return" default(20)
// @Param   nextToken query string false "Pagination token from the previous page"
// @Success 200 {object} dto.ListJournalsResponse
// @Failure 400 {object} ErrorResponse "Invalid query parameters"
// @Failure 500 {object} ErrorResponse "Failed to list journals"
// @Security BearerAuth
// @Router /journals [get]
func (h *journalHandler) listJournals(c *gin.Context) {
	var params dto.ListJournalsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	page, err := h.journalService.ListJournals(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, err, "Failed to list journals")
		return
	}

	c.JSON(http.StatusOK, page)
}

// getJournal godoc
// @Summary Get journal by ID
// @Description Retrieves a journal with its entries
// @Tags journals
// @Produce  json
// @Param   journal_id path string true "Journal ID"
// @Success 200 {object} dto.JournalResponse
// @Failure 404 {object} ErrorResponse "Journal not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve journal"
// @Security BearerAuth
// @Router /journals/{journal_id} [get]
func (h *journalHandler) getJournal(c *gin.Context) {
	journalID := c.Param("journal_id")

	journal, err := h.journalService.GetJournalByID(c.Request.Context(), journalID)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve journal")
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

// addEntry godoc
// @Summary Add an entry to a draft journal
// @Description Appends one entry line to a DRAFT journal; journals past DRAFT are immutable
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   journal_id path string true "Journal ID"
// @Param   entry body dto.CreateEntryRequest true "Entry details"
// @Success 200 {object} dto.JournalResponse
// @Failure 400 {object} ErrorResponse "Unknown or inactive account"
// @Failure 404 {object} ErrorResponse "Journal not found"
// @Failure 409 {object} ErrorResponse "Journal is not in DRAFT"
// @Failure 500 {object} ErrorResponse "Failed to add entry"
// @Security BearerAuth
// @Router /journals/{journal_id}/entries [post]
func (h *journalHandler) addEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalID := c.Param("journal_id")

	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for add entry request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	actx := middleware.ActionContextFromRequest(c)
	logger.Info("Received request to add journal entry",
		slog.String("journal_id", journalID),
		slog.String("account_id", req.AccountID),
	)

	journal, err := h.journalService.AddEntry(c.Request.Context(), actx, journalID, req)
	if err != nil {
		respondServiceError(c, err, "Failed to add entry")
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

// submitJournal godoc
// @Summary Submit a journal for approval
// @Description Moves a balanced DRAFT journal to PENDING_APPROVAL
// @Tags journals
// @Produce  json
// @Param   journal_id path string true "Journal ID"
// @Success 200 {object} dto.JournalResponse
// @Failure 400 {object} ErrorResponse "Journal does not balance"
// @Failure 404 {object} ErrorResponse "Journal not found"
// @Failure 409 {object} ErrorResponse "Journal is not in DRAFT"
// @Failure 500 {object} ErrorResponse "Failed to submit journal"
// @Security BearerAuth
// @Router /journals/{journal_id}/submit [post]
func (h *journalHandler) submitJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalID := c.Param("journal_id")

	actx := middleware.ActionContextFromRequest(c)
	logger.Info("Received request to submit journal", slog.String("journal_id", journalID))

	journal, err := h.journalService.SubmitForApproval(c.Request.Context(), actx, journalID)
	if err != nil {
		respondServiceError(c, err, "Failed to submit journal")
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

// approveJournal godoc
// @Summary Approve a journal
// @Description Moves a journal to APPROVED; the creator can never approve their own journal
// @Tags journals
// @Produce  json
// @Param   journal_id path string true "Journal ID"
// @Success 200 {object} dto.JournalResponse
// @Failure 403 {object} ErrorResponse "Caller may not approve this journal"
// @Failure 404 {object} ErrorResponse "Journal not found"
// @Failure 409 {object} ErrorResponse "Journal is not awaiting approval"
// @Failure 500 {object} ErrorResponse "Failed to approve journal"
// @Security BearerAuth
// @Router /journals/{journal_id}/approve [post]
func (h *journalHandler) approveJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalID := c.Param("journal_id")

	actx := middleware.ActionContextFromRequest(c)
	logger.Info("Received request to approve journal", slog.String("journal_id", journalID))

	journal, err := h.journalService.ApproveJournal(c.Request.Context(), actx, journalID)
	if err != nil {
		respondServiceError(c, err, "Failed to approve journal")
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

// rejectJournal godoc
// @Summary Reject a journal
// @Description Moves a PENDING_APPROVAL journal to CANCELLED with a mandatory reason
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   journal_id path string true "Journal ID"
// @Param   rejection body dto.RejectJournalRequest true "Rejection reason"
// @Success 200 {object} dto.JournalResponse
// @Failure 400 {object} ErrorResponse "Missing reason"
// @Failure 403 {object} ErrorResponse "Caller may not reject this journal"
// @Failure 404 {object} ErrorResponse "Journal not found"
// @Failure 409 {object} ErrorResponse "Journal is not awaiting approval"
// @Failure 500 {object} ErrorResponse "Failed to reject journal"
// @Security BearerAuth
// @Router /journals/{journal_id}/reject [post]
func (h *journalHandler) rejectJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalID := c.Param("journal_id")

	var req dto.RejectJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	actx := middleware.ActionContextFromRequest(c)
	logger.Info("Received request to reject journal", slog.String("journal_id", journalID))

	journal, err := h.journalService.RejectJournal(c.Request.Context(), actx, journalID, req.Reason)
	if err != nil {
		respondServiceError(c, err, "Failed to reject journal")
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

// postJournal godoc
// @Summary Post a journal
// @Description Moves an APPROVED journal to POSTED, making it immutable; a DRAFT journal is submitted and approved on the way when policy allows
// @Tags journals
// @Produce  json
// @Param   journal_id path string true "Journal ID"
// @Success 200 {object} dto.JournalResponse
// @Failure 400 {object} ErrorResponse "Period closed or entries no longer balance"
// @Failure 403 {object} ErrorResponse "Caller may not post this journal"
// @Failure 404 {object} ErrorResponse "Journal not found"
// @Failure 409 {object} ErrorResponse "Journal is not in a postable state"
// @Failure 500 {object} ErrorResponse "Failed to post journal"
// @Security BearerAuth
// @Router /journals/{journal_id}/post [post]
func (h *journalHandler) postJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalID := c.Param("journal_id")

	actx := middleware.ActionContextFromRequest(c)
	logger.Info("Received request to post journal", slog.String("journal_id", journalID))

	journal, err := h.journalService.PostJournal(c.Request.Context(), actx, journalID)
	if err != nil {
		respondServiceError(c, err, "Failed to post journal")
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}
