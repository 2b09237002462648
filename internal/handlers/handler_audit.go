package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/zayyadi/paroll-sub000/internal/core/domain"
	portssvc "github.com/zayyadi/paroll-sub000/internal/core/ports/services"
	"github.com/zayyadi/paroll-sub000/internal/dto"
	"github.com/zayyadi/paroll-sub000/internal/middleware"

	"github.com/gin-gonic/gin"
)

// auditHandler handles HTTP requests over the audit trail.
type auditHandler struct {
	auditService portssvc.AuditSvcFacade
}

// newAuditHandler creates a new auditHandler.
func newAuditHandler(as portssvc.AuditSvcFacade) *auditHandler {
	return &auditHandler{
		auditService: as,
	}
}

// registerAuditRoutes registers routes for querying and maintaining the
// audit trail.
func registerAuditRoutes(rg *gin.RouterGroup, auditService portssvc.AuditSvcFacade) {
	h := newAuditHandler(auditService)

	audit := rg.Group("/audit")
	{
		audit.GET("/records", h.listAuditRecords)
		audit.POST("/flush", h.flushOutbox)
		audit.POST("/purge-orphans", h.purgeOrphans)
	}
}

// listAuditRecords godoc
// @Summary List audit records
// @Description Retrieves a filtered, token-paginated list of delivered audit records, newest first
// @Tags audit
// @Produce  json
// @Param   entityKind query string false "Filter by entity kind"
// @Param   entityID query string false "Filter by entity ID"
// @Param   actorID query string false "Filter by actor"
// @Param   action query string false "Filter by action"
// @Param   from query string false "Earliest record date (YYYY-MM-DD)"
// @Param   to query string false "Latest record date (YYYY-MM-DD)"
// @Param   limit query int false "Max number of records to return" default(50)
// @Param   nextToken query string false "Pagination token from the previous page"
// @Success 200 {object} dto.ListAuditRecordsResponse
// @Failure 400 {object} ErrorResponse "Invalid query parameters"
// @Failure 500 {object} ErrorResponse "Failed to list audit records"
// @Security BearerAuth
// @Router /audit/records [get]
func (h *auditHandler) listAuditRecords(c *gin.Context) {
	var params dto.ListAuditRecordsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	page, err := h.auditService.ListAuditRecords(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, err, "Failed to list audit records")
		return
	}

	c.JSON(http.StatusOK, page)
}

// flushOutbox godoc
// @Summary Flush the audit outbox
// @Description Delivers a bounded batch of pending outbox events into the queryable trail and reports what remains
// @Tags audit
// @Produce  json
// @Success 200 {object} dto.FlushResponse
// @Failure 500 {object} ErrorResponse "Failed to flush audit outbox"
// @Security BearerAuth
// @Router /audit/flush [post]
func (h *auditHandler) flushOutbox(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	delivered, err := h.auditService.FlushOutbox(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to flush audit outbox")
		return
	}

	pending, err := h.auditService.PendingEventCount(c.Request.Context())
	if err != nil {
		logger.Warn("Failed to count pending audit events", slog.String("error", err.Error()))
		pending = -1
	}

	logger.Info("Flushed audit outbox", slog.Int("delivered", delivered), slog.Int64("pending", pending))
	c.JSON(http.StatusOK, dto.FlushResponse{Delivered: delivered, Pending: pending})
}

// purgeOrphans godoc
// @Summary Purge orphaned audit records
// @Description Deletes audit records whose referenced entity no longer exists; an empty body sweeps every resolvable kind
// @Tags audit
// @Accept  json
// @Produce  json
// @Param   purge body dto.PurgeOrphansRequest false "Entity kinds to sweep"
// @Success 200 {object} dto.PurgeResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 500 {object} ErrorResponse "Failed to purge orphaned records"
// @Security BearerAuth
// @Router /audit/purge-orphans [post]
func (h *auditHandler) purgeOrphans(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.PurgeOrphansRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	kinds := make([]domain.EntityKind, len(req.Kinds))
	for i, k := range req.Kinds {
		kinds[i] = domain.EntityKind(k)
	}

	actx := middleware.ActionContextFromRequest(c)
	logger.Info("Received request to purge orphaned audit records", slog.Int("kind_count", len(kinds)))

	deleted, err := h.auditService.PurgeOrphanedRecords(c.Request.Context(), actx, kinds)
	if err != nil {
		respondServiceError(c, err, "Failed to purge orphaned records")
		return
	}

	c.JSON(http.StatusOK, dto.PurgeResponse{Deleted: deleted})
}
