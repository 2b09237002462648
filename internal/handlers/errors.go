package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zayyadi/paroll-sub000/internal/apperrors"
	"github.com/zayyadi/paroll-sub000/internal/core/services"
	"github.com/zayyadi/paroll-sub000/internal/middleware"
)

// ErrorResponse is a generic error response structure for handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondServiceError translates a service error into an HTTP response.
// Client-caused failures echo the wrapped message; anything unrecognized is a
// 500 with the generic message so internals never leak.
func respondServiceError(c *gin.Context, err error, internalMsg string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})

	case errors.Is(err, apperrors.ErrUnauthorized):
		logger.Warn("Unauthorized request", slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})

	case errors.Is(err, services.ErrPermissionDenied),
		errors.Is(err, apperrors.ErrForbidden):
		logger.Warn("Forbidden request", slog.String("error", err.Error()))
		c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})

	case errors.Is(err, apperrors.ErrDuplicate),
		errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrAlreadyReversed):
		logger.Warn("Conflicting request", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})

	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, services.ErrUnbalancedEntries),
		errors.Is(err, services.ErrInsufficientEntries),
		errors.Is(err, services.ErrAccountNotFound),
		errors.Is(err, services.ErrInactiveAccount),
		errors.Is(err, services.ErrInvalidDateRange),
		errors.Is(err, services.ErrOverlappingDateRange),
		errors.Is(err, services.ErrOpenPeriodsRemain),
		errors.Is(err, services.ErrPeriodClosed),
		errors.Is(err, services.ErrFiscalYearClosed),
		errors.Is(err, services.ErrInvalidReversalAmount):
		logger.Warn("Invalid request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})

	default:
		logger.Error(internalMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: internalMsg})
	}
}
