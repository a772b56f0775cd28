package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/salonledger/finance_posting_app/internal/apperrors"
	portssvc "github.com/salonledger/finance_posting_app/internal/core/ports/services"
	"github.com/salonledger/finance_posting_app/internal/core/services"
	"github.com/salonledger/finance_posting_app/internal/dto"
	"github.com/salonledger/finance_posting_app/internal/middleware"
)

// fiscalHandler handles HTTP requests for fiscal periods and years.
type fiscalHandler struct {
	fiscalService portssvc.FiscalSvcFacade
}

// newFiscalHandler creates a new fiscalHandler.
func newFiscalHandler(fiscalService portssvc.FiscalSvcFacade) *fiscalHandler {
	return &fiscalHandler{fiscalService: fiscalService}
}

// registerFiscalRoutes registers the fiscal period and year routes
func registerFiscalRoutes(group *gin.RouterGroup, fiscalService portssvc.FiscalSvcFacade) {
	h := newFiscalHandler(fiscalService)
	fiscal := group.Group("/fiscal")
	fiscal.GET("/periods", h.listPeriods)
	fiscal.GET("/periods/:periodCode", h.getPeriod)
	fiscal.POST("/periods/:periodCode/close", h.closePeriod)
	fiscal.POST("/years/close", h.closeFiscalYear)
}

// listPeriods godoc
// @Summary List fiscal periods
// @Description Retrieves all fiscal periods of the caller's organization, ordered by period code
// @Tags fiscal
// @Accept  json
// @Produce  json
// @Success 200 {array} dto.FiscalPeriodResponse "Fiscal periods"
// @Failure 500 {object} map[string]string "Failed to list fiscal periods"
// @Router /fiscal/periods [get]
func (h *fiscalHandler) listPeriods(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	callerOrgID, ok := middleware.GetOrgIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	periods, err := h.fiscalService.ListPeriods(c.Request.Context(), callerOrgID)
	if err != nil {
		logger.Error("Failed to list fiscal periods", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list fiscal periods"})
		return
	}

	c.JSON(http.StatusOK, dto.ToFiscalPeriodResponses(periods))
}

// getPeriod godoc
// @Summary Get a fiscal period
// @Description Retrieves one fiscal period by its YYYY-MM code
// @Tags fiscal
// @Accept  json
// @Produce  json
// @Param   periodCode path string true "Period code (YYYY-MM)"
// @Success 200 {object} dto.FiscalPeriodResponse "Fiscal period"
// @Failure 404 {object} map[string]string "Fiscal period not found"
// @Failure 500 {object} map[string]string "Failed to retrieve fiscal period"
// @Router /fiscal/periods/{periodCode} [get]
func (h *fiscalHandler) getPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	periodCode := c.Param("periodCode")

	callerOrgID, ok := middleware.GetOrgIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	period, err := h.fiscalService.GetPeriod(c.Request.Context(), callerOrgID, periodCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Fiscal period not found"})
			return
		}
		logger.Error("Failed to get fiscal period", slog.String("error", err.Error()), slog.String("period_code", periodCode))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve fiscal period"})
		return
	}

	c.JSON(http.StatusOK, dto.ToFiscalPeriodResponse(period))
}

// closePeriod godoc
// @Summary Close a fiscal period
// @Description Transitions a fiscal period to CLOSED; closed periods reject all further postings
// @Tags fiscal
// @Accept  json
// @Produce  json
// @Param   periodCode path string true "Period code (YYYY-MM)"
// @Success 200 {object} dto.FiscalPeriodResponse "Closed fiscal period"
// @Failure 404 {object} map[string]string "Fiscal period not found"
// @Failure 409 {object} map[string]string "Period already closed or changed concurrently"
// @Failure 500 {object} map[string]string "Failed to close fiscal period"
// @Router /fiscal/periods/{periodCode}/close [post]
func (h *fiscalHandler) closePeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	periodCode := c.Param("periodCode")

	callerOrgID, ok := middleware.GetOrgIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	period, err := h.fiscalService.ClosePeriod(c.Request.Context(), callerOrgID, periodCode, actorID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Fiscal period not found"})
		case errors.Is(err, apperrors.ErrConflict):
			logger.Warn("Period close conflict", slog.String("period_code", periodCode))
			c.JSON(http.StatusConflict, gin.H{"error": "Period is already closed or was changed concurrently"})
		default:
			logger.Error("Failed to close fiscal period", slog.String("error", err.Error()), slog.String("period_code", periodCode))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to close fiscal period"})
		}
		return
	}

	logger.Info("Fiscal period closed", slog.String("period_code", periodCode), slog.String("closed_by", actorID))
	c.JSON(http.StatusOK, dto.ToFiscalPeriodResponse(period))
}

// closeFiscalYear godoc
// @Summary Run year-end close
// @Description Closes all revenue and expense activity of a fully closed fiscal year into retained earnings via one closing journal
// @Tags fiscal
// @Accept  json
// @Produce  json
// @Param   request body dto.CloseFiscalYearRequest true "Year to close"
// @Success 200 {object} dto.PostEventResponse "Closing journal entry"
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 409 {object} map[string]string "Year already processed or periods still open"
// @Failure 422 {object} dto.PostEventFailureResponse "Posting rejection"
// @Failure 500 {object} map[string]string "Failed to close fiscal year"
// @Router /fiscal/years/close [post]
func (h *fiscalHandler) closeFiscalYear(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.CloseFiscalYearRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	callerOrgID, ok := middleware.GetOrgIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.fiscalService.CloseFiscalYear(c.Request.Context(), callerOrgID, req.Year, actorID)
	if err != nil {
		var fiscalErr *services.FiscalError
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Fiscal year not found"})
		case errors.Is(err, apperrors.ErrConflict):
			logger.Warn("Year-end close conflict", slog.Int("year", req.Year))
			c.JSON(http.StatusConflict, gin.H{"error": "Year is already processed or has open periods"})
		case errors.As(err, &fiscalErr):
			c.JSON(http.StatusUnprocessableEntity, dto.PostEventFailureResponse{
				Message:       "Year-end close rejected",
				PostingErrors: []string{fiscalErr.Reason},
			})
		default:
			logger.Error("Failed to close fiscal year", slog.String("error", err.Error()), slog.Int("year", req.Year))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to close fiscal year"})
		}
		return
	}

	logger.Info("Fiscal year closed", slog.Int("year", req.Year), slog.String("journal_entry_id", result.JournalEntryID))
	c.JSON(http.StatusOK, dto.ToPostEventResponse(result))
}
