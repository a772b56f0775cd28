package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/salonledger/finance_posting_app/internal/core/ports/services"
	"github.com/salonledger/finance_posting_app/internal/core/services"
	"github.com/salonledger/finance_posting_app/internal/dto"
	"github.com/salonledger/finance_posting_app/internal/middleware"
)

// posHandler handles HTTP requests for POS end-of-day processing.
type posHandler struct {
	posService portssvc.POSSvcFacade
}

// newPOSHandler creates a new posHandler.
func newPOSHandler(posService portssvc.POSSvcFacade) *posHandler {
	return &posHandler{posService: posService}
}

// registerPOSRoutes registers the POS end-of-day route
func registerPOSRoutes(group *gin.RouterGroup, posService portssvc.POSSvcFacade) {
	h := newPOSHandler(posService)
	pos := group.Group("/pos")
	pos.POST("/eod", h.processDailySummary)
}

// processDailySummary godoc
// @Summary Process a POS daily summary
// @Description Validates one business day of POS activity and decomposes it into sales, commission and fee journal entries
// @Tags pos
// @Accept  json
// @Produce  json
// @Param   summary body dto.ProcessDailySummaryRequest true "POS daily summary"
// @Success 200 {object} dto.EODReportResponse "End-of-day report"
// @Failure 400 {object} dto.PostEventFailureResponse "Summary failed validation"
// @Failure 422 {object} dto.PostEventFailureResponse "Posting rejection"
// @Failure 500 {object} map[string]string "Internal error"
// @Router /pos/eod [post]
func (h *posHandler) processDailySummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.ProcessDailySummaryRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for ProcessDailySummary", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.PostEventFailureResponse{Message: "Invalid request format"})
		return
	}

	callerOrgID, ok := middleware.GetOrgIDFromContext(c)
	if !ok {
		logger.Error("Organization ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	report, err := h.posService.ProcessDailySummary(c.Request.Context(), callerOrgID, req.ToDomainSummary())
	if err != nil {
		var validationErrs services.ValidationErrors
		var fiscalErr *services.FiscalError
		switch {
		case errors.As(err, &validationErrs):
			logger.Warn("POS daily summary rejected by validator", slog.Int("violations", len(validationErrs)))
			c.JSON(http.StatusBadRequest, dto.PostEventFailureResponse{
				Message:          "Daily summary failed validation",
				ValidationErrors: validationErrs,
			})
		case errors.As(err, &fiscalErr):
			c.JSON(http.StatusUnprocessableEntity, dto.PostEventFailureResponse{
				Message:       "Posting rejected for period " + fiscalErr.PeriodCode,
				PostingErrors: []string{fiscalErr.Reason},
			})
		case errors.Is(err, services.ErrRuleNotFound), errors.Is(err, services.ErrRuleMisconfigured):
			c.JSON(http.StatusUnprocessableEntity, dto.PostEventFailureResponse{
				Message:       "Posting rule rejection",
				PostingErrors: []string{err.Error()},
			})
		default:
			logger.Error("Failed to process POS daily summary", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process daily summary"})
		}
		return
	}

	logger.Info("POS daily summary processed",
		slog.String("summary_id", report.SummaryID),
		slog.String("sales_journal_id", report.SalesJournalID))
	c.JSON(http.StatusOK, dto.ToEODReportResponse(report))
}
