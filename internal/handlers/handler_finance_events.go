package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/salonledger/finance_posting_app/internal/apperrors"
	portssvc "github.com/salonledger/finance_posting_app/internal/core/ports/services"
	"github.com/salonledger/finance_posting_app/internal/core/services"
	"github.com/salonledger/finance_posting_app/internal/dto"
	"github.com/salonledger/finance_posting_app/internal/middleware"
	"github.com/salonledger/finance_posting_app/internal/utils/accounting"
)

// financeEventHandler handles HTTP requests for the posting pipeline.
type financeEventHandler struct {
	postingService portssvc.PostingSvcFacade
	journalService portssvc.JournalSvcFacade
}

// newFinanceEventHandler creates a new financeEventHandler.
func newFinanceEventHandler(postingService portssvc.PostingSvcFacade, journalService portssvc.JournalSvcFacade) *financeEventHandler {
	return &financeEventHandler{
		postingService: postingService,
		journalService: journalService,
	}
}

// RegisterFinanceRoutes registers the finance event and journal routes
func RegisterFinanceRoutes(group *gin.RouterGroup, postingService portssvc.PostingSvcFacade, journalService portssvc.JournalSvcFacade) {
	h := newFinanceEventHandler(postingService, journalService)
	finance := group.Group("/finance")
	finance.POST("/events", h.submitEvent)
	finance.GET("/journals", h.listJournals)
	finance.GET("/journals/:journalID", h.getJournal)
}

// submitEvent godoc
// @Summary Submit a finance event for posting
// @Description Runs one Universal Finance Event through validation, period gating, rule resolution and line generation, persisting a balanced journal entry
// @Tags finance
// @Accept  json
// @Produce  json
// @Param   event body dto.SubmitFinanceEventRequest true "Finance event"
// @Success 200 {object} dto.PostEventResponse "Posted journal entry"
// @Failure 400 {object} dto.PostEventFailureResponse "Validation failure"
// @Failure 409 {object} dto.PostEventResponse "Duplicate correlation id; the original entry's identifiers"
// @Failure 422 {object} dto.PostEventFailureResponse "Posting rejection"
// @Failure 500 {object} map[string]string "Internal error"
// @Router /finance/events [post]
func (h *financeEventHandler) submitEvent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.SubmitFinanceEventRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for SubmitEvent", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.PostEventFailureResponse{Message: "Invalid request format"})
		return
	}

	callerOrgID, ok := middleware.GetOrgIDFromContext(c)
	if !ok {
		logger.Error("Organization ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.postingService.PostEvent(c.Request.Context(), callerOrgID, req.ToDomainFinanceEvent())
	if err != nil {
		h.writePostingError(c, err)
		return
	}

	// A resubmitted correlation id returns the original entry's
	// identifiers under a conflict status rather than posting again.
	if result.Duplicate {
		logger.Info("Duplicate correlation id resubmitted", slog.String("journal_entry_id", result.JournalEntryID))
		c.JSON(http.StatusConflict, dto.ToPostEventResponse(result))
		return
	}

	logger.Info("Finance event posted", slog.String("journal_entry_id", result.JournalEntryID))
	c.JSON(http.StatusOK, dto.ToPostEventResponse(result))
}

// writePostingError maps pipeline errors to the structured failure payload.
func (h *financeEventHandler) writePostingError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var validationErrs services.ValidationErrors
	var fiscalErr *services.FiscalError
	var balanceErr *accounting.BalanceError

	switch {
	case errors.As(err, &validationErrs):
		c.JSON(http.StatusBadRequest, dto.PostEventFailureResponse{
			Message:          "Event failed validation",
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
	case errors.As(err, &balanceErr):
		logger.Error("Unbalanced lines reached the journal writer", slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, dto.PostEventFailureResponse{
			Message:       "Generated lines do not balance",
			PostingErrors: []string{balanceErr.Error()},
		})
	default:
		logger.Error("Failed to post finance event", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to post finance event"})
	}
}

// getJournal godoc
// @Summary Get a journal entry
// @Description Retrieves a journal entry and its posting lines by journal entry ID
// @Tags finance
// @Accept  json
// @Produce  json
// @Param   journalID path string true "Journal entry ID"
// @Success 200 {object} dto.JournalEntryResponse "Journal entry"
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Failure 500 {object} map[string]string "Failed to retrieve journal entry"
// @Router /finance/journals/{journalID} [get]
func (h *financeEventHandler) getJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalID := c.Param("journalID")

	callerOrgID, ok := middleware.GetOrgIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.journalService.GetJournalEntry(c.Request.Context(), callerOrgID, journalID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Journal entry not found", slog.String("journal_entry_id", journalID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Journal entry not found"})
			return
		}
		logger.Error("Failed to get journal entry", slog.String("error", err.Error()), slog.String("journal_entry_id", journalID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve journal entry"})
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// listJournals godoc
// @Summary List journal entries
// @Description Retrieves a page of journal entry headers, newest first
// @Tags finance
// @Accept  json
// @Produce  json
// @Param   limit query int false "Page size (default 20)"
// @Param   nextToken query string false "Pagination token from a previous page"
// @Success 200 {object} dto.ListJournalEntriesResponse "Page of journal entries"
// @Failure 400 {object} map[string]string "Invalid pagination token"
// @Failure 500 {object} map[string]string "Failed to list journal entries"
// @Router /finance/journals [get]
func (h *financeEventHandler) listJournals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	callerOrgID, ok := middleware.GetOrgIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		limit = parsed
	}
	var nextToken *string
	if token := c.Query("nextToken"); token != "" {
		nextToken = &token
	}

	entries, newToken, err := h.journalService.ListJournalEntries(c.Request.Context(), callerOrgID, limit, nextToken)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Code == http.StatusBadRequest {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid nextToken"})
			return
		}
		logger.Error("Failed to list journal entries", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list journal entries"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListJournalEntriesResponse(entries, newToken))
}
