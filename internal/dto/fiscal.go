package dto

import (
	"time"

	"github.com/salonledger/finance_posting_app/internal/core/domain"
)

// FiscalPeriodResponse is the read payload for a fiscal period.
type FiscalPeriodResponse struct {
	PeriodCode   string     `json:"periodCode"`
	FiscalYear   int        `json:"fiscalYear"`
	PeriodNumber int        `json:"periodNumber"`
	StartDate    time.Time  `json:"startDate"`
	EndDate      time.Time  `json:"endDate"`
	Status       string     `json:"status"`
	IsYearEnd    bool       `json:"isYearEnd"`
	ClosedBy     *string    `json:"closedBy,omitempty"`
	ClosedAt     *time.Time `json:"closedAt,omitempty"`
}

// ToFiscalPeriodResponse converts a domain fiscal period.
func ToFiscalPeriodResponse(p *domain.FiscalPeriod) FiscalPeriodResponse {
	return FiscalPeriodResponse{
		PeriodCode:   p.PeriodCode,
		FiscalYear:   p.FiscalYear,
		PeriodNumber: p.PeriodNumber,
		StartDate:    p.StartDate,
		EndDate:      p.EndDate,
		Status:       string(p.Status),
		IsYearEnd:    p.IsYearEnd,
		ClosedBy:     p.ClosedBy,
		ClosedAt:     p.ClosedAt,
	}
}

// ToFiscalPeriodResponses converts a slice of domain fiscal periods.
func ToFiscalPeriodResponses(periods []domain.FiscalPeriod) []FiscalPeriodResponse {
	responses := make([]FiscalPeriodResponse, len(periods))
	for i := range periods {
		responses[i] = ToFiscalPeriodResponse(&periods[i])
	}
	return responses
}

// CloseFiscalYearRequest asks for a year-end close.
type CloseFiscalYearRequest struct {
	Year int `json:"year" binding:"required"`
}
