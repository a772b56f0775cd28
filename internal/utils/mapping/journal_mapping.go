package mapping

import (
	"github.com/salonledger/finance_posting_app/internal/core/domain"
	"github.com/salonledger/finance_posting_app/internal/models"
)

// ToTransactionRow converts a domain journal entry to its header row.
func ToTransactionRow(entry domain.JournalEntry) models.TransactionRow {
	return models.TransactionRow{
		TransactionID:   entry.TransactionID,
		JournalEntryID:  entry.JournalEntryID,
		OrganizationID:  entry.OrganizationID,
		Category:        string(entry.Category),
		TransactionDate: entry.TransactionDate,
		CurrencyCode:    entry.CurrencyCode,
		PeriodCode:      entry.PeriodCode,
		SmartCode:       domain.SystemPostingSmartCode.String(),
		OriginSmartCode: entry.OriginSmartCode.String(),
		CorrelationID:   entry.CorrelationID,
		TotalDebits:     entry.TotalDebits,
		TotalCredits:    entry.TotalCredits,
		IsBalanced:      entry.IsBalanced,
		CreatedAt:       entry.CreatedAt,
		CreatedBy:       entry.CreatedBy,
	}
}

// ToTransactionLineRow converts one posting line to its persisted row.
func ToTransactionLineRow(transactionID, lineID string, line domain.PostingLine) models.TransactionLineRow {
	return models.TransactionLineRow{
		LineID:        lineID,
		TransactionID: transactionID,
		LineNumber:    line.LineNumber,
		AccountCode:   line.AccountCode,
		AccountName:   line.AccountName,
		DebitAmount:   line.Debit,
		CreditAmount:  line.Credit,
		Description:   line.Description,
		SmartCode:     line.SmartCode.String(),
		EntityID:      line.EntityID,
		CostCenterID:  line.CostCenterID,
		DepartmentID:  line.DepartmentID,
	}
}

// ToDomainJournalEntry converts a header row and its ordered line rows
// back into a domain journal entry.
func ToDomainJournalEntry(row models.TransactionRow, lineRows []models.TransactionLineRow) domain.JournalEntry {
	entry := domain.JournalEntry{
		TransactionID:   row.TransactionID,
		JournalEntryID:  row.JournalEntryID,
		OrganizationID:  row.OrganizationID,
		Category:        domain.TransactionCategory(row.Category),
		TransactionDate: row.TransactionDate,
		CurrencyCode:    row.CurrencyCode,
		PeriodCode:      row.PeriodCode,
		OriginSmartCode: domain.SmartCode(row.OriginSmartCode),
		CorrelationID:   row.CorrelationID,
		TotalDebits:     row.TotalDebits,
		TotalCredits:    row.TotalCredits,
		IsBalanced:      row.IsBalanced,
		AuditFields: domain.AuditFields{
			CreatedAt:     row.CreatedAt,
			CreatedBy:     row.CreatedBy,
			LastUpdatedAt: row.CreatedAt,
			LastUpdatedBy: row.CreatedBy,
		},
	}
	for _, lr := range lineRows {
		entry.Lines = append(entry.Lines, domain.PostingLine{
			LineNumber:   lr.LineNumber,
			AccountCode:  lr.AccountCode,
			AccountName:  lr.AccountName,
			Debit:        lr.DebitAmount,
			Credit:       lr.CreditAmount,
			Description:  lr.Description,
			SmartCode:    domain.SmartCode(lr.SmartCode),
			EntityID:     lr.EntityID,
			CostCenterID: lr.CostCenterID,
			DepartmentID: lr.DepartmentID,
		})
	}
	return entry
}
