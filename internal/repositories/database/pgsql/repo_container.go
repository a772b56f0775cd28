package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/salonledger/finance_posting_app/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	fiscalRepo := newPgxFiscalRepository(dbPool)
	ruleRepo := newPgxRuleRepository(dbPool)
	journalRepo := newPgxJournalRepository(dbPool)
	summaryRepo := newPgxPOSSummaryRepository(dbPool)

	return portsrepo.RepositoryProvider{
		FiscalRepo:  fiscalRepo,
		RuleRepo:    ruleRepo,
		JournalRepo: journalRepo,
		SummaryRepo: summaryRepo,
	}
}
