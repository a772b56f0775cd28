package services

import (
	portsrepo "github.com/salonledger/finance_posting_app/internal/core/ports/repositories"
	portssvc "github.com/salonledger/finance_posting_app/internal/core/ports/services"
	"github.com/salonledger/finance_posting_app/pkg/config"
)

// NewServiceContainer wires the posting pipeline services with their
// repository dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Rule = NewRuleService(repos.RuleRepo)
	container.Fiscal = NewFiscalService(repos.FiscalRepo, repos.JournalRepo, repos.RuleRepo, cfg.BaseCurrency, cfg.RetainedEarningsAccount)
	container.Journal = NewJournalService(repos.JournalRepo)
	container.Posting = NewPostingService(container.Fiscal, container.Rule, repos.JournalRepo)
	container.POS = NewPOSService(container.Posting, repos.SummaryRepo, cfg.StandardVATRate)

	return container
}
