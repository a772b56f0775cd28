package repositories

// RepositoryProvider bundles all repository facades for dependency
// injection into the service layer.
type RepositoryProvider struct {
	FiscalRepo  FiscalRepositoryFacade
	RuleRepo    RuleRepositoryFacade
	JournalRepo JournalRepositoryFacade
	SummaryRepo POSSummaryRepositoryFacade
}
