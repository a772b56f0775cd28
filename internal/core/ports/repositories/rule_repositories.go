package repositories

import (
	"context"

	"github.com/salonledger/finance_posting_app/internal/core/domain"
)

// RuleRepositoryFacade loads posting-rule configuration. Each
// organization owns exactly one rule set, stored as a versioned
// configuration object in the entity store.
type RuleRepositoryFacade interface {
	// LoadRuleSet retrieves an organization's posting-rule configuration.
	// Returns apperrors.ErrNotFound when no configuration is registered.
	LoadRuleSet(ctx context.Context, organizationID string) (*domain.RuleSet, error)

	// SaveRuleSet persists an organization's posting-rule configuration,
	// replacing any previous version.
	SaveRuleSet(ctx context.Context, ruleSet domain.RuleSet) error
}
