package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/salonledger/finance_posting_app/internal/core/domain"
	portsrepo "github.com/salonledger/finance_posting_app/internal/core/ports/repositories"
	portssvc "github.com/salonledger/finance_posting_app/internal/core/ports/services"
	"github.com/salonledger/finance_posting_app/internal/middleware"
)

// ErrRuleNotFound indicates no posting rule is registered for a smart
// code. Rule resolution never falls back to a default: absence is fatal
// for the event.
var ErrRuleNotFound = errors.New("no posting rule registered for smart code")

// ruleService loads each organization's rule set once, validates it at
// load time and serves exact-match lookups from an in-memory cache.
type ruleService struct {
	ruleRepo portsrepo.RuleRepositoryFacade

	mu    sync.RWMutex
	cache map[string]*domain.RuleSet
}

// NewRuleService creates the posting rule resolver.
func NewRuleService(ruleRepo portsrepo.RuleRepositoryFacade) portssvc.RuleSvcFacade {
	return &ruleService{
		ruleRepo: ruleRepo,
		cache:    make(map[string]*domain.RuleSet),
	}
}

var _ portssvc.RuleSvcFacade = (*ruleService)(nil)

// Resolve returns the rule registered for the smart code, loading and
// validating the organization's rule set on first use.
func (s *ruleService) Resolve(ctx context.Context, organizationID string, code domain.SmartCode) (*domain.PostingRule, error) {
	ruleSet, err := s.ruleSetFor(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	rule, ok := ruleSet.Find(code)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRuleNotFound, code)
	}
	return &rule, nil
}

// Invalidate drops the cached rule set so the next Resolve reloads it.
func (s *ruleService) Invalidate(organizationID string) {
	s.mu.Lock()
	delete(s.cache, organizationID)
	s.mu.Unlock()
}

func (s *ruleService) ruleSetFor(ctx context.Context, organizationID string) (*domain.RuleSet, error) {
	s.mu.RLock()
	cached, ok := s.cache[organizationID]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	logger := middleware.GetLoggerFromCtx(ctx)
	ruleSet, err := s.ruleRepo.LoadRuleSet(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load posting rules for organization %s: %w", organizationID, err)
	}
	if err := ruleSet.Validate(); err != nil {
		// Misconfigured rules are rejected at load, not at use.
		return nil, fmt.Errorf("posting rule configuration invalid for organization %s: %w", organizationID, err)
	}

	s.mu.Lock()
	s.cache[organizationID] = ruleSet
	s.mu.Unlock()

	logger.Info("Posting rule set loaded",
		slog.String("organization_id", organizationID),
		slog.Int("rule_count", len(ruleSet.Rules)),
		slog.Int("version", ruleSet.Version))
	return ruleSet, nil
}
