package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// VATHandling describes how a posting rule splits VAT out of an amount.
type VATHandling struct {
	Rate       decimal.Decimal `json:"rate"`       // e.g. 0.05 for 5%
	Inclusive  bool            `json:"inclusive"`  // Whether amounts already include VAT
	VATAccount string          `json:"vatAccount"` // Input- or output-VAT account code
}

// PostingRule maps one smart code to debit/credit account templates and
// optional VAT handling. Rules are policy-as-data: looked up by the
// resolver, never mutated.
type PostingRule struct {
	SmartCode      SmartCode    `json:"smartCode"`
	Description    string       `json:"description"`
	DebitAccounts  []string     `json:"debitAccounts"`  // Ordered account codes
	CreditAccounts []string     `json:"creditAccounts"` // Ordered account codes
	VATHandling    *VATHandling `json:"vatHandling"`
}

// Validate checks the rule is usable for line generation.
func (r PostingRule) Validate() error {
	if !r.SmartCode.IsValid() {
		return fmt.Errorf("invalid smart code %q", r.SmartCode)
	}
	if len(r.DebitAccounts) == 0 {
		return fmt.Errorf("rule %s has no debit accounts", r.SmartCode)
	}
	if len(r.CreditAccounts) == 0 {
		return fmt.Errorf("rule %s has no credit accounts", r.SmartCode)
	}
	if v := r.VATHandling; v != nil {
		if v.Rate.LessThanOrEqual(decimal.Zero) || v.Rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return fmt.Errorf("rule %s has VAT rate %s outside (0,1)", r.SmartCode, v.Rate)
		}
		if v.VATAccount == "" {
			return fmt.Errorf("rule %s has VAT handling without a VAT account", r.SmartCode)
		}
	}
	return nil
}

// RuleSet is one organization's posting-rule configuration, loaded from
// the store as a single versioned object and validated at load time.
type RuleSet struct {
	OrganizationID string        `json:"organizationID"`
	Version        int           `json:"version"`
	Rules          []PostingRule `json:"rules"`

	// P&L account classification used by year-end closing. Declared as
	// data alongside the rules so the pipeline never infers account
	// semantics from codes.
	RevenueAccounts []string `json:"revenueAccounts"`
	ExpenseAccounts []string `json:"expenseAccounts"`
}

// Validate checks every rule and rejects duplicate smart codes.
func (rs RuleSet) Validate() error {
	seen := make(map[SmartCode]struct{}, len(rs.Rules))
	for _, rule := range rs.Rules {
		if err := rule.Validate(); err != nil {
			return err
		}
		if _, dup := seen[rule.SmartCode]; dup {
			return fmt.Errorf("duplicate rule for smart code %s", rule.SmartCode)
		}
		seen[rule.SmartCode] = struct{}{}
	}
	return nil
}

// Find returns the rule registered for the smart code. Matching is exact
// string match only; there is no wildcard or hierarchy fallback.
func (rs RuleSet) Find(code SmartCode) (PostingRule, bool) {
	for _, rule := range rs.Rules {
		if rule.SmartCode == code {
			return rule, true
		}
	}
	return PostingRule{}, false
}
