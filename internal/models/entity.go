package models

import "time"

// EntityRow is one typed record in the generic entity store. Periods,
// years, rule configurations and POS summary records all live here,
// discriminated by EntityType, with their state attached as dynamic data.
type EntityRow struct {
	EntityID       string    `json:"entityID"`
	OrganizationID string    `json:"organizationID"`
	EntityType     string    `json:"entityType"` // e.g. "fiscal_period", "posting_rules"
	Code           string    `json:"code"`       // Natural key within (organization, type)
	Name           string    `json:"name"`
	SmartCode      string    `json:"smartCode"`
	Version        int       `json:"version"`
	CreatedAt      time.Time `json:"createdAt"`
	CreatedBy      string    `json:"createdBy"`
	UpdatedAt      time.Time `json:"updatedAt"`
	UpdatedBy      string    `json:"updatedBy"`
}

// Entity type tags used by the posting pipeline.
const (
	EntityTypeFiscalPeriod = "fiscal_period"
	EntityTypeFiscalYear   = "fiscal_year"
	EntityTypePostingRules = "posting_rules"
	EntityTypePOSSummary   = "pos_daily_summary"
)

// DynamicDataRow is one typed attribute attached to an entity. The
// pipeline stores structured state (period snapshots, rule sets, summary
// payloads) as JSON values under well-known field names.
type DynamicDataRow struct {
	EntityID  string    `json:"entityID"`
	FieldName string    `json:"fieldName"`
	ValueJSON []byte    `json:"valueJSON"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Dynamic data field names used by the posting pipeline.
const (
	FieldPeriodState = "period_state"
	FieldYearState   = "year_state"
	FieldRuleSet     = "rule_set"
	FieldSummary     = "summary_payload"
)
