package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/salonledger/finance_posting_app/internal/apperrors"
	"github.com/salonledger/finance_posting_app/internal/core/domain"
	portsrepo "github.com/salonledger/finance_posting_app/internal/core/ports/repositories"
	"github.com/salonledger/finance_posting_app/internal/models"
)

const (
	postingRulesSmartCode  = "SALON.FIN.CONFIG.POSTING_RULES.v1"
	postingRulesEntityCode = "default"
)

type PgxRuleRepository struct {
	BaseRepository
}

// newPgxRuleRepository creates a new repository for posting-rule configuration.
func newPgxRuleRepository(pool *pgxpool.Pool) portsrepo.RuleRepositoryFacade {
	return &PgxRuleRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxRuleRepository implements portsrepo.RuleRepositoryFacade
var _ portsrepo.RuleRepositoryFacade = (*PgxRuleRepository)(nil)

// LoadRuleSet retrieves an organization's posting-rule configuration.
func (r *PgxRuleRepository) LoadRuleSet(ctx context.Context, organizationID string) (*domain.RuleSet, error) {
	row, err := findEntity(ctx, r.Pool, organizationID, models.EntityTypePostingRules, postingRulesEntityCode, false)
	if err != nil {
		return nil, err
	}
	state, err := getDynamicData(ctx, r.Pool, row.EntityID, models.FieldRuleSet)
	if err != nil {
		return nil, err
	}
	var ruleSet domain.RuleSet
	if err := json.Unmarshal(state, &ruleSet); err != nil {
		return nil, apperrors.NewAppError(500, "failed to decode rule set for organization "+organizationID, err)
	}
	ruleSet.Version = row.Version
	return &ruleSet, nil
}

// SaveRuleSet persists an organization's posting-rule configuration,
// replacing any previous version.
func (r *PgxRuleRepository) SaveRuleSet(ctx context.Context, ruleSet domain.RuleSet) error {
	state, err := json.Marshal(ruleSet)
	if err != nil {
		return apperrors.NewAppError(500, "failed to encode rule set for organization "+ruleSet.OrganizationID, err)
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	now := time.Now().UTC()
	row, err := findEntity(ctx, tx, ruleSet.OrganizationID, models.EntityTypePostingRules, postingRulesEntityCode, true)
	switch {
	case err == nil:
		if err := bumpEntityVersion(ctx, tx, row.EntityID, "system", row.Version); err != nil {
			return err
		}
	case errors.Is(err, apperrors.ErrNotFound):
		row = &models.EntityRow{
			EntityID:       uuid.NewString(),
			OrganizationID: ruleSet.OrganizationID,
			EntityType:     models.EntityTypePostingRules,
			Code:           postingRulesEntityCode,
			Name:           "Posting rules",
			SmartCode:      postingRulesSmartCode,
			Version:        1,
			CreatedAt:      now,
			CreatedBy:      "system",
			UpdatedAt:      now,
			UpdatedBy:      "system",
		}
		if err := insertEntity(ctx, tx, *row); err != nil {
			return err
		}
	default:
		return err
	}

	data := models.DynamicDataRow{
		EntityID:  row.EntityID,
		FieldName: models.FieldRuleSet,
		ValueJSON: state,
		UpdatedAt: now,
	}
	if err := upsertDynamicData(ctx, tx, data); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}
