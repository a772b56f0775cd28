package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/salonledger/finance_posting_app/internal/apperrors"
	"github.com/salonledger/finance_posting_app/internal/core/domain"
	portsrepo "github.com/salonledger/finance_posting_app/internal/core/ports/repositories"
	"github.com/salonledger/finance_posting_app/internal/models"
)

const (
	fiscalPeriodSmartCode = "SALON.FIN.FISCAL.PERIOD.v1"
	fiscalYearSmartCode   = "SALON.FIN.FISCAL.YEAR.v1"
)

type PgxFiscalRepository struct {
	BaseRepository
}

// newPgxFiscalRepository creates a new repository for fiscal calendar data.
func newPgxFiscalRepository(pool *pgxpool.Pool) portsrepo.FiscalRepositoryFacade {
	return &PgxFiscalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxFiscalRepository implements portsrepo.FiscalRepositoryFacade
var _ portsrepo.FiscalRepositoryFacade = (*PgxFiscalRepository)(nil)

// FindPeriodByCode retrieves a fiscal period by its YYYY-MM code.
func (r *PgxFiscalRepository) FindPeriodByCode(ctx context.Context, organizationID, periodCode string) (*domain.FiscalPeriod, error) {
	row, err := findEntity(ctx, r.Pool, organizationID, models.EntityTypeFiscalPeriod, periodCode, false)
	if err != nil {
		return nil, err
	}
	return r.periodFromEntity(ctx, r.Pool, row)
}

// ListPeriods retrieves all fiscal periods of an organization, ordered by period code.
func (r *PgxFiscalRepository) ListPeriods(ctx context.Context, organizationID string) ([]domain.FiscalPeriod, error) {
	query := `
		SELECT e.entity_id, e.version, d.field_value_json
		FROM entities e
		JOIN dynamic_data d ON d.entity_id = e.entity_id AND d.field_name = $3
		WHERE e.organization_id = $1 AND e.entity_type = $2
		ORDER BY e.entity_code;
	`
	rows, err := r.Pool.Query(ctx, query, organizationID, models.EntityTypeFiscalPeriod, models.FieldPeriodState)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query fiscal periods for organization "+organizationID, err)
	}
	defer rows.Close()

	periods := []domain.FiscalPeriod{}
	for rows.Next() {
		var entityID string
		var version int
		var state []byte
		if err := rows.Scan(&entityID, &version, &state); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan fiscal period row", err)
		}
		var period domain.FiscalPeriod
		if err := json.Unmarshal(state, &period); err != nil {
			return nil, apperrors.NewAppError(500, "failed to decode fiscal period state for entity "+entityID, err)
		}
		period.PeriodID = entityID
		period.Version = version
		periods = append(periods, period)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating fiscal period rows", err)
	}
	return periods, nil
}

// FindYear retrieves a fiscal year by calendar year.
func (r *PgxFiscalRepository) FindYear(ctx context.Context, organizationID string, year int) (*domain.FiscalYear, error) {
	row, err := findEntity(ctx, r.Pool, organizationID, models.EntityTypeFiscalYear, strconv.Itoa(year), false)
	if err != nil {
		return nil, err
	}
	state, err := getDynamicData(ctx, r.Pool, row.EntityID, models.FieldYearState)
	if err != nil {
		return nil, err
	}
	var fiscalYear domain.FiscalYear
	if err := json.Unmarshal(state, &fiscalYear); err != nil {
		return nil, apperrors.NewAppError(500, "failed to decode fiscal year state for entity "+row.EntityID, err)
	}
	fiscalYear.YearID = row.EntityID
	return &fiscalYear, nil
}

// SavePeriod persists a newly derived fiscal period as an entity with its
// state attached as dynamic data.
func (r *PgxFiscalRepository) SavePeriod(ctx context.Context, period domain.FiscalPeriod) error {
	state, err := json.Marshal(period)
	if err != nil {
		return apperrors.NewAppError(500, "failed to encode fiscal period "+period.PeriodCode, err)
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	entity := models.EntityRow{
		EntityID:       period.PeriodID,
		OrganizationID: period.OrganizationID,
		EntityType:     models.EntityTypeFiscalPeriod,
		Code:           period.PeriodCode,
		Name:           "Fiscal period " + period.PeriodCode,
		SmartCode:      fiscalPeriodSmartCode,
		Version:        period.Version,
		CreatedAt:      period.CreatedAt,
		CreatedBy:      period.CreatedBy,
		UpdatedAt:      period.LastUpdatedAt,
		UpdatedBy:      period.LastUpdatedBy,
	}
	if err := insertEntity(ctx, tx, entity); err != nil {
		return err
	}
	data := models.DynamicDataRow{
		EntityID:  period.PeriodID,
		FieldName: models.FieldPeriodState,
		ValueJSON: state,
		UpdatedAt: period.LastUpdatedAt,
	}
	if err := upsertDynamicData(ctx, tx, data); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// SaveYear persists a newly derived fiscal year.
func (r *PgxFiscalRepository) SaveYear(ctx context.Context, year domain.FiscalYear) error {
	state, err := json.Marshal(year)
	if err != nil {
		return apperrors.NewAppError(500, "failed to encode fiscal year "+strconv.Itoa(year.Year), err)
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	entity := models.EntityRow{
		EntityID:       year.YearID,
		OrganizationID: year.OrganizationID,
		EntityType:     models.EntityTypeFiscalYear,
		Code:           strconv.Itoa(year.Year),
		Name:           "Fiscal year " + strconv.Itoa(year.Year),
		SmartCode:      fiscalYearSmartCode,
		Version:        1,
		CreatedAt:      year.CreatedAt,
		CreatedBy:      year.CreatedBy,
		UpdatedAt:      year.LastUpdatedAt,
		UpdatedBy:      year.LastUpdatedBy,
	}
	if err := insertEntity(ctx, tx, entity); err != nil {
		return err
	}
	data := models.DynamicDataRow{
		EntityID:  year.YearID,
		FieldName: models.FieldYearState,
		ValueJSON: state,
		UpdatedAt: year.LastUpdatedAt,
	}
	if err := upsertDynamicData(ctx, tx, data); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// ClosePeriod transitions a period to CLOSED under an optimistic version
// check. The period row is locked for the duration of the transaction so
// a concurrent journal write cannot slip past the status change.
func (r *PgxFiscalRepository) ClosePeriod(ctx context.Context, organizationID, periodCode, actor string, closedAt time.Time, expectedVersion int) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	row, err := findEntity(ctx, tx, organizationID, models.EntityTypeFiscalPeriod, periodCode, true)
	if err != nil {
		return err
	}
	if row.Version != expectedVersion {
		return apperrors.ErrConflict
	}

	period, err := r.periodFromEntity(ctx, tx, row)
	if err != nil {
		return err
	}
	if period.Status == domain.PeriodClosed {
		return apperrors.ErrConflict
	}

	period.Status = domain.PeriodClosed
	period.ClosedBy = &actor
	period.ClosedAt = &closedAt
	period.Version = expectedVersion + 1
	period.LastUpdatedAt = closedAt
	period.LastUpdatedBy = actor

	if err := bumpEntityVersion(ctx, tx, row.EntityID, actor, expectedVersion); err != nil {
		return err
	}
	state, err := json.Marshal(period)
	if err != nil {
		return apperrors.NewAppError(500, "failed to encode fiscal period "+periodCode, err)
	}
	data := models.DynamicDataRow{
		EntityID:  row.EntityID,
		FieldName: models.FieldPeriodState,
		ValueJSON: state,
		UpdatedAt: closedAt,
	}
	if err := upsertDynamicData(ctx, tx, data); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// MarkYearProcessed flags a fiscal year as year-end processed and closes it.
func (r *PgxFiscalRepository) MarkYearProcessed(ctx context.Context, organizationID string, year int, actor string, processedAt time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	row, err := findEntity(ctx, tx, organizationID, models.EntityTypeFiscalYear, strconv.Itoa(year), true)
	if err != nil {
		return err
	}
	state, err := getDynamicData(ctx, tx, row.EntityID, models.FieldYearState)
	if err != nil {
		return err
	}
	var fiscalYear domain.FiscalYear
	if err := json.Unmarshal(state, &fiscalYear); err != nil {
		return apperrors.NewAppError(500, "failed to decode fiscal year state for entity "+row.EntityID, err)
	}
	if fiscalYear.YearEndProcessed {
		return apperrors.ErrConflict
	}

	fiscalYear.YearEndProcessed = true
	fiscalYear.Status = domain.YearClosed
	fiscalYear.LastUpdatedAt = processedAt
	fiscalYear.LastUpdatedBy = actor

	if err := bumpEntityVersion(ctx, tx, row.EntityID, actor, row.Version); err != nil {
		return err
	}
	updated, err := json.Marshal(fiscalYear)
	if err != nil {
		return apperrors.NewAppError(500, "failed to encode fiscal year "+strconv.Itoa(year), err)
	}
	data := models.DynamicDataRow{
		EntityID:  row.EntityID,
		FieldName: models.FieldYearState,
		ValueJSON: updated,
		UpdatedAt: processedAt,
	}
	if err := upsertDynamicData(ctx, tx, data); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// periodFromEntity loads the JSON state of a period entity and stitches
// the entity id and authoritative version back onto it.
func (r *PgxFiscalRepository) periodFromEntity(ctx context.Context, q querier, row *models.EntityRow) (*domain.FiscalPeriod, error) {
	state, err := getDynamicData(ctx, q, row.EntityID, models.FieldPeriodState)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewAppError(500, "fiscal period entity "+row.EntityID+" has no state attached", nil)
		}
		return nil, err
	}
	var period domain.FiscalPeriod
	if err := json.Unmarshal(state, &period); err != nil {
		return nil, apperrors.NewAppError(500, "failed to decode fiscal period state for entity "+row.EntityID, err)
	}
	period.PeriodID = row.EntityID
	period.Version = row.Version
	return &period, nil
}
