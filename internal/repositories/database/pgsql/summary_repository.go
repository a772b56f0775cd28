package pgsql

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/salonledger/finance_posting_app/internal/apperrors"
	"github.com/salonledger/finance_posting_app/internal/core/domain"
	portsrepo "github.com/salonledger/finance_posting_app/internal/core/ports/repositories"
	"github.com/salonledger/finance_posting_app/internal/models"
)

const posSummarySmartCode = "SALON.POS.DAILY.SUMMARY_RECORD.v1"

type PgxPOSSummaryRepository struct {
	BaseRepository
}

// newPgxPOSSummaryRepository creates a new repository for POS end-of-day
// audit records.
func newPgxPOSSummaryRepository(pool *pgxpool.Pool) portsrepo.POSSummaryRepositoryFacade {
	return &PgxPOSSummaryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxPOSSummaryRepository implements portsrepo.POSSummaryRepositoryFacade
var _ portsrepo.POSSummaryRepositoryFacade = (*PgxPOSSummaryRepository)(nil)

// SaveSummaryRecord persists the decomposed summary with references to
// every journal entry it produced.
func (r *PgxPOSSummaryRepository) SaveSummaryRecord(ctx context.Context, record domain.POSSummaryRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return apperrors.NewAppError(500, "failed to encode POS summary record "+record.SummaryID, err)
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	entity := models.EntityRow{
		EntityID:       record.SummaryID,
		OrganizationID: record.OrganizationID,
		EntityType:     models.EntityTypePOSSummary,
		Code:           record.SummaryID,
		Name:           "POS daily summary " + record.BusinessDate.Format("2006-01-02"),
		SmartCode:      posSummarySmartCode,
		Version:        1,
		CreatedAt:      record.CreatedAt,
		CreatedBy:      record.CreatedBy,
		UpdatedAt:      record.LastUpdatedAt,
		UpdatedBy:      record.LastUpdatedBy,
	}
	if err := insertEntity(ctx, tx, entity); err != nil {
		return err
	}
	data := models.DynamicDataRow{
		EntityID:  record.SummaryID,
		FieldName: models.FieldSummary,
		ValueJSON: payload,
		UpdatedAt: record.LastUpdatedAt,
	}
	if err := upsertDynamicData(ctx, tx, data); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// FindSummaryRecord retrieves the audit record left behind by one POS
// end-of-day run.
func (r *PgxPOSSummaryRepository) FindSummaryRecord(ctx context.Context, organizationID, summaryID string) (*domain.POSSummaryRecord, error) {
	row, err := findEntity(ctx, r.Pool, organizationID, models.EntityTypePOSSummary, summaryID, false)
	if err != nil {
		return nil, err
	}
	payload, err := getDynamicData(ctx, r.Pool, row.EntityID, models.FieldSummary)
	if err != nil {
		return nil, err
	}
	var record domain.POSSummaryRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, apperrors.NewAppError(500, "failed to decode POS summary record "+summaryID, err)
	}
	return &record, nil
}
