package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/salonledger/finance_posting_app/internal/apperrors"
	"github.com/salonledger/finance_posting_app/internal/models"
)

// insertEntity inserts one row into the generic entity store.
// Returns apperrors.ErrDuplicate when (organization, type, code) already exists.
func insertEntity(ctx context.Context, q querier, row models.EntityRow) error {
	query := `
		INSERT INTO entities (
			entity_id, organization_id, entity_type, entity_code, entity_name,
			smart_code, version, created_at, created_by, updated_at, updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := q.Exec(ctx, query,
		row.EntityID,
		row.OrganizationID,
		row.EntityType,
		row.Code,
		row.Name,
		row.SmartCode,
		row.Version,
		row.CreatedAt,
		row.CreatedBy,
		row.UpdatedAt,
		row.UpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert entity "+row.EntityType+"/"+row.Code, err)
	}
	return nil
}

// findEntity retrieves one entity by its natural key. Set forUpdate to
// lock the row for the remainder of the surrounding transaction.
func findEntity(ctx context.Context, q querier, organizationID, entityType, code string, forUpdate bool) (*models.EntityRow, error) {
	query := `
		SELECT entity_id, organization_id, entity_type, entity_code, entity_name,
		       smart_code, version, created_at, created_by, updated_at, updated_by
		FROM entities
		WHERE organization_id = $1 AND entity_type = $2 AND entity_code = $3
	`
	if forUpdate {
		query += " FOR UPDATE"
	}

	var row models.EntityRow
	err := q.QueryRow(ctx, query, organizationID, entityType, code).Scan(
		&row.EntityID,
		&row.OrganizationID,
		&row.EntityType,
		&row.Code,
		&row.Name,
		&row.SmartCode,
		&row.Version,
		&row.CreatedAt,
		&row.CreatedBy,
		&row.UpdatedAt,
		&row.UpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find entity "+entityType+"/"+code, err)
	}
	return &row, nil
}

// upsertDynamicData writes one JSON attribute of an entity, replacing any
// previous value under the same field name.
func upsertDynamicData(ctx context.Context, q querier, row models.DynamicDataRow) error {
	query := `
		INSERT INTO dynamic_data (entity_id, field_name, field_value_json, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (entity_id, field_name)
		DO UPDATE SET field_value_json = EXCLUDED.field_value_json, updated_at = EXCLUDED.updated_at;
	`
	_, err := q.Exec(ctx, query, row.EntityID, row.FieldName, row.ValueJSON, row.UpdatedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to upsert dynamic data "+row.FieldName+" for entity "+row.EntityID, err)
	}
	return nil
}

// getDynamicData reads one JSON attribute of an entity.
func getDynamicData(ctx context.Context, q querier, entityID, fieldName string) ([]byte, error) {
	query := `
		SELECT field_value_json
		FROM dynamic_data
		WHERE entity_id = $1 AND field_name = $2;
	`
	var value []byte
	err := q.QueryRow(ctx, query, entityID, fieldName).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to read dynamic data "+fieldName+" for entity "+entityID, err)
	}
	return value, nil
}

// bumpEntityVersion increments an entity's version iff it still matches
// expectedVersion. Returns apperrors.ErrConflict on a version mismatch.
func bumpEntityVersion(ctx context.Context, q querier, entityID, actor string, expectedVersion int) error {
	query := `
		UPDATE entities
		SET version = version + 1,
		    updated_at = now(),
		    updated_by = $3
		WHERE entity_id = $1 AND version = $2;
	`
	cmdTag, err := q.Exec(ctx, query, entityID, expectedVersion, actor)
	if err != nil {
		return apperrors.NewAppError(500, "failed to bump version for entity "+entityID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}
	return nil
}
