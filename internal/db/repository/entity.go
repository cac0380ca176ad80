// Package repository persists canonical entities and job reports in SQLite.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/byronwade/fieldmigrate/internal/domain"
)

// EntityRepo stores canonical entity records, one JSON document per record,
// keyed by entity type and the source platform's external id. It implements
// domain.Repository.
type EntityRepo struct {
	db *sql.DB
}

func NewEntityRepo(db *sql.DB) *EntityRepo {
	return &EntityRepo{db: db}
}

// Write upserts a record. A re-run with the same external id updates the
// stored document in place and returns the canonical id minted by the first
// write, so migrations stay idempotent.
func (r *EntityRepo) Write(ctx context.Context, entityType domain.EntityType, record map[string]any) (string, error) {
	externalID, _ := record["external_id"].(string)
	if externalID == "" {
		return "", domain.ErrValidation("%s record has no external_id", entityType)
	}

	data, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("marshal %s record: %w", entityType, err)
	}

	var id string
	err = r.db.QueryRowContext(ctx, `
		INSERT INTO entity_records (id, entity_type, external_id, data)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (entity_type, external_id) DO UPDATE SET
			data = excluded.data,
			updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
		RETURNING id`,
		domain.NewID(), string(entityType), externalID, string(data),
	).Scan(&id)
	if err != nil {
		return "", mapDBError(err)
	}
	return id, nil
}

// Get returns a stored record by its source external id.
func (r *EntityRepo) Get(ctx context.Context, entityType domain.EntityType, externalID string) (map[string]any, error) {
	var data string
	err := r.db.QueryRowContext(ctx,
		`SELECT data FROM entity_records WHERE entity_type = ? AND external_id = ?`,
		string(entityType), externalID,
	).Scan(&data)
	if err != nil {
		return nil, mapDBError(err)
	}

	var record map[string]any
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return nil, fmt.Errorf("unmarshal %s record %q: %w", entityType, externalID, err)
	}
	return record, nil
}

// Count returns the number of stored records for an entity type.
func (r *EntityRepo) Count(ctx context.Context, entityType domain.EntityType) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM entity_records WHERE entity_type = ?`,
		string(entityType),
	).Scan(&n)
	if err != nil {
		return 0, mapDBError(err)
	}
	return n, nil
}

func mapDBError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.NotFoundError{Message: "resource not found"}
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return &domain.ConflictError{Message: "resource already exists"}
	}
	return err
}
