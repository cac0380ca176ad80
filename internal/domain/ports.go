package domain

import "context"

// SuggestionSource produces ranked candidate field mappings for one entity
// type. Implementations may call out to an external model; the engine treats
// any error as "unavailable" and falls back to its heuristic resolver.
type SuggestionSource interface {
	Suggest(ctx context.Context, sourceFields []SourceField, targetSchema []SchemaField,
		entityType EntityType, platformHint string) ([]FieldMapping, error)
}

// Repository persists canonical entities. Write must be idempotent keyed by
// the external_id stored on the record: a re-run with the same external id
// returns the existing canonical id instead of creating a duplicate.
type Repository interface {
	Write(ctx context.Context, entityType EntityType, record map[string]any) (canonicalID string, err error)
}

// RecordIterator streams source rows one at a time. Next returns io.EOF
// when the source is exhausted.
type RecordIterator interface {
	Next(ctx context.Context) (*ImportRecord, error)
	Close() error
}

// RecordSource exposes one migration job's source data: which entity types
// it carries, sampled fields for planning, and row streams for the run.
type RecordSource interface {
	EntityTypes() []EntityType
	SampleFields(ctx context.Context, entityType EntityType, limit int) ([]SourceField, error)
	Records(ctx context.Context, entityType EntityType) (RecordIterator, error)
}
